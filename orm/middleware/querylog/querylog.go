package querylog

import (
	"context"

	"go.uber.org/zap"

	"github.com/startdusk/entityoh/orm"
)

type MiddlewareBuilder struct {
	logger *zap.Logger
	// SQL参数可能存在敏感数据, 默认不打印
	logArgs bool
}

func NewMiddlewareBuilder(logger *zap.Logger) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logger: logger,
	}
}

// LogArgs 打印参数, 只建议在开发环境使用
func (m *MiddlewareBuilder) LogArgs() *MiddlewareBuilder {
	m.logArgs = true
	return m
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			fields := []zap.Field{
				zap.String("type", qc.Type),
				zap.String("kind", qc.Command.Kind),
				zap.String("sql", qc.Command.SQL),
			}
			if m.logArgs {
				fields = append(fields, zap.Any("args", qc.Command.Args))
			}
			m.logger.Info("orm: 执行语句", fields...)
			return next(ctx, qc)
		}
	}
}
