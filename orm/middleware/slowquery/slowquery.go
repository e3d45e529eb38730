package slowquery

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/startdusk/entityoh/orm"
)

type MiddlewareBuilder struct {
	logger *zap.Logger

	// 慢查询阈值, 设置需要考虑公司实际情况, 如100ms
	threshold time.Duration
}

func NewMiddlewareBuilder(threshold time.Duration, logger *zap.Logger) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logger:    logger,
		threshold: threshold,
	}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			startTime := time.Now()
			defer func() {
				duration := time.Since(startTime)
				// 不是慢查询
				if duration <= m.threshold {
					return
				}
				// 参数不打印, 可能存在敏感数据
				m.logger.Warn("orm: 慢查询",
					zap.String("type", qc.Type),
					zap.String("sql", qc.Command.SQL),
					zap.Duration("duration", duration))
			}()

			return next(ctx, qc)
		}
	}
}
