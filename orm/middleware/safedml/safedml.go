package safedml

import (
	"context"
	"errors"
	"strings"

	"github.com/startdusk/entityoh/orm"
)

var ErrDeleteForbidden = errors.New("禁止使用DELETE语句")

type MiddlewareBuilder struct {
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			// 禁用 DELETE 语句, Raw 语句按开头的关键字判断
			if qc.Command.Kind == "DELETE" ||
				(qc.Command.Kind == "RAW" && strings.HasPrefix(strings.ToUpper(strings.TrimSpace(qc.Command.SQL)), "DELETE")) {
				return &orm.QueryResult{
					Err: ErrDeleteForbidden,
				}
			}
			return next(ctx, qc)
		}
	}
}
