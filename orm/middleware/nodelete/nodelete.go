package nodelete

import (
	"context"
	"fmt"
	"strings"

	"github.com/startdusk/entityoh/orm"
)

// MiddlewareBuilder 强制 UPDATE, DELETE 必须带 WHERE
// Builder 生成的语句总是带 WHERE 的, 这里主要拦截 Raw 语句
//
// 只是按关键字查找, 不解析 SQL. 注释或者字符串字面量里的 WHERE 也会被当作条件,
// 例如 DELETE FROM t -- WHERE 会被放行, 所以它只能防误操作, 不能当作权限控制
type MiddlewareBuilder struct {
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			kind := statementKind(qc.Command)
			if kind != "UPDATE" && kind != "DELETE" {
				return next(ctx, qc)
			}
			if !strings.Contains(strings.ToUpper(qc.Command.SQL), "WHERE") {
				return &orm.QueryResult{
					Err: fmt.Errorf("禁止执行没有WHERE的 %s 语句", kind),
				}
			}
			return next(ctx, qc)
		}
	}
}

func statementKind(cmd *orm.Command) string {
	if cmd.Kind != "RAW" {
		return cmd.Kind
	}
	fields := strings.Fields(cmd.SQL)
	if len(fields) == 0 {
		return cmd.Kind
	}
	return strings.ToUpper(fields[0])
}
