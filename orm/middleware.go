package orm

import (
	"context"

	"github.com/startdusk/entityoh/orm/model"
)

type QueryContext struct {
	// Type 声明执行方式, 即 READER, SCALAR 和 NONQUERY
	Type string

	// Command 是要执行的语句, Command.Kind 是语句的类型
	Command *Command

	// Model 在 RAW 和 PROCEDURE 里面为 nil
	Model *model.Model
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult

type QueryResult struct {
	// Result 在不同的执行方式里面, 类型是不同的
	// READER 里面是 *Rows
	// SCALAR 里面是单个值
	// NONQUERY 里面是影响的行数 int64
	Result any
	Err    error
}

func chain(root Handler, mdls []Middleware) Handler {
	for i := len(mdls) - 1; i >= 0; i-- {
		root = mdls[i](root)
	}
	return root
}
