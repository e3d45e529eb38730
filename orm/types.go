package orm

import (
	"database/sql"

	"github.com/startdusk/entityoh/orm/model"
)

type CommandType uint8

const (
	CommandText CommandType = iota
	CommandStoredProcedure
)

func (t CommandType) String() string {
	if t == CommandStoredProcedure {
		return "StoredProcedure"
	}
	return "Text"
}

// Command 是构造好的语句, 生成之后不可修改, 可以被缓存和共享
// 绑定参数请使用 Bind, 它返回一个新的 Command
type Command struct {
	// Kind 即 INSERT, SELECT, UPDATE, DELETE, COUNT, AGGREGATE, PROCEDURE 和 RAW
	Kind string
	Type CommandType
	SQL  string

	// Params 是 SQL 里面的占位符, 按出现顺序排列, 如 @name
	Params []string
	Args   []any

	// Model 在 RAW 和 PROCEDURE 里面为 nil
	Model *model.Model

	// Identity 仅用于 INSERT, 不为 nil 说明执行后需要用 ExecuteScalar 读回自增值
	Identity *model.Field
}

// Bind 返回绑定了参数的副本
func (c *Command) Bind(args ...sql.NamedArg) *Command {
	cp := *c
	cp.Args = make([]any, 0, len(c.Args)+len(args))
	cp.Args = append(cp.Args, c.Args...)
	for _, arg := range args {
		cp.Args = append(cp.Args, arg)
	}
	return &cp
}

// Raw 把调用方提供的 SQL 包装成 Command
func Raw(query string, args ...any) *Command {
	return &Command{
		Kind: "RAW",
		Type: CommandText,
		SQL:  query,
		Args: args,
	}
}
