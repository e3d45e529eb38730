package orm

import (
	"database/sql"
	"strings"

	"github.com/startdusk/entityoh/orm/internal/valuer"
)

// Parameter 把列名和值包装成驱动的命名参数
// database/sql 要求名字不带前缀, 驱动会按方言的前缀匹配, 所以 sql.Named("id", 1) 对应的就是 @id
// 传入 "@id" 也可以, 前缀会被去掉
func Parameter(dialect Dialect, name string, value any) sql.NamedArg {
	return sql.Named(strings.TrimPrefix(name, string(dialect.Sigil())), value)
}

// Placeholder 返回参数在 SQL 里面的占位符, 与 Builder 生成的 Params 一致
func Placeholder(dialect Dialect, arg sql.NamedArg) string {
	return string(dialect.Sigil()) + arg.Name
}

// BindEntity 按 Params 的顺序从实体里取值, 返回绑定了参数的副本
// entity 必须是 cmd.Model 对应的结构体指针
func BindEntity(dialect Dialect, cmd *Command, entity any) (*Command, error) {
	if len(cmd.Params) == 0 {
		return cmd.Bind(), nil
	}
	val := valuer.NewReflectValue(cmd.Model, entity)
	args := make([]sql.NamedArg, 0, len(cmd.Params))
	for _, p := range cmd.Params {
		arg := Parameter(dialect, p, nil)
		v, err := val.Field(arg.Name)
		if err != nil {
			return nil, err
		}
		arg.Value = v
		args = append(args, arg)
	}
	return cmd.Bind(args...), nil
}
