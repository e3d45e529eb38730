package orm

import (
	"github.com/startdusk/entityoh/orm/model"
)

// Aggregate 代表了聚合函数
// AVG(age), SUM(age), COUNT(age), MAX(age), MIN(age)
// fn 和 arg 会原样拼接进 SQL, 只能来自代码里的字面量, 不能来自用户输入
type Aggregate struct {
	fn  string
	arg string
}

func (a Aggregate) String() string {
	return a.fn + "(" + a.arg + ")"
}

func Avg(col string) Aggregate {
	return Aggregate{
		fn:  "AVG",
		arg: col,
	}
}

func Sum(col string) Aggregate {
	return Aggregate{
		fn:  "SUM",
		arg: col,
	}
}

func Count(col string) Aggregate {
	return Aggregate{
		fn:  "COUNT",
		arg: col,
	}
}

func Max(col string) Aggregate {
	return Aggregate{
		fn:  "MAX",
		arg: col,
	}
}

func Min(col string) Aggregate {
	return Aggregate{
		fn:  "MIN",
		arg: col,
	}
}

// Fn 自定义聚合函数, 如 Fn("STDEV", "price")
func Fn(fn string, col string) Aggregate {
	return Aggregate{
		fn:  fn,
		arg: col,
	}
}

// Aggregate 构造 SELECT fn(col) FROM table
func (b *Builder) Aggregate(m *model.Model, agg Aggregate) *Command {
	s := newStatement(b.dialect)
	s.sb.WriteString("SELECT ")
	s.sb.WriteString(agg.String())
	s.sb.WriteString(" FROM ")
	s.sb.WriteString(m.TableName)
	return s.command("AGGREGATE", m)
}

// StoredProcedure 把存储过程名包装成 CommandStoredProcedure 类型的 Command, 不生成 SQL 文本
func (b *Builder) StoredProcedure(name string) (*Command, error) {
	text, err := b.dialect.procedureText(name)
	if err != nil {
		return nil, err
	}
	return &Command{
		Kind: "PROCEDURE",
		Type: CommandStoredProcedure,
		SQL:  text,
	}, nil
}
