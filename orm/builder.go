package orm

import (
	"strings"

	"github.com/startdusk/entityoh/orm/model"
)

// statement 负责拼接一条语句, 不做任何 I/O
type statement struct {
	sb      strings.Builder
	params  []string
	dialect Dialect
}

func newStatement(dialect Dialect) *statement {
	return &statement{dialect: dialect}
}

// placeholder 写入 @col, 同时记录占位符
func (s *statement) placeholder(col string) {
	p := string(s.dialect.Sigil()) + col
	s.sb.WriteString(p)
	if s.params == nil {
		// 很少有语句能够超过8个参数
		s.params = make([]string, 0, 8)
	}
	s.params = append(s.params, p)
}

// assign 写入 col = @col
func (s *statement) assign(col string) {
	s.sb.WriteString(col)
	s.sb.WriteString(" = ")
	s.placeholder(col)
}

// buildAssigns 把字段拼成 `a = @a<sep>b = @b`, 没有尾部分隔符
func (s *statement) buildAssigns(fields []*model.Field, sep string) {
	for idx, fd := range fields {
		if idx > 0 {
			s.sb.WriteString(sep)
		}
		s.assign(fd.ColName)
	}
}

func (s *statement) command(kind string, m *model.Model) *Command {
	return &Command{
		Kind:   kind,
		Type:   CommandText,
		SQL:    s.sb.String(),
		Params: s.params,
		Model:  m,
	}
}

// Builder 把实体元数据翻译成带命名参数的 SQL
// 相同的输入总是生成相同的文本
type Builder struct {
	dialect Dialect
}

func NewBuilder(dialect Dialect) *Builder {
	if dialect == nil {
		dialect = DialectSQLServer
	}
	return &Builder{dialect: dialect}
}

func (b *Builder) Dialect() Dialect {
	return b.dialect
}
