package orm

import (
	"github.com/startdusk/entityoh/orm/internal/errs"
	"github.com/startdusk/entityoh/orm/model"
)

const conditionSep = " AND "

// buildWhere 用所有主键字段拼接 WHERE 条件
// 没有主键的实体不支持按键操作, 全表扫描不在这里处理
func (s *statement) buildWhere(m *model.Model, kind string) error {
	primaries := m.Primaries()
	if len(primaries) == 0 {
		return errs.NewErrNoPrimaryField(m.TableName, kind)
	}
	s.sb.WriteString(" WHERE ")
	s.buildAssigns(primaries, conditionSep)
	return nil
}

// Select 构造 SELECT * FROM table WHERE pk = @pk
func (b *Builder) Select(m *model.Model) (*Command, error) {
	s := newStatement(b.dialect)
	s.sb.WriteString("SELECT * FROM ")
	s.sb.WriteString(m.TableName)
	if err := s.buildWhere(m, "SELECT"); err != nil {
		return nil, err
	}
	return s.command("SELECT", m), nil
}

// Count 构造 SELECT COUNT(*) FROM table
func (b *Builder) Count(m *model.Model) *Command {
	s := newStatement(b.dialect)
	s.sb.WriteString("SELECT COUNT(*) FROM ")
	s.sb.WriteString(m.TableName)
	return s.command("COUNT", m)
}
