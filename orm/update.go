package orm

import (
	"github.com/startdusk/entityoh/orm/internal/errs"
	"github.com/startdusk/entityoh/orm/model"
)

// Update 构造 UPDATE table SET col = @col WHERE pk = @pk
// 主键和自增列不会被更新. 如果实体只有主键和自增列, SET 为空, 直接返回配置错误
func (b *Builder) Update(m *model.Model) (*Command, error) {
	sets := make([]*model.Field, 0, len(m.Fields))
	for _, fd := range m.Fields {
		if fd.Primary || fd.Identity {
			continue
		}
		sets = append(sets, fd)
	}

	s := newStatement(b.dialect)
	s.sb.WriteString("UPDATE ")
	s.sb.WriteString(m.TableName)
	s.sb.WriteString(" SET ")
	s.buildAssigns(sets, ",")
	if err := s.buildWhere(m, "UPDATE"); err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, errs.NewErrNoUpdatableField(m.TableName)
	}
	return s.command("UPDATE", m), nil
}

// Delete 构造 DELETE FROM table WHERE pk = @pk
func (b *Builder) Delete(m *model.Model) (*Command, error) {
	s := newStatement(b.dialect)
	s.sb.WriteString("DELETE FROM ")
	s.sb.WriteString(m.TableName)
	if err := s.buildWhere(m, "DELETE"); err != nil {
		return nil, err
	}
	return s.command("DELETE", m), nil
}
