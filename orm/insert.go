package orm

import (
	"github.com/startdusk/entityoh/orm/model"
)

// Insert 构造 INSERT INTO table (cols) VALUES (@cols)
// 自增列不出现在列里面, 存在自增列的时候会拼接方言的回读语句, 并把自增列返回
// 没有非自增列的实体也能构造成功, 这里不做校验
func (b *Builder) Insert(m *model.Model) (*Command, *model.Field) {
	s := newStatement(b.dialect)
	var identity *model.Field
	// 一定要显式指定列的顺序, 不然我们不知道数据库中默认的顺序
	fields := make([]*model.Field, 0, len(m.Fields))
	for _, fd := range m.Fields {
		if fd.Identity {
			identity = fd
			continue
		}
		fields = append(fields, fd)
	}

	s.sb.WriteString("INSERT INTO ")
	s.sb.WriteString(m.TableName)
	s.sb.WriteString(" (")
	for idx, fd := range fields {
		if idx > 0 {
			s.sb.WriteByte(',')
		}
		s.sb.WriteString(fd.ColName)
	}
	s.sb.WriteString(") VALUES (")
	for idx, fd := range fields {
		if idx > 0 {
			s.sb.WriteByte(',')
		}
		s.placeholder(fd.ColName)
	}
	s.sb.WriteByte(')')

	if identity != nil {
		s.sb.WriteString(b.dialect.identityReadback(identity))
	}

	cmd := s.command("INSERT", m)
	cmd.Identity = identity
	return cmd, identity
}
