package orm

import (
	"github.com/startdusk/entityoh/orm/internal/errs"
	"github.com/startdusk/entityoh/orm/model"
)

var (
	DialectSQLServer Dialect = &sqlServerDialect{}
	DialectSQLite    Dialect = &sqliteDialect{}
)

type Dialect interface {
	Name() string

	// Sigil 是命名参数占位符的前缀, 构造出来的 SQL 和绑定参数都用它
	Sigil() byte

	// identityReadback 拼接在 INSERT 后面, 让同一条语句返回数据库生成的自增值
	identityReadback(identity *model.Field) string

	// procedureText 把存储过程名转换成驱动能执行的文本
	procedureText(name string) (string, error)
}

type standardSQL struct{}

func (d standardSQL) Sigil() byte {
	return '@'
}

type sqlServerDialect struct {
	standardSQL
}

func (d sqlServerDialect) Name() string {
	return "sqlserver"
}

func (d sqlServerDialect) identityReadback(identity *model.Field) string {
	return "; SELECT @@IDENTITY"
}

// go-mssqldb 把不带空格的语句当成存储过程走 RPC 调用
func (d sqlServerDialect) procedureText(name string) (string, error) {
	return name, nil
}

type sqliteDialect struct {
	standardSQL
}

func (d sqliteDialect) Name() string {
	return "sqlite3"
}

// SQLite 3.35 之后支持 RETURNING, 单条语句就能拿到自增值
func (d sqliteDialect) identityReadback(identity *model.Field) string {
	return " RETURNING " + identity.ColName
}

func (d sqliteDialect) procedureText(name string) (string, error) {
	return "", errs.NewErrUnsupportedProcedure(d.Name())
}

// DialectFor 根据 database/sql 的驱动名找到对应的方言
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlserver", "mssql":
		return DialectSQLServer, nil
	case "sqlite3":
		return DialectSQLite, nil
	default:
		return nil, errs.NewErrUnknownDriver(driver)
	}
}
