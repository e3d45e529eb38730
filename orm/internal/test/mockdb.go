package test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// NewMockDB 返回底层是 sqlmock 的 *sql.DB, 连接可以反复打开和关闭
//
// sqlmock 的连接被 database/sql 关闭之后就不能再打开,
// 而 Guard 每次执行完都会关闭连接, 所以这里固定持有 sqlmock 的连接,
// 交给 database/sql 的是一个 Close 不做任何事情的包装
func NewMockDB(t testing.TB) (*sql.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	pinned, err := mockDB.Conn(context.Background())
	require.NoError(t, err)

	var dc driver.Conn
	err = pinned.Raw(func(c any) error {
		dc = c.(driver.Conn)
		return nil
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = pinned.Close()
		_ = mockDB.Close()
	})
	return sql.OpenDB(mockConnector{conn: dc, drv: mockDB.Driver()}), mock
}

type mockConnector struct {
	conn driver.Conn
	drv  driver.Driver
}

func (c mockConnector) Connect(ctx context.Context) (driver.Conn, error) {
	return mockConn{Conn: c.conn}, nil
}

func (c mockConnector) Driver() driver.Driver {
	return c.drv
}

type mockConn struct {
	driver.Conn
}

func (c mockConn) Close() error {
	return nil
}

func (c mockConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	return c.Conn.(driver.QueryerContext).QueryContext(ctx, query, args)
}

func (c mockConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	return c.Conn.(driver.ExecerContext).ExecContext(ctx, query, args)
}

func (c mockConn) CheckNamedValue(nv *driver.NamedValue) error {
	if checker, ok := c.Conn.(driver.NamedValueChecker); ok {
		return checker.CheckNamedValue(nv)
	}
	return driver.ErrSkip
}
