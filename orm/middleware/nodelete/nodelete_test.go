package nodelete

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/entityoh/orm"
	"github.com/startdusk/entityoh/orm/internal/test"
)

func TestMiddlewareBuilder_Build(t *testing.T) {
	cases := []struct {
		name    string
		cmd     *orm.Command
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:    "raw delete without where",
			cmd:     orm.Raw("DELETE FROM user"),
			wantErr: errors.New("禁止执行没有WHERE的 DELETE 语句"),
		},
		{
			name:    "raw update without where",
			cmd:     orm.Raw("  update user SET name = @name", param("name", "Tom")),
			wantErr: errors.New("禁止执行没有WHERE的 UPDATE 语句"),
		},
		{
			name: "raw delete with where",
			cmd:  orm.Raw("DELETE FROM user WHERE id = @id", param("id", 1)),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM user WHERE id = @id").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			// 只做关键字匹配, 注释里的 WHERE 也算
			name: "where in comment",
			cmd:  orm.Raw("DELETE FROM user -- WHERE"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM user").WillReturnResult(sqlmock.NewResult(0, 3))
			},
		},
		{
			name: "raw insert",
			cmd:  orm.Raw("INSERT INTO user (name) VALUES (@name)", param("name", "Tom")),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO user").WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mockDB, mock := test.NewMockDB(t)
			g, err := orm.OpenDB(mockDB, orm.GuardWithMiddlewares(NewMiddlewareBuilder().Build()))
			require.NoError(t, err)
			defer g.Close()
			if c.mock != nil {
				c.mock(mock)
			}

			_, err = g.ExecuteNonQuery(context.Background(), c.cmd)
			assert.Equal(t, c.wantErr, err)
			// 被拦截的语句不会打开连接
			assert.Equal(t, orm.StateClosed, g.State())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func param(name string, value any) any {
	return orm.Parameter(orm.DialectSQLServer, name, value)
}
