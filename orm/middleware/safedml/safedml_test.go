package safedml

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/entityoh/orm"
	"github.com/startdusk/entityoh/orm/internal/test"
)

type User struct {
	ID   int64 `orm:"primary=true,identity=true"`
	Name string
}

func TestMiddlewareBuilder_Build(t *testing.T) {
	mockDB, mock := test.NewMockDB(t)
	g, err := orm.OpenDB(mockDB, orm.GuardWithMiddlewares(NewMiddlewareBuilder().Build()))
	require.NoError(t, err)
	defer g.Close()

	del, err := orm.DeleteCommand[User](g)
	require.NoError(t, err)
	_, err = g.ExecuteNonQuery(context.Background(), del.Bind(g.Parameter("id", 1)))
	assert.Equal(t, ErrDeleteForbidden, err)

	_, err = g.ExecuteNonQuery(context.Background(), orm.Raw(" delete from user"))
	assert.Equal(t, ErrDeleteForbidden, err)

	upd, err := orm.UpdateCommand[User](g)
	require.NoError(t, err)
	mock.ExpectExec("UPDATE user SET name = @name WHERE id = @id").WillReturnResult(sqlmock.NewResult(0, 1))
	affected, err := g.ExecuteNonQuery(context.Background(), upd.Bind(g.Parameter("name", "Tom"), g.Parameter("id", 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
