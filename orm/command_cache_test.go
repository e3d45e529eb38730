package orm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/entityoh/orm/internal/errs"
)

func TestCommandCache(t *testing.T) {
	c, err := NewCommandCache(NewBuilder(DialectSQLServer), 8)
	require.NoError(t, err)
	user := userModel(t)

	insert, identity := c.Insert(user)
	again, identityAgain := c.Insert(user)
	assert.Same(t, insert, again)
	assert.Same(t, identity, identityAgain)

	sel, err := c.Select(user)
	require.NoError(t, err)
	selAgain, err := c.Select(user)
	require.NoError(t, err)
	assert.Same(t, sel, selAgain)

	upd, err := c.Update(user)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE User SET name = @name,email = @email WHERE id = @id", upd.SQL)

	del, err := c.Delete(user)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM User WHERE id = @id", del.SQL)

	assert.Same(t, c.Count(user), c.Count(user))

	// 不同的聚合函数是不同的 key
	maxID := c.Aggregate(user, Max("id"))
	minID := c.Aggregate(user, Min("id"))
	assert.NotSame(t, maxID, minID)
	assert.Same(t, maxID, c.Aggregate(user, Max("id")))
	assert.Equal(t, 7, c.Len())
}

func TestCommandCache_Error(t *testing.T) {
	c, err := NewCommandCache(NewBuilder(DialectSQLServer), 8)
	require.NoError(t, err)
	m := noPrimaryModel(t)

	for i := 0; i < 2; i++ {
		cmd, err := c.Select(m)
		assert.Nil(t, cmd)
		assert.Equal(t, errs.NewErrNoPrimaryField("audit_log", "SELECT"), err)
	}
}

func TestCommandCache_Evict(t *testing.T) {
	c, err := NewCommandCache(NewBuilder(DialectSQLServer), 1)
	require.NoError(t, err)
	user := userModel(t)

	first := c.Count(user)
	_ = c.Aggregate(user, Sum("id"))
	assert.Equal(t, 1, c.Len())
	// 被淘汰之后重新生成, 内容一样
	second := c.Count(user)
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}

func TestCommandCache_Concurrent(t *testing.T) {
	c, err := NewCommandCache(NewBuilder(DialectSQLServer), 8)
	require.NoError(t, err)
	user := userModel(t)

	var wg sync.WaitGroup
	res := make([]*Command, 16)
	for i := range res {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd, err := c.Select(user)
			assert.NoError(t, err)
			res[i] = cmd
		}(i)
	}
	wg.Wait()
	for _, cmd := range res {
		assert.Equal(t, "SELECT * FROM User WHERE id = @id", cmd.SQL)
	}
}

func TestNewCommandCache_InvalidSize(t *testing.T) {
	_, err := NewCommandCache(NewBuilder(nil), 0)
	assert.Error(t, err)
}
