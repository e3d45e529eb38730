package orm

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/startdusk/entityoh/orm/model"
)

type cacheKey struct {
	m    *model.Model
	kind string
	agg  Aggregate
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%p/%s/%s", k.m, k.kind, k.agg)
}

type cacheEntry struct {
	cmd      *Command
	identity *model.Field
	err      error
}

// CommandCache 缓存生成好的语句
// 元数据不可变, 生成是纯函数, 所以 (实体, 操作) 可以直接作为 key
// 配置错误也会被缓存, 同一个实体再次构造会得到同样的错误
type CommandCache struct {
	b     *Builder
	cache *lru.Cache[cacheKey, cacheEntry]
	g     singleflight.Group
}

func NewCommandCache(b *Builder, size int) (*CommandCache, error) {
	c, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &CommandCache{
		b:     b,
		cache: c,
	}, nil
}

func (c *CommandCache) Dialect() Dialect {
	return c.b.Dialect()
}

func (c *CommandCache) Len() int {
	return c.cache.Len()
}

func (c *CommandCache) load(key cacheKey, build func() cacheEntry) cacheEntry {
	if entry, ok := c.cache.Get(key); ok {
		return entry
	}
	// 并发未命中的时候只生成一次
	val, _, _ := c.g.Do(key.String(), func() (any, error) {
		if entry, ok := c.cache.Get(key); ok {
			return entry, nil
		}
		entry := build()
		c.cache.Add(key, entry)
		return entry, nil
	})
	return val.(cacheEntry)
}

func (c *CommandCache) Insert(m *model.Model) (*Command, *model.Field) {
	entry := c.load(cacheKey{m: m, kind: "INSERT"}, func() cacheEntry {
		cmd, identity := c.b.Insert(m)
		return cacheEntry{cmd: cmd, identity: identity}
	})
	return entry.cmd, entry.identity
}

func (c *CommandCache) Select(m *model.Model) (*Command, error) {
	entry := c.load(cacheKey{m: m, kind: "SELECT"}, func() cacheEntry {
		cmd, err := c.b.Select(m)
		return cacheEntry{cmd: cmd, err: err}
	})
	return entry.cmd, entry.err
}

func (c *CommandCache) Update(m *model.Model) (*Command, error) {
	entry := c.load(cacheKey{m: m, kind: "UPDATE"}, func() cacheEntry {
		cmd, err := c.b.Update(m)
		return cacheEntry{cmd: cmd, err: err}
	})
	return entry.cmd, entry.err
}

func (c *CommandCache) Delete(m *model.Model) (*Command, error) {
	entry := c.load(cacheKey{m: m, kind: "DELETE"}, func() cacheEntry {
		cmd, err := c.b.Delete(m)
		return cacheEntry{cmd: cmd, err: err}
	})
	return entry.cmd, entry.err
}

func (c *CommandCache) Count(m *model.Model) *Command {
	entry := c.load(cacheKey{m: m, kind: "COUNT"}, func() cacheEntry {
		return cacheEntry{cmd: c.b.Count(m)}
	})
	return entry.cmd
}

func (c *CommandCache) Aggregate(m *model.Model, agg Aggregate) *Command {
	entry := c.load(cacheKey{m: m, kind: "AGGREGATE", agg: agg}, func() cacheEntry {
		return cacheEntry{cmd: c.b.Aggregate(m, agg)}
	})
	return entry.cmd
}

// StoredProcedure 不走缓存
func (c *CommandCache) StoredProcedure(name string) (*Command, error) {
	return c.b.StoredProcedure(name)
}
