package orm

import (
	"database/sql"
)

// Rows 包装 *sql.Rows, 读完或者关闭的时候把连接还给 Guard
type Rows struct {
	*sql.Rows
	g        *Guard
	released bool
}

// Next 读到结尾的时候自动关闭连接
func (r *Rows) Next() bool {
	if r.released {
		return false
	}
	if r.Rows.Next() {
		return true
	}
	_ = r.release()
	return false
}

// Close 可以重复调用
func (r *Rows) Close() error {
	if r.released {
		return nil
	}
	return r.release()
}

func (r *Rows) release() error {
	r.released = true
	err := r.Rows.Close()
	r.g.rows = nil
	r.g.release()
	return err
}
