// Package test 是用于辅助测试的包。仅限于内部使用
package test

import (
	"fmt"
)

// User 自增主键的实体
type User struct {
	ID    int64 `orm:"primary=true,identity=true"`
	Name  string
	Email string
	Age   int
}

func (u *User) CreateSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS user (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			age INTEGER
		)
	`
}

// NewUser 按编号生成数据, 同一个编号的数据是一样的
func NewUser(n int) *User {
	return &User{
		Name:  fmt.Sprintf("user_%d", n),
		Email: fmt.Sprintf("user_%d@example.com", n),
		Age:   18 + n%50,
	}
}

// OrderLine 联合主键, 没有自增列
type OrderLine struct {
	OrderID int64 `orm:"primary=true"`
	LineNo  int   `orm:"primary=true"`
	Qty     int
	Price   float64
}

func (o *OrderLine) CreateSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS order_line (
			order_id INTEGER NOT NULL,
			line_no INTEGER NOT NULL,
			qty INTEGER,
			price REAL,
			PRIMARY KEY (order_id, line_no)
		)
	`
}
