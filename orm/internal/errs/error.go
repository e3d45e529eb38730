package errs

import (
	"errors"
	"fmt"
)

// 三类错误, 调用方通过 errors.Is 区分
// ErrConfiguration 编程/配置错误, 在任何 I/O 之前同步返回, 不应该重试
// ErrConnectivity 打开连接失败, 调用方可以重试
// ErrExecution 数据库拒绝执行语句, 原始的驱动错误仍然可以通过 errors.Is/As 拿到
var (
	ErrConfiguration = errors.New("orm: 配置错误")
	ErrConnectivity  = errors.New("orm: 连接数据库失败")
	ErrExecution     = errors.New("orm: 执行语句失败")
)

var (
	ErrPointerOnly   = fmt.Errorf("%w: 只支持指向结构体的一级指针", ErrConfiguration)
	ErrGuardDisposed = errors.New("orm: 连接已经释放, 不能再使用")
	ErrNoRows        = errors.New("orm: 没有数据")
)

func NewErrNoPrimaryField(table string, kind string) error {
	return fmt.Errorf("%w: 实体 %s 没有主键字段, 不支持 %s 语句, 请至少标记一个 primary 字段", ErrConfiguration, table, kind)
}

func NewErrNoUpdatableField(table string) error {
	return fmt.Errorf("%w: 实体 %s 除主键和自增列外没有可更新的字段", ErrConfiguration, table)
}

func NewErrMultipleIdentity(table string, first, second string) error {
	return fmt.Errorf("%w: 实体 %s 只能有一个自增列, 发现 %s 和 %s", ErrConfiguration, table, first, second)
}

func NewErrDuplicateColumn(table string, col string) error {
	return fmt.Errorf("%w: 实体 %s 的列名 %s 重复", ErrConfiguration, table, col)
}

func NewErrEmptyTableName() error {
	return fmt.Errorf("%w: 表名不能为空", ErrConfiguration)
}

func NewErrUnknownField(name string) error {
	return fmt.Errorf("%w: 未知字段 %s", ErrConfiguration, name)
}

func NewErrUnknownColumn(col string) error {
	return fmt.Errorf("%w: 未知列 %s", ErrConfiguration, col)
}

func NewErrIinvalidTagContent(pair string) error {
	return fmt.Errorf("%w: 非法标签值 %s", ErrConfiguration, pair)
}

func NewErrUnknownConnectionKey(key string) error {
	return fmt.Errorf("%w: 找不到连接配置 %q", ErrConfiguration, key)
}

func NewErrUnknownDriver(driver string) error {
	return fmt.Errorf("%w: 不支持的驱动 %s", ErrConfiguration, driver)
}

func NewErrUnsupportedProcedure(dialect string) error {
	return fmt.Errorf("%w: 方言 %s 不支持存储过程", ErrConfiguration, dialect)
}

func NewErrConnectivity(err error) error {
	return fmt.Errorf("%w: %w", ErrConnectivity, err)
}

func NewErrExecution(err error) error {
	return fmt.Errorf("%w: %w", ErrExecution, err)
}

// ErrReaderOpen 同一个 Guard 上一次 ExecuteReader 返回的 Rows 还没有读完或关闭
var ErrReaderOpen = fmt.Errorf("%w: 上一个 Reader 还没有关闭, 同一个连接不能并发使用", ErrConfiguration)
