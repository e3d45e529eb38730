package orm

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/startdusk/entityoh/orm/internal/errs"
	"github.com/startdusk/entityoh/orm/model"
)

type State uint8

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "Open"
	}
	return "Closed"
}

// commander 是 Builder 和 CommandCache 的公共方法
type commander interface {
	Dialect() Dialect
	Insert(m *model.Model) (*Command, *model.Field)
	Select(m *model.Model) (*Command, error)
	Update(m *model.Model) (*Command, error)
	Delete(m *model.Model) (*Command, error)
	Count(m *model.Model) *Command
	Aggregate(m *model.Model, agg Aggregate) *Command
	StoredProcedure(name string) (*Command, error)
}

var (
	_ commander = &Builder{}
	_ commander = &CommandCache{}
)

type GuardOption func(g *Guard)

// conn 是 Guard 持有的物理连接, 生产环境里就是 *sql.Conn
type conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// Guard 独占一个物理连接, 并且是唯一负责打开和关闭它的地方
//
// ExecuteScalar 和 ExecuteNonQuery 执行完无论成功失败都会关闭连接
// ExecuteReader 返回的时候连接仍然是打开的, 直到 Rows 读完或者被 Close
//
// Guard 不是并发安全的, 每个并发单元(请求, goroutine)应该使用自己的 Guard
// 用完之后必须调用 Close, 推荐 defer g.Close()
type Guard struct {
	id      string
	connStr string

	// db 被限制为最多一个连接, 且不保留空闲连接, 关闭 conn 就是关闭物理连接
	db      *sql.DB
	connect func(ctx context.Context) (conn, error)
	conn    conn
	rows    *Rows
	state   State

	disposed bool

	dialect   Dialect
	r         model.Registry
	commands  commander
	cacheSize int
	logger    *zap.Logger
	mdls      []Middleware
}

// Open 创建一个 Guard, 此时并不会连接数据库
// 没有内置方言的驱动必须通过 GuardWithDialect 指定方言, 否则返回配置错误
func Open(driver string, dsn string, opts ...GuardOption) (*Guard, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errs.NewErrUnknownDriver(driver)
	}
	dialect, _ := DialectFor(driver)
	var noDialect bool
	opts = append([]GuardOption{GuardWithDialect(dialect)}, opts...)
	opts = append(opts, func(g *Guard) {
		g.connStr = dsn
		noDialect = g.dialect == nil
	})
	g, err := OpenDB(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if noDialect {
		_ = db.Close()
		return nil, errs.NewErrUnknownDriver(driver)
	}
	return g, nil
}

// OpenDB 使用调用方提供的 *sql.DB, 没有指定方言的时候使用 DialectSQLServer
func OpenDB(db *sql.DB, opts ...GuardOption) (*Guard, error) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	g := &Guard{
		id:      uuid.NewString(),
		db:      db,
		state:   StateClosed,
		dialect: DialectSQLServer,
		r:       model.NewRegistry(),
		logger:  zap.NewNop(),
	}
	g.connect = func(ctx context.Context) (conn, error) {
		c, err := db.Conn(ctx)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.dialect == nil {
		g.dialect = DialectSQLServer
	}

	b := NewBuilder(g.dialect)
	g.commands = b
	if g.cacheSize > 0 {
		c, err := NewCommandCache(b, g.cacheSize)
		if err != nil {
			return nil, err
		}
		g.commands = c
	}
	g.logger = g.logger.With(zap.String("guard", g.id))
	return g, nil
}

func MustOpen(driver string, dsn string, opts ...GuardOption) *Guard {
	g, err := Open(driver, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

func GuardWithDialect(dialect Dialect) GuardOption {
	return func(g *Guard) {
		g.dialect = dialect
	}
}

func GuardWithRegistry(r model.Registry) GuardOption {
	return func(g *Guard) {
		g.r = r
	}
}

func GuardWithLogger(logger *zap.Logger) GuardOption {
	return func(g *Guard) {
		g.logger = logger
	}
}

func GuardWithMiddlewares(mdls ...Middleware) GuardOption {
	return func(g *Guard) {
		g.mdls = mdls
	}
}

// GuardWithCommandCache 缓存最近生成的 size 条语句
func GuardWithCommandCache(size int) GuardOption {
	return func(g *Guard) {
		g.cacheSize = size
	}
}

func (g *Guard) ID() string {
	return g.id
}

func (g *Guard) ConnectionString() string {
	return g.connStr
}

func (g *Guard) State() State {
	return g.state
}

func (g *Guard) Dialect() Dialect {
	return g.dialect
}

func (g *Guard) Registry() model.Registry {
	return g.r
}

// Parameter 生成与 Builder 占位符一致的命名参数
func (g *Guard) Parameter(name string, value any) sql.NamedArg {
	return Parameter(g.dialect, name, value)
}

// BindEntity 使用 Guard 的方言从实体取值绑定参数
func (g *Guard) BindEntity(cmd *Command, entity any) (*Command, error) {
	return BindEntity(g.dialect, cmd, entity)
}

// open 打开失败的时候状态仍然是 Closed
func (g *Guard) open(ctx context.Context) error {
	if g.state == StateOpen {
		return nil
	}
	c, err := g.connect(ctx)
	if err != nil {
		g.logger.Debug("orm: 打开连接失败", zap.Error(err))
		return errs.NewErrConnectivity(err)
	}
	g.conn = c
	g.state = StateOpen
	g.logger.Debug("orm: 打开连接")
	return nil
}

// release 尽力关闭连接, 关闭失败只记录日志, 不能覆盖调用方的错误
func (g *Guard) release() {
	if g.state == StateClosed {
		return
	}
	err := g.conn.Close()
	g.conn = nil
	g.state = StateClosed
	if err != nil {
		g.logger.Warn("orm: 关闭连接失败", zap.Error(err))
		return
	}
	g.logger.Debug("orm: 关闭连接")
}

func (g *Guard) handle(ctx context.Context, typ string, cmd *Command, root Handler) *QueryResult {
	if g.disposed {
		return &QueryResult{Err: errs.ErrGuardDisposed}
	}
	if g.rows != nil {
		return &QueryResult{Err: errs.ErrReaderOpen}
	}
	return chain(root, g.mdls)(ctx, &QueryContext{
		Type:    typ,
		Command: cmd,
		Model:   cmd.Model,
	})
}

// ExecuteReader 执行查询, 连接在 Rows 读完或者被关闭之后才会关闭
func (g *Guard) ExecuteReader(ctx context.Context, cmd *Command) (*Rows, error) {
	var opened *Rows
	res := g.handle(ctx, "READER", cmd, func(ctx context.Context, qc *QueryContext) *QueryResult {
		if err := g.open(ctx); err != nil {
			return &QueryResult{Err: err}
		}
		rows, err := g.conn.QueryContext(ctx, qc.Command.SQL, qc.Command.Args...)
		if err != nil {
			g.release()
			return &QueryResult{Err: errs.NewErrExecution(err)}
		}
		opened = &Rows{Rows: rows, g: g}
		g.rows = opened
		return &QueryResult{Result: opened}
	})
	rows, _ := res.Result.(*Rows)
	if res.Err != nil || rows != opened {
		// 中间件在打开 Reader 之后改写了结果, 调用方拿不到 Rows, 这里负责关闭
		if opened != nil {
			_ = opened.Close()
		}
		if res.Err != nil {
			return nil, res.Err
		}
	}
	return rows, nil
}

// ExecuteReaderText 执行调用方提供的 SQL
func (g *Guard) ExecuteReaderText(ctx context.Context, query string, args ...any) (*Rows, error) {
	return g.ExecuteReader(ctx, Raw(query, args...))
}

// ExecuteScalar 返回第一行第一列, 执行完立即关闭连接
func (g *Guard) ExecuteScalar(ctx context.Context, cmd *Command) (any, error) {
	res := g.handle(ctx, "SCALAR", cmd, func(ctx context.Context, qc *QueryContext) *QueryResult {
		if err := g.open(ctx); err != nil {
			return &QueryResult{Err: err}
		}
		defer g.release()

		var val any
		err := g.conn.QueryRowContext(ctx, qc.Command.SQL, qc.Command.Args...).Scan(&val)
		if errors.Is(err, sql.ErrNoRows) {
			// 返回要和sql包语义一致
			return &QueryResult{Err: errs.ErrNoRows}
		}
		if err != nil {
			return &QueryResult{Err: errs.NewErrExecution(err)}
		}
		return &QueryResult{Result: val}
	})
	return res.Result, res.Err
}

// ExecuteNonQuery 返回影响的行数, 执行完立即关闭连接
func (g *Guard) ExecuteNonQuery(ctx context.Context, cmd *Command) (int64, error) {
	res := g.handle(ctx, "NONQUERY", cmd, func(ctx context.Context, qc *QueryContext) *QueryResult {
		if err := g.open(ctx); err != nil {
			return &QueryResult{Err: err}
		}
		defer g.release()

		sqlRes, err := g.conn.ExecContext(ctx, qc.Command.SQL, qc.Command.Args...)
		if err != nil {
			return &QueryResult{Err: errs.NewErrExecution(err)}
		}
		affected, err := sqlRes.RowsAffected()
		if err != nil {
			return &QueryResult{Err: errs.NewErrExecution(err)}
		}
		return &QueryResult{Result: affected}
	})
	var affected int64
	if val, ok := res.Result.(int64); ok {
		affected = val
	}
	return affected, res.Err
}

// Close 释放连接, 可以重复调用. 释放之后 Guard 不能再使用
func (g *Guard) Close() error {
	if g.disposed {
		return nil
	}
	g.disposed = true
	if g.rows != nil {
		_ = g.rows.Close()
	}
	g.release()
	g.logger.Debug("orm: 释放 Guard")
	return g.db.Close()
}

func (g *Guard) StoredProcedure(name string) (*Command, error) {
	return g.commands.StoredProcedure(name)
}

func InsertCommand[T any](g *Guard) (*Command, *model.Field, error) {
	m, err := g.r.Get(new(T))
	if err != nil {
		return nil, nil, err
	}
	cmd, identity := g.commands.Insert(m)
	return cmd, identity, nil
}

func SelectCommand[T any](g *Guard) (*Command, error) {
	m, err := g.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	return g.commands.Select(m)
}

func UpdateCommand[T any](g *Guard) (*Command, error) {
	m, err := g.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	return g.commands.Update(m)
}

func DeleteCommand[T any](g *Guard) (*Command, error) {
	m, err := g.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	return g.commands.Delete(m)
}

func CountCommand[T any](g *Guard) (*Command, error) {
	m, err := g.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	return g.commands.Count(m), nil
}

func AggregateCommand[T any](g *Guard, agg Aggregate) (*Command, error) {
	m, err := g.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	return g.commands.Aggregate(m, agg), nil
}
