package orm

import (
	"context"

	"github.com/startdusk/entityoh/orm/config"
)

// Factory 按连接名创建 Guard, 每次调用都返回一个新的 Closed 状态的 Guard
type Factory struct {
	cfg  *config.Config
	opts []GuardOption
}

func NewFactory(cfg *config.Config, opts ...GuardOption) *Factory {
	return &Factory{
		cfg:  cfg,
		opts: opts,
	}
}

func NewFactoryFromSource(ctx context.Context, src config.Source, opts ...GuardOption) (*Factory, error) {
	cfg, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewFactory(cfg, opts...), nil
}

// Get 连接名不存在的时候返回配置错误, 不会尝试连接数据库
func (f *Factory) Get(key string) (*Guard, error) {
	conn, err := f.cfg.Get(key)
	if err != nil {
		return nil, err
	}
	return Open(conn.Driver, conn.DSN, f.opts...)
}

// Default 使用配置里的默认连接
func (f *Factory) Default() (*Guard, error) {
	return f.Get(f.cfg.DefaultKey())
}

func (f *Factory) Config() *config.Config {
	return f.cfg
}
