package config

import (
	"context"
	"fmt"
	"strings"

	clientv3 "go.etcd.io/etcd/client/v3"
	"gopkg.in/yaml.v3"

	"github.com/startdusk/entityoh/orm/internal/errs"
)

// EtcdSource 从 etcd 读取连接配置, 每个连接一个 key
//
//	/entityoh/connections/main => "driver: sqlserver\ndsn: sqlserver://..."
//
// 连接名就是去掉前缀之后的 key, 按 key 排序, 第一个作为默认连接
type EtcdSource struct {
	KV     clientv3.KV
	Prefix string

	// Default 为空的时候使用第一个连接
	Default string
}

func (e EtcdSource) Load(ctx context.Context) (*Config, error) {
	prefix := strings.TrimSuffix(e.Prefix, "/") + "/"
	resp, err := e.KV.Get(ctx, prefix,
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, err
	}

	conns := make([]Connection, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var conn Connection
		if err := yaml.Unmarshal(kv.Value, &conn); err != nil {
			return nil, fmt.Errorf("%w: 解析 %s 失败: %w", errs.ErrConfiguration, kv.Key, err)
		}
		conn.Name = strings.TrimPrefix(string(kv.Key), prefix)
		conns = append(conns, conn)
	}
	return New(e.Default, conns...)
}
