package core

import "context"

// Store 是字节值 KV 存储抽象，供聚合阶段的记录存储（record 包）落地使用。
// 实现见 store 包（memory / redis）。键不存在时 Get 返回 ErrStoreNotFound。
type Store interface {
	Name() string

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl ...int) error
	Delete(ctx context.Context, key string) error

	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	Close() error
}
