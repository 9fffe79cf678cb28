// Package record 是筛选下游聚合阶段的记录存储：以主字段为键累积分子记录。
// 它替代了“模块级全局累积 map”的做法——存储对象显式创建、显式传递，
// 键冲突时的合并语义有明确定义且可测试。
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rushteam/screenkit/core"
)

// Record 是一条分子记录：主字段为键，属性与见到次数随筛选推进累积。
type Record struct {
	Key        string             `json:"key"`
	SMILES     string             `json:"smiles"`
	Sightings  int64              `json:"sightings"`
	Properties map[string]float64 `json:"properties,omitempty"`
}

// Merge 定义键冲突时的合并语义：Sightings 相加，
// Properties 做并集且传入值按键覆盖已有值。SMILES 保留已有记录的写法。
func (r *Record) Merge(in *Record) {
	if in == nil {
		return
	}
	r.Sightings += in.Sightings
	if len(in.Properties) == 0 {
		return
	}
	if r.Properties == nil {
		r.Properties = make(map[string]float64, len(in.Properties))
	}
	for k, v := range in.Properties {
		r.Properties[k] = v
	}
}

// Store 是显式传递的记录存储，落地到任意 core.Store 实现（memory / redis）。
// 记录以 JSON 序列化，键带 prefix 作命名空间。
type Store struct {
	kv     core.Store
	prefix string
}

// NewStore 创建记录存储。prefix 为空时使用 "record"。
func NewStore(kv core.Store, prefix string) *Store {
	if prefix == "" {
		prefix = "record"
	}
	return &Store{kv: kv, prefix: prefix}
}

func (s *Store) key(k string) string { return s.prefix + ":" + k }

// Get 读取一条记录；不存在时返回 core.ErrStoreNotFound。
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.kv.Get(ctx, s.key(key))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %q: %w", key, err)
	}
	return &rec, nil
}

// Put 写入一条记录；键已存在时按 Merge 语义合并后写回。
func (s *Store) Put(ctx context.Context, rec *Record) error {
	if rec == nil || rec.Key == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "record: empty key")
	}
	existing, err := s.Get(ctx, rec.Key)
	switch {
	case err == nil:
		existing.Merge(rec)
		rec = existing
	case errors.Is(err, core.ErrStoreNotFound):
		// 新键，直接写入
	default:
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", rec.Key, err)
	}
	return s.kv.Set(ctx, s.key(rec.Key), data)
}

// PutOutcome 把一个 Outcome 中接受的候选逐条记入存储（每条 Sightings 计 1）。
// 用于把筛选输出直接接入聚合阶段。
func (s *Store) PutOutcome(ctx context.Context, out *core.Outcome) error {
	if out == nil {
		return nil
	}
	for _, cand := range out.Accepted {
		rec := &Record{Key: cand.SMILES, SMILES: cand.SMILES, Sightings: 1}
		if err := s.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
