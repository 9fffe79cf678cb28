package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/screenkit/core"
)

func TestMemoryStore_BasicOps(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if ms.Name() != "memory" {
		t.Errorf("Name() = %q", ms.Name())
	}

	if _, err := ms.Get(ctx, "k"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get missing key error = %v, want ErrStoreNotFound", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set error = %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v, want v", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error = %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStore_BatchOps(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := ms.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet error = %v", err)
	}

	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet error = %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	// 负 TTL 视为不过期
	if err := ms.Set(ctx, "keep", []byte("v"), -1); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get(ctx, "keep"); err != nil {
		t.Errorf("Get with non-positive ttl error = %v", err)
	}

	// 手动把过期时间拨到过去，验证读路径的惰性过期
	if err := ms.Set(ctx, "gone", []byte("v"), 3600); err != nil {
		t.Fatal(err)
	}
	ms.mu.Lock()
	past := time.Now().Add(-time.Hour)
	ms.data["gone"].ttl = &past
	ms.mu.Unlock()
	if _, err := ms.Get(ctx, "gone"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get expired key error = %v, want ErrStoreNotFound", err)
	}
}
