package storage_test

import (
	"context"
	"testing"

	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

func TestScopedKVIsolatesClients(t *testing.T) {
	ctx := context.Background()
	base := storage.NewMemoryKV()
	a := storage.Scoped(base, "a")
	b := storage.Scoped(base, "b")

	if err := a.Set(ctx, storage.KeyIdentity, "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, storage.KeyIdentity); ok {
		t.Fatalf("client b must not see client a's keys")
	}
	v, ok, err := a.Get(ctx, storage.KeyIdentity)
	if err != nil || !ok || v != "alice" {
		t.Fatalf("expected alice, got %q ok=%v err=%v", v, ok, err)
	}
	raw, ok, _ := base.Get(ctx, "client:a:"+storage.KeyIdentity)
	if !ok || raw != "alice" {
		t.Fatalf("expected prefixed key in backing store, got %q", raw)
	}
}

func TestMemoryKVDelete(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Set(ctx, "k", "v")
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be gone")
	}
	// deleting a missing key is not an error
	if err := kv.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
