package sharedstore

import (
	"context"
	"encoding/json"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

func TestMemStoreReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if err := store.Read(ctx, "missing", &record{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Write(ctx, "g1", record{Name: "Ana", Total: 3}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got record
	if err := store.Read(ctx, "g1", &got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Name != "Ana" || got.Total != 3 {
		t.Fatalf("unexpected record %+v", got)
	}

	if err := store.Delete(ctx, "g1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Read(ctx, "g1", &got); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemStoreSubscribeDeliversInWriteOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	var seen []string
	unsubscribe, err := store.Subscribe(ctx, "g1", func(raw json.RawMessage) {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			t.Fatalf("unmarshal snapshot: %v", err)
		}
		seen = append(seen, r.Name)
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	for _, name := range []string{"Ana", "Bruno", "Carla"} {
		if err := store.Write(ctx, "g1", record{Name: name}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	if len(seen) != 3 || seen[0] != "Ana" || seen[1] != "Bruno" || seen[2] != "Carla" {
		t.Fatalf("snapshots out of order: %v", seen)
	}

	unsubscribe()
	if err := store.Write(ctx, "g1", record{Name: "Diego"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("unsubscribed handler still invoked: %v", seen)
	}
}

func TestMemStoreSubscribeDeliversCurrentRecordFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if err := store.Write(ctx, "g1", record{Name: "Ana"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var seen []string
	if _, err := store.Subscribe(ctx, "g1", func(raw json.RawMessage) {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			t.Fatalf("unmarshal snapshot: %v", err)
		}
		seen = append(seen, r.Name)
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if len(seen) != 1 || seen[0] != "Ana" {
		t.Fatalf("expected existing record delivered on subscribe, got %v", seen)
	}

	if err := store.Write(ctx, "g1", record{Name: "Bruno"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if len(seen) != 2 || seen[1] != "Bruno" {
		t.Fatalf("expected write after initial delivery, got %v", seen)
	}
}

func TestMemStoreSubscribeScopedToPath(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	calls := 0
	if _, err := store.Subscribe(ctx, "g1", func(json.RawMessage) { calls++ }); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := store.Write(ctx, "g2", record{Name: "Ana"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("snapshot leaked across paths")
	}
}

func TestMemStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	_ = store.Write(ctx, "g1", record{})
	_ = store.Write(ctx, "g2", record{})

	paths, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}
}
