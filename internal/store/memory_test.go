package store

import (
	"context"
	"testing"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	record := map[string]any{"code": "A1", "fullName": "Jane"}
	if err := m.Set(ctx, "users/A1", record); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got map[string]any
	if err := m.Get(ctx, "users/A1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["code"] != "A1" || got["fullName"] != "Jane" {
		t.Fatalf("unexpected record: %v", got)
	}

	var tree map[string]map[string]any
	if err := m.Get(ctx, "users", &tree); err != nil {
		t.Fatalf("get tree: %v", err)
	}
	if len(tree) != 1 || tree["A1"]["code"] != "A1" {
		t.Fatalf("unexpected tree: %v", tree)
	}
}

func TestMemoryGetAbsentLeavesDestNil(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var got map[string]any
	if err := m.Get(ctx, "users/missing", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil dest for absent node, got %v", got)
	}
}

func TestMemorySetDoesNotAliasCaller(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	record := map[string]any{"code": "A1"}
	if err := m.Set(ctx, "users/A1", record); err != nil {
		t.Fatalf("set: %v", err)
	}
	record["code"] = "mutated"

	var got map[string]any
	if err := m.Get(ctx, "users/A1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["code"] != "A1" {
		t.Fatalf("stored record aliased caller memory: %v", got)
	}
}

func TestMemoryUpdateMerges(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "users/A1", map[string]any{"code": "A1", "fullName": "Jane", "level": "1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Update(ctx, "users/A1", map[string]any{"level": "2", "church": "St. Mark"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var got map[string]any
	if err := m.Get(ctx, "users/A1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["level"] != "2" {
		t.Fatalf("expected level updated, got %v", got["level"])
	}
	if got["church"] != "St. Mark" {
		t.Fatalf("expected church added, got %v", got["church"])
	}
	if got["fullName"] != "Jane" {
		t.Fatalf("expected untouched field preserved, got %v", got["fullName"])
	}
}

func TestMemoryUpdateNilDeletesKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "users/A1", map[string]any{"code": "A1", "level": "1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Update(ctx, "users/A1", map[string]any{"level": nil}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var got map[string]any
	if err := m.Get(ctx, "users/A1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := got["level"]; ok {
		t.Fatalf("expected level removed, got %v", got)
	}
}

func TestMemoryRemovePrunesEmptyAncestors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "attendance/A1/evt1", map[string]any{"status": "present"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Remove(ctx, "attendance/A1/evt1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	ok, err := m.Exists(ctx, "attendance/A1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("expected emptied parent to be pruned")
	}
	ok, err = m.Exists(ctx, "attendance")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("expected emptied root collection to be pruned")
	}
}

func TestMemoryExists(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.Exists(ctx, "users/A1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("expected absent node")
	}

	if err := m.Set(ctx, "users/A1", map[string]any{"code": "A1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err = m.Exists(ctx, "users/A1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatalf("expected node to exist")
	}
}

func TestMemorySetNilRemoves(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "users/A1", map[string]any{"code": "A1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Set(ctx, "users/A1", nil); err != nil {
		t.Fatalf("set nil: %v", err)
	}
	ok, err := m.Exists(ctx, "users/A1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("expected nil set to remove the node")
	}
}
