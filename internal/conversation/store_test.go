package conversation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_CreateGetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	conv := New("conv_1")
	conv.Messages = append(conv.Messages, Message{Role: RoleScammer, Content: "hello", Timestamp: time.Now().UTC()})
	conv.TurnCount = 1

	if err := store.Create(ctx, conv); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := store.Get(ctx, "conv_1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.TurnCount != 1 || len(got.Messages) != 1 {
		t.Fatalf("unexpected stored state: %+v", got)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Create(ctx, New("conv_1")); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
	if err := store.Create(ctx, New("conv_1")); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemoryStore_AppendMissing(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Append(context.Background(), New("ghost")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	conv := New("conv_1")
	if err := store.Create(ctx, conv); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	first, _ := store.Get(ctx, "conv_1")
	first.TurnCount = 99
	first.Messages = append(first.Messages, Message{Role: RoleScammer, Content: "mutated"})

	second, _ := store.Get(ctx, "conv_1")
	if second.TurnCount != 0 || len(second.Messages) != 0 {
		t.Fatal("mutating a returned conversation leaked into the store")
	}
}

func TestMemoryStore_ListOrderedByStartTime(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	older := New("conv_b")
	older.StartTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := New("conv_a")
	newer.StartTime = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newer); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, older); err != nil {
		t.Fatal(err)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ConversationID != "conv_b" || items[1].ConversationID != "conv_a" {
		t.Fatalf("expected oldest first, got %+v", items)
	}
}
