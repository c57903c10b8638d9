package archive

import (
	"context"
	"testing"
	"time"
)

func TestLocalFS_WriteReadList(t *testing.T) {
	store, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}
	ctx := context.Background()

	key := ResultKey("AAPL", time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC))
	payload := []byte(`{"total_return":0.12}`)

	if err := store.Write(ctx, key, payload); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Read() = %s, want %s", got, payload)
	}

	keys, err := store.List(ctx, "results/AAPL")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("List() = %v, want [%s]", keys, key)
	}
}

func TestLocalFS_DeleteAndExists(t *testing.T) {
	store, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}
	ctx := context.Background()

	key := "results/AAPL/one.json"
	if err := store.Write(ctx, key, []byte("{}")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists() = %v, %v, want true", ok, err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	ok, err = store.Exists(ctx, key)
	if err != nil || ok {
		t.Errorf("Exists() after delete = %v, %v, want false", ok, err)
	}
}

func TestLocalFS_ListMissingPrefix(t *testing.T) {
	store, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}

	keys, err := store.List(context.Background(), "results/NOPE")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() = %v, want empty", keys)
	}
}

func TestLocalFS_ReadMissingKey(t *testing.T) {
	store, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}

	if _, err := store.Read(context.Background(), "results/NOPE/x.json"); err == nil {
		t.Error("expected error reading missing key")
	}
}

func TestResultKey(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	got := ResultKey("MSFT", at)
	want := "results/MSFT/20240601T123000Z.json"
	if got != want {
		t.Errorf("ResultKey() = %s, want %s", got, want)
	}
}
