package job

import (
	"testing"
	"time"

	"github.com/quantkit/crossbt/internal/core"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(10, time.Hour)

	created := store.Create()
	if created.ID == "" {
		t.Fatal("expected non-empty job ID")
	}
	if created.Status != StatusPending {
		t.Errorf("Status = %v, want pending", created.Status)
	}

	got := store.Get(created.ID)
	if got == nil || got.ID != created.ID {
		t.Fatalf("Get() = %+v, want job %s", got, created.ID)
	}
}

func TestStore_Lifecycle(t *testing.T) {
	store := NewStore(10, time.Hour)
	id := store.Create().ID

	store.SetRunning(id)
	if got := store.Get(id); got.Status != StatusRunning {
		t.Errorf("Status = %v, want running", got.Status)
	}

	store.Complete(id, map[string]any{"total_return": 0.1})
	got := store.Get(id)
	if got.Status != StatusComplete || got.Result == nil {
		t.Errorf("job = %+v, want complete with result", got)
	}
}

func TestStore_Fail(t *testing.T) {
	store := NewStore(10, time.Hour)
	id := store.Create().ID

	store.Fail(id, core.ErrNoData)
	got := store.Get(id)
	if got.Status != StatusFailed || got.Error == nil {
		t.Errorf("job = %+v, want failed with error", got)
	}
	if got.Error.Code != "NO_DATA" {
		t.Errorf("Error.Code = %s, want NO_DATA", got.Error.Code)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(10, time.Hour)
	if got := store.Get("nope"); got != nil {
		t.Errorf("Get(unknown) = %+v, want nil", got)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	store := NewStore(10, time.Millisecond)
	id := store.Create().ID

	time.Sleep(5 * time.Millisecond)
	if got := store.Get(id); got != nil {
		t.Errorf("Get(expired) = %+v, want nil", got)
	}
}

func TestStore_Eviction(t *testing.T) {
	store := NewStore(2, time.Hour)

	first := store.Create().ID
	store.Create()
	store.Create() // evicts first

	if got := store.Get(first); got != nil {
		t.Errorf("Get(evicted) = %+v, want nil", got)
	}
}
