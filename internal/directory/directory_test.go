package directory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStatic_Resolve(t *testing.T) {
	d := NewStatic("default_client", map[string]string{"+15550009999": "vip_client"})

	id, err := d.ResolveByPhone(context.Background(), "+15550001234")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "default_client" {
		t.Errorf("id = %q", id)
	}

	id, err = d.ResolveByPhone(context.Background(), "+15550009999")
	if err != nil {
		t.Fatalf("resolve override: %v", err)
	}
	if id != "vip_client" {
		t.Errorf("override id = %q", id)
	}
}

func TestStatic_NotFound(t *testing.T) {
	if _, err := NewStatic("d", nil).ResolveByPhone(context.Background(), "  "); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("empty phone: expected ErrClientNotFound, got %v", err)
	}
	if _, err := NewStatic("", nil).ResolveByPhone(context.Background(), "+15550001234"); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("no default: expected ErrClientNotFound, got %v", err)
	}
}

// countingDirectory records how many times the backing lookup ran.
type countingDirectory struct {
	mu    sync.Mutex
	calls int
	id    string
	err   error
}

func (c *countingDirectory) ResolveByPhone(_ context.Context, _ string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.id, c.err
}

func TestCached_HitSkipsBackingLookup(t *testing.T) {
	inner := &countingDirectory{id: "client_1"}
	d := NewCached(inner, time.Minute)

	for i := 0; i < 3; i++ {
		id, err := d.ResolveByPhone(context.Background(), "+15550001234")
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if id != "client_1" {
			t.Fatalf("id = %q", id)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("backing lookups = %d, want 1", inner.calls)
	}
}

func TestCached_NegativeNotCached(t *testing.T) {
	inner := &countingDirectory{err: ErrClientNotFound}
	d := NewCached(inner, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := d.ResolveByPhone(context.Background(), "+15550001234"); !errors.Is(err, ErrClientNotFound) {
			t.Fatalf("resolve %d: expected ErrClientNotFound, got %v", i, err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("backing lookups = %d, want 2 (failures must not be cached)", inner.calls)
	}
}

func TestCached_DistinctNumbersDistinctEntries(t *testing.T) {
	inner := &countingDirectory{id: "client_1"}
	d := NewCached(inner, time.Minute)

	d.ResolveByPhone(context.Background(), "+15550001111")
	d.ResolveByPhone(context.Background(), "+15550002222")
	if inner.calls != 2 {
		t.Fatalf("backing lookups = %d, want 2", inner.calls)
	}
}
