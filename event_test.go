package eventbus

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestNewBaseStampsWithClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	prev := SetClock(mock)
	defer SetClock(prev)

	b := NewBase()
	if !b.OccurredAt().Equal(mock.Now()) {
		t.Errorf("OccurredAt = %v, want %v", b.OccurredAt(), mock.Now())
	}

	mock.Add(time.Second)
	b2 := NewBase()
	if !b2.OccurredAt().After(b.OccurredAt()) {
		t.Error("expected later Base to carry a later timestamp")
	}
}

func TestNewBaseAt(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NewBaseAt(at).OccurredAt(); !got.Equal(at) {
		t.Errorf("OccurredAt = %v, want %v", got, at)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestTypeString(t *testing.T) {
	if got := Type("user.logged_in").String(); got != "user.logged_in" {
		t.Errorf("String() = %q", got)
	}
}
