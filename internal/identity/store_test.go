package identity

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/persistence"
)

func testStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()

	db, err := persistence.Open(filepath.Join(t.TempDir(), "horde.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &fakeClock{at: time.UnixMilli(1700000000000).UTC()}
	return NewStore(db, WithClock(clock.Now)), clock
}

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.at
}

func (c *fakeClock) advance(d time.Duration) {
	c.at = c.at.Add(d)
}

func TestCreate_RoundTrip(t *testing.T) {
	store, clock := testStore(t)
	ctx := context.Background()

	owner, err := store.Create(ctx, "  alice  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name trimmed", owner.Name, "alice")
	testutil.AssertEqual(t, "createdAt", owner.CreatedAt, clock.Now())
	if owner.ID == "" {
		t.Error("expected a generated id")
	}

	got, err := store.Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "owner", got, owner)
}

func TestCreate_RejectsBadNames(t *testing.T) {
	store, _ := testStore(t)

	tests := map[string]struct {
		name string
		err  string
	}{
		"empty":      {name: "", err: "player name must be set"},
		"whitespace": {name: "   ", err: "player name must be set"},
		"too long":   {name: strings.Repeat("a", 51), err: "50 characters or fewer"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := store.Create(context.Background(), tt.name)
			testutil.AssertErrorContains(t, err, tt.err)
			if !game.IsRejection(err) {
				t.Errorf("expected a rejection, got %v", err)
			}
		})
	}
}

func TestGet_Missing(t *testing.T) {
	store, _ := testStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, game.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestTouch(t *testing.T) {
	store, clock := testStore(t)
	ctx := context.Background()

	owner, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(42 * time.Second)
	if err := store.Touch(ctx, owner.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "lastSeenAt", got.LastSeenAt, clock.Now())
	testutil.AssertEqual(t, "createdAt unchanged", got.CreatedAt, owner.CreatedAt)

	err = store.Touch(ctx, "missing")
	if !errors.Is(err, game.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}
