// Package identity maps opaque player ids to profile records. The transport
// is trusted to have authenticated the caller; no credentials live here.
package identity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/persistence"
)

const maxNameLength = 50

// Owner is a player profile.
type Owner struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Store manages player profiles.
type Store struct {
	db  *persistence.DB
	now func() time.Time
}

type StoreOpt func(*Store)

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) StoreOpt {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a profile store over the given database.
func NewStore(db *persistence.DB, opts ...StoreOpt) *Store {
	s := &Store{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new player under a fresh id.
func (s *Store) Create(ctx context.Context, name string) (Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Owner{}, game.Reject("player name must be set")
	}
	if len(name) > maxNameLength {
		return Owner{}, game.Reject("player name must be %d characters or fewer", maxNameLength)
	}

	at := s.now()
	row := persistence.PlayerRow{
		ID:         uuid.New().String(),
		Name:       name,
		CreatedAt:  at.UnixMilli(),
		LastSeenAt: at.UnixMilli(),
	}
	if err := s.db.InsertPlayer(ctx, row); err != nil {
		return Owner{}, err
	}

	slog.InfoContext(ctx, "player created", "playerId", row.ID, "name", name)
	return ownerFromRow(row), nil
}

// Get looks up a player by id.
func (s *Store) Get(ctx context.Context, id string) (Owner, error) {
	row, err := s.db.GetPlayer(ctx, id)
	if err != nil {
		return Owner{}, err
	}
	return ownerFromRow(row), nil
}

// Touch records player activity.
func (s *Store) Touch(ctx context.Context, id string) error {
	return s.db.TouchPlayer(ctx, id, s.now().UnixMilli())
}

func ownerFromRow(row persistence.PlayerRow) Owner {
	return Owner{
		ID:         row.ID,
		Name:       row.Name,
		CreatedAt:  time.UnixMilli(row.CreatedAt).UTC(),
		LastSeenAt: time.UnixMilli(row.LastSeenAt).UTC(),
	}
}
