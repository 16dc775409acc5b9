// Package saves persists whole game runs for later resumption. Saves are
// scoped to their owner; nobody else can read, list, or delete them.
package saves

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/identity"
	"github.com/deadwatch/horde/internal/persistence"
	"github.com/deadwatch/horde/internal/snapshot"
)

// Policy selects what happens to an owner's older saves when a new one is
// written.
type Policy string

const (
	// PolicyAppend keeps every save.
	PolicyAppend Policy = "append"

	// PolicyReplaceLatest overwrites the owner's most recent save.
	PolicyReplaceLatest Policy = "replace-latest"
)

func (p Policy) Validate() error {
	switch p {
	case PolicyAppend, PolicyReplaceLatest:
		return nil
	default:
		return fmt.Errorf("unknown save policy %q", p)
	}
}

// Resolver looks up the owner of a save.
type Resolver interface {
	Get(ctx context.Context, id string) (identity.Owner, error)
}

// Service stores and retrieves game saves.
type Service struct {
	db     *persistence.DB
	owners Resolver
	policy Policy
	now    func() time.Time
}

type ServiceOpt func(*Service)

// WithPolicy selects the retention policy for new saves.
func WithPolicy(p Policy) ServiceOpt {
	return func(s *Service) {
		s.policy = p
	}
}

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) ServiceOpt {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a save service over the given database.
func NewService(db *persistence.DB, owners Resolver, opts ...ServiceOpt) *Service {
	s := &Service{
		db:     db,
		owners: owners,
		policy: PolicyAppend,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Receipt acknowledges a stored save.
type Receipt struct {
	SaveID  string
	SavedAt time.Time
}

// Summary describes a stored save without its state document.
type Summary struct {
	ID          string
	WaveReached int
	Score       int
	SavedAt     time.Time
}

// Save serializes and stores a run for the owner. The in-memory state is
// never mutated; a state that cannot be serialized leaves storage untouched.
func (s *Service) Save(ctx context.Context, ownerID string, st *game.GameState) (*Receipt, error) {
	if _, err := s.owners.Get(ctx, ownerID); err != nil {
		return nil, err
	}

	doc, err := snapshot.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("serializing game state: %w", err)
	}

	wave := st.Wave.CurrentWave
	if wave < 1 {
		wave = 1
	}

	row := persistence.SaveRow{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		StateJSON:   string(doc),
		WaveReached: wave,
		Score:       st.Score,
		SavedAt:     s.now().UnixMilli(),
	}

	switch s.policy {
	case PolicyReplaceLatest:
		err = s.db.ReplaceLatestSave(ctx, row)
	default:
		err = s.db.InsertSave(ctx, row)
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "game saved", "saveId", row.ID, "ownerId", ownerID, "wave", wave)
	return &Receipt{
		SaveID:  row.ID,
		SavedAt: time.UnixMilli(row.SavedAt).UTC(),
	}, nil
}

// Load retrieves a stored run. A save belonging to someone else reads the
// same as a missing one.
func (s *Service) Load(ctx context.Context, saveID, ownerID string) (*game.GameState, error) {
	if _, err := s.owners.Get(ctx, ownerID); err != nil {
		return nil, err
	}

	row, err := s.db.GetSave(ctx, saveID, ownerID)
	if err != nil {
		return nil, err
	}

	st, err := snapshot.Unmarshal([]byte(row.StateJSON))
	if err != nil {
		return nil, fmt.Errorf("decoding save %s: %w", saveID, err)
	}
	return st, nil
}

// List returns the owner's saves, most recent first. An unknown owner simply
// has no saves.
func (s *Service) List(ctx context.Context, ownerID string) ([]Summary, error) {
	rows, err := s.db.ListSaves(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, Summary{
			ID:          r.ID,
			WaveReached: r.WaveReached,
			Score:       r.Score,
			SavedAt:     time.UnixMilli(r.SavedAt).UTC(),
		})
	}
	return summaries, nil
}

// Delete removes one of the owner's saves.
func (s *Service) Delete(ctx context.Context, saveID, ownerID string) error {
	if _, err := s.owners.Get(ctx, ownerID); err != nil {
		return err
	}
	if err := s.db.DeleteSave(ctx, saveID, ownerID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "save deleted", "saveId", saveID, "ownerId", ownerID)
	return nil
}
