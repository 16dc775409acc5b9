// Package leaderboard records final run scores on an append-only board and
// ranks them. Rank is dense: 1 plus the number of strictly better scores, so
// equal scores share a rank.
package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/identity"
	"github.com/deadwatch/horde/internal/persistence"
)

const (
	topTenThreshold = 10

	// DefaultPageSize is used when a page request names no size.
	DefaultPageSize = 20

	// MaxPageSize caps how many entries one page may carry.
	MaxPageSize = 100
)

// Resolver looks up the owner of a submission.
type Resolver interface {
	Get(ctx context.Context, id string) (identity.Owner, error)
}

// Service scores submissions against the board.
type Service struct {
	db     *persistence.DB
	owners Resolver
	now    func() time.Time
}

type ServiceOpt func(*Service)

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) ServiceOpt {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a leaderboard service over the given database.
func NewService(db *persistence.DB, owners Resolver, opts ...ServiceOpt) *Service {
	s := &Service{
		db:     db,
		owners: owners,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result acknowledges a scored submission.
type Result struct {
	EntryID  string
	Rank     int
	IsTopTen bool
	Message  string
}

// Entry is one ranked leaderboard row.
type Entry struct {
	ID              string
	OwnerID         string
	PlayerName      string
	Score           int
	WaveReached     int
	ZombiesKilled   int
	PlayTimeSeconds int64
	AchievedAt      time.Time
	Rank            int
}

// Page is one page of the board, best scores first.
type Page struct {
	Entries []Entry
	Page    int
	Size    int
	Total   int
}

// Standing is an owner's best result. Rank is nil until the owner has at
// least one entry.
type Standing struct {
	OwnerID      string
	PlayerName   string
	HighestScore int
	Rank         *int
	WaveReached  int
}

// Submit appends a run's final stats to the board and ranks it. The rank is
// computed fresh against everything on the board at submission time.
func (s *Service) Submit(ctx context.Context, ownerID string, sub Submission) (*Result, error) {
	if err := sub.Validate(); err != nil {
		return nil, game.Reject("invalid submission: %v", err)
	}
	if _, err := s.owners.Get(ctx, ownerID); err != nil {
		return nil, err
	}

	row := persistence.EntryRow{
		ID:              uuid.New().String(),
		OwnerID:         ownerID,
		Score:           sub.Score,
		WaveReached:     sub.WaveReached,
		ZombiesKilled:   sub.ZombiesKilled,
		PlayTimeSeconds: sub.PlayTimeSeconds,
		AchievedAt:      s.now().UnixMilli(),
	}
	if err := s.db.InsertEntry(ctx, row); err != nil {
		return nil, err
	}

	higher, err := s.db.CountHigherScores(ctx, sub.Score)
	if err != nil {
		return nil, err
	}
	rank := higher + 1

	result := &Result{
		EntryID:  row.ID,
		Rank:     rank,
		IsTopTen: rank <= topTenThreshold,
		Message:  "Score submitted successfully",
	}
	if result.IsTopTen {
		result.Message = "Congratulations! You achieved a top 10 score!"
	}

	slog.InfoContext(ctx, "score submitted",
		"entryId", row.ID, "ownerId", ownerID, "rank", rank, "topTen", result.IsTopTen)
	return result, nil
}

// Top returns one page of the board. Size is clamped to MaxPageSize and
// defaults to DefaultPageSize; negative pages read as the first.
func (s *Service) Top(ctx context.Context, page, size int) (*Page, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 0 {
		page = 0
	}

	rows, err := s.db.TopEntries(ctx, size, page*size)
	if err != nil {
		return nil, err
	}
	total, err := s.db.CountEntries(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, entryFromRow(r))
	}

	return &Page{
		Entries: entries,
		Page:    page,
		Size:    size,
		Total:   total,
	}, nil
}

// UserRank returns the owner's best entry and its current rank. Owners who
// never submitted get a zero-score placeholder with no rank.
func (s *Service) UserRank(ctx context.Context, ownerID string) (*Standing, error) {
	owner, err := s.owners.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	best, err := s.db.BestEntry(ctx, ownerID)
	if errors.Is(err, game.ErrEntryNotFound) {
		return &Standing{OwnerID: owner.ID, PlayerName: owner.Name}, nil
	}
	if err != nil {
		return nil, err
	}

	higher, err := s.db.CountHigherScores(ctx, best.Score)
	if err != nil {
		return nil, err
	}
	rank := higher + 1

	return &Standing{
		OwnerID:      owner.ID,
		PlayerName:   owner.Name,
		HighestScore: best.Score,
		Rank:         &rank,
		WaveReached:  best.WaveReached,
	}, nil
}

func entryFromRow(r persistence.EntryRow) Entry {
	return Entry{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		PlayerName:      r.PlayerName,
		Score:           r.Score,
		WaveReached:     r.WaveReached,
		ZombiesKilled:   r.ZombiesKilled,
		PlayTimeSeconds: r.PlayTimeSeconds,
		AchievedAt:      time.UnixMilli(r.AchievedAt).UTC(),
		Rank:            r.Rank,
	}
}
