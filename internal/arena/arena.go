// Package arena hosts live runs server-side. It turns semantic player
// actions into simulation changes, drives every session from the shared
// tick loop, and settles finished runs against the leaderboard.
package arena

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/gameover"
	"github.com/deadwatch/horde/internal/leaderboard"
	"github.com/deadwatch/horde/internal/saves"
	"github.com/deadwatch/horde/internal/storage"
	"github.com/deadwatch/horde/internal/wave"
	"github.com/deadwatch/horde/internal/weapon"
	"github.com/deadwatch/horde/internal/zombie"
)

// DefaultIdleTimeout is how long a session may go without input before it
// is ended.
const DefaultIdleTimeout = 90 * time.Second

// Recorder settles finished runs against the board.
type Recorder interface {
	Submit(ctx context.Context, ownerID string, sub leaderboard.Submission) (*leaderboard.Result, error)
	UserRank(ctx context.Context, ownerID string) (*leaderboard.Standing, error)
}

// Saver stores run snapshots.
type Saver interface {
	Save(ctx context.Context, ownerID string, st *game.GameState) (*saves.Receipt, error)
}

// Publisher delivers display text to players.
type Publisher interface {
	SendToPlayer(id string, msg string)
}

// Arena manages every live session. Owner ids arrive already resolved;
// the arena keys sessions by them and enforces one live run per owner.
type Arena struct {
	mu       sync.Mutex
	sessions map[string]*Session

	weapons  storage.Catalog[*weapon.Config]
	variants storage.Catalog[*zombie.Config]
	board    Recorder
	saver    Saver
	pub      Publisher

	loadout     []string
	waveCfg     wave.Config
	idleTimeout time.Duration
	now         func() time.Time
}

type ArenaOpt func(*Arena)

// WithClock overrides the arena's time source.
func WithClock(now func() time.Time) ArenaOpt {
	return func(a *Arena) {
		a.now = now
	}
}

// WithLoadout sets the starting weapons for new runs.
func WithLoadout(ids []string) ArenaOpt {
	return func(a *Arena) {
		a.loadout = ids
	}
}

// WithWaveConfig sets the wave pacing for new runs.
func WithWaveConfig(cfg wave.Config) ArenaOpt {
	return func(a *Arena) {
		a.waveCfg = cfg
	}
}

// WithIdleTimeout sets how long a session may go without input. Zero
// disables the timeout.
func WithIdleTimeout(d time.Duration) ArenaOpt {
	return func(a *Arena) {
		a.idleTimeout = d
	}
}

func NewArena(weapons storage.Catalog[*weapon.Config], variants storage.Catalog[*zombie.Config], board Recorder, saver Saver, pub Publisher, opts ...ArenaOpt) (*Arena, error) {
	a := &Arena{
		sessions:    map[string]*Session{},
		weapons:     weapons,
		variants:    variants,
		board:       board,
		saver:       saver,
		pub:         pub,
		loadout:     []string{"pistol", "knife"},
		waveCfg:     wave.DefaultConfig(),
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	// Spawning picks variants by rotation, so every one has to resolve.
	for _, v := range game.Variants() {
		if a.variants.Get(string(v)) == nil {
			return nil, fmt.Errorf("variant catalog is missing %q", v)
		}
	}

	return a, nil
}

// StartRun opens a fresh session for the owner.
func (a *Arena) StartRun(ctx context.Context, ownerID string) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, live := a.sessions[ownerID]; live {
		return nil, game.Reject("a run is already live")
	}

	s, err := a.newSession(ownerID)
	if err != nil {
		return nil, err
	}
	a.sessions[ownerID] = s

	slog.InfoContext(ctx, "run started", "sessionId", s.id, "ownerId", ownerID)
	return s, nil
}

// ResumeRun opens a session primed from a saved state.
func (a *Arena) ResumeRun(ctx context.Context, ownerID string, st *game.GameState) (*Session, error) {
	if st == nil {
		return nil, game.Reject("nil game state")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, live := a.sessions[ownerID]; live {
		return nil, game.Reject("a run is already live")
	}

	s, err := a.newSession(ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.restore(st, a.weapons); err != nil {
		return nil, err
	}
	a.sessions[ownerID] = s

	slog.InfoContext(ctx, "run resumed", "sessionId", s.id, "ownerId", ownerID, "wave", st.Wave.CurrentWave)
	return s, nil
}

func (a *Arena) newSession(ownerID string) (*Session, error) {
	s, err := newSession(ownerID, a.weapons, a.variants, a.loadout, a.waveCfg, a.now)
	if err != nil {
		return nil, err
	}
	s.idleLimit = a.idleTimeout
	return s, nil
}

// liveSession locates the owner's session and rejects actions on a run
// that has already ended but not yet been swept.
func (a *Arena) liveSession(ownerID string) (*Session, error) {
	s, ok := a.sessions[ownerID]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	if s.over.IsOver() {
		return nil, game.Reject("run is over")
	}
	return s, nil
}

// Move repositions the owner's player.
func (a *Arena) Move(ownerID string, pos, rot game.Vector3) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.liveSession(ownerID)
	if err != nil {
		return err
	}

	s.lastInput = a.now()
	s.move(pos, rot)
	return nil
}

// Fire pulls the trigger toward dir. The second return is false when the
// active weapon refused to fire.
func (a *Arena) Fire(ownerID string, dir game.Vector3) (*weapon.FireResult, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.liveSession(ownerID)
	if err != nil {
		return nil, false, err
	}

	s.lastInput = a.now()
	res, ok := s.fire(dir)
	return res, ok, nil
}

// Reload starts a reload on the owner's active weapon.
func (a *Arena) Reload(ownerID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.liveSession(ownerID)
	if err != nil {
		return false, err
	}

	s.lastInput = a.now()
	return s.weapons.Reload(), nil
}

// SwitchSlot makes the given weapon slot active.
func (a *Arena) SwitchSlot(ownerID string, slot int) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.liveSession(ownerID)
	if err != nil {
		return false, err
	}

	s.lastInput = a.now()
	return s.weapons.SwitchToSlot(slot), nil
}

// CycleWeapon steps the active slot forward, or backward when backward is
// set.
func (a *Arena) CycleWeapon(ownerID string, backward bool) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.liveSession(ownerID)
	if err != nil {
		return false, err
	}

	s.lastInput = a.now()
	if backward {
		return s.weapons.CyclePrevious(), nil
	}
	return s.weapons.CycleNext(), nil
}

// Quit ends the owner's run on purpose. The next tick settles it.
func (a *Arena) Quit(ownerID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[ownerID]
	if !ok {
		return game.ErrSessionNotFound
	}

	s.finish(gameover.ReasonQuit)
	return nil
}

// State snapshots the owner's run.
func (a *Arena) State(ownerID string) (*game.GameState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[ownerID]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	return s.Snapshot(), nil
}

// SaveRun snapshots the owner's run and stores it without disturbing
// play.
func (a *Arena) SaveRun(ctx context.Context, ownerID string) (*saves.Receipt, error) {
	a.mu.Lock()
	s, err := a.liveSession(ownerID)
	if err != nil {
		a.mu.Unlock()
		return nil, err
	}
	s.lastInput = a.now()
	st := s.Snapshot()
	a.mu.Unlock()

	// The store write happens outside the lock so a slow disk cannot
	// stall the tick loop.
	return a.saver.Save(ctx, ownerID, st)
}

// Tick advances every live session and settles the ones that ended.
func (a *Arena) Tick(ctx context.Context) error {
	a.mu.Lock()

	now := a.now()
	var finished []*Session
	for owner, s := range a.sessions {
		dt := now.Sub(s.lastTick)
		s.lastTick = now
		s.tick(dt)

		if s.over.IsOver() {
			delete(a.sessions, owner)
			finished = append(finished, s)
		}
	}
	a.mu.Unlock()

	for _, s := range finished {
		a.settle(ctx, s)
	}
	return nil
}

// settle submits a finished run to the board and tells the player how it
// went. The baseline for high-score detection is read before the submit
// so the run cannot beat itself.
func (a *Arena) settle(ctx context.Context, s *Session) {
	stats, _ := s.over.Stats()

	baseline := 0
	if standing, err := a.board.UserRank(ctx, s.ownerID); err == nil {
		baseline = standing.HighestScore
	} else {
		slog.ErrorContext(ctx, "reading standing before submit", "ownerId", s.ownerID, "error", err)
	}

	res, err := a.board.Submit(ctx, s.ownerID, leaderboard.Submission{
		Score:           stats.FinalScore,
		WaveReached:     stats.WaveReached,
		ZombiesKilled:   stats.ZombiesKilled,
		PlayTimeSeconds: stats.PlayTime,
	})
	if err != nil {
		slog.ErrorContext(ctx, "submitting run", "ownerId", s.ownerID, "error", err)
	}

	summary, err := s.over.Summarize(baseline)
	if err != nil {
		slog.ErrorContext(ctx, "summarizing run", "sessionId", s.id, "error", err)
		return
	}

	msg := summary.Message
	if res != nil && res.IsTopTen {
		msg += "\n" + res.Message
	}
	a.pub.SendToPlayer(s.ownerID, msg)

	slog.InfoContext(ctx, "run settled", "sessionId", s.id, "ownerId", s.ownerID,
		"score", stats.FinalScore, "wave", stats.WaveReached, "reason", string(stats.Reason))
}
