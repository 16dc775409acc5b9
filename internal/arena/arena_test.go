package arena

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/leaderboard"
	"github.com/deadwatch/horde/internal/saves"
	"github.com/deadwatch/horde/internal/storage"
	"github.com/deadwatch/horde/internal/wave"
	"github.com/deadwatch/horde/internal/weapon"
	"github.com/deadwatch/horde/internal/zombie"
)

type fakeClock struct {
	at time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{at: time.UnixMilli(1700000000000).UTC()}
}

func (c *fakeClock) now() time.Time {
	return c.at
}

func (c *fakeClock) advance(d time.Duration) {
	c.at = c.at.Add(d)
}

// fakeBoard records submissions and answers standings from canned values.
type fakeBoard struct {
	subs     []leaderboard.Submission
	standing leaderboard.Standing
	topTen   bool
}

func (b *fakeBoard) Submit(_ context.Context, _ string, sub leaderboard.Submission) (*leaderboard.Result, error) {
	b.subs = append(b.subs, sub)

	res := &leaderboard.Result{EntryID: "entry-1", Rank: 1, Message: "Score submitted successfully"}
	if b.topTen {
		res.IsTopTen = true
		res.Message = "Congratulations! You achieved a top 10 score!"
	}
	return res, nil
}

func (b *fakeBoard) UserRank(_ context.Context, _ string) (*leaderboard.Standing, error) {
	st := b.standing
	return &st, nil
}

type fakeSaver struct {
	states []*game.GameState
}

func (f *fakeSaver) Save(_ context.Context, _ string, st *game.GameState) (*saves.Receipt, error) {
	f.states = append(f.states, st)
	return &saves.Receipt{SaveID: "save-1", SavedAt: time.UnixMilli(st.Timestamp).UTC()}, nil
}

type fakePublisher struct {
	msgs map[string][]string
}

func (p *fakePublisher) SendToPlayer(id string, msg string) {
	p.msgs[id] = append(p.msgs[id], msg)
}

// testArena wires an arena to fakes and a short wave cadence. Later opts
// win, so callers can override anything set here.
func testArena(t *testing.T, opts ...ArenaOpt) (*Arena, *fakeClock, *fakeBoard, *fakeSaver, *fakePublisher) {
	t.Helper()

	weapons, err := storage.NewFileCatalog("", weapon.Builtins())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	variants, err := storage.NewFileCatalog("", zombie.Builtins())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock := newFakeClock()
	board := &fakeBoard{}
	saver := &fakeSaver{}
	pub := &fakePublisher{msgs: map[string][]string{}}

	cfg := wave.Config{
		PrepTime:          2 * time.Second,
		BasePopulation:    1,
		PopulationPerWave: 1,
		MaxPopulation:     10,
	}
	opts = append([]ArenaOpt{WithClock(clock.now), WithWaveConfig(cfg)}, opts...)

	a, err := NewArena(weapons, variants, board, saver, pub, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a, clock, board, saver, pub
}

// combatState builds a valid mid-combat snapshot for resume tests.
func combatState(zombies []game.ZombieState) *game.GameState {
	alive := 0
	for _, z := range zombies {
		if z.State != game.BehaviorDead {
			alive++
		}
	}

	return &game.GameState{
		Player: game.PlayerState{
			Health:  100,
			Stamina: 100,
			Weapons: []game.WeaponState{
				{ID: "pistol", CurrentAmmo: 12, ReserveAmmo: 96},
				{ID: "knife", CurrentAmmo: 1, ReserveAmmo: 0},
			},
		},
		Wave: game.WaveState{
			CurrentWave:        2,
			ZombiesKilled:      0,
			TotalZombiesInWave: alive + 8,
		},
		Zombies:   zombies,
		Score:     300,
		PlayTime:  60,
		Timestamp: 1700000000000,
	}
}

func TestStartRun(t *testing.T) {
	a, _, _, _, _ := testArena(t)
	ctx := context.Background()

	s, err := a.StartRun(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "owner", s.OwnerID(), "p1")
	if s.ID() == "" {
		t.Error("session id not set")
	}

	st, err := a.State("p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "wave", st.Wave.CurrentWave, 1)
	testutil.AssertEqual(t, "preparing", st.Wave.IsPreparationPhase, true)
	testutil.AssertEqual(t, "health", st.Player.Health, 100)
	testutil.AssertEqual(t, "stamina", st.Player.Stamina, 100)
	testutil.AssertEqual(t, "weapons", len(st.Player.Weapons), 2)
	testutil.AssertEqual(t, "active slot", st.Player.CurrentWeaponIndex, 0)
	testutil.AssertEqual(t, "score", st.Score, 0)
	testutil.AssertEqual(t, "zombies", len(st.Zombies), 0)

	_, err = a.StartRun(ctx, "p1")
	if !game.IsRejection(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	testutil.AssertErrorContains(t, err, "already live")

	_, err = a.State("ghost")
	if !errors.Is(err, game.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTick_PrepCountdownThenBatchedSpawns(t *testing.T) {
	a, clock, _, _, _ := testArena(t, WithWaveConfig(wave.Config{
		PrepTime:          2 * time.Second,
		BasePopulation:    5,
		PopulationPerWave: 0,
		MaxPopulation:     5,
	}))
	ctx := context.Background()

	if _, err := a.StartRun(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(time.Second)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := a.State("p1")
	testutil.AssertEqual(t, "still preparing", st.Wave.IsPreparationPhase, true)
	testutil.AssertEqual(t, "no spawns in prep", len(st.Zombies), 0)

	// Prep elapses; the budget opens at two spawns per tick.
	counts := []int{2, 4, 5, 5}
	for i, want := range counts {
		clock.advance(time.Second)
		if err := a.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		st, _ = a.State("p1")
		testutil.AssertEqual(t, "zombies after tick", len(st.Zombies), want)
		if i == 0 {
			testutil.AssertEqual(t, "combat phase", st.Wave.IsPreparationPhase, false)
		}
	}

	for _, z := range st.Zombies {
		testutil.AssertEqual(t, "first wave variant", z.Variant, game.VariantWalker)
		dist := z.Position.Sub(st.Player.Position).Length()
		if dist < 5 || dist > spawnRadius+0.1 {
			t.Errorf("zombie %s spawned %v away", z.ID, dist)
		}
	}
}

func TestFire_KillScoresAndRollsTheWave(t *testing.T) {
	a, clock, _, _, _ := testArena(t)
	ctx := context.Background()

	if _, err := a.StartRun(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(2 * time.Second)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := a.State("p1")
	if len(st.Zombies) != 1 {
		t.Fatalf("expected 1 zombie on the field, got %d", len(st.Zombies))
	}

	target := st.Zombies[0]
	dir := target.Position.Sub(st.Player.Position)

	// The walker takes four pistol rounds.
	for i := 0; i < 4; i++ {
		res, ok, err := a.Fire("p1", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("shot %d refused", i)
		}
		if len(res.Hits) != 1 {
			t.Fatalf("shot %d recorded %d hits, want 1", i, len(res.Hits))
		}
		testutil.AssertEqual(t, "hit", res.Hits[0], weapon.Hit{TargetID: target.ID, Damage: 25})
		testutil.AssertEqual(t, "ammo left", res.AmmoLeft, 11-i)
		clock.advance(400 * time.Millisecond)
	}

	st, _ = a.State("p1")
	testutil.AssertEqual(t, "kill plus completion bonus", st.Score, 600)
	testutil.AssertEqual(t, "next wave", st.Wave.CurrentWave, 2)
	testutil.AssertEqual(t, "back in prep", st.Wave.IsPreparationPhase, true)
	testutil.AssertEqual(t, "field cleared", len(st.Zombies), 0)
	testutil.AssertEqual(t, "next wave population", st.Wave.TotalZombiesInWave, 2)
}

func TestFire_MissLeavesZombieStanding(t *testing.T) {
	a, clock, _, _, _ := testArena(t)
	ctx := context.Background()

	if _, err := a.StartRun(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.advance(2 * time.Second)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, _ := a.State("p1")
	target := st.Zombies[0]
	away := st.Player.Position.Sub(target.Position) // aim the other way

	res, ok, err := a.Fire("p1", away)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "fired", ok, true)
	testutil.AssertEqual(t, "hits", len(res.Hits), 0)
	testutil.AssertEqual(t, "damage", res.Damage, 0)
	testutil.AssertEqual(t, "ammo spent anyway", res.AmmoLeft, 11)

	st, _ = a.State("p1")
	testutil.AssertEqual(t, "zombie health", st.Zombies[0].Health, 100)
	testutil.AssertEqual(t, "score", st.Score, 0)
}

func TestResumeRun_RestoresState(t *testing.T) {
	a, _, _, _, _ := testArena(t)
	ctx := context.Background()

	st := combatState([]game.ZombieState{
		{ID: "z-1", Position: game.Vector3{X: 10}, Health: 120, State: game.BehaviorChasing, Variant: game.VariantBrute},
		{ID: "z-2", Position: game.Vector3{X: -4}, Health: 0, State: game.BehaviorDead, Variant: game.VariantWalker},
	})
	st.Player.Position = game.Vector3{X: 1, Z: -2}
	st.Player.Rotation = game.Vector3{Y: 90}
	st.Player.Stamina = 50
	st.Player.Weapons[0].CurrentAmmo = 7
	st.Player.Weapons[0].ReserveAmmo = 84
	st.Player.CurrentWeaponIndex = 1
	st.Score = 4200
	st.PlayTime = 734

	if _, err := a.ResumeRun(ctx, "p1", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := a.State("p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "position", got.Player.Position, game.Vector3{X: 1, Z: -2})
	testutil.AssertEqual(t, "rotation", got.Player.Rotation, game.Vector3{Y: 90})
	testutil.AssertEqual(t, "stamina", got.Player.Stamina, 50)
	testutil.AssertEqual(t, "pistol ammo", got.Player.Weapons[0], game.WeaponState{ID: "pistol", CurrentAmmo: 7, ReserveAmmo: 84})
	testutil.AssertEqual(t, "active slot", got.Player.CurrentWeaponIndex, 1)
	testutil.AssertEqual(t, "wave", got.Wave, st.Wave)
	testutil.AssertEqual(t, "score", got.Score, 4200)
	testutil.AssertEqual(t, "play time", got.PlayTime, int64(734))
	testutil.AssertEqual(t, "zombies", len(got.Zombies), 2)
	testutil.AssertEqual(t, "brute health", got.Zombies[0].Health, 120)
	testutil.AssertEqual(t, "dead stays dead", got.Zombies[1].State, game.BehaviorDead)

	_, err = a.ResumeRun(ctx, "p1", st)
	testutil.AssertErrorContains(t, err, "already live")
}

func TestResumeRun_Rejects(t *testing.T) {
	a, _, _, _, _ := testArena(t)
	ctx := context.Background()

	_, err := a.ResumeRun(ctx, "p1", nil)
	testutil.AssertErrorContains(t, err, "nil game state")

	bad := combatState([]game.ZombieState{
		{ID: "z-1", Position: game.Vector3{X: 5}, Health: 50, State: game.BehaviorChasing, Variant: "shambler"},
	})
	_, err = a.ResumeRun(ctx, "p1", bad)
	testutil.AssertErrorContains(t, err, "unknown zombie variant")

	// Neither attempt left a session behind.
	_, err = a.State("p1")
	if !errors.Is(err, game.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestResumeRun_ClampsCountersToCapacity(t *testing.T) {
	a, _, _, _, _ := testArena(t)
	ctx := context.Background()

	st := combatState(nil)
	st.Player.Health = 250
	st.Player.Weapons[0].CurrentAmmo = 999
	st.Player.Weapons[0].ReserveAmmo = 500

	if _, err := a.ResumeRun(ctx, "p1", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := a.State("p1")
	testutil.AssertEqual(t, "health clamped", got.Player.Health, 100)
	testutil.AssertEqual(t, "magazine clamped", got.Player.Weapons[0].CurrentAmmo, 12)
	testutil.AssertEqual(t, "reserve clamped", got.Player.Weapons[0].ReserveAmmo, 96)
}

func TestResumeRun_SpawningPicksUpMidWave(t *testing.T) {
	a, clock, _, _, _ := testArena(t)
	ctx := context.Background()

	st := combatState([]game.ZombieState{
		{ID: "z-1", Position: game.Vector3{X: 10}, Health: 60, State: game.BehaviorChasing, Variant: game.VariantRunner},
	})
	if _, err := a.ResumeRun(ctx, "p1", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(100 * time.Millisecond)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := a.State("p1")
	testutil.AssertEqual(t, "restored plus fresh spawns", len(got.Zombies), 3)
}

func TestTick_ZombieAttacksEndTheRun(t *testing.T) {
	a, clock, board, _, pub := testArena(t)
	board.topTen = true
	ctx := context.Background()

	st := combatState([]game.ZombieState{
		{ID: "z-1", Position: game.Vector3{X: 1}, Health: 100, State: game.BehaviorChasing, Variant: game.VariantWalker},
	})
	st.Player.Health = 20

	if _, err := a.ResumeRun(ctx, "p1", st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// In range, so the first tick swings immediately.
	clock.advance(100 * time.Millisecond)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := a.State("p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "first swing landed", got.Player.Health, 10)
	testutil.AssertEqual(t, "attacking", got.Zombies[0].State, game.BehaviorAttacking)

	// The next swing waits out the attack cadence, then finishes the run.
	clock.advance(1500 * time.Millisecond)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(board.subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(board.subs))
	}
	testutil.AssertEqual(t, "submission", board.subs[0], leaderboard.Submission{
		Score:           300,
		WaveReached:     2,
		ZombiesKilled:   0,
		PlayTimeSeconds: 61,
	})

	msgs := pub.msgs["p1"]
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "The horde overran you on wave 2") {
		t.Errorf("unexpected end message %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "Congratulations! You achieved a top 10 score!") {
		t.Errorf("top ten line missing from %q", msgs[0])
	}

	_, err = a.State("p1")
	if !errors.Is(err, game.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestQuit_SettlesOnNextTick(t *testing.T) {
	a, clock, board, _, pub := testArena(t)
	ctx := context.Background()

	if _, err := a.StartRun(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Quit("p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ended but not yet swept: actions are refused, the state still reads.
	_, _, err := a.Fire("p1", game.Vector3{Z: 1})
	if !game.IsRejection(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	testutil.AssertErrorContains(t, err, "run is over")
	if _, err := a.State("p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(100 * time.Millisecond)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(board.subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(board.subs))
	}
	testutil.AssertEqual(t, "score", board.subs[0].Score, 0)
	testutil.AssertEqual(t, "wave", board.subs[0].WaveReached, 1)

	msgs := pub.msgs["p1"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "You pulled out on wave 1") {
		t.Errorf("unexpected messages %v", msgs)
	}

	if err := a.Quit("ghost"); !errors.Is(err, game.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTick_IdleRunTimesOut(t *testing.T) {
	a, clock, board, _, pub := testArena(t, WithIdleTimeout(5*time.Second))
	ctx := context.Background()

	if _, err := a.StartRun(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(3 * time.Second)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.State("p1"); err != nil {
		t.Fatalf("run ended early: %v", err)
	}

	// Input resets the idle clock.
	if err := a.Move("p1", game.Vector3{X: 1}, game.Vector3{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.advance(3 * time.Second)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.State("p1"); err != nil {
		t.Fatalf("run ended early: %v", err)
	}

	clock.advance(5 * time.Second)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(board.subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(board.subs))
	}
	msgs := pub.msgs["p1"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Time ran out on wave 1") {
		t.Errorf("unexpected messages %v", msgs)
	}
}

func TestSaveRun(t *testing.T) {
	a, clock, _, saver, _ := testArena(t)
	ctx := context.Background()

	if _, err := a.StartRun(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.advance(2 * time.Second)
	if err := a.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rcpt, err := a.SaveRun(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "receipt id", rcpt.SaveID, "save-1")

	if len(saver.states) != 1 {
		t.Fatalf("expected 1 stored state, got %d", len(saver.states))
	}
	stored := saver.states[0]
	testutil.AssertEqual(t, "wave", stored.Wave.CurrentWave, 1)
	testutil.AssertEqual(t, "zombies", len(stored.Zombies), 1)
	testutil.AssertEqual(t, "health", stored.Player.Health, 100)

	// Saving does not end the run.
	if _, err := a.State("p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = a.SaveRun(ctx, "ghost")
	if !errors.Is(err, game.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSwitchAndCycle(t *testing.T) {
	a, _, _, _, _ := testArena(t)
	ctx := context.Background()

	if _, err := a.StartRun(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := a.SwitchSlot("p1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "switched", ok, true)

	st, _ := a.State("p1")
	testutil.AssertEqual(t, "active slot", st.Player.CurrentWeaponIndex, 1)

	ok, err = a.CycleWeapon("p1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "cycled", ok, true)

	st, _ = a.State("p1")
	testutil.AssertEqual(t, "wrapped to first", st.Player.CurrentWeaponIndex, 0)

	ok, err = a.CycleWeapon("p1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "cycled back", ok, true)

	st, _ = a.State("p1")
	testutil.AssertEqual(t, "active slot", st.Player.CurrentWeaponIndex, 1)
}

func TestCast_PicksNearestTarget(t *testing.T) {
	a, _, _, _, _ := testArena(t)
	ctx := context.Background()

	st := combatState([]game.ZombieState{
		{ID: "z-dead", Position: game.Vector3{Z: 3}, Health: 0, State: game.BehaviorDead, Variant: game.VariantWalker},
		{ID: "z-near", Position: game.Vector3{Z: 5}, Health: 100, State: game.BehaviorChasing, Variant: game.VariantWalker},
		{ID: "z-far", Position: game.Vector3{Z: 10}, Health: 100, State: game.BehaviorChasing, Variant: game.VariantWalker},
		{ID: "z-off", Position: game.Vector3{X: 2, Z: 5}, Health: 100, State: game.BehaviorChasing, Variant: game.VariantWalker},
	})

	s, err := a.ResumeRun(ctx, "p1", st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		dir      game.Vector3
		maxRange float64
		expID    string
		expHit   bool
	}{
		"nearest live target wins": {
			dir:      game.Vector3{Z: 1},
			maxRange: 50,
			expID:    "z-near",
			expHit:   true,
		},
		"range short of everything": {
			dir:      game.Vector3{Z: 1},
			maxRange: 4,
		},
		"aimed away": {
			dir:      game.Vector3{Z: -1},
			maxRange: 50,
		},
		"zero direction": {
			maxRange: 50,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			id, hit := s.Cast(game.Vector3{}, tt.dir, tt.maxRange)
			testutil.AssertEqual(t, "hit", hit, tt.expHit)
			testutil.AssertEqual(t, "target", id, tt.expID)
		})
	}
}

func TestNewArena_RequiresEveryVariant(t *testing.T) {
	weapons, err := storage.NewFileCatalog("", weapon.Builtins())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	partial := map[string]*zombie.Config{"walker": zombie.Builtins()["walker"]}
	variants, err := storage.NewFileCatalog("", partial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = NewArena(weapons, variants, &fakeBoard{}, &fakeSaver{}, &fakePublisher{msgs: map[string][]string{}})
	testutil.AssertErrorContains(t, err, "variant catalog is missing")
}
