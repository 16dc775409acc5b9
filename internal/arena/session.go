package arena

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/gameover"
	"github.com/deadwatch/horde/internal/score"
	"github.com/deadwatch/horde/internal/storage"
	"github.com/deadwatch/horde/internal/wave"
	"github.com/deadwatch/horde/internal/weapon"
	"github.com/deadwatch/horde/internal/zombie"
)

const (
	maxHealth  = 100
	maxStamina = 100

	// hitRadius is how close a ray has to pass to a zombie's center to
	// connect.
	hitRadius = 0.5

	// spawnRadius is how far from the player fresh zombies enter the field.
	spawnRadius = 30.0

	// spawnBatch caps how many zombies enter the field per tick.
	spawnBatch = 2
)

// instance is one zombie on the field.
type instance struct {
	id         string
	cfg        *zombie.Config
	pos        game.Vector3
	health     int
	behavior   game.Behavior
	lastAttack time.Time
}

// Session is one player's run. All methods assume the caller holds the
// arena lock; only Snapshot and the raycast are safe to reach from tests
// directly.
type Session struct {
	id      string
	ownerID string

	pos     game.Vector3
	rot     game.Vector3
	health  int
	stamina int

	weapons *weapon.Manager
	waves   *wave.Manager
	score   *score.Calculator
	over    *gameover.Manager

	zombies  []*instance
	spawnSeq int

	killsTotal int
	playTime   time.Duration

	lastTick  time.Time
	lastInput time.Time
	idleLimit time.Duration

	variants storage.Catalog[*zombie.Config]
	now      func() time.Time
}

func newSession(ownerID string, weapons storage.Catalog[*weapon.Config], variants storage.Catalog[*zombie.Config], loadout []string, waveCfg wave.Config, now func() time.Time) (*Session, error) {
	wm, err := weapon.NewManager(weapons, loadout, weapon.WithManagerClock(now))
	if err != nil {
		return nil, fmt.Errorf("building loadout: %w", err)
	}

	waves, err := wave.NewManager(waveCfg)
	if err != nil {
		return nil, fmt.Errorf("building wave manager: %w", err)
	}

	at := now()
	return &Session{
		id:        uuid.New().String(),
		ownerID:   ownerID,
		health:    maxHealth,
		stamina:   maxStamina,
		weapons:   wm,
		waves:     waves,
		score:     score.NewCalculator(),
		over:      gameover.NewManager(),
		variants:  variants,
		lastTick:  at,
		lastInput: at,
		now:       now,
	}, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// OwnerID returns the owning player's id.
func (s *Session) OwnerID() string {
	return s.ownerID
}

// tick advances the run by dt of wall time.
func (s *Session) tick(dt time.Duration) {
	if s.over.IsOver() || dt <= 0 {
		return
	}

	s.playTime += dt
	now := s.now()

	s.waves.Advance(dt)
	s.spawn()
	s.advanceZombies(dt, now)
	s.weapons.Tick()

	if s.health <= 0 {
		s.finish(gameover.ReasonDeath)
		return
	}
	if s.idleLimit > 0 && now.Sub(s.lastInput) >= s.idleLimit {
		s.finish(gameover.ReasonTimeout)
	}
}

// spawn moves up to spawnBatch zombies from the wave budget onto the
// field.
func (s *Session) spawn() {
	for i := 0; i < spawnBatch; i++ {
		if !s.waves.ClaimSpawn() {
			return
		}
		s.zombies = append(s.zombies, s.newZombie())
	}
}

// spawnTable returns the variant rotation for a wave. The first wave
// fields walkers only; tougher variants join as the waves climb.
func spawnTable(wave int) []game.Variant {
	switch {
	case wave <= 1:
		return []game.Variant{game.VariantWalker}
	case wave == 2:
		return []game.Variant{game.VariantWalker, game.VariantWalker, game.VariantRunner}
	case wave == 3:
		return []game.Variant{game.VariantWalker, game.VariantRunner, game.VariantWalker, game.VariantBrute}
	default:
		return []game.Variant{game.VariantWalker, game.VariantRunner, game.VariantBrute, game.VariantWalker, game.VariantSpitter}
	}
}

func (s *Session) newZombie() *instance {
	table := spawnTable(s.waves.State().CurrentWave)
	cfg := s.variants.Get(string(table[s.spawnSeq%len(table)]))
	s.spawnSeq++

	angle := rand.Float64() * 2 * math.Pi
	pos := game.Vector3{
		X: s.pos.X + spawnRadius*math.Cos(angle),
		Z: s.pos.Z + spawnRadius*math.Sin(angle),
	}

	return &instance{
		id:       uuid.New().String(),
		cfg:      cfg,
		pos:      pos,
		health:   cfg.Health,
		behavior: game.BehaviorChasing,
	}
}

// advanceZombies runs one AI step: close on the player, and swing once
// the attack cadence allows inside range.
func (s *Session) advanceZombies(dt time.Duration, now time.Time) {
	for _, z := range s.zombies {
		if z.behavior == game.BehaviorDead {
			continue
		}

		to := s.pos.Sub(z.pos)
		to.Y = 0 // movement stays on the ground plane
		dist := to.Length()

		if dist > z.cfg.AttackRange {
			step := z.cfg.Speed * dt.Seconds()
			if step > dist-z.cfg.AttackRange {
				step = dist - z.cfg.AttackRange
			}
			z.pos = z.pos.Add(to.Normalize().Scale(step))
			z.behavior = game.BehaviorChasing
			continue
		}

		z.behavior = game.BehaviorAttacking
		if z.lastAttack.IsZero() || now.Sub(z.lastAttack) >= z.cfg.Cadence() {
			z.lastAttack = now
			s.health -= z.cfg.Damage
			if s.health < 0 {
				s.health = 0
			}
		}
	}
}

// Cast resolves a hitscan ray against the field. The nearest zombie whose
// body the ray passes through within range wins.
func (s *Session) Cast(origin, dir game.Vector3, maxRange float64) (string, bool) {
	d := dir.Normalize()
	if d.Length() == 0 {
		return "", false
	}

	bestID := ""
	bestT := math.MaxFloat64

	for _, z := range s.zombies {
		if z.behavior == game.BehaviorDead {
			continue
		}

		to := z.pos.Sub(origin)
		t := to.Dot(d)
		if t < 0 || t > maxRange {
			continue
		}

		offsq := to.Dot(to) - t*t
		if offsq > hitRadius*hitRadius {
			continue
		}
		if t < bestT {
			bestT = t
			bestID = z.id
		}
	}

	return bestID, bestID != ""
}

// fire pulls the trigger toward dir and lands whatever damage results.
func (s *Session) fire(dir game.Vector3) (*weapon.FireResult, bool) {
	res, ok := s.weapons.Fire(s.pos, dir, s)
	if !ok {
		return nil, false
	}
	s.applyHits(res.Hits)
	return res, true
}

// applyHits lands weapon damage. A kill scores immediately at the current
// wave's value; the kill that clears the wave also banks the completion
// bonus and rolls the board into the next preparation phase.
func (s *Session) applyHits(hits []weapon.Hit) {
	for _, h := range hits {
		z := s.zombieByID(h.TargetID)
		if z == nil || z.behavior == game.BehaviorDead {
			continue
		}

		z.health -= h.Damage
		if z.health > 0 {
			continue
		}

		z.health = 0
		z.behavior = game.BehaviorDead
		s.killsTotal++

		waveNo := s.waves.State().CurrentWave
		s.score.RecordKills(1, waveNo)
		if s.waves.RecordKill() {
			s.score.CompleteWave(waveNo)
			s.score.NextWave()
			s.zombies = nil // the field clears between waves
		}
	}
}

func (s *Session) zombieByID(id string) *instance {
	for _, z := range s.zombies {
		if z.id == id {
			return z
		}
	}
	return nil
}

// move repositions the player.
func (s *Session) move(pos, rot game.Vector3) {
	s.pos = pos
	s.rot = rot
}

// finish latches game over with the run's terminal stats.
func (s *Session) finish(reason gameover.Reason) {
	s.over.Trigger(gameover.Stats{
		FinalScore:    s.score.Total(),
		WaveReached:   s.waves.State().CurrentWave,
		ZombiesKilled: s.killsTotal,
		PlayTime:      int64(s.playTime.Seconds()),
		Reason:        reason,
	})
}

// Snapshot builds the full serializable state of the run.
func (s *Session) Snapshot() *game.GameState {
	zs := make([]game.ZombieState, 0, len(s.zombies))
	for _, z := range s.zombies {
		zs = append(zs, game.ZombieState{
			ID:       z.id,
			Position: z.pos,
			Health:   z.health,
			State:    z.behavior,
			Variant:  z.cfg.Variant,
		})
	}

	return &game.GameState{
		Player: game.PlayerState{
			Position:           s.pos,
			Rotation:           s.rot,
			Health:             s.health,
			Stamina:            s.stamina,
			Weapons:            s.weapons.States(),
			CurrentWeaponIndex: s.weapons.ActiveSlot(),
		},
		Wave:      s.waves.State(),
		Zombies:   zs,
		Score:     s.score.Total(),
		PlayTime:  int64(s.playTime.Seconds()),
		Timestamp: s.now().UnixMilli(),
	}
}

// restore overwrites the run wholesale from a saved state. Ammo counters
// are clamped to each weapon's current capacity rather than rejected, so
// saves survive tuning changes between sessions.
func (s *Session) restore(st *game.GameState, weapons storage.Catalog[*weapon.Config]) error {
	states := make([]game.WeaponState, len(st.Player.Weapons))
	copy(states, st.Player.Weapons)
	for i := range states {
		cfg := weapons.Get(states[i].ID)
		if cfg == nil {
			return fmt.Errorf("unknown weapon %q", states[i].ID)
		}
		if cfg.Class == weapon.ClassMelee {
			continue
		}
		states[i].CurrentAmmo = clamp(states[i].CurrentAmmo, 0, cfg.MagazineSize)
		states[i].ReserveAmmo = clamp(states[i].ReserveAmmo, 0, cfg.MaxReserveAmmo)
	}

	wm, err := weapon.RestoreManager(weapons, states, st.Player.CurrentWeaponIndex, weapon.WithManagerClock(s.now))
	if err != nil {
		return fmt.Errorf("restoring loadout: %w", err)
	}

	alive := 0
	zombies := make([]*instance, 0, len(st.Zombies))
	for _, z := range st.Zombies {
		cfg := s.variants.Get(string(z.Variant))
		if cfg == nil {
			return fmt.Errorf("unknown zombie variant %q", z.Variant)
		}

		inst := &instance{
			id:       z.ID,
			cfg:      cfg,
			pos:      z.Position,
			health:   z.Health,
			behavior: z.State,
		}
		if inst.health <= 0 {
			inst.health = 0
			inst.behavior = game.BehaviorDead
		}
		if inst.behavior != game.BehaviorDead {
			alive++
		}
		zombies = append(zombies, inst)
	}

	if err := s.waves.Restore(st.Wave, alive); err != nil {
		return fmt.Errorf("restoring wave: %w", err)
	}
	if err := s.score.Restore(st.Score); err != nil {
		return fmt.Errorf("restoring score: %w", err)
	}

	s.weapons = wm
	s.zombies = zombies
	s.pos = st.Player.Position
	s.rot = st.Player.Rotation
	s.health = clamp(st.Player.Health, 0, maxHealth)
	s.stamina = clamp(st.Player.Stamina, 0, maxStamina)
	// The snapshot only carries the current wave's kill count, so a
	// resumed run's total restarts from there.
	s.killsTotal = st.Wave.ZombiesKilled
	s.playTime = time.Duration(st.PlayTime) * time.Second
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
