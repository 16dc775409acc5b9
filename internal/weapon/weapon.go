package weapon

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/deadwatch/horde/internal/game"
)

// Raycaster resolves a single hitscan ray to the first target it hits
// within maxRange. A miss returns ("", false).
type Raycaster interface {
	Cast(origin, dir game.Vector3, maxRange float64) (string, bool)
}

// Hit is the damage a single fire action dealt to one target. A spread
// weapon folds all pellets that struck the same target into one Hit.
type Hit struct {
	TargetID string
	Damage   int
}

// FireResult describes everything one successful trigger pull did.
type FireResult struct {
	WeaponID string
	Class    Class
	Rays     int
	Hits     []Hit
	Damage   int
	AmmoLeft int
}

// Weapon is the fire/reload state machine for a single weapon instance.
// All methods are synchronous: a pending reload is settled against the
// clock at the top of every call, so there is never more than one
// operation in flight.
type Weapon struct {
	id  string
	cfg *Config

	currentAmmo int
	reserveAmmo int
	reloading   bool
	reloadDone  time.Time
	lastFired   time.Time

	now func() time.Time
}

// Opt configures a Weapon.
type Opt func(*Weapon)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Opt {
	return func(w *Weapon) {
		w.now = now
	}
}

// New builds a weapon with a full magazine and full reserve.
func New(id string, cfg *Config, opts ...Opt) (*Weapon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("weapon %q: %w", id, err)
	}

	w := &Weapon{
		id:          id,
		cfg:         cfg,
		currentAmmo: cfg.MagazineSize,
		reserveAmmo: cfg.MaxReserveAmmo,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

func (w *Weapon) Id() string      { return w.id }
func (w *Weapon) Config() *Config { return w.cfg }

// IsReloading reports whether a reload is still in progress.
func (w *Weapon) IsReloading() bool {
	w.settle()
	return w.reloading
}

// CanFire reports whether a trigger pull right now would fire: loaded (or
// melee), not reloading, and past the rate-of-fire cooldown.
func (w *Weapon) CanFire() bool {
	w.settle()

	if w.reloading {
		return false
	}
	if w.cfg.Class != ClassMelee && w.currentAmmo <= 0 {
		return false
	}

	return w.now().Sub(w.lastFired) >= w.cfg.cooldown()
}

// CanReload reports whether a reload right now would do anything: not
// already reloading, magazine short of capacity, and reserve to draw from.
// Melee weapons never reload.
func (w *Weapon) CanReload() bool {
	w.settle()

	if w.cfg.Class == ClassMelee {
		return false
	}

	return !w.reloading && w.currentAmmo < w.cfg.MagazineSize && w.reserveAmmo > 0
}

// Fire resolves one trigger pull: a single ray for hitscan and melee, a
// cone of PelletCount jittered rays for spread weapons. The second return
// is false when the weapon cannot fire right now (empty, reloading, or
// rate-gated) - a routine outcome, not an error.
func (w *Weapon) Fire(origin, dir game.Vector3, rc Raycaster) (*FireResult, bool) {
	if !w.CanFire() {
		return nil, false
	}

	w.lastFired = w.now()
	if w.cfg.Class != ClassMelee {
		w.currentAmmo--
	}

	res := &FireResult{
		WeaponID: w.id,
		Class:    w.cfg.Class,
	}

	rays := 1
	if w.cfg.Class == ClassSpread {
		rays = w.cfg.PelletCount
	}
	res.Rays = rays

	byTarget := map[string]int{}
	var order []string
	for i := 0; i < rays; i++ {
		d := dir
		if w.cfg.Class == ClassSpread {
			d = jitter(dir, w.cfg.Spread)
		}

		target, hit := rc.Cast(origin, d, w.cfg.Range)
		if !hit {
			continue
		}

		if _, seen := byTarget[target]; !seen {
			order = append(order, target)
		}
		byTarget[target] += w.cfg.Damage
		res.Damage += w.cfg.Damage
	}

	for _, target := range order {
		res.Hits = append(res.Hits, Hit{TargetID: target, Damage: byTarget[target]})
	}

	res.AmmoLeft = w.ammoForReport()
	return res, true
}

// Reload starts a reload. Ammo moves only when the reload duration has
// fully elapsed; until then the magazine and reserve are unchanged.
// Returns false when a reload would do nothing right now.
func (w *Weapon) Reload() bool {
	if !w.CanReload() {
		return false
	}

	w.reloading = true
	w.reloadDone = w.now().Add(w.cfg.reloadDuration())
	return true
}

// CancelReload abandons an in-flight reload with no ammo transferred. It
// is a no-op when nothing is reloading.
func (w *Weapon) CancelReload() {
	w.reloading = false
}

// settle completes a pending reload whose duration has elapsed, moving
// min(capacity deficit, reserve) rounds in one step. It returns the number
// of rounds transferred, zero when nothing completed.
func (w *Weapon) settle() int {
	if !w.reloading || w.now().Before(w.reloadDone) {
		return 0
	}

	w.reloading = false
	moved := w.cfg.MagazineSize - w.currentAmmo
	if moved > w.reserveAmmo {
		moved = w.reserveAmmo
	}
	w.currentAmmo += moved
	w.reserveAmmo -= moved
	return moved
}

// State returns the serializable ammo record. Melee weapons always read
// as one round loaded and none in reserve.
func (w *Weapon) State() game.WeaponState {
	w.settle()

	if w.cfg.Class == ClassMelee {
		return game.WeaponState{ID: w.id, CurrentAmmo: 1, ReserveAmmo: 0}
	}

	return game.WeaponState{ID: w.id, CurrentAmmo: w.currentAmmo, ReserveAmmo: w.reserveAmmo}
}

// Restore overwrites the ammo counters from a saved record, cancelling any
// reload in progress. Counters outside the weapon's capacity are rejected.
// Melee weapons ignore the saved counters entirely.
func (w *Weapon) Restore(st game.WeaponState) error {
	if st.ID != w.id {
		return fmt.Errorf("state is for weapon %q, not %q", st.ID, w.id)
	}

	w.reloading = false

	if w.cfg.Class == ClassMelee {
		return nil
	}

	if st.CurrentAmmo < 0 || st.CurrentAmmo > w.cfg.MagazineSize {
		return fmt.Errorf("weapon %q: current ammo %d outside magazine capacity %d", w.id, st.CurrentAmmo, w.cfg.MagazineSize)
	}
	if st.ReserveAmmo < 0 || st.ReserveAmmo > w.cfg.MaxReserveAmmo {
		return fmt.Errorf("weapon %q: reserve ammo %d outside reserve capacity %d", w.id, st.ReserveAmmo, w.cfg.MaxReserveAmmo)
	}

	w.currentAmmo = st.CurrentAmmo
	w.reserveAmmo = st.ReserveAmmo
	return nil
}

func (w *Weapon) ammoForReport() int {
	if w.cfg.Class == ClassMelee {
		return 1
	}
	return w.currentAmmo
}

// jitter deflects dir by a random angle inside a cone of the given
// half-angle. Sampling sqrt of the radial fraction keeps pellets evenly
// distributed over the cone's cross-section instead of clustering at the
// center.
func jitter(dir game.Vector3, halfAngle float64) game.Vector3 {
	d := dir.Normalize()
	if halfAngle <= 0 || d.Length() == 0 {
		return d
	}

	up := game.Vector3{Y: 1}
	if math.Abs(d.Y) > 0.99 {
		up = game.Vector3{X: 1}
	}
	right := d.Cross(up).Normalize()
	above := right.Cross(d)

	theta := halfAngle * math.Sqrt(rand.Float64())
	phi := 2 * math.Pi * rand.Float64()

	sin := math.Sin(theta)
	return d.Scale(math.Cos(theta)).
		Add(right.Scale(sin * math.Cos(phi))).
		Add(above.Scale(sin * math.Sin(phi))).
		Normalize()
}
