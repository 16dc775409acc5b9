package weapon

import (
	"fmt"
	"time"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/storage"
)

// SlotCount is the fixed size of a loadout.
const SlotCount = 4

// Manager owns a loadout of up to SlotCount weapons and one active slot.
// Fire, reload, and ammo queries act on the active weapon only. Cooldowns
// and reload timers belong to each weapon, so an inactive weapon keeps
// counting down; it just doesn't get to announce anything.
type Manager struct {
	slots  [SlotCount]*Weapon
	active int

	observers map[int]Observer
	nextObsID int

	now func() time.Time
}

// ManagerOpt configures a Manager.
type ManagerOpt func(*Manager)

// WithManagerClock replaces the wall clock for the manager and every
// weapon it builds, for tests.
func WithManagerClock(now func() time.Time) ManagerOpt {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager builds a manager from a loadout of weapon ids resolved
// through the catalog. Slots fill in loadout order; the first slot starts
// active.
func NewManager(catalog storage.Catalog[*Config], loadout []string, opts ...ManagerOpt) (*Manager, error) {
	if len(loadout) == 0 {
		return nil, fmt.Errorf("loadout must hold at least one weapon")
	}
	if len(loadout) > SlotCount {
		return nil, fmt.Errorf("loadout holds %d weapons, limit is %d", len(loadout), SlotCount)
	}

	m := &Manager{
		observers: map[int]Observer{},
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	for i, id := range loadout {
		cfg := catalog.Get(id)
		if cfg == nil {
			return nil, fmt.Errorf("unknown weapon %q", id)
		}

		w, err := New(id, cfg, WithClock(m.now))
		if err != nil {
			return nil, err
		}
		m.slots[i] = w
	}

	return m, nil
}

// RestoreManager builds a manager whose loadout and ammo counters match a
// saved snapshot.
func RestoreManager(catalog storage.Catalog[*Config], states []game.WeaponState, active int, opts ...ManagerOpt) (*Manager, error) {
	ids := make([]string, len(states))
	for i, st := range states {
		ids[i] = st.ID
	}

	m, err := NewManager(catalog, ids, opts...)
	if err != nil {
		return nil, err
	}

	for i, st := range states {
		if err := m.slots[i].Restore(st); err != nil {
			return nil, err
		}
	}

	if active < 0 || active >= len(states) {
		return nil, fmt.Errorf("active weapon index %d outside loadout of %d", active, len(states))
	}
	m.active = active

	return m, nil
}

// Subscribe registers an observer for active-weapon events. The returned
// function unsubscribes it.
func (m *Manager) Subscribe(o Observer) func() {
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = o

	return func() {
		delete(m.observers, id)
	}
}

// ActiveSlot returns the index of the active slot.
func (m *Manager) ActiveSlot() int {
	return m.active
}

// Active returns the active weapon.
func (m *Manager) Active() *Weapon {
	return m.slots[m.active]
}

// Slot returns the weapon in a slot, or nil for an empty or out-of-range
// slot.
func (m *Manager) Slot(i int) *Weapon {
	if i < 0 || i >= SlotCount {
		return nil
	}
	return m.slots[i]
}

// Tick settles pending reloads. The session loop calls this every tick so
// a completed reload surfaces promptly even when no input arrives.
func (m *Manager) Tick() {
	m.pump()
}

// SwitchToSlot makes slot i active. Out-of-range indices, empty slots, and
// the already-active slot are rejected with no state change. A successful
// switch cancels the outgoing weapon's in-flight reload with no ammo
// transferred.
func (m *Manager) SwitchToSlot(i int) bool {
	m.pump()
	return m.switchTo(i)
}

// CycleNext activates the next populated slot after the active one,
// wrapping around. Returns false when no other slot is populated.
func (m *Manager) CycleNext() bool {
	m.pump()

	for step := 1; step < SlotCount; step++ {
		slot := (m.active + step) % SlotCount
		if m.slots[slot] != nil {
			return m.switchTo(slot)
		}
	}

	return false
}

// CyclePrevious activates the nearest populated slot before the active
// one, wrapping around. Returns false when no other slot is populated.
func (m *Manager) CyclePrevious() bool {
	m.pump()

	for step := 1; step < SlotCount; step++ {
		slot := (m.active - step + SlotCount) % SlotCount
		if m.slots[slot] != nil {
			return m.switchTo(slot)
		}
	}

	return false
}

// CanFire reports whether the active weapon can fire right now.
func (m *Manager) CanFire() bool {
	m.pump()
	return m.slots[m.active].CanFire()
}

// CanReload reports whether the active weapon can start a reload.
func (m *Manager) CanReload() bool {
	m.pump()
	return m.slots[m.active].CanReload()
}

// Fire pulls the active weapon's trigger.
func (m *Manager) Fire(origin, dir game.Vector3, rc Raycaster) (*FireResult, bool) {
	m.pump()

	w := m.slots[m.active]
	res, ok := w.Fire(origin, dir, rc)
	if !ok {
		return nil, false
	}

	for _, o := range m.observers {
		o.OnFired(FiredEvent{
			Slot:     m.active,
			WeaponID: w.id,
			Rays:     res.Rays,
			Hits:     res.Hits,
			Damage:   res.Damage,
			AmmoLeft: res.AmmoLeft,
		})
	}

	return res, true
}

// Reload starts a reload on the active weapon.
func (m *Manager) Reload() bool {
	m.pump()

	w := m.slots[m.active]
	if !w.Reload() {
		return false
	}

	for _, o := range m.observers {
		o.OnReloadStarted(ReloadEvent{Slot: m.active, WeaponID: w.id})
	}

	return true
}

// States returns the serializable ammo records for every populated slot,
// in slot order.
func (m *Manager) States() []game.WeaponState {
	m.pump()

	var states []game.WeaponState
	for _, w := range m.slots {
		if w == nil {
			continue
		}
		states = append(states, w.State())
	}

	return states
}

func (m *Manager) switchTo(slot int) bool {
	if slot < 0 || slot >= SlotCount || m.slots[slot] == nil || slot == m.active {
		return false
	}

	prev := m.active
	if w := m.slots[prev]; w != nil && w.reloading {
		w.CancelReload()
		for _, o := range m.observers {
			o.OnReloadCancelled(ReloadEvent{Slot: prev, WeaponID: w.id})
		}
	}

	m.active = slot
	for _, o := range m.observers {
		o.OnWeaponSwitched(SwitchEvent{PrevSlot: prev, Slot: slot, WeaponID: m.slots[slot].id})
	}

	return true
}

// pump settles every weapon's pending reload, announcing completions on
// the active slot only.
func (m *Manager) pump() {
	for i, w := range m.slots {
		if w == nil {
			continue
		}

		moved := w.settle()
		if moved > 0 && i == m.active {
			for _, o := range m.observers {
				o.OnReloadFinished(ReloadEvent{Slot: i, WeaponID: w.id, Transferred: moved})
			}
		}
	}
}
