// Package wave cycles a run through preparation and combat phases and
// meters out each wave's spawn budget.
package wave

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/deadwatch/horde/internal/game"
)

// Config is the wave pacing tuning.
type Config struct {
	PrepTime          time.Duration
	BasePopulation    int
	PopulationPerWave int
	MaxPopulation     int
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.PrepTime <= 0 {
		el.Add(fmt.Errorf("prep time must be positive"))
	}

	if c.BasePopulation <= 0 {
		el.Add(fmt.Errorf("base population must be positive"))
	}

	if c.PopulationPerWave < 0 {
		el.Add(fmt.Errorf("population per wave cannot be negative"))
	}

	if c.MaxPopulation < c.BasePopulation {
		el.Add(fmt.Errorf("max population cannot be below base population"))
	}

	return el.Err()
}

// DefaultConfig returns the stock pacing: ten seconds between waves, six
// zombies on wave 1, four more each wave, capped at sixty.
func DefaultConfig() Config {
	return Config{
		PrepTime:          10 * time.Second,
		BasePopulation:    6,
		PopulationPerWave: 4,
		MaxPopulation:     60,
	}
}

// TargetPopulation returns how many zombies the given wave fields in
// total under the config.
func (c *Config) TargetPopulation(wave int) int {
	if wave < 1 {
		return 0
	}

	n := c.BasePopulation + c.PopulationPerWave*(wave-1)
	if n > c.MaxPopulation {
		n = c.MaxPopulation
	}
	return n
}

// Manager runs the wave state machine. A wave starts in a preparation
// phase with a countdown; when it elapses combat begins and the spawn
// budget opens. Once every zombie in the budget has been claimed and
// killed, the manager rolls straight into the next wave's preparation.
type Manager struct {
	cfg Config

	state   game.WaveState
	prep    time.Duration
	spawned int
}

// NewManager starts a run at wave 1, in preparation.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{cfg: cfg}
	m.beginWave(1)
	return m, nil
}

func (m *Manager) beginWave(wave int) {
	m.state = game.WaveState{
		CurrentWave:        wave,
		TotalZombiesInWave: m.cfg.TargetPopulation(wave),
		IsPreparationPhase: true,
	}
	m.prep = m.cfg.PrepTime
	m.spawned = 0
}

// State returns the shared wave record.
func (m *Manager) State() game.WaveState {
	return m.state
}

// PrepRemaining returns the time left in the current preparation
// countdown, zero during combat.
func (m *Manager) PrepRemaining() time.Duration {
	if !m.state.IsPreparationPhase {
		return 0
	}
	return m.prep
}

// Advance burns dt off the preparation countdown. It returns true on the
// tick that flips the wave into combat; during combat it does nothing.
func (m *Manager) Advance(dt time.Duration) bool {
	if !m.state.IsPreparationPhase {
		return false
	}

	m.prep -= dt
	if m.prep > 0 {
		return false
	}

	m.prep = 0
	m.state.IsPreparationPhase = false
	return true
}

// ClaimSpawn takes one zombie from the wave's spawn budget. It refuses
// during preparation and once the whole budget is out.
func (m *Manager) ClaimSpawn() bool {
	if m.state.IsPreparationPhase || m.spawned >= m.state.TotalZombiesInWave {
		return false
	}

	m.spawned++
	return true
}

// SpawnsLeft returns how much of the wave's budget is still unclaimed.
func (m *Manager) SpawnsLeft() int {
	if m.state.IsPreparationPhase {
		return 0
	}
	return m.state.TotalZombiesInWave - m.spawned
}

// RecordKill counts one kill toward wave completion. It returns true on
// the kill that finishes the wave, at which point the manager has already
// rolled into the next wave's preparation phase. Kills during preparation
// or beyond the wave total are ignored.
func (m *Manager) RecordKill() bool {
	if m.state.IsPreparationPhase || m.state.ZombiesKilled >= m.state.TotalZombiesInWave {
		return false
	}

	m.state.ZombiesKilled++
	if m.state.ZombiesKilled < m.state.TotalZombiesInWave {
		return false
	}

	m.beginWave(m.state.CurrentWave + 1)
	return true
}

// Restore rewinds the manager to a saved wave record. alive is how many
// of the wave's zombies are back on the field, so the spawn budget picks
// up where it left off. A restored preparation phase restarts its
// countdown from the top.
func (m *Manager) Restore(st game.WaveState, alive int) error {
	el := errors.NewErrorList()

	if st.CurrentWave < 1 {
		el.Add(fmt.Errorf("current wave must be at least 1"))
	}
	if st.ZombiesKilled < 0 {
		el.Add(fmt.Errorf("zombies killed cannot be negative"))
	}
	if st.TotalZombiesInWave < 0 {
		el.Add(fmt.Errorf("total zombies cannot be negative"))
	}
	if st.ZombiesKilled > st.TotalZombiesInWave {
		el.Add(fmt.Errorf("zombies killed cannot exceed the wave total"))
	}
	if alive < 0 {
		el.Add(fmt.Errorf("alive count cannot be negative"))
	}
	if err := el.Err(); err != nil {
		return err
	}

	m.state = st
	m.spawned = st.ZombiesKilled + alive
	if m.spawned > st.TotalZombiesInWave {
		m.spawned = st.TotalZombiesInWave
	}

	m.prep = 0
	if st.IsPreparationPhase {
		m.prep = m.cfg.PrepTime
	}

	return nil
}
