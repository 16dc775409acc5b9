// Package score holds the kill and wave-bonus formulas and the running
// total for a single run.
package score

import "fmt"

const (
	// PerKillBase is the score for one kill on wave 1.
	PerKillBase = 100
	// WaveBonusBase is the completion bonus for wave 1.
	WaveBonusBase = 500
)

// KillScore returns the points for n kills scored during the given wave.
// Kills scale linearly with the wave number, so the same zombie is worth
// three times as much on wave 3. Nonsense input (negative kills, wave
// before 1) is worth nothing.
func KillScore(n, wave int) int {
	if n < 0 || wave < 1 {
		return 0
	}
	return n * PerKillBase * wave
}

// WaveBonus returns the one-time bonus for completing the given wave.
func WaveBonus(wave int) int {
	if wave < 1 {
		return 0
	}
	return wave * WaveBonusBase
}

// Calculator accumulates the score for one run. Kill points land the
// moment the kill is recorded; the wave bonus lands exactly once, when the
// wave completes. Per-wave counters reset on every wave transition, the
// cumulative total never does.
type Calculator struct {
	total     int
	waveKills int
	waveScore int
	bonusPaid bool
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// RecordKills credits n kills scored during the given wave and returns
// the points added.
func (c *Calculator) RecordKills(n, wave int) int {
	pts := KillScore(n, wave)
	if pts == 0 {
		return 0
	}

	c.total += pts
	c.waveScore += pts
	c.waveKills += n
	return pts
}

// CompleteWave credits the wave's completion bonus and returns it. The
// bonus pays out once: calling again before the next transition returns 0.
func (c *Calculator) CompleteWave(wave int) int {
	if c.bonusPaid {
		return 0
	}
	c.bonusPaid = true

	b := WaveBonus(wave)
	c.total += b
	c.waveScore += b
	return b
}

// NextWave clears the per-wave counters for a fresh wave.
func (c *Calculator) NextWave() {
	c.waveKills = 0
	c.waveScore = 0
	c.bonusPaid = false
}

// Restore overwrites the cumulative total when resuming from a save and
// clears the per-wave counters.
func (c *Calculator) Restore(total int) error {
	if total < 0 {
		return fmt.Errorf("score cannot be negative")
	}

	c.total = total
	c.NextWave()
	return nil
}

// Total returns the cumulative score for the run.
func (c *Calculator) Total() int {
	return c.total
}

// WaveKills returns the kills recorded since the last wave transition.
func (c *Calculator) WaveKills() int {
	return c.waveKills
}

// WaveScore returns the points earned since the last wave transition,
// bonus included.
func (c *Calculator) WaveScore() int {
	return c.waveScore
}
