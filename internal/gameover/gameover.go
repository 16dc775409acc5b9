// Package gameover detects the end of a run, captures the final stats
// exactly once, and renders them for display.
package gameover

import (
	"fmt"

	"github.com/deadwatch/horde/internal/display"
)

// Reason is why a run ended.
type Reason string

const (
	// ReasonDeath means the player's health reached zero.
	ReasonDeath Reason = "death"
	// ReasonQuit means the player gave up on purpose.
	ReasonQuit Reason = "quit"
	// ReasonTimeout means the session hit its time limit.
	ReasonTimeout Reason = "timeout"
)

// Validate returns an error when r is not a known reason.
func (r Reason) Validate() error {
	switch r {
	case ReasonDeath, ReasonQuit, ReasonTimeout:
		return nil
	default:
		return fmt.Errorf("unknown game over reason %q", r)
	}
}

// Stats is the immutable terminal snapshot of a run.
type Stats struct {
	FinalScore    int
	WaveReached   int
	ZombiesKilled int
	PlayTime      int64 // seconds
	Reason        Reason
}

// Summary is Stats rendered for the end screen.
type Summary struct {
	Stats

	ScoreDisplay    string
	PlayTimeDisplay string
	Message         string
	NewHighScore    bool
}

var reasonMessages = map[Reason]string{
	ReasonDeath:   "The horde overran you on wave {{ .WaveReached }}. Final score: {{ .ScoreDisplay }} in {{ .PlayTimeDisplay }}.",
	ReasonQuit:    "You pulled out on wave {{ .WaveReached }} with {{ .ScoreDisplay }} points banked.",
	ReasonTimeout: "Time ran out on wave {{ .WaveReached }}. Final score: {{ .ScoreDisplay }}.",
}

// Manager latches the first terminal condition of a run. Trigger is
// idempotent: whatever fires first wins, and later calls change nothing.
type Manager struct {
	over    bool
	stats   Stats
	restart bool
}

func NewManager() *Manager {
	return &Manager{}
}

// Trigger ends the run with the given stats. It returns true only on the
// call that actually ended the run.
func (m *Manager) Trigger(stats Stats) bool {
	if m.over {
		return false
	}

	m.over = true
	m.stats = stats
	return true
}

// IsOver reports whether the run has ended.
func (m *Manager) IsOver() bool {
	return m.over
}

// Stats returns the captured terminal snapshot. The second return is
// false while the run is still live.
func (m *Manager) Stats() (Stats, bool) {
	return m.stats, m.over
}

// Summarize renders the end screen values. baseline is the player's
// previous best score; the run is a new high score only when it strictly
// beats it. Summarizing a live run is an error.
func (m *Manager) Summarize(baseline int) (*Summary, error) {
	if !m.over {
		return nil, fmt.Errorf("run is still live")
	}

	s := &Summary{
		Stats:           m.stats,
		ScoreDisplay:    display.FormatScore(m.stats.FinalScore),
		PlayTimeDisplay: display.FormatPlayTime(m.stats.PlayTime),
		NewHighScore:    m.stats.FinalScore > baseline,
	}

	tmpl, ok := reasonMessages[m.stats.Reason]
	if !ok {
		return nil, fmt.Errorf("unknown game over reason %q", m.stats.Reason)
	}

	msg, err := display.ExpandTemplate(tmpl, s)
	if err != nil {
		return nil, fmt.Errorf("rendering message: %w", err)
	}
	s.Message = display.Wrap(msg)

	return s, nil
}

// RequestRestart flags that the player asked for a fresh run. It is only
// a signal: the simulation owner decides when to actually reinitialize.
func (m *Manager) RequestRestart() {
	if m.over {
		m.restart = true
	}
}

// RestartRequested reports whether a restart has been asked for.
func (m *Manager) RestartRequested() bool {
	return m.restart
}

// Reset clears the manager for a new run.
func (m *Manager) Reset() {
	m.over = false
	m.stats = Stats{}
	m.restart = false
}
