package leaderboard

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Submission is the final result of one run.
type Submission struct {
	Score           int
	WaveReached     int
	ZombiesKilled   int
	PlayTimeSeconds int64
}

// Validate checks the submission describes a playable run.
func (s Submission) Validate() error {
	el := errors.NewErrorList()

	if s.Score < 0 {
		el.Add(fmt.Errorf("score cannot be negative"))
	}
	if s.WaveReached < 1 {
		el.Add(fmt.Errorf("wave reached must be at least 1"))
	}
	if s.ZombiesKilled < 0 {
		el.Add(fmt.Errorf("zombies killed cannot be negative"))
	}
	if s.PlayTimeSeconds < 0 {
		el.Add(fmt.Errorf("play time cannot be negative"))
	}

	return el.Err()
}
