package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/deadwatch/horde/internal/arena"
	"github.com/deadwatch/horde/internal/wave"
)

type ArenaConfig struct {
	// IdleTimeout ends runs that stop sending input. "0s" disables the
	// sweep entirely; empty keeps the built-in default.
	IdleTimeout string     `json:"idle_timeout"`
	Loadout     []string   `json:"loadout"`
	Wave        WaveConfig `json:"wave"`
}

func (c *ArenaConfig) Validate() error {
	el := errors.NewErrorList()

	if c.IdleTimeout != "" {
		_, err := time.ParseDuration(c.IdleTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing idle_timeout: %w", err))
		}
	}

	if _, err := c.Wave.build(); err != nil {
		el.Add(fmt.Errorf("wave: %w", err))
	}

	return el.Err()
}

func (c *ArenaConfig) BuildOpts() ([]arena.ArenaOpt, error) {
	var opts []arena.ArenaOpt

	if c.IdleTimeout != "" {
		d, err := time.ParseDuration(c.IdleTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing idle_timeout: %w", err)
		}
		opts = append(opts, arena.WithIdleTimeout(d))
	}

	if len(c.Loadout) > 0 {
		opts = append(opts, arena.WithLoadout(c.Loadout))
	}

	waveCfg, err := c.Wave.build()
	if err != nil {
		return nil, fmt.Errorf("wave: %w", err)
	}
	opts = append(opts, arena.WithWaveConfig(waveCfg))

	return opts, nil
}

// WaveConfig overlays the stock wave pacing. Zero values keep the
// defaults.
type WaveConfig struct {
	PrepTime          string `json:"prep_time"`
	BasePopulation    int    `json:"base_population"`
	PopulationPerWave int    `json:"population_per_wave"`
	MaxPopulation     int    `json:"max_population"`
}

func (c *WaveConfig) build() (wave.Config, error) {
	cfg := wave.DefaultConfig()

	if c.PrepTime != "" {
		d, err := time.ParseDuration(c.PrepTime)
		if err != nil {
			return cfg, fmt.Errorf("parsing prep_time: %w", err)
		}
		cfg.PrepTime = d
	}
	if c.BasePopulation != 0 {
		cfg.BasePopulation = c.BasePopulation
	}
	if c.PopulationPerWave != 0 {
		cfg.PopulationPerWave = c.PopulationPerWave
	}
	if c.MaxPopulation != 0 {
		cfg.MaxPopulation = c.MaxPopulation
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
