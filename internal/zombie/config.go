// Package zombie holds the tuning definitions for the horde's variants.
package zombie

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/deadwatch/horde/internal/game"
)

// Config is the immutable tuning for one zombie variant. Speed is in world
// units per second, AttackRange in world units, AttackInterval in seconds.
type Config struct {
	Name           string       `json:"name"`
	Variant        game.Variant `json:"variant"`
	Health         int          `json:"health"`
	Speed          float64      `json:"speed"`
	Damage         int          `json:"damage"`
	AttackRange    float64      `json:"attackRange"`
	AttackInterval float64      `json:"attackInterval"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}

	el.Add(c.Variant.Validate())

	if c.Health <= 0 {
		el.Add(fmt.Errorf("health must be positive"))
	}
	if c.Speed <= 0 {
		el.Add(fmt.Errorf("speed must be positive"))
	}
	if c.Damage <= 0 {
		el.Add(fmt.Errorf("damage must be positive"))
	}
	if c.AttackRange <= 0 {
		el.Add(fmt.Errorf("attack range must be positive"))
	}
	if c.AttackInterval <= 0 {
		el.Add(fmt.Errorf("attack interval must be positive"))
	}

	return el.Err()
}

// Cadence is AttackInterval as a Duration.
func (c *Config) Cadence() time.Duration {
	return time.Duration(c.AttackInterval * float64(time.Second))
}

// Builtins returns the stock variant tuning keyed by variant id. An asset
// directory can override any of these.
func Builtins() map[string]*Config {
	return map[string]*Config{
		"walker": {
			Name:           "Walker",
			Variant:        game.VariantWalker,
			Health:         100,
			Speed:          1.2,
			Damage:         10,
			AttackRange:    1.6,
			AttackInterval: 1.5,
		},
		"runner": {
			Name:           "Runner",
			Variant:        game.VariantRunner,
			Health:         60,
			Speed:          3.5,
			Damage:         8,
			AttackRange:    1.5,
			AttackInterval: 1.0,
		},
		"brute": {
			Name:           "Brute",
			Variant:        game.VariantBrute,
			Health:         250,
			Speed:          0.8,
			Damage:         25,
			AttackRange:    2.0,
			AttackInterval: 2.5,
		},
		"spitter": {
			Name:           "Spitter",
			Variant:        game.VariantSpitter,
			Health:         80,
			Speed:          1.0,
			Damage:         12,
			AttackRange:    8.0,
			AttackInterval: 2.0,
		},
	}
}
