package weapon

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// Class identifies how a weapon resolves a trigger pull.
type Class string

const (
	// ClassHitscan fires a single instantaneous ray per shot.
	ClassHitscan Class = "hitscan"
	// ClassSpread fires a cone of independent pellet rays per shot.
	ClassSpread Class = "spread"
	// ClassMelee swings in arm's reach and never consumes ammo.
	ClassMelee Class = "melee"
)

// Validate returns an error when c is not a known class.
func (c Class) Validate() error {
	switch c {
	case ClassHitscan, ClassSpread, ClassMelee:
		return nil
	default:
		return fmt.Errorf("unknown weapon class %q", c)
	}
}

// Config is the immutable tuning for one weapon. Damage is per ray, so a
// spread weapon's full-connect damage is Damage times PelletCount.
// FireRate is in rounds per second, ReloadTime in seconds, Range in world
// units, Spread the cone half-angle in radians.
type Config struct {
	Name           string  `json:"name"`
	Class          Class   `json:"class"`
	Damage         int     `json:"damage"`
	FireRate       float64 `json:"fireRate"`
	MagazineSize   int     `json:"magazineSize"`
	MaxReserveAmmo int     `json:"maxReserveAmmo"`
	ReloadTime     float64 `json:"reloadTime"`
	Range          float64 `json:"range"`
	Spread         float64 `json:"spread,omitempty"`
	PelletCount    int     `json:"pelletCount,omitempty"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}

	el.Add(c.Class.Validate())

	if c.Damage <= 0 {
		el.Add(fmt.Errorf("damage must be positive"))
	}

	if c.FireRate <= 0 {
		el.Add(fmt.Errorf("fire rate must be positive"))
	}

	if c.Range <= 0 {
		el.Add(fmt.Errorf("range must be positive"))
	}

	if c.Class != ClassMelee {
		if c.MagazineSize <= 0 {
			el.Add(fmt.Errorf("magazine size must be positive"))
		}
		if c.MaxReserveAmmo < 0 {
			el.Add(fmt.Errorf("max reserve ammo cannot be negative"))
		}
		if c.ReloadTime <= 0 {
			el.Add(fmt.Errorf("reload time must be positive"))
		}
	}

	if c.Class == ClassSpread {
		if c.PelletCount < 2 {
			el.Add(fmt.Errorf("pellet count must be at least 2"))
		}
		if c.Spread <= 0 {
			el.Add(fmt.Errorf("spread must be positive"))
		}
	}

	return el.Err()
}

// cooldown is the minimum interval between shots.
func (c *Config) cooldown() time.Duration {
	return time.Duration(float64(time.Second) / c.FireRate)
}

// reloadDuration is ReloadTime as a Duration.
func (c *Config) reloadDuration() time.Duration {
	return time.Duration(c.ReloadTime * float64(time.Second))
}

// Builtins returns the stock weapon tuning keyed by weapon id. An asset
// directory can override any of these.
func Builtins() map[string]*Config {
	return map[string]*Config{
		"pistol": {
			Name:           "9mm Pistol",
			Class:          ClassHitscan,
			Damage:         25,
			FireRate:       3.0,
			MagazineSize:   12,
			MaxReserveAmmo: 96,
			ReloadTime:     1.4,
			Range:          50,
		},
		"rifle": {
			Name:           "Combat Rifle",
			Class:          ClassHitscan,
			Damage:         30,
			FireRate:       8.0,
			MagazineSize:   30,
			MaxReserveAmmo: 180,
			ReloadTime:     2.2,
			Range:          80,
		},
		"shotgun": {
			Name:           "Pump Shotgun",
			Class:          ClassSpread,
			Damage:         15,
			FireRate:       1.2,
			MagazineSize:   6,
			MaxReserveAmmo: 48,
			ReloadTime:     2.6,
			Range:          25,
			Spread:         0.12,
			PelletCount:    8,
		},
		"knife": {
			Name:           "Combat Knife",
			Class:          ClassMelee,
			Damage:         50,
			FireRate:       1.5,
			Range:          2.2,
		},
	}
}
