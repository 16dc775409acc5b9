package snapshot

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/deadwatch/horde/internal/game"
)

func vectorGen() *rapid.Generator[game.Vector3] {
	coord := rapid.Float64Range(-5000, 5000)
	return rapid.Custom(func(rt *rapid.T) game.Vector3 {
		return game.Vector3{
			X: coord.Draw(rt, "x"),
			Y: coord.Draw(rt, "y"),
			Z: coord.Draw(rt, "z"),
		}
	})
}

func weaponGen() *rapid.Generator[game.WeaponState] {
	return rapid.Custom(func(rt *rapid.T) game.WeaponState {
		return game.WeaponState{
			ID:          rapid.StringMatching(`[a-z][a-z0-9]{0,7}`).Draw(rt, "id"),
			CurrentAmmo: rapid.IntRange(0, 999).Draw(rt, "currentAmmo"),
			ReserveAmmo: rapid.IntRange(0, 999).Draw(rt, "reserveAmmo"),
		}
	})
}

func zombieGen() *rapid.Generator[game.ZombieState] {
	return rapid.Custom(func(rt *rapid.T) game.ZombieState {
		return game.ZombieState{
			ID:       rapid.StringMatching(`z-[0-9]{1,4}`).Draw(rt, "id"),
			Position: vectorGen().Draw(rt, "position"),
			Health:   rapid.IntRange(0, 500).Draw(rt, "health"),
			State:    rapid.SampledFrom(game.Behaviors()).Draw(rt, "state"),
			Variant:  rapid.SampledFrom(game.Variants()).Draw(rt, "variant"),
		}
	})
}

func stateGen() *rapid.Generator[*game.GameState] {
	return rapid.Custom(func(rt *rapid.T) *game.GameState {
		weapons := rapid.SliceOfN(weaponGen(), 1, 4).Draw(rt, "weapons")

		return &game.GameState{
			Player: game.PlayerState{
				Position:           vectorGen().Draw(rt, "position"),
				Rotation:           vectorGen().Draw(rt, "rotation"),
				Health:             rapid.IntRange(0, 100).Draw(rt, "health"),
				Stamina:            rapid.IntRange(0, 100).Draw(rt, "stamina"),
				Weapons:            weapons,
				CurrentWeaponIndex: rapid.IntRange(0, len(weapons)-1).Draw(rt, "currentWeaponIndex"),
			},
			Wave: game.WaveState{
				CurrentWave:        rapid.IntRange(1, 60).Draw(rt, "currentWave"),
				ZombiesKilled:      rapid.IntRange(0, 60).Draw(rt, "zombiesKilled"),
				TotalZombiesInWave: rapid.IntRange(0, 60).Draw(rt, "totalZombiesInWave"),
				IsPreparationPhase: rapid.Bool().Draw(rt, "isPreparationPhase"),
			},
			Zombies:   rapid.SliceOfN(zombieGen(), 0, 12).Draw(rt, "zombies"),
			Score:     rapid.IntRange(0, 1_000_000_000).Draw(rt, "score"),
			PlayTime:  rapid.Int64Range(0, 1_000_000).Draw(rt, "playTime"),
			Timestamp: rapid.Int64Range(0, 4_000_000_000_000).Draw(rt, "timestamp"),
		}
	})
}

// Decoding an encoded snapshot always lands on the canonical form of the
// original: identical up to 3-decimal rounding of every vector.
func TestRoundTrip_AnyValidState(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		orig := stateGen().Draw(rt, "state")

		data, err := Marshal(orig)
		if err != nil {
			rt.Fatalf("encode: %v", err)
		}

		decoded, err := Unmarshal(data)
		if err != nil {
			rt.Fatalf("decode: %v\ndocument: %s", err, data)
		}

		want := Canonical(orig)
		if !reflect.DeepEqual(decoded, want) {
			rt.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", decoded, want)
		}
	})
}

// Encoding is stable: canonicalizing twice changes nothing.
func TestCanonical_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		orig := stateGen().Draw(rt, "state")

		once := Canonical(orig)
		twice := Canonical(once)
		if !reflect.DeepEqual(once, twice) {
			rt.Fatalf("canonical form not stable:\nonce: %+v\ntwice: %+v", once, twice)
		}
	})
}
