// Package snapshot is the wire codec for full game states. Encoding is
// canonical: a fixed field layout with every vector rounded to three
// decimal places. Decoding is strict: the first missing or mistyped field
// aborts with its exact path, with no partial recovery.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/deadwatch/horde/internal/game"
)

// Marshal encodes a snapshot in the canonical layout.
func Marshal(st *game.GameState) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("nil game state")
	}

	data, err := json.Marshal(Canonical(st))
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Canonical returns a deep copy with every vector rounded to the wire
// precision. The original is untouched.
func Canonical(st *game.GameState) *game.GameState {
	out := st.Clone()
	out.Player.Position = out.Player.Position.Round3()
	out.Player.Rotation = out.Player.Rotation.Round3()
	for i := range out.Zombies {
		out.Zombies[i].Position = out.Zombies[i].Position.Round3()
	}
	return out
}

// Unmarshal decodes and validates a snapshot document. Syntactically
// broken input fails with a ParseError; a structurally bad document fails
// with a FieldError naming the first offending field.
func Unmarshal(data []byte) (*game.GameState, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, &ParseError{Err: fmt.Errorf("trailing data after document")}
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &FieldError{Path: "", Expected: "object"}
	}

	var st game.GameState
	var err error

	if st.Player, err = decodePlayer(obj, "player"); err != nil {
		return nil, err
	}
	if st.Wave, err = decodeWave(obj, "wave"); err != nil {
		return nil, err
	}
	if st.Zombies, err = decodeZombies(obj, "zombies"); err != nil {
		return nil, err
	}

	score, err := intField(obj, "", "score")
	if err != nil {
		return nil, err
	}
	if score < 0 {
		return nil, &FieldError{Path: "score", Expected: "non-negative integer"}
	}
	st.Score = int(score)

	if st.PlayTime, err = intField(obj, "", "playTime"); err != nil {
		return nil, err
	}
	if st.PlayTime < 0 {
		return nil, &FieldError{Path: "playTime", Expected: "non-negative integer"}
	}

	if st.Timestamp, err = intField(obj, "", "timestamp"); err != nil {
		return nil, err
	}

	return &st, nil
}

func decodePlayer(obj map[string]any, path string) (game.PlayerState, error) {
	var p game.PlayerState

	po, err := objField(obj, "", path)
	if err != nil {
		return p, err
	}

	if p.Position, err = vectorField(po, path, "position"); err != nil {
		return p, err
	}
	if p.Rotation, err = vectorField(po, path, "rotation"); err != nil {
		return p, err
	}

	health, err := intField(po, path, "health")
	if err != nil {
		return p, err
	}
	p.Health = int(health)

	stamina, err := intField(po, path, "stamina")
	if err != nil {
		return p, err
	}
	p.Stamina = int(stamina)

	weapons, err := arrayField(po, path, "weapons")
	if err != nil {
		return p, err
	}
	p.Weapons = make([]game.WeaponState, 0, len(weapons))
	for i, raw := range weapons {
		wpath := fmt.Sprintf("%s.weapons[%d]", path, i)

		wo, ok := raw.(map[string]any)
		if !ok {
			return p, &FieldError{Path: wpath, Expected: "object"}
		}

		var w game.WeaponState
		if w.ID, err = stringField(wo, wpath, "id"); err != nil {
			return p, err
		}

		cur, err := intField(wo, wpath, "currentAmmo")
		if err != nil {
			return p, err
		}
		if cur < 0 {
			return p, &FieldError{Path: wpath + ".currentAmmo", Expected: "non-negative integer"}
		}
		w.CurrentAmmo = int(cur)

		res, err := intField(wo, wpath, "reserveAmmo")
		if err != nil {
			return p, err
		}
		if res < 0 {
			return p, &FieldError{Path: wpath + ".reserveAmmo", Expected: "non-negative integer"}
		}
		w.ReserveAmmo = int(res)

		p.Weapons = append(p.Weapons, w)
	}

	idx, err := intField(po, path, "currentWeaponIndex")
	if err != nil {
		return p, err
	}
	p.CurrentWeaponIndex = int(idx)

	return p, nil
}

func decodeWave(obj map[string]any, path string) (game.WaveState, error) {
	var w game.WaveState

	wo, err := objField(obj, "", path)
	if err != nil {
		return w, err
	}

	cur, err := intField(wo, path, "currentWave")
	if err != nil {
		return w, err
	}
	if cur < 1 {
		return w, &FieldError{Path: path + ".currentWave", Expected: "positive integer"}
	}
	w.CurrentWave = int(cur)

	killed, err := intField(wo, path, "zombiesKilled")
	if err != nil {
		return w, err
	}
	if killed < 0 {
		return w, &FieldError{Path: path + ".zombiesKilled", Expected: "non-negative integer"}
	}
	w.ZombiesKilled = int(killed)

	total, err := intField(wo, path, "totalZombiesInWave")
	if err != nil {
		return w, err
	}
	if total < 0 {
		return w, &FieldError{Path: path + ".totalZombiesInWave", Expected: "non-negative integer"}
	}
	w.TotalZombiesInWave = int(total)

	if w.IsPreparationPhase, err = boolField(wo, path, "isPreparationPhase"); err != nil {
		return w, err
	}

	return w, nil
}

func decodeZombies(obj map[string]any, path string) ([]game.ZombieState, error) {
	arr, err := arrayField(obj, "", path)
	if err != nil {
		return nil, err
	}

	zombies := make([]game.ZombieState, 0, len(arr))
	for i, raw := range arr {
		zpath := fmt.Sprintf("%s[%d]", path, i)

		zo, ok := raw.(map[string]any)
		if !ok {
			return nil, &FieldError{Path: zpath, Expected: "object"}
		}

		var z game.ZombieState
		if z.ID, err = stringField(zo, zpath, "id"); err != nil {
			return nil, err
		}
		if z.Position, err = vectorField(zo, zpath, "position"); err != nil {
			return nil, err
		}

		health, err := intField(zo, zpath, "health")
		if err != nil {
			return nil, err
		}
		z.Health = int(health)

		state, err := stringField(zo, zpath, "state")
		if err != nil {
			return nil, err
		}
		z.State = game.Behavior(state)
		if z.State.Validate() != nil {
			return nil, &FieldError{Path: zpath + ".state", Expected: "zombie state"}
		}

		variant, err := stringField(zo, zpath, "variant")
		if err != nil {
			return nil, err
		}
		z.Variant = game.Variant(variant)
		if z.Variant.Validate() != nil {
			return nil, &FieldError{Path: zpath + ".variant", Expected: "zombie variant"}
		}

		zombies = append(zombies, z)
	}

	return zombies, nil
}

func vectorField(obj map[string]any, path, key string) (game.Vector3, error) {
	var v game.Vector3

	vo, err := objField(obj, path, key)
	if err != nil {
		return v, err
	}

	vpath := join(path, key)
	if v.X, err = numberField(vo, vpath, "x"); err != nil {
		return v, err
	}
	if v.Y, err = numberField(vo, vpath, "y"); err != nil {
		return v, err
	}
	if v.Z, err = numberField(vo, vpath, "z"); err != nil {
		return v, err
	}

	return v, nil
}

func objField(obj map[string]any, path, key string) (map[string]any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, &FieldError{Path: join(path, key), Expected: "object"}
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, &FieldError{Path: join(path, key), Expected: "object"}
	}
	return m, nil
}

func arrayField(obj map[string]any, path, key string) ([]any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, &FieldError{Path: join(path, key), Expected: "array"}
	}

	a, ok := v.([]any)
	if !ok {
		return nil, &FieldError{Path: join(path, key), Expected: "array"}
	}
	return a, nil
}

func stringField(obj map[string]any, path, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", &FieldError{Path: join(path, key), Expected: "string"}
	}

	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Path: join(path, key), Expected: "string"}
	}
	return s, nil
}

func boolField(obj map[string]any, path, key string) (bool, error) {
	v, ok := obj[key]
	if !ok {
		return false, &FieldError{Path: join(path, key), Expected: "boolean"}
	}

	b, ok := v.(bool)
	if !ok {
		return false, &FieldError{Path: join(path, key), Expected: "boolean"}
	}
	return b, nil
}

func numberField(obj map[string]any, path, key string) (float64, error) {
	v, ok := obj[key]
	if !ok {
		return 0, &FieldError{Path: join(path, key), Expected: "number"}
	}

	n, ok := v.(json.Number)
	if !ok {
		return 0, &FieldError{Path: join(path, key), Expected: "number"}
	}

	f, err := n.Float64()
	if err != nil {
		return 0, &FieldError{Path: join(path, key), Expected: "number"}
	}
	return f, nil
}

// intField reads an integral number. A field holding the wrong JSON type
// reads as "expected number"; a real number that isn't integral reads as
// "expected integer".
func intField(obj map[string]any, path, key string) (int64, error) {
	v, ok := obj[key]
	if !ok {
		return 0, &FieldError{Path: join(path, key), Expected: "number"}
	}

	n, ok := v.(json.Number)
	if !ok {
		return 0, &FieldError{Path: join(path, key), Expected: "number"}
	}

	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, &FieldError{Path: join(path, key), Expected: "integer"}
	}
	return i, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
