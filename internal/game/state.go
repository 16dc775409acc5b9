package game

import "math"

// Vector3 is a 3D coordinate triple used for positions and rotations.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Round3 returns the vector with every coordinate rounded to 3 decimal
// places, the precision every serialized snapshot carries.
func (v Vector3) Round3() Vector3 {
	return Vector3{
		X: math.Round(v.X*1000) / 1000,
		Y: math.Round(v.Y*1000) / 1000,
		Z: math.Round(v.Z*1000) / 1000,
	}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v multiplied by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length returns the euclidean length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// WeaponState is the serializable ammo bookkeeping for one weapon slot.
type WeaponState struct {
	ID          string `json:"id"`
	CurrentAmmo int    `json:"currentAmmo"`
	ReserveAmmo int    `json:"reserveAmmo"`
}

// PlayerState is the serializable state of the player.
type PlayerState struct {
	Position           Vector3       `json:"position"`
	Rotation           Vector3       `json:"rotation"`
	Health             int           `json:"health"`
	Stamina            int           `json:"stamina"`
	Weapons            []WeaponState `json:"weapons"`
	CurrentWeaponIndex int           `json:"currentWeaponIndex"`
}

// ZombieState is the serializable state of a single zombie.
type ZombieState struct {
	ID       string   `json:"id"`
	Position Vector3  `json:"position"`
	Health   int      `json:"health"`
	State    Behavior `json:"state"`
	Variant  Variant  `json:"variant"`
}

// WaveState is the shared wave-progression record. Its shape is fixed: the
// wave manager, the serializer and the save service all exchange exactly
// these four fields.
type WaveState struct {
	CurrentWave        int  `json:"currentWave"`
	ZombiesKilled      int  `json:"zombiesKilled"`
	TotalZombiesInWave int  `json:"totalZombiesInWave"`
	IsPreparationPhase bool `json:"isPreparationPhase"`
}

// GameState is the full simulation snapshot, the single unit of
// serialization. PlayTime is in seconds, Timestamp in epoch milliseconds.
type GameState struct {
	Player    PlayerState   `json:"player"`
	Wave      WaveState     `json:"wave"`
	Zombies   []ZombieState `json:"zombies"`
	Score     int           `json:"score"`
	PlayTime  int64         `json:"playTime"`
	Timestamp int64         `json:"timestamp"`
}

// Clone returns a deep copy of the state. Mutating the copy never touches
// the original's weapon or zombie slices.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Player.Weapons = make([]WeaponState, len(s.Player.Weapons))
	copy(out.Player.Weapons, s.Player.Weapons)
	out.Zombies = make([]ZombieState, len(s.Zombies))
	copy(out.Zombies, s.Zombies)
	return &out
}
