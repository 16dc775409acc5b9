package game

import "fmt"

// Variant identifies a zombie archetype.
type Variant string

const (
	VariantWalker  Variant = "walker"
	VariantRunner  Variant = "runner"
	VariantBrute   Variant = "brute"
	VariantSpitter Variant = "spitter"
)

// Validate returns an error when v is not a known variant.
func (v Variant) Validate() error {
	switch v {
	case VariantWalker, VariantRunner, VariantBrute, VariantSpitter:
		return nil
	default:
		return fmt.Errorf("unknown zombie variant %q", v)
	}
}

// Behavior identifies what a zombie is currently doing.
type Behavior string

const (
	BehaviorIdle      Behavior = "idle"
	BehaviorChasing   Behavior = "chasing"
	BehaviorAttacking Behavior = "attacking"
	BehaviorDead      Behavior = "dead"
)

// Validate returns an error when b is not a known behavior.
func (b Behavior) Validate() error {
	switch b {
	case BehaviorIdle, BehaviorChasing, BehaviorAttacking, BehaviorDead:
		return nil
	default:
		return fmt.Errorf("unknown zombie state %q", b)
	}
}

// Variants lists every archetype in a stable order.
func Variants() []Variant {
	return []Variant{VariantWalker, VariantRunner, VariantBrute, VariantSpitter}
}

// Behaviors lists every behavior in a stable order.
func Behaviors() []Behavior {
	return []Behavior{BehaviorIdle, BehaviorChasing, BehaviorAttacking, BehaviorDead}
}
