package weapon

// FiredEvent reports a shot resolved by the active weapon.
type FiredEvent struct {
	Slot     int
	WeaponID string
	Rays     int
	Hits     []Hit
	Damage   int
	AmmoLeft int
}

// ReloadEvent reports a reload starting, finishing, or being cancelled on
// the active weapon. Transferred is only set on completion.
type ReloadEvent struct {
	Slot        int
	WeaponID    string
	Transferred int
}

// SwitchEvent reports the active slot changing.
type SwitchEvent struct {
	PrevSlot int
	Slot     int
	WeaponID string
}

// Observer receives notifications about the active weapon. Inactive
// weapons keep ticking (cooldowns elapse, reloads cancel on switch) but
// stay silent.
type Observer interface {
	OnFired(FiredEvent)
	OnReloadStarted(ReloadEvent)
	OnReloadFinished(ReloadEvent)
	OnReloadCancelled(ReloadEvent)
	OnWeaponSwitched(SwitchEvent)
}
