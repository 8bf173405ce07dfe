package sim

import "warehouse-sim/internal/core"

// Mission duration constants, in seconds (spec.md §6).
const (
	PickupDuration  = 4.0
	DropoffDuration = 3.0
)

// AdvanceMissions runs one tick of the mission state machine over every
// agent (spec.md §4.6). delta is the real elapsed seconds since the last
// tick, used to drive action timers.
func AdvanceMissions(fleet *Fleet, zones *core.Zones, delta float64) {
	fleet.Each(func(a *Agent) {
		advanceMission(a, zones, delta)
	})
}

func advanceMission(a *Agent, zones *core.Zones, delta float64) {
	switch a.Phase {
	case GoingToStorage:
		if a.Position == a.StorageTarget {
			a.Phase = PickingUp
			a.State = Loading
			a.Action = &ActionTimer{Remaining: PickupDuration}
		}

	case PickingUp:
		if a.Action != nil && a.Action.Tick(delta) {
			a.Action = nil
			a.Loaded = true
			zones.ReleaseStorage(a.StorageTarget)
			a.Phase = GoingToCargo
			a.Destination = a.CargoTarget
			a.State = Moving
		}

	case GoingToCargo:
		if a.Position == a.CargoTarget {
			a.Phase = DroppingOff
			a.State = Unloading
			a.Action = &ActionTimer{Remaining: DropoffDuration}
		}

	case DroppingOff:
		if a.Action != nil && a.Action.Tick(delta) {
			a.Action = nil
			a.Loaded = false
			zones.ReleaseCargo(a.CargoTarget)
			tryStartNextMission(a, zones)
		}
	}
}

// RetryIdleAgents re-attempts the storage+cargo acquisition for every agent
// parked Idle by a failed pair acquisition (spec.md §4.6's "idle retry
// path"). It must run every tick, independent of mission phase transitions,
// because an Idle agent has no timer to drive it forward.
func RetryIdleAgents(fleet *Fleet, zones *core.Zones) {
	fleet.Each(func(a *Agent) {
		if a.State != Idle {
			return
		}
		// Only agents between missions (no live storage/cargo target to
		// chase) are eligible; a Fault-recovered agent would need separate
		// handling, which is out of scope (spec.md §9).
		tryStartNextMission(a, zones)
	})
}

// tryStartNextMission attempts to acquire a fresh (storage, cargo) pair for
// a, rolling back a partial acquisition on failure, per spec.md §4.6's
// DroppingOff transition table.
func tryStartNextMission(a *Agent, zones *core.Zones) {
	storage, okStorage := zones.ReserveStorage()
	if !okStorage {
		a.State = Idle
		return
	}
	cargo, okCargo := zones.ReserveCargo()
	if !okCargo {
		zones.ReleaseStorage(storage)
		a.State = Idle
		return
	}
	a.StorageTarget = storage
	a.CargoTarget = cargo
	a.Phase = GoingToStorage
	a.Destination = storage
	a.State = Moving
	a.Loaded = false
}
