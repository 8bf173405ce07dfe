// Package sim composes the mission state machine, the batch replanner, the
// spawner, and the tick-driven executor into one fleet simulation, over the
// coordination primitives in internal/core and internal/planner.
package sim

import "warehouse-sim/internal/core"

// RobotState is the agent's operational state (spec.md §3).
type RobotState int

const (
	Idle RobotState = iota
	Moving
	Loading
	Unloading
	Charging
	Fault
)

func (s RobotState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Moving:
		return "Moving"
	case Loading:
		return "Loading"
	case Unloading:
		return "Unloading"
	case Charging:
		return "Charging"
	case Fault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// basePriority returns the state's contribution to the dynamic priority
// score (spec.md §4.7): lower is scheduled first.
func (s RobotState) basePriority() int {
	switch s {
	case Fault:
		return 0
	case Loading, Unloading:
		return 10
	case Moving:
		return 20
	case Idle:
		return 30
	case Charging:
		return 40
	default:
		return 30
	}
}

// MissionPhase is the agent's position in the pickup/drop-off loop.
type MissionPhase int

const (
	GoingToStorage MissionPhase = iota
	PickingUp
	GoingToCargo
	DroppingOff
)

func (p MissionPhase) String() string {
	switch p {
	case GoingToStorage:
		return "GoingToStorage"
	case PickingUp:
		return "PickingUp"
	case GoingToCargo:
		return "GoingToCargo"
	case DroppingOff:
		return "DroppingOff"
	default:
		return "Unknown"
	}
}

// PlannedPath is an ordered (cell, tick) trajectory with a cursor marking
// the next waypoint to execute.
type PlannedPath struct {
	Waypoints []core.PathStep
	Cursor    int
}

// Current returns the next unexecuted waypoint, if any.
func (p *PlannedPath) Current() (core.PathStep, bool) {
	if p.Cursor >= len(p.Waypoints) {
		return core.PathStep{}, false
	}
	return p.Waypoints[p.Cursor], true
}

// Advance moves the cursor past the current waypoint.
func (p *PlannedPath) Advance() {
	if p.Cursor < len(p.Waypoints) {
		p.Cursor++
	}
}

// Remaining returns the not-yet-executed tail of the path.
func (p *PlannedPath) Remaining() []core.PathStep {
	if p.Cursor >= len(p.Waypoints) {
		return nil
	}
	return p.Waypoints[p.Cursor:]
}

// Clear empties the path.
func (p *PlannedPath) Clear() {
	p.Waypoints = nil
	p.Cursor = 0
}

// IsEmpty reports whether there is nothing left to execute.
func (p *PlannedPath) IsEmpty() bool {
	return p.Cursor >= len(p.Waypoints)
}

// ActionTimer counts down the seconds remaining in a Loading/Unloading
// action.
type ActionTimer struct {
	Remaining float64
}

// Tick decrements the timer by delta seconds and reports whether it has
// expired.
func (a *ActionTimer) Tick(delta float64) bool {
	a.Remaining -= delta
	return a.Remaining <= 0
}

// Agent is one robot's full state. Agents are never deleted (spec.md §3);
// fault handling clears reservations but keeps the entity. The fleet stores
// Agents in a dense slice (internal/sim/fleet.go) rather than a map, per the
// §9 design note preferring a component-store layout for cheap per-tick
// iteration.
type Agent struct {
	ID  core.AgentID
	Seq int // spawn order, used as the final tiebreak in priority sort

	Position    core.GridPos
	Destination core.GridPos

	Phase         MissionPhase
	StorageTarget core.GridPos
	CargoTarget   core.GridPos

	State    RobotState
	Loaded   bool
	Energy   float64
	Priority int

	Path   PlannedPath
	Action *ActionTimer // nil outside Loading/Unloading
}
