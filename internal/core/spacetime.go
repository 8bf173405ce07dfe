package core

import "github.com/google/uuid"

// AgentID is the stable opaque handle spec.md §3 calls for. It is backed by
// a uuid so it remains a valid identifier across the telemetry wire (§6)
// and is never reused even if the underlying agent slot in the component
// store is recycled.
type AgentID uuid.UUID

// NilAgentID is the zero-value handle, held by no agent.
var NilAgentID = AgentID(uuid.Nil)

// NewAgentID mints a fresh random handle.
func NewAgentID() AgentID {
	return AgentID(uuid.New())
}

func (a AgentID) String() string {
	return uuid.UUID(a).String()
}

type spaceTimeKey struct {
	pos  GridPos
	tick uint64
}

// SpaceTimeTable is the shared coordination medium: a mapping from
// (cell, tick) to the agent holding that slot. Ownership is single-writer;
// see spec.md §4.3 and §9 (reserve is idempotent for the same owner, and
// rejects conflicts with another owner).
type SpaceTimeTable struct {
	reservations map[spaceTimeKey]AgentID
	currentTick  uint64
}

// NewSpaceTimeTable returns an empty table at tick 0.
func NewSpaceTimeTable() *SpaceTimeTable {
	return &SpaceTimeTable{reservations: make(map[spaceTimeKey]AgentID)}
}

// Reserve claims (cell, tick) for agent. Succeeds if the slot is empty or
// already owned by agent (in which case it is a no-op overwrite); fails
// without mutation if another agent holds it.
func (t *SpaceTimeTable) Reserve(pos GridPos, tick uint64, agent AgentID) bool {
	key := spaceTimeKey{pos: pos, tick: tick}
	if owner, ok := t.reservations[key]; ok && owner != agent {
		return false
	}
	t.reservations[key] = agent
	return true
}

// ReservePath reserves every (cell, tick) pair atomically: it first checks
// that every slot is free or self-owned, and only commits if the whole path
// clears that check. No partial reservation is ever left behind.
func (t *SpaceTimeTable) ReservePath(path []PathStep, agent AgentID) bool {
	for _, step := range path {
		key := spaceTimeKey{pos: step.Pos, tick: step.Tick}
		if owner, ok := t.reservations[key]; ok && owner != agent {
			return false
		}
	}
	for _, step := range path {
		t.reservations[spaceTimeKey{pos: step.Pos, tick: step.Tick}] = agent
	}
	return true
}

// IsFree reports whether (pos, tick) is unclaimed, or claimed by exclude.
func (t *SpaceTimeTable) IsFree(pos GridPos, tick uint64, exclude AgentID) bool {
	owner, ok := t.reservations[spaceTimeKey{pos: pos, tick: tick}]
	return !ok || owner == exclude
}

// IsEdgeFree reports whether moving from -> to across tick -> tick+1 would
// create a swap conflict: it is false only if some other agent holds
// (to, tick) or (from, tick+1), i.e. is making the mirror-image move.
func (t *SpaceTimeTable) IsEdgeFree(from, to GridPos, tick uint64, exclude AgentID) bool {
	toOccupant, toOk := t.reservations[spaceTimeKey{pos: to, tick: tick}]
	fromOccupant, fromOk := t.reservations[spaceTimeKey{pos: from, tick: tick + 1}]
	toFree := !toOk || toOccupant == exclude
	fromFree := !fromOk || fromOccupant == exclude
	return toFree && fromFree
}

// ClearAgent removes every reservation owned by agent.
func (t *SpaceTimeTable) ClearAgent(agent AgentID) {
	for key, owner := range t.reservations {
		if owner == agent {
			delete(t.reservations, key)
		}
	}
}

// ClearAgentExceptPos removes every reservation of agent except those at pos
// with tick in [now, now+3), preserving short-term self-anchoring across a
// replan (spec.md §4.3).
func (t *SpaceTimeTable) ClearAgentExceptPos(agent AgentID, pos GridPos, now uint64) {
	for key, owner := range t.reservations {
		if owner != agent {
			continue
		}
		if key.pos == pos && key.tick >= now && key.tick < now+3 {
			continue
		}
		delete(t.reservations, key)
	}
}

// Cleanup drops every entry with tick < now-1, retaining the immediately
// preceding tick (spec.md I3).
func (t *SpaceTimeTable) Cleanup(now uint64) {
	var floor uint64
	if now > 0 {
		floor = now - 1
	}
	for key := range t.reservations {
		if key.tick < floor {
			delete(t.reservations, key)
		}
	}
}

// CurrentTick returns the table's monotonic tick counter.
func (t *SpaceTimeTable) CurrentTick() uint64 { return t.currentTick }

// AdvanceTick increments the monotonic tick counter by one.
func (t *SpaceTimeTable) AdvanceTick() { t.currentTick++ }

// PathStep is one (cell, tick) waypoint of a planned path.
type PathStep struct {
	Pos  GridPos
	Tick uint64
}
