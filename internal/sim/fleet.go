package sim

import "warehouse-sim/internal/core"

// Fleet is the dense component store of all agents ever spawned. Agents are
// appended in spawn order and never removed, matching spec.md §3's
// lifecycle ("the system does not delete agents").
type Fleet struct {
	agents []Agent
	index  map[core.AgentID]int
}

// NewFleet returns an empty fleet.
func NewFleet() *Fleet {
	return &Fleet{index: make(map[core.AgentID]int)}
}

// Add appends a new agent and returns its stable handle.
func (f *Fleet) Add(a Agent) core.AgentID {
	a.Seq = len(f.agents)
	f.agents = append(f.agents, a)
	f.index[a.ID] = len(f.agents) - 1
	return a.ID
}

// Get returns a pointer to the agent identified by id, for in-place
// mutation, or nil if id is unknown.
func (f *Fleet) Get(id core.AgentID) *Agent {
	i, ok := f.index[id]
	if !ok {
		return nil
	}
	return &f.agents[i]
}

// Len returns the total number of agents ever spawned.
func (f *Fleet) Len() int { return len(f.agents) }

// All returns every agent slot for iteration. Callers must not retain the
// slice across a call to Add, which may grow and reallocate it.
func (f *Fleet) All() []Agent { return f.agents }

// Each calls fn with a pointer to every agent, in spawn order, allowing
// in-place mutation.
func (f *Fleet) Each(fn func(*Agent)) {
	for i := range f.agents {
		fn(&f.agents[i])
	}
}

// PositionOccupied reports whether any agent currently sits at pos.
func (f *Fleet) PositionOccupied(pos core.GridPos) bool {
	for i := range f.agents {
		if f.agents[i].Position == pos {
			return true
		}
	}
	return false
}
