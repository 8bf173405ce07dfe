// Package telemetry exposes the warehouse core's read-only observation
// surface (spec.md §6) over HTTP and a push websocket, for the renderer, a
// dashboard, or any other external collaborator — grounded on
// niceyeti-tabular/tabular/server, the one pack member that serves a
// tick-driven simulation's state to a browser client.
package telemetry

import (
	"warehouse-sim/internal/core"
	"warehouse-sim/internal/sim"
)

// AgentSnapshot is the read-only view of one agent (spec.md §6
// agent_snapshot).
type AgentSnapshot struct {
	ID            string       `json:"id"`
	Position      core.GridPos `json:"position"`
	Destination   core.GridPos `json:"destination"`
	State         string       `json:"state"`
	Phase         string       `json:"phase"`
	Loaded        bool         `json:"loaded"`
	Energy        float64      `json:"energy"`
	Priority      int          `json:"priority"`
	PathRemaining int          `json:"path_remaining"`
	ActionSeconds *float64     `json:"action_seconds,omitempty"`
}

// FleetSnapshot is the full read-only view broadcast once per tick.
type FleetSnapshot struct {
	Tick          uint64          `json:"tick"`
	SpawnedCount  int             `json:"spawned_count"`
	TotalAgents   int             `json:"total_agents"`
	Agents        []AgentSnapshot `json:"agents"`
}

// BuildSnapshot projects a World's current state into the wire format. It
// never mutates the world and takes no lock of its own — callers that share
// the world with a running simulation goroutine must synchronize around
// this call themselves (see Server, which does).
func BuildSnapshot(w *sim.World) FleetSnapshot {
	agents := w.Fleet.All()
	out := make([]AgentSnapshot, len(agents))
	for i, a := range agents {
		snap := AgentSnapshot{
			ID:            a.ID.String(),
			Position:      a.Position,
			Destination:   a.Destination,
			State:         a.State.String(),
			Phase:         a.Phase.String(),
			Loaded:        a.Loaded,
			Energy:        a.Energy,
			Priority:      a.Priority,
			PathRemaining: len(a.Path.Remaining()),
		}
		if a.Action != nil {
			remaining := a.Action.Remaining
			snap.ActionSeconds = &remaining
		}
		out[i] = snap
	}
	return FleetSnapshot{
		Tick:         w.CurrentTick(),
		SpawnedCount: w.SpawnedCount(),
		TotalAgents:  w.TotalAgents(),
		Agents:       out,
	}
}
