package sim

import (
	"log/slog"

	"warehouse-sim/internal/core"
)

// ExecutePaths advances every agent to the next waypoint whose scheduled
// tick has been reached (spec.md §4.7). Multiple waypoints can be consumed
// in one call if the executor fell behind, though under normal operation
// at most one waypoint becomes due per tick.
func ExecutePaths(fleet *Fleet, now uint64) {
	fleet.Each(func(a *Agent) {
		for {
			step, ok := a.Path.Current()
			if !ok || step.Tick > now {
				break
			}
			a.Position = step.Pos
			a.Path.Advance()
		}
	})
}

// DetectStuckAgents implements the liveness monitor (spec.md §4.9): any
// Moving agent with an empty remaining path is stuck (a StructuralFault
// per §7); its reservations are cleared so the next replan cycle
// recomputes a path from its current position.
func DetectStuckAgents(fleet *Fleet, table *core.SpaceTimeTable, log *slog.Logger) {
	fleet.Each(func(a *Agent) {
		if a.State != Moving {
			return
		}
		if len(a.Path.Remaining()) > 0 {
			return
		}
		if log != nil {
			log.Warn("stuck agent detected, clearing reservations", "agent", a.ID.String(), "position", a.Position.String())
		}
		table.ClearAgent(a.ID)
	})
}
