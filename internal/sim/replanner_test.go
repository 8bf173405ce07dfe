package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-sim/internal/core"
	"warehouse-sim/internal/planner"
)

func newReplanner(grid *core.Grid) (*BatchReplanner, *core.SpaceTimeTable) {
	table := core.NewSpaceTimeTable()
	cfg := planner.DefaultConfig()
	return NewBatchReplanner(grid, table, cfg, nil), table
}

// TestReplanHeadOnCorridorYieldsNonCollidingPaths covers spec.md §8's
// head-on corridor scenario: two agents facing each other in a single-row
// corridor must not both end up planned through the same cell at the same
// tick.
func TestReplanHeadOnCorridorYieldsNonCollidingPaths(t *testing.T) {
	grid := core.NewGrid(5, 1)
	r, _ := newReplanner(grid)
	fleet := NewFleet()

	left := fleet.Add(Agent{
		ID:          core.NewAgentID(),
		Position:    core.GridPos{X: 0, Y: 0},
		Destination: core.GridPos{X: 4, Y: 0},
		State:       Moving,
		Priority:    20,
	})
	right := fleet.Add(Agent{
		ID:          core.NewAgentID(),
		Position:    core.GridPos{X: 4, Y: 0},
		Destination: core.GridPos{X: 0, Y: 0},
		State:       Moving,
		Priority:    20,
	})

	r.Run(0, fleet)

	pathA := fleet.Get(left).Path.Waypoints
	pathB := fleet.Get(right).Path.Waypoints
	require.NotEmpty(t, pathA, "both agents should receive a plan (possibly with waits)")
	require.NotEmpty(t, pathB, "both agents should receive a plan (possibly with waits)")

	occupied := make(map[core.PathStep]core.AgentID)
	for _, step := range pathA {
		occupied[step] = left
	}
	for _, step := range pathB {
		owner, ok := occupied[step]
		assert.Falsef(t, ok && owner != right, "vertex collision: both agents occupy %v", step)
	}
}

// TestReplanSwapPreventionOnAdjacentAgents covers spec.md §8's swap/edge
// conflict scenario: two adjacent agents trying to cross each other's cell
// in the same tick must not both commit that edge.
func TestReplanSwapPreventionOnAdjacentAgents(t *testing.T) {
	grid := core.NewGrid(3, 1)
	r, _ := newReplanner(grid)
	fleet := NewFleet()

	a := fleet.Add(Agent{
		ID:          core.NewAgentID(),
		Position:    core.GridPos{X: 0, Y: 0},
		Destination: core.GridPos{X: 1, Y: 0},
		State:       Moving,
		Priority:    10,
	})
	b := fleet.Add(Agent{
		ID:          core.NewAgentID(),
		Position:    core.GridPos{X: 1, Y: 0},
		Destination: core.GridPos{X: 0, Y: 0},
		State:       Moving,
		Priority:    20,
	})

	r.Run(0, fleet)

	pathA := fleet.Get(a).Path.Waypoints
	pathB := fleet.Get(b).Path.Waypoints

	posAt := func(path []core.PathStep, tick uint64) (core.GridPos, bool) {
		for _, s := range path {
			if s.Tick == tick {
				return s.Pos, true
			}
		}
		return core.GridPos{}, false
	}

	for tick := uint64(0); tick < 5; tick++ {
		aNow, aOK := posAt(pathA, tick)
		aNext, aOK2 := posAt(pathA, tick+1)
		bNow, bOK := posAt(pathB, tick)
		bNext, bOK2 := posAt(pathB, tick+1)
		swapped := aOK && aOK2 && bOK && bOK2 && aNow == bNext && aNext == bNow && aNow != aNext
		assert.Falsef(t, swapped, "swap conflict survived replanning at tick %d: a %v->%v, b %v->%v", tick, aNow, aNext, bNow, bNext)
	}
}

// TestReplanStationaryAgentBecomesStaticObstacle covers spec.md §8's
// replan-under-blockage scenario: a Loading (stationary) agent must block a
// Moving agent's route for the full horizon, forcing a detour or wait
// rather than a plan straight through it.
func TestReplanStationaryAgentBecomesStaticObstacle(t *testing.T) {
	grid := core.NewGrid(3, 1)
	r, table := newReplanner(grid)
	fleet := NewFleet()

	blocker := fleet.Add(Agent{
		ID:       core.NewAgentID(),
		Position: core.GridPos{X: 1, Y: 0},
		State:    Loading,
		Priority: 10,
	})
	mover := fleet.Add(Agent{
		ID:          core.NewAgentID(),
		Position:    core.GridPos{X: 0, Y: 0},
		Destination: core.GridPos{X: 2, Y: 0},
		State:       Moving,
		Priority:    20,
	})

	r.Run(0, fleet)

	path := fleet.Get(mover).Path.Waypoints
	for _, step := range path {
		assert.NotEqualf(t, core.GridPos{X: 1, Y: 0}, step.Pos,
			"plan must never route the mover through the stationary agent's cell %v", step)
	}

	blockerPos := fleet.Get(blocker).Position
	assert.False(t, table.IsFree(blockerPos, 0, core.NilAgentID), "the blocker's own cell should be reserved for it, not free")
}
