package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-sim/internal/core"
)

func TestPlanPathTrivialStartEqualsGoal(t *testing.T) {
	grid := core.NewGrid(10, 10)
	table := core.NewSpaceTimeTable()
	agent := core.NewAgentID()

	p := New(grid, table, NewStaticObstacles(), DefaultConfig())
	path, ok := p.PlanPath(core.GridPos{X: 3, Y: 3}, core.GridPos{X: 3, Y: 3}, 0, agent)
	require.True(t, ok, "expected a path when start == goal")
	require.Len(t, path, 1)
	assert.Equal(t, core.PathStep{Pos: core.GridPos{X: 3, Y: 3}, Tick: 0}, path[0])
}

func TestPlanPathEmptyGridFindsShortestPath(t *testing.T) {
	grid := core.NewGrid(10, 10)
	table := core.NewSpaceTimeTable()
	agent := core.NewAgentID()

	p := New(grid, table, NewStaticObstacles(), DefaultConfig())
	start := core.GridPos{X: 1, Y: 1}
	goal := core.GridPos{X: 8, Y: 8}
	path, ok := p.PlanPath(start, goal, 0, agent)
	require.True(t, ok, "expected a path on an empty grid")
	assert.Equal(t, start, path[0].Pos, "path should start at the start position")
	assert.Equal(t, goal, path[len(path)-1].Pos, "path should end at the goal")

	wantMoves := start.ManhattanDistance(goal)
	assert.Equalf(t, wantMoves, len(path)-1, "expected %d moves on an empty grid, got path=%v", wantMoves, path)

	for i := 1; i < len(path); i++ {
		assert.Equal(t, path[i-1].Tick+1, path[i].Tick, "ticks must increase by exactly 1 per step")
		d := path[i].Pos.ManhattanDistance(path[i-1].Pos)
		assert.Containsf(t, []int{0, 1}, d, "consecutive cells must be equal (wait) or 4-adjacent (move), got distance %d", d)
	}
}

func TestPlanPathGoalBlockedByStaticObstacle(t *testing.T) {
	grid := core.NewGrid(5, 5)
	table := core.NewSpaceTimeTable()
	agent := core.NewAgentID()
	blocker := core.NewAgentID()

	static := NewStaticObstacles()
	goal := core.GridPos{X: 4, Y: 4}
	static.Add(goal, blocker)

	p := New(grid, table, static, DefaultConfig())
	_, ok := p.PlanPath(core.GridPos{X: 0, Y: 0}, goal, 0, agent)
	assert.False(t, ok, "goal blocked by a static obstacle must return no-path")
}

func TestPlanPathRespectsRackImpassability(t *testing.T) {
	grid := core.NewGrid(5, 3)
	// Wall off the middle column entirely, isolating (0,*) from (4,*).
	for y := 0; y < 3; y++ {
		grid.Set(core.GridPos{X: 2, Y: y}, core.Rack)
	}
	table := core.NewSpaceTimeTable()
	agent := core.NewAgentID()

	cfg := DefaultConfig()
	cfg.Horizon = 20
	p := New(grid, table, NewStaticObstacles(), cfg)
	path, ok := p.PlanPath(core.GridPos{X: 0, Y: 1}, core.GridPos{X: 4, Y: 1}, 0, agent)
	if ok {
		assert.NotEqual(t, core.GridPos{X: 4, Y: 1}, path[len(path)-1].Pos,
			"an impassable wall across the whole grid must not be crossable")
	}
}

func TestPlanPathAvoidsReservedCell(t *testing.T) {
	grid := core.NewGrid(5, 1)
	table := core.NewSpaceTimeTable()
	agent := core.NewAgentID()
	other := core.NewAgentID()

	// Block (2,0) at tick 2, forcing the agent to wait or route around —
	// on a 1-row corridor it must wait.
	table.Reserve(core.GridPos{X: 2, Y: 0}, 2, other)

	p := New(grid, table, NewStaticObstacles(), DefaultConfig())
	path, ok := p.PlanPath(core.GridPos{X: 0, Y: 0}, core.GridPos{X: 4, Y: 0}, 0, agent)
	require.True(t, ok, "expected a path that routes around the reservation")
	for _, step := range path {
		assert.Falsef(t, step.Pos == (core.GridPos{X: 2, Y: 0}) && step.Tick == 2,
			"planned path must not occupy a reserved (cell, tick)")
	}
}
