package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveRejectsConflictButIsIdempotentForOwner(t *testing.T) {
	table := NewSpaceTimeTable()
	a := NewAgentID()
	b := NewAgentID()
	pos := GridPos{X: 1, Y: 1}

	require.True(t, table.Reserve(pos, 5, a), "first reservation should succeed")
	require.True(t, table.Reserve(pos, 5, a), "re-reserving one's own slot should succeed (idempotent)")
	assert.False(t, table.Reserve(pos, 5, b), "reserving another agent's slot should fail")
	assert.False(t, table.IsFree(pos, 5, b), "slot should remain owned by a, not free for b")
	assert.True(t, table.IsFree(pos, 5, a), "slot should still read free for its owner a")
}

func TestReservePathIsAllOrNothing(t *testing.T) {
	table := NewSpaceTimeTable()
	a := NewAgentID()
	b := NewAgentID()

	// b claims (2,0) at tick 1, which a's path will also want.
	table.Reserve(GridPos{X: 2, Y: 0}, 1, b)

	path := []PathStep{
		{Pos: GridPos{X: 0, Y: 0}, Tick: 0},
		{Pos: GridPos{X: 1, Y: 0}, Tick: 1},
		{Pos: GridPos{X: 2, Y: 0}, Tick: 2},
	}
	// This path doesn't conflict (different ticks), so it should succeed.
	require.True(t, table.ReservePath(path, a), "non-conflicting path should reserve atomically")

	conflicting := []PathStep{
		{Pos: GridPos{X: 5, Y: 5}, Tick: 10},
		{Pos: GridPos{X: 2, Y: 0}, Tick: 1}, // conflicts with b
	}
	assert.False(t, table.ReservePath(conflicting, a), "conflicting path must be rejected")
	assert.True(t, table.Reserve(GridPos{X: 5, Y: 5}, 10, b),
		"a failed reserve_path must not have partially committed (slot should still be free for another owner)")
}

func TestIsEdgeFreeDetectsSwap(t *testing.T) {
	table := NewSpaceTimeTable()
	a := NewAgentID()
	b := NewAgentID()

	from := GridPos{X: 1, Y: 0}
	to := GridPos{X: 2, Y: 0}

	// b is doing the reverse move: to -> from across tick 0 -> 1.
	table.Reserve(to, 0, b)
	table.Reserve(from, 1, b)

	assert.False(t, table.IsEdgeFree(from, to, 0, a), "swap conflict should be detected")

	table.ClearAgent(b)
	assert.True(t, table.IsEdgeFree(from, to, 0, a), "edge should be free once the conflicting agent's reservations are cleared")
}

func TestClearAgentRoundTrip(t *testing.T) {
	table := NewSpaceTimeTable()
	a := NewAgentID()
	pos := GridPos{X: 3, Y: 3}

	table.Reserve(pos, 7, a)
	table.ClearAgent(a)
	assert.True(t, table.IsFree(pos, 7, NilAgentID), "slot should be free after clearing the owning agent")
}

func TestClearAgentExceptPosPreservesAnchor(t *testing.T) {
	table := NewSpaceTimeTable()
	a := NewAgentID()
	anchor := GridPos{X: 0, Y: 0}
	elsewhere := GridPos{X: 9, Y: 9}

	table.Reserve(anchor, 10, a)
	table.Reserve(anchor, 11, a)
	table.Reserve(elsewhere, 20, a)

	table.ClearAgentExceptPos(a, anchor, 10)

	assert.False(t, table.IsFree(anchor, 10, NilAgentID), "anchor reservation in [now, now+3) should survive")
	assert.True(t, table.IsFree(elsewhere, 20, NilAgentID), "reservation away from the anchor cell should be cleared")
}

func TestCleanupRetainsImmediatelyPrecedingTick(t *testing.T) {
	table := NewSpaceTimeTable()
	a := NewAgentID()
	pos := GridPos{X: 0, Y: 0}

	table.Reserve(pos, 4, a)
	table.Reserve(pos, 5, a)
	table.Cleanup(6)

	assert.False(t, table.IsFree(pos, 5, NilAgentID), "tick 5 (now-1) must survive cleanup(6)")
	assert.True(t, table.IsFree(pos, 4, NilAgentID), "tick 4 (now-2) must be dropped by cleanup(6)")
}

func TestAdvanceTick(t *testing.T) {
	table := NewSpaceTimeTable()
	assert.Equal(t, uint64(0), table.CurrentTick())
	table.AdvanceTick()
	table.AdvanceTick()
	assert.Equal(t, uint64(2), table.CurrentTick())
}
