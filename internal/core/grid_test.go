package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridPassability(t *testing.T) {
	g := NewGrid(4, 3)

	assert.True(t, g.IsPassable(GridPos{X: 1, Y: 1}), "freshly constructed cell should be Floor/passable")

	g.Set(GridPos{X: 1, Y: 1}, Rack)
	assert.False(t, g.IsPassable(GridPos{X: 1, Y: 1}), "rack cell must not be passable")

	got, ok := g.Get(GridPos{X: -1, Y: 0})
	assert.False(t, ok, "out-of-bounds Get should report false")
	assert.Equal(t, CellType(0), got, "out-of-bounds Get should return the zero value")

	assert.False(t, g.IsPassable(GridPos{X: 100, Y: 100}), "out-of-bounds position must never be passable")
}

func TestGridOutOfBoundsWriteIsNoop(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(GridPos{X: -1, Y: -1}, Blocked)
	g.Set(GridPos{X: 5, Y: 5}, Blocked)
	assert.True(t, g.IsPassable(GridPos{X: 0, Y: 0}), "out-of-bounds write must not affect in-bounds cells")
}

func TestApplyRackRectOverwritesCoveredCells(t *testing.T) {
	g := NewGrid(5, 5)
	g.ApplyRackRect(Rect{MinX: 1, MinY: 1, MaxX: 2, MaxY: 3})

	for y := 1; y <= 3; y++ {
		for x := 1; x <= 2; x++ {
			assert.Falsef(t, g.IsPassable(GridPos{X: x, Y: y}), "cell (%d,%d) should be rack after ApplyRackRect", x, y)
		}
	}
	assert.True(t, g.IsPassable(GridPos{X: 0, Y: 0}), "cell outside the rect should remain passable")
}

func TestManhattanDistance(t *testing.T) {
	a := GridPos{X: 1, Y: 1}
	b := GridPos{X: 8, Y: 8}
	assert.Equal(t, 14, a.ManhattanDistance(b))
}

func TestLegalNeighborsInBounds(t *testing.T) {
	g := NewGrid(3, 3)
	ns := g.LegalNeighbors(GridPos{X: 0, Y: 0})
	assert.Lenf(t, ns, 2, "corner cell should have exactly 2 in-bounds neighbors, got %v", ns)
}
