package core

// CellSize is the world-space edge length of one grid cell, used only by
// grid_to_world for the renderer (§4.1); it has no bearing on planning.
const CellSize float32 = 1.0

// Grid is the static width x height passability map. Dimensions are fixed at
// construction; cells may be upgraded to Rack/Blocked but the spec forbids
// ever making a Rack/Blocked cell passable again during a run.
type Grid struct {
	width, height int
	cells         []CellType
}

// NewGrid allocates a width x height grid with every cell initialized Floor,
// mirroring the teacher's NewWorld row/column allocation.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellType, width*height),
	}
}

func (g *Grid) index(pos GridPos) (int, bool) {
	if pos.X < 0 || pos.Y < 0 || pos.X >= g.width || pos.Y >= g.height {
		return 0, false
	}
	return pos.Y*g.width + pos.X, true
}

// Get returns the cell type at pos, or (_, false) if pos is out of bounds.
func (g *Grid) Get(pos GridPos) (CellType, bool) {
	i, ok := g.index(pos)
	if !ok {
		return 0, false
	}
	return g.cells[i], true
}

// Set writes a cell type. Out-of-bounds writes are silently dropped.
func (g *Grid) Set(pos GridPos, ct CellType) {
	if i, ok := g.index(pos); ok {
		g.cells[i] = ct
	}
}

// IsPassable reports whether an agent may occupy pos. Out-of-bounds
// positions are never passable.
func (g *Grid) IsPassable(pos GridPos) bool {
	ct, ok := g.Get(pos)
	return ok && ct.Passable()
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// GridToWorld returns the world-space center of a cell, for rendering only.
func (g *Grid) GridToWorld(pos GridPos) (float32, float32) {
	return float32(pos.X)*CellSize + CellSize*0.5, float32(pos.Y)*CellSize + CellSize*0.5
}

// Rect is an axis-aligned rectangle of cells, inclusive of both corners,
// used to carve out rack aisles (original_source core/zones.rs layout).
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether pos lies within the rectangle.
func (r Rect) Contains(pos GridPos) bool {
	return pos.X >= r.MinX && pos.X <= r.MaxX && pos.Y >= r.MinY && pos.Y <= r.MaxY
}

// ApplyRackRect overwrites every cell covered by r to Rack. Racks placed this
// way are immovable obstacles for the lifetime of the grid.
func (g *Grid) ApplyRackRect(r Rect) {
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			g.Set(GridPos{X: x, Y: y}, Rack)
		}
	}
}

// LegalNeighbors returns the 4-connected neighbors of pos that lie in
// bounds, independent of passability. This is the seam the original's
// HighwayGraph.legal_neighbors occupied (zone-typed movement restrictions);
// SPEC_FULL.md keeps it unrestricted (plain 4-neighbor adjacency) but named,
// so a future zone-direction rule has somewhere to attach.
func (g *Grid) LegalNeighbors(pos GridPos) []GridPos {
	out := make([]GridPos, 0, 4)
	for _, d := range Cardinals {
		n := pos.Neighbor(d)
		if _, ok := g.index(n); ok {
			out = append(out, n)
		}
	}
	return out
}
