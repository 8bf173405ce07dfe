package core

// Zones catalogs the spawn, storage, and cargo cells of the warehouse and
// tracks which storage/cargo cells are currently assigned to an agent.
// Layout mirrors original_source/src/core/zones.rs: spawn points occupy a
// band of columns on the left edge, storage cells a striped interior grid,
// cargo cells a band of columns on the right edge.
type Zones struct {
	spawnPoints  []GridPos
	storageCells []GridPos
	cargoCells   []GridPos
	racks        []Rect

	spawnCursor   int
	storageCursor int
	cargoCursor   int

	reservedStorage map[GridPos]bool
	reservedCargo   map[GridPos]bool
}

// ZoneLayout parameterizes the default warehouse shape (§6 config table).
type ZoneLayout struct {
	Width, Height  int
	SpawnZoneWidth int
	CargoZoneWidth int
	StorageMargin  int
	RackLength     int
	AisleWidth     int
}

// NewZones builds the spawn/storage/cargo catalogs and the rack rectangles
// for the given layout, applying the racks to grid. The storage/cargo
// reservation sets start empty.
func NewZones(grid *Grid, layout ZoneLayout) *Zones {
	z := &Zones{
		reservedStorage: make(map[GridPos]bool),
		reservedCargo:   make(map[GridPos]bool),
	}

	for x := 1; x < layout.SpawnZoneWidth-1; x++ {
		for y := 1; y < layout.Height-1; y += 3 {
			z.spawnPoints = append(z.spawnPoints, GridPos{X: x, Y: y})
		}
	}

	storageStartX := layout.StorageMargin
	storageEndX := layout.Width - layout.CargoZoneWidth - 5
	storageStartY := 5
	storageEndY := layout.Height - 5

	aisle := layout.AisleWidth
	if aisle < 1 {
		aisle = 1
	}
	rackLen := layout.RackLength
	if rackLen < 1 {
		rackLen = 1
	}

	for x := storageStartX; x < storageEndX; x += aisle + 2 {
		rackEndY := storageStartY + rackLen
		if rackEndY > storageEndY {
			rackEndY = storageEndY
		}
		if rackEndY > storageStartY {
			z.racks = append(z.racks, Rect{MinX: x, MinY: storageStartY, MaxX: x, MaxY: rackEndY - 1})
		}
		// Storage cells flank the rack column on either side, one per stride.
		for y := storageStartY; y < storageEndY; y += 4 {
			if x-1 >= storageStartX {
				z.storageCells = append(z.storageCells, GridPos{X: x - 1, Y: y})
			}
			if x+1 < storageEndX {
				z.storageCells = append(z.storageCells, GridPos{X: x + 1, Y: y})
			}
		}
	}

	for _, r := range z.racks {
		grid.ApplyRackRect(r)
	}

	cargoStartX := layout.Width - layout.CargoZoneWidth + 1
	for x := cargoStartX; x < layout.Width-1; x++ {
		for y := 1; y < layout.Height-1; y += 3 {
			z.cargoCells = append(z.cargoCells, GridPos{X: x, Y: y})
		}
	}

	return z
}

// NextSpawn round-robins over the spawn column. Never fails.
func (z *Zones) NextSpawn() GridPos {
	pos := z.spawnPoints[z.spawnCursor%len(z.spawnPoints)]
	z.spawnCursor++
	return pos
}

// ReserveStorage scans from the rotating cursor for the first unreserved
// storage cell, reserves it, and returns it. Returns (_, false) if every
// storage cell is currently reserved.
func (z *Zones) ReserveStorage() (GridPos, bool) {
	return reserveFrom(z.storageCells, &z.storageCursor, z.reservedStorage)
}

// ReserveCargo is ReserveStorage's cargo-cell counterpart.
func (z *Zones) ReserveCargo() (GridPos, bool) {
	return reserveFrom(z.cargoCells, &z.cargoCursor, z.reservedCargo)
}

func reserveFrom(cells []GridPos, cursor *int, reserved map[GridPos]bool) (GridPos, bool) {
	n := len(cells)
	for i := 0; i < n; i++ {
		idx := (*cursor + i) % n
		pos := cells[idx]
		if !reserved[pos] {
			reserved[pos] = true
			*cursor = (idx + 1) % n
			return pos, true
		}
	}
	return GridPos{}, false
}

// ReleaseStorage removes pos from the reserved-storage set. Idempotent.
func (z *Zones) ReleaseStorage(pos GridPos) {
	delete(z.reservedStorage, pos)
}

// ReleaseCargo removes pos from the reserved-cargo set. Idempotent.
func (z *Zones) ReleaseCargo(pos GridPos) {
	delete(z.reservedCargo, pos)
}

// IsRack reports whether pos lies within any rack rectangle.
func (z *Zones) IsRack(pos GridPos) bool {
	for _, r := range z.racks {
		if r.Contains(pos) {
			return true
		}
	}
	return false
}

func (z *Zones) StorageCells() []GridPos { return z.storageCells }
func (z *Zones) CargoCells() []GridPos   { return z.cargoCells }
func (z *Zones) SpawnPoints() []GridPos  { return z.spawnPoints }
func (z *Zones) Racks() []Rect           { return z.racks }
