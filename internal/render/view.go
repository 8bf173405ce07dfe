// Package render is the ebiten GUI: a pure observer of the simulation core
// that reads telemetry.FleetSnapshot-shaped state once per frame and draws
// it. It owns no simulation logic — adapted from the teacher's
// view_ebiten.go Update/Draw/Layout shape, redirected at the warehouse
// domain instead of Wa-Tor's ocean grid.
package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"warehouse-sim/internal/core"
	"warehouse-sim/internal/sim"
)

const pixelScale = 8

var (
	colFloor    = color.RGBA{235, 235, 235, 255}
	colRack     = color.RGBA{120, 120, 130, 255}
	colBlocked  = color.RGBA{40, 40, 40, 255}
	colSpawn    = color.RGBA{180, 210, 255, 255}
	colStorage  = color.RGBA{210, 230, 180, 255}
	colCargo    = color.RGBA{255, 215, 170, 255}
	colLoaded   = color.RGBA{210, 90, 30, 255}
	colUnloaded = color.RGBA{50, 150, 60, 255}
	colIdle     = color.RGBA{150, 150, 150, 255}
	colFault    = color.RGBA{220, 30, 30, 255}
)

// Game is the ebiten.Game implementation driving the GUI loop.
type Game struct {
	world      *sim.World
	grid       *core.Grid
	zones      *core.Zones
	tickHz     int
	frame      int
	onTick     func()
}

// NewGame wires a Game over an already-constructed World. onTick, if
// non-nil, is called once after every simulation Step (for example, to
// notify the telemetry server of the new snapshot).
func NewGame(world *sim.World, grid *core.Grid, zones *core.Zones, tickHz int, onTick func()) *Game {
	return &Game{world: world, grid: grid, zones: zones, tickHz: tickHz, onTick: onTick}
}

// Update advances the simulation once per logical tick. Ebiten calls Update
// at a fixed 60Hz by default; ticksPerFrame throttles that down to the
// configured simulation tick rate, the same way the teacher's view_ebiten.go
// only advances Wa-Tor every other frame.
func (g *Game) Update() error {
	ticksPerFrame := 60 / g.tickHz
	if ticksPerFrame < 1 {
		ticksPerFrame = 1
	}
	if g.frame%ticksPerFrame != 0 {
		g.frame++
		return nil
	}
	g.world.Step(1.0 / float64(g.tickHz))
	if g.onTick != nil {
		g.onTick()
	}
	g.frame++
	return nil
}

// Draw renders the grid, zone markers, and every agent colored by state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{250, 250, 250, 255})

	w, h := g.grid.Width(), g.grid.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := core.GridPos{X: x, Y: y}
			ct, _ := g.grid.Get(pos)
			c := colFloor
			switch ct {
			case core.Rack:
				c = colRack
			case core.Blocked:
				c = colBlocked
			}
			fillCell(screen, x, y, c)
		}
	}

	for _, p := range g.zones.SpawnPoints() {
		fillCell(screen, p.X, p.Y, colSpawn)
	}
	for _, p := range g.zones.StorageCells() {
		fillCell(screen, p.X, p.Y, colStorage)
	}
	for _, p := range g.zones.CargoCells() {
		fillCell(screen, p.X, p.Y, colCargo)
	}

	// World is written by Step from this same goroutine but read concurrently
	// by the telemetry server's goroutine, so Draw takes World's read lock
	// for the span it looks at Fleet/tick state.
	g.world.RLock()
	defer g.world.RUnlock()

	for _, a := range g.world.Fleet.All() {
		c := colIdle
		switch {
		case a.State == sim.Fault:
			c = colFault
		case a.Loaded:
			c = colLoaded
		case a.State == sim.Moving:
			c = colUnloaded
		}
		fillCell(screen, a.Position.X, a.Position.Y, c)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"tick=%d spawned=%d/%d",
		g.world.CurrentTick(), g.world.SpawnedCount(), g.world.TotalAgents(),
	))
}

// Layout defines the logical screen size from the grid dimensions.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.grid.Width() * pixelScale, g.grid.Height() * pixelScale
}

func fillCell(screen *ebiten.Image, x, y int, c color.Color) {
	for dy := 0; dy < pixelScale; dy++ {
		for dx := 0; dx < pixelScale; dx++ {
			screen.Set(x*pixelScale+dx, y*pixelScale+dy, c)
		}
	}
}

// Run opens the ebiten window and blocks running the game loop.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.grid.Width()*pixelScale, g.grid.Height()*pixelScale)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(g)
}
