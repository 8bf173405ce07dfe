package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"warehouse-sim/internal/core"
	"warehouse-sim/internal/planner"
)

// TestWorldSingleAgentCompletesMultipleMissionCycles covers spec.md §8's
// mission-loop scenario: over a long enough run, a single agent should
// complete several full pickup/drop-off cycles without the invariant
// assertion in assertNoCollisions ever firing.
func TestWorldSingleAgentCompletesMultipleMissionCycles(t *testing.T) {
	grid := core.NewGrid(40, 30)
	zones := core.NewZones(grid, core.ZoneLayout{
		Width: 40, Height: 30,
		SpawnZoneWidth: 6, CargoZoneWidth: 6,
		StorageMargin: 8, RackLength: 4, AisleWidth: 2,
	})

	cfg := Config{ReplanInterval: 1, SpawnCooldown: 0, RobotCount: 1}
	plannerCfg := planner.DefaultConfig()
	plannerCfg.Horizon = 80

	w := NewWorld(grid, zones, cfg, plannerCfg, nil)

	completions := 0
	wasLoaded := false
	for tick := 0; tick < 800; tick++ {
		w.Step(1.0)

		if w.Fleet.Len() == 0 {
			continue
		}
		a := w.Fleet.Get(w.Fleet.All()[0].ID)
		if wasLoaded && !a.Loaded {
			completions++
		}
		wasLoaded = a.Loaded
	}

	assert.Equal(t, 1, w.SpawnedCount())
	assert.GreaterOrEqualf(t, completions, 3, "expected at least 3 full mission cycles in 800 ticks, got %d", completions)
}
