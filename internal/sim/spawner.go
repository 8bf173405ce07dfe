package sim

import "warehouse-sim/internal/core"

// Spawner admits new agents into the fleet at a bounded rate (spec.md §4.8).
type Spawner struct {
	Total         int
	SpawnedCount  int
	CooldownTicks uint64
	lastSpawnTick uint64
	hasSpawned    bool
}

// NewSpawner returns a Spawner configured to admit total agents, waiting at
// least cooldown ticks between admissions.
func NewSpawner(total int, cooldown uint64) *Spawner {
	return &Spawner{Total: total, CooldownTicks: cooldown}
}

// IsComplete reports whether every agent the Spawner is responsible for has
// been admitted.
func (s *Spawner) IsComplete() bool {
	return s.SpawnedCount >= s.Total
}

// Tick attempts one admission at the current tick. Preconditions (spec.md
// §4.8): the spawn cell is unoccupied, and both a storage and a cargo cell
// can be reserved atomically (the storage reservation is rolled back if
// storage succeeds but cargo does not). Returns the new agent's handle on
// success.
func (s *Spawner) Tick(currentTick uint64, fleet *Fleet, zones *core.Zones) (core.AgentID, bool) {
	if s.IsComplete() {
		return core.NilAgentID, false
	}
	if s.hasSpawned && currentTick < s.lastSpawnTick+s.CooldownTicks {
		return core.NilAgentID, false
	}

	spawnPos := zones.NextSpawn()
	if fleet.PositionOccupied(spawnPos) {
		return core.NilAgentID, false
	}

	storage, ok := zones.ReserveStorage()
	if !ok {
		return core.NilAgentID, false
	}
	cargo, ok := zones.ReserveCargo()
	if !ok {
		zones.ReleaseStorage(storage)
		return core.NilAgentID, false
	}

	id := core.NewAgentID()
	fleet.Add(Agent{
		ID:            id,
		Position:      spawnPos,
		Destination:   storage,
		Phase:         GoingToStorage,
		StorageTarget: storage,
		CargoTarget:   cargo,
		State:         Moving,
		Loaded:        false,
		Energy:        1.0,
		Priority:      Moving.basePriority(),
	})

	s.SpawnedCount++
	s.lastSpawnTick = currentTick
	s.hasSpawned = true
	return id, true
}
