package sim

import (
	"log/slog"
	"sort"

	"warehouse-sim/internal/core"
	"warehouse-sim/internal/planner"
)

// AnchorTicks is how many future ticks every agent's current cell is
// reserved for before planning runs, so no other agent can be routed
// through a cell its owner cannot yet vacate (spec.md §4.5 step 4).
const AnchorTicks = 5

// BatchReplanner orchestrates one replanning cycle across the whole fleet,
// in priority order, under mutual space-time constraints (spec.md §4.5).
// This is the prioritized (PBS-style) coordination core: grounded on
// original_source/src/systems/pbs.rs's pbs_planning_system.
type BatchReplanner struct {
	grid  *core.Grid
	table *core.SpaceTimeTable
	cfg   planner.Config
	log   *slog.Logger
}

// NewBatchReplanner constructs a replanner over the given grid and
// reservation table.
func NewBatchReplanner(grid *core.Grid, table *core.SpaceTimeTable, cfg planner.Config, log *slog.Logger) *BatchReplanner {
	return &BatchReplanner{grid: grid, table: table, cfg: cfg, log: log}
}

// scoredAgent pairs an agent index with its sort key, so the stable sort
// never needs to touch Agent directly (keeping the component-store layout
// intact for the rest of the pipeline).
type scoredAgent struct {
	idx   int
	score int
}

// Run executes one replan cycle at tick now over every agent in fleet.
func (r *BatchReplanner) Run(now uint64, fleet *Fleet) {
	agents := fleet.agents

	// Step 1: identify immovable agents as static obstacles.
	static := planner.NewStaticObstacles()
	for i := range agents {
		if isStationary(agents[i].State) {
			static.Add(agents[i].Position, agents[i].ID)
		}
	}

	// Step 2: order by effective score, stable (ties break by spawn order
	// because Seq is monotonic and the sort is stable).
	scored := make([]scoredAgent, len(agents))
	for i := range agents {
		loadBonus := 50
		if agents[i].Loaded {
			loadBonus = 0
		}
		scored[i] = scoredAgent{idx: i, score: agents[i].Priority + loadBonus}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score < scored[j].score })

	// Step 3: garbage-collect the reservation table.
	r.table.Cleanup(now)

	// Step 4: anchor every agent's current position for the near future.
	for _, s := range scored {
		a := &agents[s.idx]
		for t := now; t < now+AnchorTicks; t++ {
			r.table.Reserve(a.Position, t, a.ID)
		}
	}

	// Step 5: extend the anchor to the full horizon for stationary agents.
	for _, s := range scored {
		a := &agents[s.idx]
		if !isStationary(a.State) {
			continue
		}
		for t := now; t < now+r.cfg.Horizon; t++ {
			r.table.Reserve(a.Position, t, a.ID)
		}
	}

	// Step 6/7: plan mobile agents in priority order; clear the rest.
	for _, s := range scored {
		a := &agents[s.idx]
		if a.State != Moving {
			a.Path.Clear()
			continue
		}

		r.table.ClearAgentExceptPos(a.ID, a.Position, now)

		p := planner.New(r.grid, r.table, static, r.cfg)
		path, ok := p.PlanPath(a.Position, a.Destination, now, a.ID)
		if !ok {
			// PlanningFailure (spec.md §7): leave the path empty; the
			// liveness monitor, which World.Step runs after the executor on
			// this same tick, clears this agent's reservations. Its prior
			// waypoints were reserved against reservations ClearAgentExceptPos
			// just dropped, so they must not survive as stale, unreserved
			// cells for the executor to walk.
			a.Path.Clear()
			continue
		}

		if r.table.ReservePath(path, a.ID) {
			a.Path = PlannedPath{Waypoints: path}
		} else if r.log != nil {
			// ReservationConflict (spec.md §7): a higher-priority agent
			// claimed an overlapping slot between planning and commit.
			// This should not happen given the priority ordering above,
			// but the commit stays two-phase so no partial path is ever
			// left reserved.
			r.log.Warn("reservation conflict on commit", "agent", a.ID.String())
		}
	}
}

func isStationary(s RobotState) bool {
	switch s {
	case Idle, Loading, Unloading, Charging:
		return true
	default:
		return false
	}
}
