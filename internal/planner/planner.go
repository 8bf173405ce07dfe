// Package planner implements the time-expanded weighted A* search that
// produces a reservation-feasible path for a single agent (spec.md §4.4).
package planner

import (
	"container/heap"

	"warehouse-sim/internal/core"
)

// Config bundles the tunable search parameters (spec.md §6).
type Config struct {
	Horizon         uint64
	HeuristicWeight float64
	MaxIterations   int
}

// DefaultConfig returns the spec's suggested defaults.
func DefaultConfig() Config {
	return Config{
		Horizon:         100,
		HeuristicWeight: 1.2,
		MaxIterations:   15000,
	}
}

const (
	waitCost = 0.5
	moveCost = 1.0
)

// StaticObstacles records the positions of agents that will not move this
// planning cycle; they are hard obstacles in addition to Grid passability.
type StaticObstacles struct {
	positions map[core.GridPos]core.AgentID
}

// NewStaticObstacles returns an empty obstacle set.
func NewStaticObstacles() *StaticObstacles {
	return &StaticObstacles{positions: make(map[core.GridPos]core.AgentID)}
}

// Add marks pos as held by agent for the duration of the cycle.
func (o *StaticObstacles) Add(pos core.GridPos, agent core.AgentID) {
	o.positions[pos] = agent
}

// IsBlocked reports whether pos is a static obstacle for anyone other than
// exclude.
func (o *StaticObstacles) IsBlocked(pos core.GridPos, exclude core.AgentID) bool {
	owner, ok := o.positions[pos]
	return ok && owner != exclude
}

// node is a search state (cell, tick) with its accumulated cost and parent
// link, used both as the open-queue element and as the closed-set record.
type node struct {
	pos    core.GridPos
	tick   uint64
	g      float64
	f      float64
	parent *core.PathStep
	seq    int // insertion order, breaks f-cost ties deterministically
}

type openQueue []*node

func (q openQueue) Len() int { return len(q) }
func (q openQueue) Less(i, j int) bool {
	// NaN never compares less than anything; treat it as equal to its peer
	// so the ordering stays total even if a cost ever goes non-finite.
	if q[i].f == q[j].f || (isNaN(q[i].f) && isNaN(q[j].f)) {
		return q[i].seq < q[j].seq
	}
	return q[i].f < q[j].f
}
func (q openQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *openQueue) Push(x interface{}) {
	*q = append(*q, x.(*node))
}
func (q *openQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func isNaN(f float64) bool { return f != f }

// Planner performs the time-expanded A* search described in spec.md §4.4.
// Grid, table, and obstacles are explicit injected dependencies (per §9,
// never ambient singletons) so the search is deterministic and testable in
// isolation.
type Planner struct {
	grid   *core.Grid
	table  *core.SpaceTimeTable
	static *StaticObstacles
	cfg    Config
}

// New constructs a Planner over the given grid, reservation table, and
// static-obstacle set for one planning cycle.
func New(grid *core.Grid, table *core.SpaceTimeTable, static *StaticObstacles, cfg Config) *Planner {
	return &Planner{grid: grid, table: table, static: static, cfg: cfg}
}

// PlanPath searches for a reservation-feasible path from start to goal
// beginning at startTick, for agent. It returns (path, true) on success or
// on a best-effort partial path, and (nil, false) only when the goal itself
// is blocked or no progress at all could be made.
func (p *Planner) PlanPath(start, goal core.GridPos, startTick uint64, agent core.AgentID) ([]core.PathStep, bool) {
	if start == goal {
		return []core.PathStep{{Pos: start, Tick: startTick}}, true
	}

	if p.static.IsBlocked(goal, agent) {
		return nil, false
	}

	horizonEnd := startTick + p.cfg.Horizon

	open := &openQueue{}
	heap.Init(open)
	closed := make(map[core.GridPos]map[uint64]*node)

	seq := 0
	start0 := &node{pos: start, tick: startTick, g: 0, f: p.heuristic(start, goal) * p.cfg.HeuristicWeight, seq: seq}
	heap.Push(open, start0)

	var best *node
	betterThanBest := func(n *node) bool {
		return best == nil || n.pos.ManhattanDistance(goal) < best.pos.ManhattanDistance(goal)
	}

	iterations := 0
	for open.Len() > 0 {
		iterations++
		if iterations > p.cfg.MaxIterations {
			break
		}

		current := heap.Pop(open).(*node)

		if current.pos == goal {
			return p.reconstruct(closed, current), true
		}

		if betterThanBest(current) {
			best = current
		}

		if current.tick >= horizonEnd {
			continue
		}

		if byTick, ok := closed[current.pos]; ok {
			if _, seen := byTick[current.tick]; seen {
				continue
			}
		} else {
			closed[current.pos] = make(map[uint64]*node)
		}
		closed[current.pos][current.tick] = current

		nextTick := current.tick + 1

		// Wait: cheaper than moving so the search biases toward standing
		// still when that is sufficient.
		if p.table.IsFree(current.pos, nextTick, agent) {
			seq++
			p.tryPush(open, closed, current.pos, nextTick, current.g+waitCost, goal, current, seq)
		}

		// Move to each passable, unblocked, reservation-free neighbor.
		for _, n := range p.grid.LegalNeighbors(current.pos) {
			if !p.grid.IsPassable(n) {
				continue
			}
			if p.static.IsBlocked(n, agent) {
				continue
			}
			if !p.table.IsFree(n, nextTick, agent) {
				continue
			}
			if !p.table.IsEdgeFree(current.pos, n, current.tick, agent) {
				continue
			}
			seq++
			p.tryPush(open, closed, n, nextTick, current.g+moveCost, goal, current, seq)
		}
	}

	if best == nil || best.parent == nil {
		return nil, false
	}
	return p.reconstruct(closed, best), true
}

func (p *Planner) tryPush(open *openQueue, closed map[core.GridPos]map[uint64]*node, pos core.GridPos, tick uint64, g float64, goal core.GridPos, parent *node, seq int) {
	if byTick, ok := closed[pos]; ok {
		if _, seen := byTick[tick]; seen {
			return
		}
	}
	h := p.heuristic(pos, goal) * p.cfg.HeuristicWeight
	parentStep := core.PathStep{Pos: parent.pos, Tick: parent.tick}
	heap.Push(open, &node{pos: pos, tick: tick, g: g, f: g + h, parent: &parentStep, seq: seq})
}

func (p *Planner) heuristic(from, to core.GridPos) float64 {
	return float64(from.ManhattanDistance(to))
}

// reconstruct walks the parent chain stored in the closed set back to the
// start, then reverses it into start-to-goal order.
func (p *Planner) reconstruct(closed map[core.GridPos]map[uint64]*node, end *node) []core.PathStep {
	path := []core.PathStep{{Pos: end.pos, Tick: end.tick}}
	parent := end.parent
	for parent != nil {
		path = append(path, *parent)
		byTick, ok := closed[parent.Pos]
		if !ok {
			break
		}
		n, ok := byTick[parent.Tick]
		if !ok {
			break
		}
		parent = n.parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
