package sim

// UpdatePriorities recomputes every agent's dynamic priority score
// (spec.md §4.7) ahead of the batch replan. Lower value schedules first.
func UpdatePriorities(fleet *Fleet) {
	fleet.Each(func(a *Agent) {
		p := a.State.basePriority()
		if a.Loaded {
			p -= 15
		}
		if a.Energy < 0.2 {
			p -= 10
		}
		if p < 0 {
			p = 0
		}
		a.Priority = p
	})
}
