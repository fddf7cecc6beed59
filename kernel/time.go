package kernel

// Tick advances the global tick counter by one and runs UpdateTime, standing
// in for the timer external collaborator (spec.md §6: "timer tick
// increments of the global ticks, invocation of update_time once per
// tick"). cmd/kcore's demo harness calls this directly in place of a real
// timer interrupt.
func (k *Kernel) Tick() int64 {
	k.ticksMu.Lock()
	k.ticks++
	now := k.ticks
	k.ticksMu.Unlock()

	k.UpdateTime()
	return now
}

// Ticks returns the current tick count.
func (k *Kernel) Ticks() int64 {
	k.ticksMu.Lock()
	defer k.ticksMu.Unlock()
	return k.ticks
}

// UpdateTime increments rtime for every RUNNING process (spec.md §4.14).
func (k *Kernel) UpdateTime() {
	for _, p := range k.table {
		p.mu.Lock()
		if p.state == Running {
			p.rtime++
		}
		p.mu.Unlock()
	}
}

// SetPriority implements spec.md §4.13, delegating to the active policy.
// Only PBS supports it; the other three policies return
// SetPriorityNotActive.
func (k *Kernel) SetPriority(pid, newPri int) (int, error) {
	return k.policyImpl.setPriority(k, pid, newPri)
}
