package kernel

// pbsPolicy is PBS: priority-based scheduling with dynamic niceness derived
// from recent sleep/run behaviour, spec.md §4.12.
type pbsPolicy struct{}

func (*pbsPolicy) kind() Policy { return PolicyPBS }

// niceness implements spec.md §4.12's formula: 5 (neutral) if the process
// has never run, otherwise floor(sleeping_time*10/(running_time+
// sleeping_time)), clamped to [0,10].
func niceness(p *Proc) int {
	if p.pbsRunning == -1 && p.pbsSleeping == -1 {
		return 5
	}
	total := p.pbsRunning + p.pbsSleeping
	if total <= 0 {
		return 5
	}
	n := int((p.pbsSleeping * 10) / total)
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return n
}

// dynamicPriority implements spec.md §4.12's
// clamp(static_priority - niceness + 5, 0, 100). Lower is higher priority.
func dynamicPriority(p *Proc) int {
	dp := p.pbsStatic - niceness(p) + 5
	if dp < 0 {
		dp = 0
	}
	if dp > 100 {
		dp = 100
	}
	return dp
}

// betterPBS reports whether candidate should replace current as the best
// pick so far, applying spec.md §4.12's tie-break chain: lower dynamic
// priority, then lower Times_scheduled, then earlier start_time.
func betterPBS(candidate, current *Proc) bool {
	cd, bd := dynamicPriority(candidate), dynamicPriority(current)
	if cd != bd {
		return cd < bd
	}
	if candidate.pbsSched != current.pbsSched {
		return candidate.pbsSched < current.pbsSched
	}
	return candidate.pbsStart < current.pbsStart
}

func (*pbsPolicy) pickNext(k *Kernel, c *CPU) *Proc {
	var best *Proc
	for _, p := range k.table {
		p.mu.Lock()
		if p.state != Runnable {
			p.mu.Unlock()
			continue
		}
		if best == nil || betterPBS(p, best) {
			if best != nil {
				best.mu.Unlock()
			}
			best = p
			continue
		}
		p.mu.Unlock()
	}
	return best
}

func (*pbsPolicy) onFork(k *Kernel, parent, child *Proc) {}

// onSleep converts the running-time baseline set at dispatch into the
// duration of the run segment that just ended (spec.md §4.12: "at sleep,
// running_time <- ticks - running_time").
func (*pbsPolicy) onSleep(k *Kernel, p *Proc) {
	p.pbsRunning = k.Ticks() - p.pbsRunning
}

// onWake sets sleeping_time to ticks minus its current value (spec.md
// §4.12). onDispatch leaves that value at 0, so after a sleep that began
// while running the result is the wake-up tick, not the length of the sleep.
func (*pbsPolicy) onWake(k *Kernel, p *Proc) {
	p.pbsSleeping = k.Ticks() - p.pbsSleeping
}

// onDispatch implements spec.md §4.12's "On dispatch: increment
// Times_scheduled, set sleeping_time = 0, set running_time = ticks".
func (*pbsPolicy) onDispatch(k *Kernel, p *Proc) {
	p.pbsSched++
	p.pbsSleeping = 0
	p.pbsRunning = k.Ticks()
}

// setPriority implements spec.md §4.13.
func (*pbsPolicy) setPriority(k *Kernel, pid, newPri int) (int, error) {
	if newPri < 0 || newPri > 100 {
		return 0, SetPriorityOutOfRange
	}

	for _, p := range k.table {
		p.mu.Lock()
		if p.pid != pid || (p.state != Runnable && p.state != Sleeping && p.state != Running) {
			p.mu.Unlock()
			continue
		}
		wasRunning := p.state == Running
		old := p.pbsStatic
		p.pbsStatic = newPri
		p.pbsRunning = -1
		p.pbsSleeping = -1
		p.mu.Unlock()

		// A demoted RUNNING target is taken to be the caller and gives up
		// its CPU; a RUNNABLE or SLEEPING target has no CPU to give up.
		if newPri > old && wasRunning {
			k.Yield(p)
		}
		return old, nil
	}
	return 0, SetPriorityNoSuchPid
}
