package kernel

// mlfqMaxWait holds the aging thresholds from spec.md §4.12, indexed by a
// slot's current queue: "ticks a process may wait in its current queue
// before being promoted one level". Index 0 is unused since queue 0 never
// ages further up.
var mlfqMaxWait = [5]int64{0, 10, 30, 100, 150}

// mlfqQuantum holds the canonical per-queue quantum lengths spec.md §4.12
// calls out (1,2,4,8 ticks for queues 0..3), used by MLFQQuantumExpired.
var mlfqQuantum = [4]int{1, 2, 4, 8}

// mlfqPolicy is MLFQ: 4 active queues plus a round-robin fallback, spec.md
// §4.12. Its toSchedule-style scan reads mlfqQueue/mlfqTimeAdded across the
// whole table without a consistent snapshot, which is exactly the
// documented single-CPU-only hazard (spec.md §9); NewKernel refuses to
// build one with NCPU>1.
type mlfqPolicy struct{}

func (*mlfqPolicy) kind() Policy { return PolicyMLFQ }

// upgrade is step 1 of spec.md §4.12's scheduling round: promote any
// RUNNABLE slot that has waited past its queue's aging threshold.
func (*mlfqPolicy) upgrade(k *Kernel) {
	now := k.Ticks()
	for _, p := range k.table {
		p.mu.Lock()
		if p.state == Runnable && p.mlfqQueue > 0 && now-p.mlfqTimeAdded > mlfqMaxWait[p.mlfqQueue] {
			p.mlfqQueue--
			p.mlfqTimeAdded = now
		}
		p.mu.Unlock()
	}
}

// pickNext implements spec.md §4.12 steps 2-3: scan queues 0..3 in order,
// FIFO within a queue, falling back to a round-robin cursor over the whole
// table if nothing in 0..3 is RUNNABLE (the sentinel-queue-4 case; with
// allocproc always seeding queue 0 this fallback is defensive rather than
// reachable in normal operation).
func (pol *mlfqPolicy) pickNext(k *Kernel, c *CPU) *Proc {
	pol.upgrade(k)

	for queue := 0; queue < 4; queue++ {
		var best *Proc
		for _, p := range k.table {
			p.mu.Lock()
			if p.state != Runnable || p.mlfqQueue != queue {
				p.mu.Unlock()
				continue
			}
			if best == nil || p.mlfqTimeAdded < best.mlfqTimeAdded {
				if best != nil {
					best.mu.Unlock()
				}
				best = p
				continue
			}
			p.mu.Unlock()
		}
		if best != nil {
			return best
		}
	}

	n := len(k.table)
	start := k.mlfqCursor
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		p := k.table[idx]
		p.mu.Lock()
		if p.state == Runnable {
			k.mlfqCursor = (idx + 1) % n
			return p
		}
		p.mu.Unlock()
	}
	return nil
}

// onFork implements spec.md §4.6's MLFQ preemption-on-fork: a parent below
// the top queue yields immediately so its newly forked child, enqueued at
// queue 0, gets a turn.
func (*mlfqPolicy) onFork(k *Kernel, parent, child *Proc) {
	parent.mu.Lock()
	belowTop := parent.mlfqQueue != 0
	if belowTop {
		parent.mlfqTicks = 0
	}
	parent.mu.Unlock()

	if belowTop {
		k.Yield(parent)
	}
}

// onSleep has nothing to do for MLFQ: spec.md §4.10 assigns the
// time_added/no_of_ticks reset to wakeup, not to the sleep transition.
func (*mlfqPolicy) onSleep(k *Kernel, p *Proc) {}

// onWake implements spec.md §4.10's MLFQ wakeup bookkeeping: "records
// time_added = ticks and resets no_of_ticks".
func (*mlfqPolicy) onWake(k *Kernel, p *Proc) {
	p.mlfqTimeAdded = k.Ticks()
	p.mlfqTicks = 0
}

// onDispatch implements spec.md §4.12's "acquire lock, set RUNNING, zero
// the wait-timer field ... increment No_times".
func (*mlfqPolicy) onDispatch(k *Kernel, p *Proc) {
	p.mlfqTimeAdded = 0
	p.mlfqTicks = 0
	p.mlfqDispatch++
}

func (*mlfqPolicy) setPriority(k *Kernel, pid, newPri int) (int, error) {
	return 0, SetPriorityNotActive
}

// MLFQQuantumExpired is the MLFQ quantum-expiry path (spec.md §4.12): once p
// has used its queue's quantum (1,2,4,8 ticks for queues 0..3), it is
// demoted one queue (never below 3), its quantum counter is cleared and its
// time_added restarts. It does not preempt p: p stays RUNNING until its body
// next yields, sleeps or exits.
// Deciding when a quantum has elapsed is the trap path's job (spec.md §6
// lists timer ticks as an external collaborator); callers drive this by
// calling it once per tick for whichever process is RUNNING, mirroring how
// Tick already drives UpdateTime for rtime accounting. A no-op if the
// Kernel isn't running the MLFQ policy or p is not RUNNING.
func (k *Kernel) MLFQQuantumExpired(p *Proc) {
	if k.policyKind != PolicyMLFQ {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Running {
		return
	}
	p.mlfqTicks++
	if p.mlfqTicks >= mlfqQuantum[p.mlfqQueue] {
		if p.mlfqQueue < 3 {
			p.mlfqQueue++
		}
		p.mlfqTicks = 0
		p.mlfqTimeAdded = k.Ticks()
	}
}
