package kernel

import "runtime"

// schedulerPolicy is the pluggable capability spec.md §9 calls for: one of
// four implementations, selected at Kernel-construction time, producing
// pickNext() plus the onFork/onSleep/onWake/onDispatch hooks. Exactly one
// is wired into a Kernel (spec.md §6 "build-time selection").
type schedulerPolicy interface {
	kind() Policy

	// pickNext scans the table for the next process to run on c and
	// returns it with its lock already held, or nil if nothing is
	// RUNNABLE. It never sets state to RUNNING itself; the scheduler
	// loop does that uniformly for every policy.
	pickNext(k *Kernel, c *CPU) *Proc

	onFork(k *Kernel, parent, child *Proc)
	onSleep(k *Kernel, p *Proc)
	onWake(k *Kernel, p *Proc)
	onDispatch(k *Kernel, p *Proc)

	// setPriority implements spec.md §4.13. Only PBS supports it; the
	// other three policies return SetPriorityNotActive.
	setPriority(k *Kernel, pid, newPri int) (old int, err error)
}

func newSchedulerPolicy(p Policy) schedulerPolicy {
	switch p {
	case PolicyFCFS:
		return &fcfsPolicy{}
	case PolicyPBS:
		return &pbsPolicy{}
	case PolicyMLFQ:
		return &mlfqPolicy{}
	default:
		return &defaultPolicy{}
	}
}

// sched is the common body of spec.md §4.11's sched(): it checks the two
// preconditions that are cheap to check in this model and then performs the
// context switch back to whichever CPU is currently running p. Every
// caller (Yield, Sleep, Exit) must hold p.mu and have already set a
// non-RUNNING state before calling this.
func (k *Kernel) sched(p *Proc) {
	if !p.mu.Holding() {
		panic("kernel: sched called without p.lock held")
	}
	if p.state == Running {
		panic("kernel: sched called on a RUNNING process")
	}
	p.ctx.Yield()
}

// Yield voluntarily gives up the CPU, per spec.md §4.11: "the trivial 'set
// RUNNABLE and sched' under own lock".
func (k *Kernel) Yield(p *Proc) {
	p.mu.Lock()
	p.state = Runnable
	k.sched(p)
	p.mu.Unlock()
}

// runBody is forkret (spec.md §4.11): the trampoline a process resumes into
// the very first time it is ever dispatched. It releases the lock the
// scheduler is holding across the dispatch, then runs the process's body
// and exits if body ever returns. There is no file system here, so forkret's
// one-time file-system initialisation has no counterpart.
func (k *Kernel) runBody(p *Proc) {
	p.mu.Unlock()
	if p.body != nil {
		p.body(k, p)
	}
	k.Exit(p, 0)
}

// RunCPU is the per-CPU scheduler loop (spec.md §4.12's shared invariant
// plus §7.1's DEFAULT/FCFS/PBS/MLFQ variants, all expressed through the
// schedulerPolicy capability). It runs until stop is closed. Pass a
// distinct *CPU to each goroutine driving a core.
func (k *Kernel) RunCPU(c *CPU, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		c.setProc(nil)

		p := k.policyImpl.pickNext(k, c)
		if p == nil {
			// spec.md §9 open question: an idle scheduler with nothing
			// RUNNABLE either halts/WFIs or keeps spinning. This core
			// keeps spinning (there is no WFI analogue on a simulated
			// CPU) but yields the host thread so other CPUs' goroutines
			// and the process goroutines they drive can make progress.
			runtime.Gosched()
			continue
		}

		p.state = Running
		p.cpu = c.id
		c.setProc(p)
		k.policyImpl.onDispatch(k, p)

		if p.ctx == nil {
			// Shouldn't happen: pickNext only returns live slots.
			p.mu.Unlock()
			continue
		}

		started := p.started
		if !started {
			p.started = true
			p.ctx.Start(func() { k.runBody(p) })
		}
		p.ctx.Enter()

		c.setProc(nil)
		p.mu.Unlock()
	}
}
