package kernel

import "sync"

// Sleep atomically releases lk and blocks p on chan, per spec.md §4.10. The
// caller must hold lk. Because p's own lock is acquired before lk is
// released, no wakeup racing this call can observe anything but SLEEPING:
// the waker must take p.mu to flip its state, and p.mu is held across the
// release of lk and the state transition.
func (k *Kernel) Sleep(p *Proc, ch Chan, lk sync.Locker) {
	p.mu.Lock()
	lk.Unlock()

	p.chanv = ch
	p.state = Sleeping
	k.policyImpl.onSleep(k, p)

	k.sched(p)

	p.chanv = 0
	p.mu.Unlock()
	lk.Lock()
}

// Wakeup transitions every SLEEPING process waiting on chan to RUNNABLE,
// except self (spec.md §4.10). Pass nil for self when waking up on behalf
// of no particular process (e.g. from the timer path).
func (k *Kernel) Wakeup(ch Chan, self *Proc) {
	for _, p := range k.table {
		if p == self {
			continue
		}
		p.mu.Lock()
		if p.state == Sleeping && p.chanv == ch {
			p.state = Runnable
			k.policyImpl.onWake(k, p)
		}
		p.mu.Unlock()
	}
}
