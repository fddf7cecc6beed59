package kernel

// Fork creates a new process that is a copy of parent (spec.md §4.6). body
// is the child's entire "user program" — standing in for the deep copy of
// parent's user memory and trapframe a real fork() performs, since this
// subsystem has no VM layer to copy (§1 Non-goals). Open files and cwd are
// duplicated by reference exactly as a real fork does.
func (k *Kernel) Fork(parent *Proc, name string, body func(*Kernel, *Proc)) (int, error) {
	child, err := k.allocproc()
	if err != nil {
		return -1, err
	}

	child.name = name
	child.body = body
	child.sz = parent.sz

	for i, f := range parent.files {
		if f != nil {
			child.files[i] = f.Dup()
		}
	}
	if parent.cwd != nil {
		child.cwd = parent.cwd.Dup()
	}

	child.mu.Unlock()

	k.waitMu.Lock()
	child.parent = parent
	k.waitMu.Unlock()

	child.mu.Lock()
	child.state = Runnable
	child.mu.Unlock()

	k.policyImpl.onFork(k, parent, child)

	return child.pid, nil
}

// reparent hands every child of p over to initproc and wakes it. Caller
// must hold k.waitMu (spec.md §4.7).
func (k *Kernel) reparent(p *Proc) {
	any := false
	for _, c := range k.table {
		c.mu.Lock()
		if c.parent == p {
			c.parent = k.initproc
			any = true
		}
		c.mu.Unlock()
	}
	if any {
		k.Wakeup(ChanOf(k.initproc), p)
	}
}

// Exit tears p down: closes its files, reparents its children to initproc,
// wakes its parent, marks it ZOMBIE, and hands control to the scheduler for
// the last time (spec.md §4.7). Exit never returns to its caller; the
// goroutine running p's body is parked forever inside sched(), to be
// garbage collected along with the rest of the Kernel once the caller is
// done with it.
func (k *Kernel) Exit(p *Proc, status int) {
	if p == k.initproc {
		panic("kernel: initproc must never exit")
	}

	for i, f := range p.files {
		if f != nil {
			f.Close()
			p.files[i] = nil
		}
	}
	if p.cwd != nil {
		p.cwd.Close()
		p.cwd = nil
	}

	k.waitMu.Lock()
	k.reparent(p)
	if p.parent != nil {
		k.Wakeup(ChanOf(p.parent), p)
	}

	p.mu.Lock()
	p.xstate = status
	p.state = Zombie
	p.etime = k.Ticks()
	k.waitMu.Unlock()

	k.sched(p)
	panic("kernel: a ZOMBIE process resumed after exit")
}

// Wait blocks p until one of its children exits, reaps it, and returns its
// pid. If addr is non-nil, the child's exit status is copied there
// (spec.md §4.8 — addr being the nil pointer is "do not copy").
func (k *Kernel) Wait(p *Proc, addr *int) (int, error) {
	pid, _, _, err := k.waitx(p, addr, false)
	return pid, err
}

// WaitX is Wait plus the reaped child's run time and wait time
// (spec.md §4.8).
func (k *Kernel) WaitX(p *Proc, addr *int) (pid int, rtime int64, wtime int64, err error) {
	return k.waitx(p, addr, true)
}

func (k *Kernel) waitx(p *Proc, addr *int, wantTimes bool) (int, int64, int64, error) {
	k.waitMu.Lock()
	for {
		haveChild := false
		for _, c := range k.table {
			c.mu.Lock()
			if c.parent != p {
				c.mu.Unlock()
				continue
			}
			haveChild = true
			if c.state == Zombie {
				pid := c.pid
				xstate := c.xstate
				var rtime, wtime int64
				if wantTimes {
					rtime = c.rtime
					wtime = c.etime - c.ctime - c.rtime
				}
				k.freeproc(c)
				c.mu.Unlock()
				k.waitMu.Unlock()
				if addr != nil {
					*addr = xstate
				}
				return pid, rtime, wtime, nil
			}
			c.mu.Unlock()
		}

		if !haveChild || p.Killed() {
			k.waitMu.Unlock()
			return -1, 0, 0, ErrNoChildren
		}

		k.Sleep(p, ChanOf(p), &k.waitMu)
	}
}

// Kill marks the process with the given pid as killed, forcing it out of
// SLEEPING if necessary (spec.md §4.9). The victim exits voluntarily the
// next time it observes its own killed flag; Kill does not tear it down
// itself.
func (k *Kernel) Kill(pid int) error {
	for _, p := range k.table {
		p.mu.Lock()
		if p.pid == pid {
			p.killed = true
			if p.state == Sleeping {
				p.state = Runnable
			}
			p.mu.Unlock()
			return nil
		}
		p.mu.Unlock()
	}
	return ErrNoSuchPid
}
