package kernel

// ProcSnapshot is one row of a Procdump (spec.md §4.15). Policy-specific
// columns are populated according to whichever policy built the Kernel;
// the others are left at their zero value.
type ProcSnapshot struct {
	Pid   int
	Name  string
	State ProcState

	// PBS
	DynamicPriority int
	RunTime         int64
	WaitTime        int64
	TimesScheduled  int

	// MLFQ
	Queue         int
	MLFQRunTime   int64
	MLFQWaitTime  int64
	DispatchCount int
}

// Procdump gathers one ProcSnapshot per non-UNUSED slot, deliberately
// without taking any lock (spec.md §4.15: "must not wedge a stuck
// machine"). Fields it reads may be torn or stale under concurrent
// mutation; that tradeoff is the entire point of this operation.
func (k *Kernel) Procdump() []ProcSnapshot {
	out := make([]ProcSnapshot, 0, len(k.table))
	now := k.ticks // lock-free read, same rationale as the rest of this function

	for _, p := range k.table {
		if p.state == Unused {
			continue
		}
		row := ProcSnapshot{
			Pid:   p.pid,
			Name:  p.name,
			State: p.state,
		}
		switch k.policyKind {
		case PolicyPBS:
			row.DynamicPriority = dynamicPriority(p)
			row.RunTime = p.rtime
			row.WaitTime = waitTime(p, now)
			row.TimesScheduled = p.pbsSched
		case PolicyMLFQ:
			row.Queue = p.mlfqQueue
			row.MLFQRunTime = p.rtime
			row.MLFQWaitTime = waitTime(p, now)
			row.DispatchCount = p.mlfqDispatch
		}
		out = append(out, row)
	}
	return out
}

// waitTime is spec.md invariant 8's wtime = etime - ctime - rtime, with now
// substituted for etime while the process is still alive.
func waitTime(p *Proc, now int64) int64 {
	end := p.etime
	if end == 0 {
		end = now
	}
	wt := end - p.ctime - p.rtime
	if wt < 0 {
		return 0
	}
	return wt
}
