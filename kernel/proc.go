package kernel

import (
	"fmt"

	"github.com/arctir/kcore/kernel/swtch"
)

// PageSize stands in for the external PGSIZE constant (§6); the virtual
// memory subsystem it describes is out of scope (spec.md §1 Non-goals), but
// process size accounting still needs a unit.
const PageSize = 4096

// DefaultStaticPriority is PBS's default static priority (spec.md §3).
const DefaultStaticPriority = 60

// Proc is one process-table slot. p.mu guards every field this comment
// doesn't call out as exempt; see spec.md invariant 2. Procdump (§4.15)
// reads pid, name, state, the timing fields and the policy-private fields
// below without the lock, deliberately, to avoid wedging a stuck machine.
type Proc struct {
	mu spinlock // p->lock

	pid    int
	name   string
	parent *Proc // written only under Kernel.waitMu (invariant 6)

	state  ProcState
	killed bool
	chanv  Chan // 0 when not SLEEPING (invariant 5)
	xstate int

	sz int64 // bytes of simulated user memory

	files [NOFILE]*OpenFile
	cwd   *Inode

	ctime int64
	etime int64
	rtime int64

	// FCFS
	fcfsStart int64

	// PBS
	pbsStatic   int
	pbsSched    int
	pbsStart    int64
	pbsRunning  int64
	pbsSleeping int64

	// MLFQ
	mlfqQueue     int
	mlfqTimeAdded int64
	mlfqTicks     int
	mlfqDispatch  int

	ctx     *swtch.Context
	started bool // whether ctx's goroutine has been launched yet
	cpu     int  // index into Kernel.cpus of whoever last ran this proc, -1 if none
	body    func(*Kernel, *Proc)
}

// Pid returns the process's pid. Safe to call without the lock once a
// caller already knows the slot is live (e.g. from Procdump or from the
// pid returned by Fork/UserInit); pid is never mutated after allocproc.
func (p *Proc) Pid() int { return p.pid }

// Name returns the process's name.
func (p *Proc) Name() string { return p.name }

// State returns the current state under lock.
func (p *Proc) State() ProcState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Killed reports the killed flag under lock.
func (p *Proc) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// XState returns the exit status recorded by Exit.
func (p *Proc) XState() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.xstate
}

// AddFile installs f in the first free file-descriptor slot and returns its
// index, or -1 if the table is full.
func (p *Proc) AddFile(f *OpenFile) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, cur := range p.files {
		if cur == nil {
			p.files[i] = f
			return i
		}
	}
	return -1
}

// allocpid returns a fresh, monotonically increasing pid (spec.md §4.1).
// PIDs start at 1 and are never reused within a boot.
func (k *Kernel) allocpid() int {
	k.pidMu.Lock()
	defer k.pidMu.Unlock()
	k.nextPid++
	return k.nextPid
}

// allocproc scans the table for the first UNUSED slot, reserves it, and
// returns it with its lock held (spec.md §4.3). Callers must eventually
// release p.mu themselves (UserInit and Fork do so once the slot is fully
// initialised).
func (k *Kernel) allocproc() (*Proc, error) {
	for _, p := range k.table {
		p.mu.Lock()
		if p.state != Unused {
			p.mu.Unlock()
			continue
		}

		p.pid = k.allocpid()
		p.state = Used
		p.killed = false
		p.chanv = 0
		p.xstate = 0
		p.parent = nil
		p.sz = 0
		p.name = ""
		p.cpu = -1

		now := k.Ticks()
		p.ctime = now
		p.etime = 0
		p.rtime = 0

		p.fcfsStart = now

		p.pbsStatic = DefaultStaticPriority
		p.pbsSched = 0
		p.pbsStart = now
		p.pbsRunning = -1
		p.pbsSleeping = -1

		p.mlfqQueue = 0
		p.mlfqTimeAdded = now
		p.mlfqTicks = 0
		p.mlfqDispatch = 0

		for i := range p.files {
			p.files[i] = nil
		}
		p.cwd = nil

		p.ctx = swtch.New()
		p.started = false
		p.body = nil

		return p, nil
	}
	return nil, ErrNoProcSlots
}

// freeproc tears a slot back down to UNUSED. The caller must hold p.mu and
// is the only one who may invoke this: allocproc's own rollback path (not
// needed by this simulated subsystem, since allocation here cannot
// partially fail) or Wait/Waitx reaping a ZOMBIE child.
func (k *Kernel) freeproc(p *Proc) {
	p.ctx = nil
	p.started = false
	p.body = nil
	p.pid = 0
	p.name = ""
	p.parent = nil
	p.killed = false
	p.chanv = 0
	p.xstate = 0
	p.sz = 0
	p.ctime, p.etime, p.rtime = 0, 0, 0
	for i := range p.files {
		p.files[i] = nil
	}
	p.cwd = nil
	p.state = Unused
}

// UserInit allocates the first user process, analogous to spec.md §4.4. In
// place of copying a fixed initcode byte sequence into a freshly mapped
// user page, body is the Go function this process "runs" once dispatched.
func (k *Kernel) UserInit(name string, body func(*Kernel, *Proc)) *Proc {
	p, err := k.allocproc()
	if err != nil {
		panic(fmt.Sprintf("kernel: userinit: %v", err))
	}
	p.name = name
	p.sz = PageSize
	p.cwd = NewInode("/")
	p.body = body
	p.state = Runnable
	p.mu.Unlock()

	k.initproc = p
	return p
}

// GrowProc extends or shrinks the current process's simulated memory size
// by n bytes (spec.md §4.5). Shrinking always succeeds; growing fails only
// if the resulting size would overflow, standing in for an allocation
// shortage from the external memory collaborator.
func (k *Kernel) GrowProc(p *Proc, n int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	newSz := p.sz + n
	if n > 0 && newSz < p.sz {
		return ErrAllocFailed
	}
	if newSz < 0 {
		newSz = 0
	}
	p.sz = newSz
	return nil
}
