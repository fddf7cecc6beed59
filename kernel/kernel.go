package kernel

import "sync"

// DefaultNPROC is the fixed process-table size used when Config.NProc is
// zero (spec.md §3: "the table is fixed at compile time").
const DefaultNPROC = 64

// Config selects the process-table size, CPU count, and scheduling policy
// for a Kernel. Exactly one policy is active per Kernel instance, standing
// in for spec.md §6's build-time selection — see DESIGN.md for why this is
// a constructor argument here rather than a build tag.
type Config struct {
	NProc  int
	NCPU   int
	Policy Policy
}

// CPU is a per-CPU registry slot (spec.md §3 "cpus[NCPU]", §4.2). Its mutex
// stands in for the push_off/pop_off interrupt-nesting discipline: noff
// counts nested "interrupts disabled" regions and intena records whether
// interrupts were enabled when the outermost region began.
type CPU struct {
	id     int
	mu     sync.Mutex
	proc   *Proc
	noff   int
	intena bool
}

// ID returns the CPU's index, standing in for cpuid()/r_tp() (spec.md §4.2,
// §6).
func (c *CPU) ID() int { return c.id }

// pushOff/popOff model push_off()/pop_off(): scoped, nestable
// "interrupts disabled" regions. myproc() below wraps its body in exactly
// one such region, as spec.md §4.2 requires.
func (c *CPU) pushOff() {
	c.mu.Lock()
	if c.noff == 0 {
		c.intena = true
	}
	c.noff++
	c.mu.Unlock()
}

func (c *CPU) popOff() {
	c.mu.Lock()
	c.noff--
	if c.noff < 0 {
		c.mu.Unlock()
		panic("kernel: pop_off called without a matching push_off")
	}
	c.mu.Unlock()
}

// MyProc returns the process currently running on this CPU, or nil if the
// CPU is idling in the scheduler loop (spec.md §4.2 myproc()). The scoped
// push/pop-off pair is guaranteed to run on every exit path.
func (c *CPU) MyProc() *Proc {
	c.pushOff()
	defer c.popOff()
	return c.proc
}

func (c *CPU) setProc(p *Proc) {
	c.mu.Lock()
	c.proc = p
	c.mu.Unlock()
}

// Kernel owns the fixed process table, the per-CPU registry, the two global
// locks (pidMu stands in for pid_lock, waitMu for wait_lock), the tick
// counter, and the active scheduling policy (spec.md §3 "Global state").
type Kernel struct {
	pidMu   sync.Mutex
	nextPid int

	waitMu sync.Mutex // wait_lock; acquired before any p.mu (spec.md invariant 3)

	ticksMu sync.Mutex
	ticks   int64

	table []*Proc
	cpus  []*CPU

	initproc *Proc

	policyKind Policy
	policyImpl schedulerPolicy

	mlfqCursor int // fallback round-robin cursor, spec.md §4.12 step 3
	rrCursor   int // DEFAULT round-robin cursor
}

// NewKernel builds a Kernel with a fixed-size process table and a single
// scheduling policy wired in, mirroring procinit (spec.md §4's external
// interface list: "procinit, proc_mapstacks"). proc_mapstacks has no
// analogue here since kernel stacks are a VM-layer concept (§1 Non-goals);
// each Proc instead gets its swtch.Context lazily, in allocproc.
func NewKernel(cfg Config) *Kernel {
	nproc := cfg.NProc
	if nproc <= 0 {
		nproc = DefaultNPROC
	}
	ncpu := cfg.NCPU
	if ncpu <= 0 {
		ncpu = 1
	}
	if cfg.Policy == PolicyMLFQ && ncpu > 1 {
		// spec.md §4.12/§9: MLFQ's toSchedule scan is documented as
		// single-CPU-correct only. Rather than silently accepting an
		// unsafe configuration, this resolves the open question by
		// refusing it outright.
		panic("kernel: MLFQ policy is only correct with a single CPU")
	}

	k := &Kernel{
		nextPid: 0,
		table:   make([]*Proc, nproc),
		cpus:    make([]*CPU, ncpu),
	}
	for i := range k.table {
		k.table[i] = &Proc{state: Unused, cpu: -1}
	}
	for i := range k.cpus {
		k.cpus[i] = &CPU{id: i}
	}

	k.policyKind = cfg.Policy
	k.policyImpl = newSchedulerPolicy(cfg.Policy)

	return k
}

// CPU returns the CPU registry slot at the given index, mirroring mycpu()
// once the hart id is known (spec.md §4.2).
func (k *Kernel) CPU(id int) *CPU { return k.cpus[id] }

// NCPU reports the number of registered CPUs.
func (k *Kernel) NCPU() int { return len(k.cpus) }

// NProc reports the fixed process-table size.
func (k *Kernel) NProc() int { return len(k.table) }

// Policy reports the active scheduling policy.
func (k *Kernel) Policy() Policy { return k.policyKind }

// InitProc returns the first user process created by UserInit, or nil if
// UserInit has not been called yet.
func (k *Kernel) InitProc() *Proc { return k.initproc }
