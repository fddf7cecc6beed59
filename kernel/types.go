package kernel

import (
	"errors"
	"fmt"
	"reflect"
)

// ProcState is one of the six states a process slot can be in. The only
// legal transitions are documented in spec.md invariant 1:
// UNUSED -> USED -> {RUNNABLE <-> RUNNING, RUNNABLE <-> SLEEPING,
// RUNNING -> ZOMBIE} -> UNUSED.
type ProcState int

const (
	Unused ProcState = iota
	Used
	Sleeping
	Runnable
	Running
	Zombie
)

func (s ProcState) String() string {
	switch s {
	case Unused:
		return "UNUSED"
	case Used:
		return "USED"
	case Sleeping:
		return "SLEEPING"
	case Runnable:
		return "RUNNABLE"
	case Running:
		return "RUNNING"
	case Zombie:
		return "ZOMBIE"
	default:
		return "INVALID"
	}
}

// Policy names one of the four build-time scheduler policies (spec.md §4.12,
// §6 "build-time selection"). A real xv6 build picks exactly one of these
// with a Makefile flag and links a single scheduler(); here it's a
// constructor argument to NewKernel, since a Go binary can't omit the other
// three schedulerPolicy implementations from the build the way a C
// Makefile can omit the other three proc.c variants (see DESIGN.md).
type Policy int

const (
	PolicyDefault Policy = iota
	PolicyFCFS
	PolicyPBS
	PolicyMLFQ
)

func (p Policy) String() string {
	switch p {
	case PolicyDefault:
		return "default"
	case PolicyFCFS:
		return "fcfs"
	case PolicyPBS:
		return "pbs"
	case PolicyMLFQ:
		return "mlfq"
	default:
		return "unknown"
	}
}

// ParsePolicy turns a config/flag value into a Policy. It is the inverse of
// Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "default", "":
		return PolicyDefault, nil
	case "fcfs":
		return PolicyFCFS, nil
	case "pbs":
		return PolicyPBS, nil
	case "mlfq":
		return PolicyMLFQ, nil
	default:
		return PolicyDefault, fmt.Errorf("kernel: unknown scheduler policy %q", s)
	}
}

// Chan is an opaque sleep channel, matching spec.md's "numeric address of a
// stable sentinel" (§9 design notes): any value obtained from ChanOf is
// stable for the lifetime of the object it was derived from and is never a
// pointer into a moveable allocation.
type Chan uintptr

// ChanOf derives a Chan from a pointer-like value. It panics if v does not
// have an address that reflect can observe, which is a programming error at
// the call site, not a runtime condition callers should expect to handle.
func ChanOf(v any) Chan {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Map, reflect.UnsafePointer:
		if rv.IsNil() {
			panic("kernel: ChanOf called with a nil pointer")
		}
		return Chan(rv.Pointer())
	default:
		panic(fmt.Sprintf("kernel: ChanOf called with non-addressable value of kind %s", rv.Kind()))
	}
}

// Error taxonomy (spec.md §7). Local operations return one of these to the
// caller; invariant violations panic at the point of detection instead.
var (
	ErrNoProcSlots  = errors.New("kernel: no free process slots")
	ErrAllocFailed  = errors.New("kernel: resource allocation failed")
	ErrNoChildren   = errors.New("kernel: process has no children")
	ErrKilled       = errors.New("kernel: process was killed")
	ErrCopyFailed   = errors.New("kernel: user-memory copy failed")
	ErrNoSuchPid    = errors.New("kernel: no process with that pid")
	ErrPolicyNotPBS = errors.New("kernel: set_priority is only supported under the PBS policy")
)

// SetPriorityCode mirrors spec.md §7's numeric codes for set_priority,
// distinct from the old-priority success return (which is always >= 0).
type SetPriorityCode int

const (
	SetPriorityOutOfRange SetPriorityCode = 1
	SetPriorityNoSuchPid  SetPriorityCode = 2
	SetPriorityNotActive  SetPriorityCode = 10
)

func (c SetPriorityCode) Error() string {
	switch c {
	case SetPriorityOutOfRange:
		return "kernel: priority out of range [0,100]"
	case SetPriorityNoSuchPid:
		return "kernel: no runnable, running or sleeping process with that pid"
	case SetPriorityNotActive:
		return "kernel: set_priority not supported by the active policy"
	default:
		return "kernel: set_priority failed"
	}
}
