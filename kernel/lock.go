package kernel

import (
	"sync"
	"sync/atomic"
)

// spinlock wraps sync.Mutex with a Holding check, matching the external
// holding(lock) predicate spec.md §6 lists as a collaborator interface. A
// real spinlock's holding() compares the lock's recorded owner CPU against
// the current one; Go gives no portable way to ask "does this goroutine
// hold this mutex", so Holding here only answers "is someone holding this
// lock right now", which is exactly the question sched()'s fatal-precondition
// check (spec.md §4.11) needs, since every call site in this package takes
// the lock immediately before calling sched().
type spinlock struct {
	sync.Mutex
	held int32
}

func (l *spinlock) Lock() {
	l.Mutex.Lock()
	atomic.StoreInt32(&l.held, 1)
}

func (l *spinlock) Unlock() {
	atomic.StoreInt32(&l.held, 0)
	l.Mutex.Unlock()
}

// Holding reports whether the lock is currently held.
func (l *spinlock) Holding() bool {
	return atomic.LoadInt32(&l.held) == 1
}
