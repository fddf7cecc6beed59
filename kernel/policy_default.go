package kernel

// defaultPolicy is DEFAULT: plain round robin, spec.md §4.12. It is "the
// only policy that is correct on multiple CPUs by construction" because it
// never inspects any process's state except under that process's own lock.
// The cursor is a single Kernel-wide field that every CPU's scan reads and
// advances without a lock (two CPUs racing it would at worst duplicate or
// skip a turn, never corrupt shared state).
type defaultPolicy struct{}

func (*defaultPolicy) kind() Policy { return PolicyDefault }

func (*defaultPolicy) pickNext(k *Kernel, c *CPU) *Proc {
	n := len(k.table)
	start := k.rrCursor
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		p := k.table[idx]
		p.mu.Lock()
		if p.state == Runnable {
			k.rrCursor = (idx + 1) % n
			return p
		}
		p.mu.Unlock()
	}
	return nil
}

func (*defaultPolicy) onFork(k *Kernel, parent, child *Proc) {}
func (*defaultPolicy) onSleep(k *Kernel, p *Proc)            {}
func (*defaultPolicy) onWake(k *Kernel, p *Proc)             {}
func (*defaultPolicy) onDispatch(k *Kernel, p *Proc)         {}

func (*defaultPolicy) setPriority(k *Kernel, pid, newPri int) (int, error) {
	return 0, SetPriorityNotActive
}
