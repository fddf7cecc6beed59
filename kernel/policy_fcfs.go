package kernel

// fcfsPolicy is FCFS: non-preemptive, earliest start_time first, spec.md
// §4.12. Timer-driven yields are the trap handler's job to suppress when
// FCFS is selected (§6 external contract) — this core only needs to never
// preempt voluntarily, which it already doesn't (nothing here calls Yield
// on the running process).
type fcfsPolicy struct{}

func (*fcfsPolicy) kind() Policy { return PolicyFCFS }

func (*fcfsPolicy) pickNext(k *Kernel, c *CPU) *Proc {
	var best *Proc
	for _, p := range k.table {
		p.mu.Lock()
		if p.state != Runnable {
			p.mu.Unlock()
			continue
		}
		if best == nil || p.fcfsStart < best.fcfsStart {
			if best != nil {
				best.mu.Unlock()
			}
			best = p
			continue
		}
		p.mu.Unlock()
	}
	return best
}

func (*fcfsPolicy) onFork(k *Kernel, parent, child *Proc) {}
func (*fcfsPolicy) onSleep(k *Kernel, p *Proc)            {}
func (*fcfsPolicy) onWake(k *Kernel, p *Proc)             {}
func (*fcfsPolicy) onDispatch(k *Kernel, p *Proc)         {}

func (*fcfsPolicy) setPriority(k *Kernel, pid, newPri int) (int, error) {
	return 0, SetPriorityNotActive
}
