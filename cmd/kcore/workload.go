package main

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/arctir/kcore/kernel"
)

// cpuBurst is a workload body that just wants the CPU for a while: it yields
// control back to the scheduler repeatedly without ever sleeping, the way a
// tight compute loop would. n is how many scheduling turns it takes before
// returning (and exiting).
func cpuBurst(n int) func(*kernel.Kernel, *kernel.Proc) {
	return func(k *kernel.Kernel, p *kernel.Proc) {
		for i := 0; i < n; i++ {
			runtime.Gosched()
			k.Yield(p)
		}
	}
}

// sleeper blocks on ch (guarded by mu, which it must not already hold) until
// woken, then returns. Mirrors the shape of a process blocked in sleep()
// waiting on some external event.
func sleeper(mu *sync.Mutex, ch kernel.Chan) func(*kernel.Kernel, *kernel.Proc) {
	return func(k *kernel.Kernel, p *kernel.Proc) {
		mu.Lock()
		k.Sleep(p, ch, mu)
		mu.Unlock()
	}
}

// waker runs a short cpuBurst and then wakes whoever is sleeping on ch.
func waker(mu *sync.Mutex, ch kernel.Chan, burst int) func(*kernel.Kernel, *kernel.Proc) {
	return func(k *kernel.Kernel, p *kernel.Proc) {
		for i := 0; i < burst; i++ {
			runtime.Gosched()
			k.Yield(p)
		}
		mu.Lock()
		k.Wakeup(ch, p)
		mu.Unlock()
	}
}

// forkingParent forks n children running childBody and waits for all of
// them, printing each reaped pid and exit status. Demonstrates the
// fork/exit/wait round trip (spec.md §8 scenario 2) from inside a running
// process rather than from the test harness.
func forkingParent(n int, childBody func(*kernel.Kernel, *kernel.Proc)) func(*kernel.Kernel, *kernel.Proc) {
	return func(k *kernel.Kernel, p *kernel.Proc) {
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("%s.child%d", p.Name(), i)
			if _, err := k.Fork(p, name, childBody); err != nil {
				fmt.Printf("kcore: fork of %s failed: %v\n", name, err)
			}
		}
		for i := 0; i < n; i++ {
			var status int
			pid, err := k.Wait(p, &status)
			if err != nil {
				fmt.Printf("kcore: wait failed: %v\n", err)
				return
			}
			fmt.Printf("kcore: reaped pid=%d status=%d\n", pid, status)
		}
	}
}
