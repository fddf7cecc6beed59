package kernel

import (
	"sync"
	"testing"
	"time"
)

func TestWakeupWithNoSleepersIsNoOp(t *testing.T) {
	k := NewKernel(Config{NProc: 4, NCPU: 1, Policy: PolicyDefault})
	ch := ChanOf(new(int))

	// Should return immediately and mutate nothing; every slot is UNUSED.
	k.Wakeup(ch, nil)

	for _, p := range k.table {
		if p.state != Unused {
			t.Logf("expected every slot to remain UNUSED, found %s", p.state)
			t.Fail()
		}
	}
}

func TestWakeupWakesEachSleeperOnce(t *testing.T) {
	k := NewKernel(Config{NProc: 8, NCPU: 2, Policy: PolicyDefault})

	var mu sync.Mutex
	ch := ChanOf(new(int))
	const nSleepers = 3

	woken := make(chan int, nSleepers)

	k.UserInit("initcode", func(k *Kernel, init *Proc) {
		for i := 0; i < nSleepers; i++ {
			k.Fork(init, "sleeper", func(k *Kernel, c *Proc) {
				mu.Lock()
				k.Sleep(c, ch, &mu)
				mu.Unlock()
				woken <- c.Pid()
				k.Exit(c, 0)
			})
		}
		for i := 0; i < nSleepers; i++ {
			var status int
			k.Wait(init, &status)
		}
		block()
	})

	stop := make(chan struct{})
	for i := 0; i < k.NCPU(); i++ {
		go k.RunCPU(k.CPU(i), stop)
	}
	defer close(stop)

	deadline := time.After(time.Second)
	allSleeping := func() bool {
		count := 0
		for _, p := range k.table {
			// initproc also sleeps, inside Wait; only the forked sleepers count.
			if p != k.InitProc() && p.State() == Sleeping && p.pid != 0 {
				count++
			}
		}
		return count == nSleepers
	}
	for !allSleeping() {
		select {
		case <-deadline:
			t.Fatalf("not all sleepers reached SLEEPING in time")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	mu.Lock()
	k.Wakeup(ch, nil)
	mu.Unlock()

	seen := map[int]bool{}
	for i := 0; i < nSleepers; i++ {
		select {
		case pid := <-woken:
			if seen[pid] {
				t.Logf("pid %d woke more than once", pid)
				t.Fail()
			}
			seen[pid] = true
		case <-time.After(time.Second):
			t.Fatalf("only %d of %d sleepers woke", i, nSleepers)
		}
	}
}
