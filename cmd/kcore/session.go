package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arctir/kcore/kernel"

	"github.com/arctir/kcore/display"
)

// session owns a booted Kernel, the goroutines driving it, and the REPL that
// exposes ps/nice/kill/quit as interactive commands (SPEC_FULL.md's
// cmd/kcore description).
type session struct {
	k         *kernel.Kernel
	stop      chan struct{}
	tickEvery time.Duration
}

func newSession(cfg kernel.Config, tickEvery time.Duration) *session {
	return &session{
		k:         kernel.NewKernel(cfg),
		stop:      make(chan struct{}),
		tickEvery: tickEvery,
	}
}

// boot starts one RunCPU goroutine per configured CPU plus a ticker
// goroutine standing in for the timer interrupt (spec.md §6): it advances
// ticks and, under MLFQ, drives per-tick quantum-expiry accounting for
// whichever process is currently RUNNING on each CPU.
func (s *session) boot() {
	for i := 0; i < s.k.NCPU(); i++ {
		go s.k.RunCPU(s.k.CPU(i), s.stop)
	}
	go s.tick()
}

func (s *session) tick() {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.k.Tick()
			if s.k.Policy() == kernel.PolicyMLFQ {
				for i := 0; i < s.k.NCPU(); i++ {
					if p := s.k.CPU(i).MyProc(); p != nil {
						s.k.MLFQQuantumExpired(p)
					}
				}
			}
		}
	}
}

func (s *session) shutdown() {
	close(s.stop)
}

// seedDemo builds the small demo process tree SPEC_FULL.md calls for: a
// CPU-bound burst, a sleeper/waker pair, and a parent that forks and waits
// for a batch of children, all hung off initproc.
func (s *session) seedDemo() {
	var sleepMu sync.Mutex
	wakeObj := new(int)
	ch := kernel.ChanOf(wakeObj)

	initBody := func(k *kernel.Kernel, p *kernel.Proc) {
		if _, err := k.Fork(p, "burst", cpuBurst(5)); err != nil {
			fmt.Printf("kcore: fork burst failed: %v\n", err)
		}
		if _, err := k.Fork(p, "sleeper", sleeper(&sleepMu, ch)); err != nil {
			fmt.Printf("kcore: fork sleeper failed: %v\n", err)
		}
		if _, err := k.Fork(p, "waker", waker(&sleepMu, ch, 3)); err != nil {
			fmt.Printf("kcore: fork waker failed: %v\n", err)
		}
		if _, err := k.Fork(p, "tree", forkingParent(3, cpuBurst(2))); err != nil {
			fmt.Printf("kcore: fork tree failed: %v\n", err)
		}
		// initproc must never return (Exit panics on it): reap children,
		// reparented orphans included, for as long as the kernel runs.
		for {
			if _, err := k.Wait(p, nil); err != nil {
				k.Yield(p)
			}
		}
	}
	s.k.UserInit("init", initBody)
}

// repl reads ps/nice/kill/quit lines from stdin until EOF or "quit".
func (s *session) repl() {
	fmt.Println("kcore: type 'ps', 'nice <pid> <priority>', 'kill <pid>', or 'quit'")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "ps":
			os.Stdout.Write(display.Procdump(s.k.Procdump(), s.k.Policy()))
		case "nice":
			if len(fields) != 3 {
				fmt.Println("usage: nice <pid> <priority>")
				continue
			}
			pid, err1 := strconv.Atoi(fields[1])
			pri, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				fmt.Println("usage: nice <pid> <priority>")
				continue
			}
			old, err := s.k.SetPriority(pid, pri)
			if err != nil {
				fmt.Printf("kcore: set_priority failed: %v\n", err)
				continue
			}
			fmt.Printf("kcore: pid %d priority %d -> %d\n", pid, old, pri)
		case "kill":
			if len(fields) != 2 {
				fmt.Println("usage: kill <pid>")
				continue
			}
			pid, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: kill <pid>")
				continue
			}
			if err := s.k.Kill(pid); err != nil {
				fmt.Printf("kcore: kill failed: %v\n", err)
				continue
			}
			fmt.Printf("kcore: killed pid %d\n", pid)
		case "quit", "exit":
			return
		default:
			fmt.Printf("kcore: unknown command %q\n", fields[0])
		}
	}
}
