package kernel

import "testing"

func TestFCFSPicksEarliestStartTime(t *testing.T) {
	k := NewKernel(Config{NProc: 3, NCPU: 1, Policy: PolicyFCFS})
	a, b, c := k.table[0], k.table[1], k.table[2]
	a.state, b.state, c.state = Runnable, Runnable, Runnable
	a.fcfsStart = 30
	b.fcfsStart = 10
	c.fcfsStart = 20

	picked := k.policyImpl.pickNext(k, k.CPU(0))
	if picked == nil {
		t.Fatalf("expected a slot to be picked")
	}
	picked.mu.Unlock()

	if picked != b {
		t.Logf("expected the slot with the smallest start_time to be picked")
		t.Fail()
	}
}

func TestFCFSTieBrokenByTableOrder(t *testing.T) {
	k := NewKernel(Config{NProc: 2, NCPU: 1, Policy: PolicyFCFS})
	a, b := k.table[0], k.table[1]
	a.state, b.state = Runnable, Runnable
	a.fcfsStart = 5
	b.fcfsStart = 5 // tied; only a strictly earlier start_time displaces a leader

	picked := k.policyImpl.pickNext(k, k.CPU(0))
	if picked == nil {
		t.Fatalf("expected a slot to be picked")
	}
	picked.mu.Unlock()

	if picked != a {
		t.Logf("expected the first slot in table order to win a tie")
		t.Fail()
	}
}

func TestFCFSDoesNotSupportSetPriority(t *testing.T) {
	k := NewKernel(Config{NProc: 2, NCPU: 1, Policy: PolicyFCFS})
	if _, err := k.SetPriority(1, 50); err != SetPriorityNotActive {
		t.Logf("expected SetPriorityNotActive under FCFS, got %v", err)
		t.Fail()
	}
}
