package kernel

import "testing"

func TestAllocprocAssignsSequentialPids(t *testing.T) {
	k := NewKernel(Config{NProc: 4, NCPU: 1, Policy: PolicyDefault})

	first, err := k.allocproc()
	if err != nil {
		t.Fatalf("failed allocating first slot: %s", err)
	}
	first.mu.Unlock()

	second, err := k.allocproc()
	if err != nil {
		t.Fatalf("failed allocating second slot: %s", err)
	}
	second.mu.Unlock()

	if first.pid != 1 {
		t.Logf("expected first pid to be 1, got %d", first.pid)
		t.Fail()
	}
	if second.pid != 2 {
		t.Logf("expected second pid to be 2, got %d", second.pid)
		t.Fail()
	}
	if first.state != Used || second.state != Used {
		t.Logf("expected freshly allocated slots to be USED, got %s and %s", first.state, second.state)
		t.Fail()
	}
	if first.pbsStatic != DefaultStaticPriority {
		t.Logf("expected default static priority %d, got %d", DefaultStaticPriority, first.pbsStatic)
		t.Fail()
	}
	if first.pbsStart != first.ctime {
		t.Logf("expected pbsStart to match ctime at allocation, got pbsStart=%d ctime=%d", first.pbsStart, first.ctime)
		t.Fail()
	}
}

func TestAllocprocFailsWhenTableFull(t *testing.T) {
	k := NewKernel(Config{NProc: 1, NCPU: 1, Policy: PolicyDefault})

	p, err := k.allocproc()
	if err != nil {
		t.Fatalf("failed allocating the only slot: %s", err)
	}
	p.mu.Unlock()

	_, err = k.allocproc()
	if err != ErrNoProcSlots {
		t.Logf("expected ErrNoProcSlots once the table is full, got %v", err)
		t.Fail()
	}
}

func TestFreeprocResetsSlotToUnused(t *testing.T) {
	k := NewKernel(Config{NProc: 2, NCPU: 1, Policy: PolicyDefault})

	p, err := k.allocproc()
	if err != nil {
		t.Fatalf("failed allocating slot: %s", err)
	}
	p.name = "doomed"
	p.sz = PageSize

	k.freeproc(p)

	if p.state != Unused {
		t.Logf("expected UNUSED after freeproc, got %s", p.state)
		t.Fail()
	}
	if p.pid != 0 || p.name != "" || p.sz != 0 {
		t.Logf("expected identity fields cleared, got pid=%d name=%q sz=%d", p.pid, p.name, p.sz)
		t.Fail()
	}
	if p.ctx != nil || p.started {
		t.Logf("expected ctx cleared and started reset, got ctx=%v started=%v", p.ctx, p.started)
		t.Fail()
	}
}

func TestUserInitSeedsFirstProcess(t *testing.T) {
	k := NewKernel(Config{NProc: 4, NCPU: 1, Policy: PolicyDefault})
	p := k.UserInit("initcode", func(*Kernel, *Proc) {})

	if p.Pid() != 1 {
		t.Logf("expected pid 1 for the first user process, got %d", p.Pid())
		t.Fail()
	}
	if p.Name() != "initcode" {
		t.Logf("expected name initcode, got %s", p.Name())
		t.Fail()
	}
	if p.State() != Runnable {
		t.Logf("expected RUNNABLE after userinit, got %s", p.State())
		t.Fail()
	}
	if p.sz != PageSize {
		t.Logf("expected sz %d, got %d", PageSize, p.sz)
		t.Fail()
	}
	if k.InitProc() != p {
		t.Logf("expected InitProc to return the userinit slot")
		t.Fail()
	}
}

func TestGrowProc(t *testing.T) {
	k := NewKernel(Config{NProc: 2, NCPU: 1, Policy: PolicyDefault})
	p, err := k.allocproc()
	if err != nil {
		t.Fatalf("failed allocating slot: %s", err)
	}
	p.mu.Unlock()

	if err := k.GrowProc(p, PageSize); err != nil {
		t.Logf("unexpected error growing proc: %s", err)
		t.Fail()
	}
	if p.sz != PageSize {
		t.Logf("expected sz %d after growing, got %d", PageSize, p.sz)
		t.Fail()
	}

	if err := k.GrowProc(p, -2*PageSize); err != nil {
		t.Logf("shrinking should always succeed, got error: %s", err)
		t.Fail()
	}
	if p.sz != 0 {
		t.Logf("expected sz clamped to 0 after over-shrinking, got %d", p.sz)
		t.Fail()
	}
}
