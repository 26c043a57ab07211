package kernel

// IRQState is the opaque per-thread register snapshot collaborator
// from the hardware layer (spec §6). The scheduler only ever compares
// IRQState values for identity (pointer equality, via Go's interface
// comparison) — it never looks inside one.
//
// Regs exposes a register array laid out like the syscall ABI of spec
// §4.2 (index 0 result, indices 4 and 5 first and second argument)
// for a real register-snapshot backend. The kernel itself never reads
// or writes Regs: Trapa and SyscallTrapA take their arguments and
// return their result directly.
type IRQState interface {
	Regs() *[8]uint32
}

// IRQStateFactory creates and releases IRQState snapshots. The
// original SDK's irqstate.h exposes exactly these two operations
// (_irq_new_state / _irq_free_state); this is the same contract,
// generalized so a real bare-metal backend can be swapped in without
// touching the scheduler or thread table.
type IRQStateFactory interface {
	NewState(entry EntryFunc, arg any, stackTop uintptr) IRQState
	FreeState(IRQState)
}

// goroutineState is the reference IRQStateFactory backend: each
// "thread" is a parked goroutine, and a context switch is a channel
// handoff rather than a register restore. Nothing in this package
// sends on resume, so a thread body stays parked and never runs; the
// scheduler works on the table alone.
type goroutineState struct {
	regs   [8]uint32
	resume chan struct{}
	exited chan struct{}
}

func (g *goroutineState) Regs() *[8]uint32 { return &g.regs }

// GoroutineFactory is the default IRQStateFactory: entry gets its own
// goroutine, blocked on resume until something sends on it (nothing in
// this package does). When entry is the trampoline (see
// trampoline.go), it sets retval, marks Finished, and yields, the
// same steps as the original's _thread_run.
type GoroutineFactory struct{}

func (GoroutineFactory) NewState(entry EntryFunc, arg any, stackTop uintptr) IRQState {
	st := &goroutineState{
		resume: make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		<-st.resume
		entry(arg)
		close(st.exited)
	}()
	return st
}

func (GoroutineFactory) FreeState(IRQState) {
	// Nothing is released: a goroutine still parked on resume stays
	// parked after its thread is destroyed.
}
