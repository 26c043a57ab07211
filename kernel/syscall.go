package kernel

// Trap numbers, exactly as tabulated in spec §4.2. The source
// comments the trap-4 and trap-5 cases both as "thread_start" — a
// comment bug in the original, not a behavior change (spec §9 Open
// Questions): trap 5 really does stop.
const (
	TrapCounterIncrement = 0
	TrapCounterDecrement = 1
	TrapCounterValue     = 2
	TrapYield            = 3
	TrapStart            = 4
	TrapStop             = 5
	TrapSetPriority      = 6
	TrapSelfID           = 7
)

// SyscallTimer is the entry point for the timer-tick interrupt. A
// tick never preempts a Running thread by itself; it only resolves
// rescheduling after a voluntary yield or a stopped/finished thread
// (spec §4.2).
func (k *Kernel) SyscallTimer(current IRQState) IRQState {
	var next IRQState
	k.withLock(func() {
		next = k.schedule(current, ScheduleCurrent)
		k.running = next
	})
	return next
}

// Trapa dispatches a software-trap syscall by trap number, exactly as
// tabulated in spec §4.2. arg1/arg2 take the place of the original's
// gp_regs[4]/gp_regs[5]; the returned value takes the place of
// gp_regs[0] (undefined / zero for traps that produce no result).
func (k *Kernel) Trapa(trap int, arg1 uint32, arg2 uint32) (result uint32, next IRQState) {
	return k.trapa(trap, arg1, arg2, nil)
}

// SyscallTrapA is Trapa plus the calling context, for traps (yield,
// self-id) whose effect or result depends on identifying the caller.
func (k *Kernel) SyscallTrapA(current IRQState, trap int, arg1 uint32, arg2 uint32) (result uint32, next IRQState) {
	return k.trapa(trap, arg1, arg2, current)
}

func (k *Kernel) trapa(trap int, arg1 uint32, arg2 uint32, current IRQState) (result uint32, next IRQState) {
	req := ScheduleCurrent

	k.withLock(func() {
		switch trap {
		case TrapCounterIncrement:
			if c := k.findCounter(CounterHandle(arg1)); c != nil {
				*c++
			}
		case TrapCounterDecrement:
			if c := k.findCounter(CounterHandle(arg1)); c != nil && *c > 0 {
				*c--
			}
		case TrapCounterValue:
			if c := k.findCounter(CounterHandle(arg1)); c != nil {
				result = *c
			}
		case TrapYield:
			req = ScheduleOther
		case TrapStart:
			if t := k.findByID(ThreadID(arg1)); t != nil && t.state == Stopped {
				t.state = Running
			}
			req = ScheduleAny
		case TrapStop:
			if t := k.findByID(ThreadID(arg1)); t != nil && t.state == Running {
				t.state = Stopped
			}
			req = ScheduleAny
		case TrapSetPriority:
			if t := k.findByID(ThreadID(arg1)); t != nil {
				t.priority = int(int32(arg2))
			}
			req = ScheduleAny
		case TrapSelfID:
			if current != nil {
				if t := k.findByContext(current); t != nil {
					result = uint32(t.id)
				}
			}
		}

		if current != nil {
			next = k.schedule(current, req)
			k.running = next
		}
	})

	return result, next
}

// CurrentThreadID returns the id of the thread whose context is
// current, or 0 if none can be identified.
func (k *Kernel) CurrentThreadID(current IRQState) ThreadID {
	var id ThreadID
	k.withLock(func() {
		if t := k.findByContext(current); t != nil {
			id = t.id
		}
	})
	return id
}

// Yield forces a rescheduling decision that prefers any other
// runnable thread over current.
func (k *Kernel) Yield(current IRQState) IRQState {
	var next IRQState
	k.withLock(func() {
		next = k.schedule(current, ScheduleOther)
		k.running = next
	})
	return next
}
