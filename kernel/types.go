// Package kernel implements the thread table, round-robin priority
// scheduler, syscall dispatcher, and global counter subsystem of the
// Naomi SDK's cooperative/preemptive threading runtime.
//
// Every table mutation happens inside a single process-wide critical
// section (withLock), standing in for the original's irq_disable /
// irq_restore pair: this host has no real interrupt controller, but
// the contract is the same — no other thread observes a half-updated
// table.
package kernel

import "math"

// ThreadID is a monotonically assigned, non-zero handle. Zero means
// "no thread."
type ThreadID uint32

// CounterHandle identifies a global counter. The original SDK hands
// back the counter cell's own address as the handle; this port has no
// stable address to borrow, so a handle is a 1-based table index
// instead (0 still means "no counter," matching the original's null
// return on a full table).
type CounterHandle uint32

// ThreadState is the lifecycle state of a thread control block.
type ThreadState int

const (
	Stopped ThreadState = iota
	Running
	Finished
	Zombie
	Waiting
)

func (s ThreadState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Zombie:
		return "zombie"
	case Waiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// ScheduleRequest is the scheduler's input hint.
type ScheduleRequest int

const (
	// ScheduleCurrent asks to keep running the current thread if it
	// still can; this is what a timer tick always passes.
	ScheduleCurrent ScheduleRequest = iota
	// ScheduleOther forces a move away from the current thread,
	// degrading back to it only if nothing else is eligible.
	ScheduleOther
	// ScheduleAny lets the scheduler pick freely, including the
	// current thread, after a state-changing syscall.
	ScheduleAny
)

// idlePriority is the priority the idle thread runs at: lower than
// any priority a real thread should plausibly request, so it is only
// ever chosen when nothing else is Running.
const idlePriority = math.MinInt

// Info is the snapshot returned by (*Kernel).ThreadInfo.
type Info struct {
	Name     string
	Priority int
	Alive    bool
	Running  bool
}

// EntryFunc is a thread's body. Its return value is stashed in the
// TCB's retval and surfaced nowhere in the public API yet (the
// original SDK never gave thread_join a pointer-sized result, either
// — see thread_info_t), but is kept internally for future joins.
type EntryFunc func(arg any) any
