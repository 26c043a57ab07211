package kernel

// CreateThread allocates a TCB, a stack, and a fresh IRQ state whose
// entry point is the trampoline from trampoline.go. The thread starts
// Stopped (spec §4.1); call StartThread to make it eligible. Returns
// ErrTableFull (and id 0) if the thread table has no free slot.
func (k *Kernel) CreateThread(name string, fn EntryFunc, arg any) (ThreadID, error) {
	var id ThreadID
	var err error

	k.withLock(func() {
		slot := k.freeSlot()
		if slot < 0 {
			err = ErrTableFull
			return
		}

		id = k.threadSeq
		k.threadSeq++

		stack := make([]byte, k.cfg.ThreadStackSize)
		t := &tcb{
			name:     truncateName(name),
			id:       id,
			priority: 0,
			state:    Stopped,
			stack:    stack,
		}
		t.context = k.factory.NewState(k.wrapEntry(id, fn), arg, uintptr(len(stack)))
		k.threads[slot] = t
	})

	return id, err
}

// DestroyThread releases a thread's stack and IRQ state (unless it is
// the main thread, whose resources the kernel never allocated) and
// frees its table slot. Safe to call for any thread state; calling it
// on the currently-running thread is undefined behavior, same as the
// original (spec §4.1).
func (k *Kernel) DestroyThread(id ThreadID) {
	k.withLock(func() {
		for i, t := range k.threads {
			if t == nil || t.id != id {
				continue
			}
			if !t.isMain {
				k.factory.FreeState(t.context)
			}
			k.threads[i] = nil
			return
		}
	})
}

// StartThread transitions a Stopped thread to Running via the
// start-thread syscall (trap 4). No effect in other states.
func (k *Kernel) StartThread(id ThreadID) {
	k.Trapa(TrapStart, uint32(id), 0)
}

// StopThread transitions a Running thread to Stopped via the
// stop-thread syscall (trap 5). No effect in other states.
func (k *Kernel) StopThread(id ThreadID) {
	k.Trapa(TrapStop, uint32(id), 0)
}

// SetPriority updates a thread's priority via syscall (trap 6) and
// forces a rescheduling decision.
func (k *Kernel) SetPriority(id ThreadID, priority int) {
	k.Trapa(TrapSetPriority, uint32(id), uint32(int32(priority)))
}

// ThreadInfo snapshots a thread's name, priority, and liveness under
// the kernel's critical section.
func (k *Kernel) ThreadInfo(id ThreadID) (Info, bool) {
	var info Info
	var ok bool

	k.withLock(func() {
		t := k.findByID(id)
		if t == nil {
			return
		}
		ok = true
		info = Info{
			Name:     t.name,
			Priority: t.priority,
			Alive:    t.state == Stopped || t.state == Running || t.state == Waiting,
			Running:  t.state == Running,
		}
	})

	return info, ok
}

// RegisterMain adopts the calling goroutine as the main thread: the
// one whose stack and context were not allocated by the kernel. It
// mirrors _thread_register_main, taking an already-constructed
// IRQState (the caller's own context) rather than synthesizing one.
func (k *Kernel) RegisterMain(context IRQState) ThreadID {
	var id ThreadID

	k.withLock(func() {
		id = k.threadSeq
		k.threadSeq++

		t := &tcb{
			name:     "main",
			id:       id,
			priority: 0,
			state:    Running,
			isMain:   true,
			context:  context,
		}
		if slot := k.freeSlot(); slot >= 0 {
			k.threads[slot] = t
		}
	})

	return id
}
