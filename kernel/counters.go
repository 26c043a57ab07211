package kernel

// InitCounter allocates a global counter cell initialized to initial
// and returns its handle, or 0 if the counter table is full (spec
// §4.3). Guarded by the kernel's critical section, same as the
// original's global_counter_init.
func (k *Kernel) InitCounter(initial uint32) CounterHandle {
	var handle CounterHandle

	k.withLock(func() {
		for i, c := range k.globalCounters {
			if c == nil {
				v := initial
				k.globalCounters[i] = &v
				handle = CounterHandle(i + 1)
				return
			}
		}
	})

	return handle
}

// FreeCounter releases a counter's slot. A no-op for an unknown or
// already-freed handle.
func (k *Kernel) FreeCounter(handle CounterHandle) {
	k.withLock(func() {
		if i, ok := k.counterIndex(handle); ok {
			k.globalCounters[i] = nil
		}
	})
}

// findCounter returns the live cell for handle, or nil. Must be
// called with k.mu held.
func (k *Kernel) findCounter(handle CounterHandle) *uint32 {
	i, ok := k.counterIndex(handle)
	if !ok {
		return nil
	}
	return k.globalCounters[i]
}

func (k *Kernel) counterIndex(handle CounterHandle) (int, bool) {
	if handle == 0 {
		return 0, false
	}
	i := int(handle) - 1
	if i < 0 || i >= len(k.globalCounters) || k.globalCounters[i] == nil {
		return 0, false
	}
	return i, true
}

// IncrementCounter, DecrementCounter, and CounterValue are the
// non-syscall convenience wrappers used by tests and the demo harness
// that already hold a Kernel reference directly, rather than going
// through the Trapa ABI — equivalent in effect to traps 0/1/2 but
// without needing a synthetic IRQState.
func (k *Kernel) IncrementCounter(handle CounterHandle) {
	k.withLock(func() {
		if c := k.findCounter(handle); c != nil {
			*c++
		}
	})
}

func (k *Kernel) DecrementCounter(handle CounterHandle) {
	k.withLock(func() {
		if c := k.findCounter(handle); c != nil && *c > 0 {
			*c--
		}
	})
}

func (k *Kernel) CounterValue(handle CounterHandle) uint32 {
	var v uint32
	k.withLock(func() {
		if c := k.findCounter(handle); c != nil {
			v = *c
		}
	})
	return v
}
