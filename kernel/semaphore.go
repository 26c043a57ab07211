package kernel

// SemaphoreHandle identifies a semaphore, table-index-based for the
// same reason as CounterHandle.
type SemaphoreHandle uint32

// Semaphore is present in the data model (spec §3) as a reserved
// extension point: the in-scope source declares the table and a
// lookup but never wires up acquire/release operations. This port
// keeps that shape rather than inventing semantics the spec doesn't
// define.
func (k *Kernel) Semaphore(handle SemaphoreHandle) (max, current uint32, ok bool) {
	k.withLock(func() {
		if handle == 0 {
			return
		}
		i := int(handle) - 1
		if i < 0 || i >= len(k.semaphores) || k.semaphores[i] == nil {
			return
		}
		s := k.semaphores[i]
		max, current, ok = s.max, s.current, true
	})
	return
}
