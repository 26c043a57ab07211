package kernel

// wrapEntry builds the trampoline the original SDK's _thread_run
// provides: invoke the user's entry with its argument, stash the
// result, mark the thread Finished, then yield. The wrapper must
// never return to its caller — if EntryFunc itself ever returns here,
// that's exactly the "should never reach here" case the original
// source flags with a TODO; we have nowhere useful to send a stray
// return, so the goroutine just exits after the yield is recorded.
func (k *Kernel) wrapEntry(id ThreadID, fn EntryFunc) EntryFunc {
	return func(arg any) any {
		ret := fn(arg)

		k.withLock(func() {
			t := k.findByID(id)
			if t != nil {
				t.retval = ret
				t.state = Finished
				k.running = k.schedule(t.context, ScheduleOther)
			}
		})

		return ret
	}
}
