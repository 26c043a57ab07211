package kernel

import (
	"sync"

	"github.com/jopadan/libnaomi-go/boardconfig"
	"github.com/jopadan/libnaomi-go/internal/klog"
)

// Kernel owns the thread, counter, and semaphore tables for one boot.
// All table mutation happens under mu, standing in for the original
// irq_disable/irq_restore critical section (spec §5): a single CPU
// has nothing more to coordinate with.
type Kernel struct {
	mu sync.Mutex

	cfg     boardconfig.Config
	factory IRQStateFactory
	log     klog.Logger

	threads      []*tcb
	threadSeq    ThreadID
	globalCounters []*uint32
	semaphores     []*semaphore

	idleID  ThreadID
	running IRQState
}

type semaphore struct {
	max     uint32
	current uint32
}

// Option configures a Kernel at construction time.
type Option func(*Kernel)

// WithFactory overrides the default goroutine-backed IRQStateFactory,
// e.g. with a real bare-metal register-snapshot backend.
func WithFactory(f IRQStateFactory) Option {
	return func(k *Kernel) { k.factory = f }
}

// WithLogger attaches a structured logger; the default is klog.Discard.
func WithLogger(l klog.Logger) Option {
	return func(k *Kernel) { k.log = l }
}

// New boots a Kernel: allocates the fixed tables per cfg and creates
// the always-Running, minimum-priority idle thread, mirroring
// _thread_init in the original SDK.
func New(cfg boardconfig.Config, opts ...Option) *Kernel {
	k := &Kernel{
		cfg:            cfg,
		factory:        GoroutineFactory{},
		log:            klog.Discard,
		threads:        make([]*tcb, cfg.MaxThreads),
		globalCounters: make([]*uint32, cfg.MaxGlobalCounters),
		semaphores:     make([]*semaphore, cfg.MaxSemaphores),
		threadSeq:      1,
	}
	for _, opt := range opts {
		opt(k)
	}

	idleStack := make([]byte, 64)
	idle := &tcb{
		name:     "idle",
		id:       k.threadSeq,
		priority: idlePriority,
		state:    Running,
		stack:    idleStack,
	}
	k.threadSeq++
	idle.context = k.factory.NewState(idleEntry, nil, uintptr(len(idleStack)))
	k.threads[0] = idle
	k.idleID = idle.id
	k.running = idle.context

	k.log.Info("kernel booted", "max_threads", cfg.MaxThreads, "idle_id", idle.id)
	return k
}

// idleEntry is the idle thread's body: it never legitimately returns.
// The original loops calling thread_yield() forever; here the
// scheduler loop (not this goroutine) is what decides when to move
// off idle, so idle only has to hold still without finishing. If it
// ever did finish, schedule could be left with no Running thread to
// fall back on.
func idleEntry(_ any) any {
	select {}
}

func (k *Kernel) withLock(fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn()
}

// IdleID returns the id of the idle thread created by New.
func (k *Kernel) IdleID() ThreadID {
	return k.idleID
}

// Current returns the context of whatever thread the last scheduling
// decision selected to run. A timer source with no context of its
// own (a real interrupt, or a GPIO edge) uses this to ask the
// scheduler for a fresh decision via Tick.
func (k *Kernel) Current() IRQState {
	var ctx IRQState
	k.withLock(func() { ctx = k.running })
	return ctx
}

// Tick is the timer-tick entry point for callers with no IRQState of
// their own — an asynchronous interrupt source such as gpiotimer.
// It is equivalent to SyscallTimer(k.Current()).
func (k *Kernel) Tick() IRQState {
	return k.SyscallTimer(k.Current())
}
