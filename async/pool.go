package async

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/acme-corp/data-pipeline/logger"
)

// Scheduler is the execution context consumed by pipeline stages.
// Enqueue submits a no-argument task for asynchronous execution and
// returns immediately; tasks run in FIFO submission order.
// RunWhenReady registers a callback to run exactly once after every
// given future has resolved.
type Scheduler interface {
	Enqueue(task func())
	RunWhenReady(futures []Future, fn func())
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	// Workers is the number of worker goroutines (0 = NumCPU).
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ApplyDefaults applies default values to pool configuration.
func (c *PoolConfig) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Pool is a shared worker pool implementing Scheduler. Tasks are
// queued without bound so Enqueue never blocks the caller; a fixed
// set of workers drains the queue in FIFO order. A task panic is
// recovered and logged; the worker keeps running.
type Pool struct {
	id  string
	log *logger.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	wg sync.WaitGroup
}

// PoolOption customizes a Pool.
type PoolOption func(*poolOptions)

type poolOptions struct {
	workers int
	log     *logger.Logger
}

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(o *poolOptions) { o.workers = n }
}

// WithLogger sets the logger used for pool lifecycle and recovered
// panics.
func WithLogger(l *logger.Logger) PoolOption {
	return func(o *poolOptions) { o.log = l }
}

// NewPool creates a Pool and starts its workers.
func NewPool(opts ...PoolOption) *Pool {
	o := poolOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}

	id := uuid.NewString()
	p := &Pool{
		id:  id,
		log: o.log.WithComponent("async.pool").WithFields(map[string]interface{}{"pool_id": id}),
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < o.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.log.Debug("pool started", logger.Fields("workers", o.workers))
	return p
}

// NewPoolFromConfig creates a Pool from configuration.
func NewPoolFromConfig(cfg PoolConfig, log *logger.Logger) *Pool {
	cfg.ApplyDefaults()
	return NewPool(WithWorkers(cfg.Workers), WithLogger(log))
}

// ID returns the pool's unique identifier, as carried in its log fields.
func (p *Pool) ID() string { return p.id }

// Enqueue submits a task for execution and returns immediately.
// Enqueue after Close is a contract violation and panics.
func (p *Pool) Enqueue(task func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("async: Enqueue on closed Pool")
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()
	p.cond.Signal()
}

// RunWhenReady registers fn to run exactly once after every future in
// futures has resolved.
func (p *Pool) RunWhenReady(futures []Future, fn func()) {
	RunWhenReady(futures, fn)
}

// Close stops accepting tasks, drains the queue, and waits for the
// workers to exit.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
	p.log.Debug("pool stopped")
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.closed {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("recovered panic in pool task", logger.Fields("panic", r))
		}
	}()
	task()
}
