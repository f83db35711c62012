// Package dispatch runs fire-and-forget background tasks on a bounded worker pool.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned when the pool cannot accept more work.
	ErrQueueFull = errors.New("dispatch queue is full")
	// ErrClosed is returned after the pool has been shut down.
	ErrClosed = errors.New("dispatcher is closed")
)

// Task is a unit of background work.
type Task func(ctx context.Context) error

// Dispatcher schedules tasks without waiting for them.
type Dispatcher interface {
	Dispatch(name string, task Task) error
}

type job struct {
	name     string
	task     Task
	queuedAt time.Time
}

// Pool is a Dispatcher backed by a buffered queue and a fixed set of workers.
type Pool struct {
	queue   chan job
	workers int
	logger  *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int, logger *zap.SugaredLogger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{
		queue:   make(chan job, queueSize),
		workers: workers,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Dispatch enqueues a task. It never blocks.
func (p *Pool) Dispatch(name string, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.queue <- job{name: name, task: task, queuedAt: time.Now()}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run starts the workers and blocks until ctx is cancelled or Close is called.
// Queued and in-flight tasks are drained before Run returns; they run with a
// context that is not cancelled by ctx.
func (p *Pool) Run(ctx context.Context) error {
	taskCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range p.queue {
				p.execute(taskCtx, j)
			}
		}()
	}

	p.logger.Infow("dispatcher started", "workers", p.workers, "queue_size", cap(p.queue))

	select {
	case <-ctx.Done():
	case <-p.done:
	}

	p.Close()
	wg.Wait()

	p.logger.Info("dispatcher stopped")
	return nil
}

// Stats is a point-in-time view of the queue.
type Stats struct {
	Queued   int  `json:"queued"`
	Capacity int  `json:"capacity"`
	Workers  int  `json:"workers"`
	Closed   bool `json:"closed"`
}

// Stats reports queue depth and whether the pool still accepts tasks.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Stats{
		Queued:   len(p.queue),
		Capacity: cap(p.queue),
		Workers:  p.workers,
		Closed:   p.closed,
	}
}

// Close stops accepting tasks. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.queue)
	close(p.done)
}

func (p *Pool) execute(ctx context.Context, j job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorw("task panicked",
				"task", j.name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := j.task(ctx); err != nil {
		p.logger.Errorw("task failed",
			"task", j.name,
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	p.logger.Debugw("task completed",
		"task", j.name,
		"wait", start.Sub(j.queuedAt),
		"duration", time.Since(start),
	)
}
