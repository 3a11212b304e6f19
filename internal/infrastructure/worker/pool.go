package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrPoolStopped = errors.New("worker pool is stopped")

// Job is one unit of work submitted to the pool.
type Job struct {
	ID  string
	Run func(ctx context.Context) error
}

// Result reports how a job finished.
type Result struct {
	JobID    string
	Err      error
	Duration time.Duration
}

// Pool runs jobs on a fixed number of goroutines. Results must be drained
// by the caller while the pool is running.
type Pool struct {
	workers  int
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.RWMutex
	stopped  bool
	startOne sync.Once
}

func NewPool(ctx context.Context, workers int, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers: workers,
		jobs:    make(chan *Job, queueSize),
		results: make(chan *Result, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (p *Pool) Start() {
	p.startOne.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Stop lets queued jobs finish, then closes Results.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	close(p.results)
}

// Submit blocks until the job is queued, ctx is done, or the pool stops.
func (p *Pool) Submit(ctx context.Context, job *Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	case p.jobs <- job:
		return nil
	}
}

func (p *Pool) Results() <-chan *Result {
	return p.results
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobs {
		start := time.Now()
		err := job.Run(p.ctx)
		p.results <- &Result{
			JobID:    job.ID,
			Err:      err,
			Duration: time.Since(start),
		}
	}
}
