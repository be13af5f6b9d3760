package workerpool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrPoolFull   = errors.New("timer pool is full")
	ErrPoolClosed = errors.New("timer pool is closed")
)

// Stopper closes every running timer of a user.
type Stopper interface {
	StopAllTimers(ctx context.Context, userID int64) (int, error)
}

// Pool stops user timers in the background. Jobs are user ids.
type Pool struct {
	queue   chan int64
	stopper Stopper
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func New(poolSize int, stopper Stopper, log *slog.Logger) *Pool {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Pool{
		queue:   make(chan int64, poolSize),
		stopper: stopper,
		log:     log,
	}
}

// Start launches n workers. With zero workers jobs only queue up.
func (p *Pool) Start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) Enqueue(userID int64) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- userID:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting jobs and waits for the queued ones to finish.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker(n int) {
	defer p.wg.Done()

	for userID := range p.queue {
		stopped, err := p.stopper.StopAllTimers(context.Background(), userID)
		if err != nil {
			p.log.Error("stop timers failed", "worker", n, "user_id", userID, "err", err)
			continue
		}
		p.log.Debug("timers stopped", "worker", n, "user_id", userID, "count", stopped)
	}
}
