// Package worker provides the small bounded goroutine pool the tile manager
// uses for asynchronous fetches.
package worker

import (
	"context"
	"sync"
	"time"
)

// Task is a unit of work with its lifetime bound to a context.
type Task struct {
	Ctx  context.Context
	Work func(ctx context.Context) error
}

// Pool runs submitted tasks on at most maxWorkers goroutines. Submissions
// never block the caller; tasks queue up and are retried when the queue is
// momentarily full.
type Pool struct {
	workers chan struct{}
	tasks   chan Task
	quit    chan struct{}
	once    sync.Once
}

func NewPool(maxWorkers int) *Pool {
	p := &Pool{
		workers: make(chan struct{}, maxWorkers),
		tasks:   make(chan Task, 128),
		quit:    make(chan struct{}),
	}
	go p.dispatch()
	return p
}

func (p *Pool) dispatch() {
	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			select {
			case p.workers <- struct{}{}:
				go p.run(task)
			default:
				// all workers busy, requeue shortly
				go func() {
					time.Sleep(50 * time.Millisecond)
					p.Submit(task)
				}()
			}
		}
	}
}

func (p *Pool) run(task Task) {
	defer func() { <-p.workers }()

	ctx := task.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = task.Work(ctx)
	}()

	select {
	case <-ctx.Done():
	case <-done:
	case <-p.quit:
	}
}

// Submit enqueues a task. Safe to call after Shutdown; the task is dropped.
func (p *Pool) Submit(task Task) {
	select {
	case <-p.quit:
	case p.tasks <- task:
	default:
		go func() {
			time.Sleep(50 * time.Millisecond)
			p.Submit(task)
		}()
	}
}

// Shutdown stops the dispatcher. Running tasks are abandoned at their next
// context check.
func (p *Pool) Shutdown() {
	p.once.Do(func() { close(p.quit) })
}
