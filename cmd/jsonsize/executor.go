package main

import (
	"context"
	"sync"
)

// executor runs tasks on a fixed number of goroutines.
type executor struct {
	queue chan func()
	wg    sync.WaitGroup
}

func newExecutor(cap int) *executor {
	if cap < 1 {
		cap = 1
	}

	e := &executor{
		queue: make(chan func()),
	}

	e.wg.Add(cap)
	for i := 0; i < cap; i++ {
		go e.loop()
	}

	return e
}

func (e *executor) loop() {
	defer e.wg.Done()
	for task := range e.queue {
		task()
	}
}

// do blocks until a worker accepts task, and returns false if ctx is done
// first.
func (e *executor) do(ctx context.Context, task func()) bool {
	select {
	case e.queue <- task:
		return true
	case <-ctx.Done():
		return false
	}
}

// close stops accepting tasks and waits for the running ones to finish.
func (e *executor) close() {
	close(e.queue)
	e.wg.Wait()
}
