package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned by Wait when nothing was started.
var ErrNoSession = errors.New("no session started")

// Runner is the part of Service a Controller drives.
type Runner interface {
	Run(ctx context.Context, videoURL string) (Result, error)
}

type run struct {
	cancel context.CancelFunc
	done   chan struct{}
	res    Result
	err    error
}

// Controller keeps at most one session in flight. Starting a new session
// tears the previous one down first, so no ticker or stream outlives it.
type Controller struct {
	runner Runner

	mu      sync.Mutex
	current *run
}

// NewController returns a controller running sessions with r.
func NewController(r Runner) *Controller {
	return &Controller{runner: r}
}

// Start cancels the current session, waits for it to finish and starts a
// new one for videoURL. It must not be called from a goroutine the running
// session's reporter blocks on.
func (c *Controller) Start(ctx context.Context, videoURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev := c.current; prev != nil {
		prev.cancel()
		<-prev.done
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel, done: make(chan struct{})}
	c.current = r

	go func() {
		defer close(r.done)
		defer cancel()
		r.res, r.err = c.runner.Run(ctx, videoURL)
	}()
}

// Cancel stops the current session, if any. It does not wait.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.cancel()
	}
}

// Wait blocks until the current session ends and returns its outcome.
func (c *Controller) Wait() (Result, error) {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	if r == nil {
		return Result{}, ErrNoSession
	}
	<-r.done
	return r.res, r.err
}
