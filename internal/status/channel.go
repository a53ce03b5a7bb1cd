// Package status follows the server-side state of a single task over its
// event stream, with one snapshot query as fallback when the stream drops.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"vidscribe/internal/log"
	"vidscribe/internal/model"
)

// State is the connection state of a Channel.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Source is the backend the channel reads from.
type Source interface {
	// OpenStream opens the event stream of a task. The body must stop
	// blocking once ctx is cancelled.
	OpenStream(ctx context.Context, taskID string) (io.ReadCloser, error)
	// TaskStatus returns the current snapshot of a task.
	TaskStatus(ctx context.Context, taskID string) (*model.TaskRecord, error)
}

// Event is a single delivery of a Channel. Exactly one of Record or Err is set.
type Event struct {
	Record *model.TaskRecord
	// Synthesized is true when the terminal record was recovered from the
	// snapshot query instead of the stream.
	Synthesized bool
	Err         error
}

// Terminal reports whether no further events follow.
func (e Event) Terminal() bool {
	return e.Err != nil || (e.Record != nil && e.Record.Status.Terminal())
}

// ChannelConfig is the configuration of a Channel.
type ChannelConfig struct {
	TaskID string
	Source Source
	Logger log.Logger
}

func (c *ChannelConfig) defaults() error {
	if c.TaskID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	if c.Source == nil {
		return fmt.Errorf("source is required: %w", model.ErrNotValid)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"task-id": c.TaskID})
	return nil
}

// Channel delivers the status records of one task.
type Channel struct {
	taskID string
	source Source
	logger log.Logger

	state  atomic.Int32
	closed atomic.Bool

	mu     sync.Mutex
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

// NewChannel returns an idle channel.
func NewChannel(cfg ChannelConfig) (*Channel, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Channel{
		taskID: cfg.TaskID,
		source: cfg.Source,
		logger: cfg.Logger,
	}, nil
}

// Open connects to the task's stream and returns the event channel. The
// returned channel is closed once the channel reaches StateClosed. Calling
// Open again returns the same channel.
func (c *Channel) Open(ctx context.Context) <-chan Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.events != nil {
		return c.events
	}
	c.events = make(chan Event)
	c.done = make(chan struct{})

	if c.closed.Load() {
		c.state.Store(int32(StateClosed))
		close(c.events)
		close(c.done)
		return c.events
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.state.Store(int32(StateConnecting))
	go c.run(ctx)

	return c.events
}

// Close stops the channel. It is safe to call more than once and from any
// goroutine; it returns once the channel goroutine has exited.
func (c *Channel) Close() {
	if c.closed.Swap(true) {
		c.wait()
		return
	}

	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.wait()
	c.state.Store(int32(StateClosed))
}

// State returns the current connection state.
func (c *Channel) State() State {
	return State(c.state.Load())
}

func (c *Channel) wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Channel) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.events)
	defer c.state.Store(int32(StateClosed))

	body, err := c.source.OpenStream(ctx, c.taskID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Warningf("could not open status stream: %s", err)
		c.fallback(ctx, err)
		return
	}
	defer body.Close()

	c.state.Store(int32(StateStreaming))
	c.logger.Debugf("status stream open")

	frames := NewFrameReader(body)
	for {
		data, err := frames.Next()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			c.logger.Warningf("status stream dropped: %s", err)
			c.fallback(ctx, err)
			return
		}

		var rec model.TaskRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			c.logger.Warningf("skipping malformed status frame: %s", err)
			continue
		}
		if rec.Heartbeat() {
			continue
		}
		rec.Status = model.NormalizeStatus(rec.Status)

		if !c.send(ctx, Event{Record: &rec}) {
			return
		}
		if rec.Status.Terminal() {
			c.logger.Debugf("task reached terminal status %q", rec.Status)
			return
		}
	}
}

// fallback issues the single snapshot query after a transport failure.
func (c *Channel) fallback(ctx context.Context, cause error) {
	c.state.Store(int32(StateReconnecting))

	rec, err := c.source.TaskStatus(ctx, c.taskID)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		c.logger.Warningf("fallback status query failed: %s", err)
		c.send(ctx, Event{Err: fmt.Errorf("%w: %w (status query: %w)", model.ErrStream, cause, err)})
		return
	}

	rec.Status = model.NormalizeStatus(rec.Status)
	switch rec.Status {
	case model.TaskStatusCompleted:
		rec.Progress = 100
		c.send(ctx, Event{Record: rec, Synthesized: true})
	case model.TaskStatusError:
		c.send(ctx, Event{Record: rec, Synthesized: true})
	default:
		c.send(ctx, Event{Err: fmt.Errorf("%w: %w", model.ErrStream, cause)})
	}
}

// send delivers ev unless the channel has been closed.
func (c *Channel) send(ctx context.Context, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case c.events <- ev:
		return true
	}
}
