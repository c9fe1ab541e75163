package actor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/logger"
)

// ErrStopped is returned by Send once an actor no longer accepts messages
var ErrStopped = errors.New("actor stopped")

// Option configures Spawn
type Option func(*options)

type options struct {
	name string
	log  *zap.SugaredLogger
}

// WithName sets the name used in logs and errors
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger overrides the logger (default: the global logger)
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.log = log }
}

type envelope[Msg any] struct {
	msg  Msg
	stop bool
}

// Cell is a running actor spawned by Spawn. It implements Ref.
//
// Messages are handled one at a time, in the order they were sent, on the
// cell's own goroutine. The mailbox is unbounded so an actor may send to
// itself from Handle without deadlocking.
type Cell[Msg, State any] struct {
	name string
	log  *zap.SugaredLogger

	mu     sync.Mutex
	queue  []envelope[Msg]
	closed bool

	notify chan struct{}
	done   chan struct{}

	// Written by the run loop before done is closed
	state State
	err   error
}

// Spawn starts a on a new goroutine. PreStart runs first with args; its
// state is then threaded through every Handle call. The actor stops when
// Stop is processed, when Handle or PreStart fails, or when ctx ends.
func Spawn[Msg, State, Args any](ctx context.Context, a Actor[Msg, State, Args], args Args, opts ...Option) *Cell[Msg, State] {
	o := options{name: "actor", log: logger.Logger}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cell[Msg, State]{
		name:   o.name,
		log:    logger.ChildLogger(o.log, logger.FieldActor, o.name),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go run(ctx, c, a, args)
	return c
}

// Send enqueues msg behind every message sent before it
func (c *Cell[Msg, State]) Send(msg Msg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.Wrap(ErrStopped, c.name)
	}
	c.queue = append(c.queue, envelope[Msg]{msg: msg})
	c.signal()
	return nil
}

// Stop enqueues a stop request. Messages sent earlier are still handled;
// later sends fail with ErrStopped. Stop is idempotent and does not block.
func (c *Cell[Msg, State]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.queue = append(c.queue, envelope[Msg]{stop: true})
	c.signal()
}

// Done is closed when the actor has stopped
func (c *Cell[Msg, State]) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the actor stops and returns its final state together
// with the error that stopped it, if any.
func (c *Cell[Msg, State]) Wait(ctx context.Context) (State, error) {
	select {
	case <-c.done:
		return c.state, c.err
	case <-ctx.Done():
		var zero State
		return zero, errors.Wrapf(ctx.Err(), "waiting for %s", c.name)
	}
}

// signal wakes the run loop; callers hold mu
func (c *Cell[Msg, State]) signal() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *Cell[Msg, State]) next(ctx context.Context) (envelope[Msg], bool) {
	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			env := c.queue[0]
			c.queue[0] = envelope[Msg]{}
			c.queue = c.queue[1:]
			c.mu.Unlock()
			return env, true
		}
		c.mu.Unlock()

		select {
		case <-c.notify:
		case <-ctx.Done():
			return envelope[Msg]{}, false
		}
	}
}

// run is the actor loop. It is a function rather than a method because it
// needs the Args type parameter, which Cell does not carry.
func run[Msg, State, Args any](ctx context.Context, c *Cell[Msg, State], a Actor[Msg, State, Args], args Args) {
	defer close(c.done)
	defer c.drain()

	started := time.Now()
	state, err := guard(func() (State, error) { return a.PreStart(ctx, c, args) })
	if err != nil {
		c.err = errors.Wrapf(err, "%s: pre-start", c.name)
		c.log.Warnw("Actor failed to start", logger.FieldError, err)
		return
	}
	c.log.Debugw("Actor started")

	handled := 0
	for {
		env, ok := c.next(ctx)
		if !ok {
			c.err = errors.Wrapf(ctx.Err(), "%s", c.name)
			break
		}
		if env.stop {
			break
		}
		if _, err := guard(func() (Unit, error) { return Unit{}, a.Handle(ctx, c, env.msg, &state) }); err != nil {
			c.err = errors.Wrapf(err, "%s: handle", c.name)
			c.log.Warnw("Actor stopped by handler error", logger.FieldError, err)
			break
		}
		handled++
	}

	c.state = state
	c.log.Debugw("Actor stopped",
		logger.FieldCount, handled,
		logger.FieldDurationMS, time.Since(started).Milliseconds())
}

// drain refuses further sends and drops undelivered messages
func (c *Cell[Msg, State]) drain() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.queue = nil
}

// guard converts a panic in fn into an error
func guard[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("panic: %v", r)
		}
	}()
	return fn()
}
