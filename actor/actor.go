// Package actor is the runtime boundary that actorgen-generated code
// implements.
//
// A type annotated with //actor:gen gets PreStart and Handle methods that
// satisfy either Actor (native shape) or FutureActor (future shape). Both
// shapes are interchangeable: FromFuture adapts a FutureActor to Actor, so
// Spawn runs either.
package actor

import "context"

// Unit is the empty argument type used when an actor takes no construction arguments
type Unit struct{}

// Ref addresses a running actor.
type Ref[Msg any] interface {
	// Send enqueues msg. It returns ErrStopped once the actor has stopped.
	Send(msg Msg) error

	// Stop asks the actor to stop after the messages already sent
	Stop()
}

// Actor is the native shape: PreStart and Handle block until done.
type Actor[Msg, State, Args any] interface {
	// PreStart produces the initial state
	PreStart(ctx context.Context, myself Ref[Msg], args Args) (State, error)

	// Handle processes one message, mutating state in place
	Handle(ctx context.Context, myself Ref[Msg], msg Msg, state *State) error
}

// FutureActor is the future shape: PreStart and Handle return immediately
// with a Future that resolves when the body finishes.
type FutureActor[Msg, State, Args any] interface {
	PreStart(ctx context.Context, myself Ref[Msg], args Args) *Future[State]
	Handle(ctx context.Context, myself Ref[Msg], msg Msg, state *State) *Future[Unit]
}

// FromFuture adapts a FutureActor to Actor by awaiting each future.
func FromFuture[Msg, State, Args any](a FutureActor[Msg, State, Args]) Actor[Msg, State, Args] {
	return futureAdapter[Msg, State, Args]{a: a}
}

type futureAdapter[Msg, State, Args any] struct {
	a FutureActor[Msg, State, Args]
}

func (f futureAdapter[Msg, State, Args]) PreStart(ctx context.Context, myself Ref[Msg], args Args) (State, error) {
	return f.a.PreStart(ctx, myself, args).Await(ctx)
}

// Handle awaits the handler's future. If ctx ends first it still waits for
// the computation to finish, since the computation owns *state until then.
func (f futureAdapter[Msg, State, Args]) Handle(ctx context.Context, myself Ref[Msg], msg Msg, state *State) error {
	fut := f.a.Handle(ctx, myself, msg, state)
	_, err := fut.Await(ctx)
	if err != nil && ctx.Err() != nil {
		<-fut.Done()
	}
	return err
}
