package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/actorgen/errors"
)

// summer adds every message to its state; a negative message fails
type summer struct {
	seen []int
}

func (s *summer) PreStart(ctx context.Context, myself Ref[int], start int) (int, error) {
	if start < 0 {
		return 0, errors.New("negative start")
	}
	return start, nil
}

func (s *summer) Handle(ctx context.Context, myself Ref[int], msg int, state *int) error {
	if msg < 0 {
		return errors.Newf("negative message %d", msg)
	}
	s.seen = append(s.seen, msg)
	*state += msg
	return nil
}

var _ Actor[int, int, int] = (*summer)(nil)

// futureSummer is summer in the future shape
type futureSummer struct{}

func (futureSummer) PreStart(ctx context.Context, myself Ref[int], start int) *Future[int] {
	return Async(ctx, func(ctx context.Context) (int, error) { return start, nil })
}

func (futureSummer) Handle(ctx context.Context, myself Ref[int], msg int, state *int) *Future[Unit] {
	return AsyncErr(ctx, func(ctx context.Context) error {
		*state += msg
		return nil
	})
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSpawnHandlesInOrder(t *testing.T) {
	ctx := testContext(t)
	s := &summer{}
	cell := Spawn[int, int, int](ctx, s, 10, WithName("summer"))

	for i := 1; i <= 5; i++ {
		require.NoError(t, cell.Send(i))
	}
	cell.Stop()

	state, err := cell.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, state)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s.seen)
}

func TestSendAfterStopFails(t *testing.T) {
	ctx := testContext(t)
	cell := Spawn[int, int, int](ctx, &summer{}, 0)
	cell.Stop()
	cell.Stop()

	err := cell.Send(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStopped))

	state, err := cell.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state)
}

func TestHandlerErrorStopsActor(t *testing.T) {
	ctx := testContext(t)
	s := &summer{}
	cell := Spawn[int, int, int](ctx, s, 0)

	require.NoError(t, cell.Send(2))
	require.NoError(t, cell.Send(-1))
	_ = cell.Send(3)

	state, err := cell.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative message -1")
	assert.Equal(t, 2, state)
	assert.Equal(t, []int{2}, s.seen)

	<-cell.Done()
	assert.True(t, errors.Is(cell.Send(4), ErrStopped))
}

func TestPreStartErrorStopsActor(t *testing.T) {
	ctx := testContext(t)
	cell := Spawn[int, int, int](ctx, &summer{}, -1)

	_, err := cell.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-start")
}

// panicker panics on every message
type panicker struct{}

func (panicker) PreStart(ctx context.Context, myself Ref[string], args Unit) (int, error) {
	return 0, nil
}

func (panicker) Handle(ctx context.Context, myself Ref[string], msg string, state *int) error {
	panic(msg)
}

func TestHandlerPanicBecomesError(t *testing.T) {
	ctx := testContext(t)
	cell := Spawn[string, int, Unit](ctx, panicker{}, Unit{})
	require.NoError(t, cell.Send("boom"))

	_, err := cell.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
}

func TestContextCancelStopsActor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cell := Spawn[int, int, int](ctx, &summer{}, 0)
	require.NoError(t, cell.Send(1))
	cancel()

	wait := testContext(t)
	_, err := cell.Wait(wait)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

// slowFuture increments its state well after ctx is cancelled
type slowFuture struct {
	started chan struct{}
}

func (slowFuture) PreStart(ctx context.Context, myself Ref[int], start int) *Future[int] {
	return Ready(start, nil)
}

func (s slowFuture) Handle(ctx context.Context, myself Ref[int], msg int, state *int) *Future[Unit] {
	return AsyncErr(ctx, func(ctx context.Context) error {
		close(s.started)
		time.Sleep(50 * time.Millisecond)
		*state += msg
		return nil
	})
}

func TestFutureHandleOwnsStateUntilDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := slowFuture{started: make(chan struct{})}
	cell := Spawn[int, int, int](ctx, FromFuture[int, int, int](a), 0, WithName("slow"))
	require.NoError(t, cell.Send(1))

	<-a.started
	cancel()

	state, err := cell.Wait(testContext(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	// The write made after cancellation is visible, not racing with the loop
	assert.Equal(t, 1, state)
}

// echo sends each message back to itself until it reaches zero
type echo struct{}

func (echo) PreStart(ctx context.Context, myself Ref[int], args Unit) (int, error) {
	return 0, nil
}

func (echo) Handle(ctx context.Context, myself Ref[int], msg int, state *int) error {
	*state++
	if msg == 0 {
		myself.Stop()
		return nil
	}
	return myself.Send(msg - 1)
}

func TestSelfSendDoesNotDeadlock(t *testing.T) {
	ctx := testContext(t)
	cell := Spawn[int, int, Unit](ctx, echo{}, Unit{})
	require.NoError(t, cell.Send(100))

	state, err := cell.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 101, state)
}

func TestFromFutureMatchesNative(t *testing.T) {
	ctx := testContext(t)
	msgs := []int{3, 1, 4, 1, 5}

	native := Spawn[int, int, int](ctx, &summer{}, 2)
	future := Spawn[int, int, int](ctx, FromFuture[int, int, int](futureSummer{}), 2)
	for _, m := range msgs {
		require.NoError(t, native.Send(m))
		require.NoError(t, future.Send(m))
	}
	native.Stop()
	future.Stop()

	want, err := native.Wait(ctx)
	require.NoError(t, err)
	got, err := future.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 16, got)
}

func TestWaitHonoursContext(t *testing.T) {
	cell := Spawn[int, int, int](testContext(t), &summer{}, 0)
	t.Cleanup(cell.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := cell.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
