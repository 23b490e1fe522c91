package ticker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"liquidity-ticker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu     sync.Mutex
	waits  []time.Duration
	block  bool
	onWait func()
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)
	if c.onWait != nil {
		c.onWait()
	}
	ch := make(chan time.Time, 1)
	if !c.block {
		ch <- time.Time{}
	}
	return ch
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type recordingRenderer struct {
	mu     sync.Mutex
	events []string
	slots  map[int]Slot
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{slots: map[int]Slot{}}
}

func (r *recordingRenderer) SetSlot(ctx context.Context, slot Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.Index] = slot
	r.events = append(r.events, fmt.Sprintf("set %d %s", slot.Index, slot.Text))
}

func (r *recordingRenderer) Transition(ctx context.Context, index int, phase Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s %d", phase, index))
}

func (r *recordingRenderer) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestTickIdleIsNoop(t *testing.T) {
	r := newRecordingRenderer()
	clock := &fakeClock{}
	s := NewScheduler(r, clock, DefaultFadeDelay, zap.NewNop())

	require.NoError(t, s.Tick(context.Background()))
	s.Load(nil)
	require.NoError(t, s.Tick(context.Background()))

	assert.Empty(t, r.Events())
	assert.Empty(t, clock.Waits())
	assert.False(t, s.Status().Rotating)
}

func TestTickFillsSlotsAfterFade(t *testing.T) {
	r := newRecordingRenderer()
	clock := &fakeClock{}
	s := NewScheduler(r, clock, DefaultFadeDelay, zap.NewNop())
	s.Load(domain.RecommendationSet{"a", "b", "c"})

	require.NoError(t, s.Tick(context.Background()))

	assert.Equal(t, []time.Duration{500 * time.Millisecond}, clock.Waits())
	events := r.Events()
	// Four shift updates, five fade-outs, then set and fade-in per slot.
	require.Len(t, events, 4+5+10)
	assert.Equal(t, "fade-out 1", events[4])
	assert.Equal(t, "fade-out 5", events[8])
	assert.Equal(t, "set 1 a", events[9])
	assert.Equal(t, "fade-in 1", events[10])

	want := []string{"a", "b", "c", "a", "b"}
	for i := 1; i <= SlotCount; i++ {
		assert.Equal(t, want[i-1], r.slots[i].Text)
		assert.Equal(t, RecencyLabel(i), r.slots[i].Label)
	}
	assert.Equal(t, 1, s.State().Cursor)
}

func TestTickCycleVisitsEveryItemOnce(t *testing.T) {
	r := newRecordingRenderer()
	s := NewScheduler(r, &fakeClock{}, 0, zap.NewNop())
	items := domain.RecommendationSet{"one", "two", "three", "four", "five", "six"}
	s.Load(items)

	var firsts []string
	for range items {
		require.NoError(t, s.Tick(context.Background()))
		firsts = append(firsts, r.slots[1].Text)
	}
	assert.Equal(t, []string(items), firsts)
	assert.Equal(t, 0, s.State().Cursor)
}

func TestLoadResetsCursor(t *testing.T) {
	s := NewScheduler(newRecordingRenderer(), &fakeClock{}, 0, zap.NewNop())
	s.Load(domain.RecommendationSet{"a", "b"})
	require.NoError(t, s.Tick(context.Background()))
	require.Equal(t, 1, s.State().Cursor)

	s.Load(domain.RecommendationSet{"x", "y", "z"})
	assert.Equal(t, 0, s.State().Cursor)
	assert.Equal(t, 3, s.Status().Items)
}

func TestLoadDuringFadeIsKept(t *testing.T) {
	clock := &fakeClock{}
	s := NewScheduler(newRecordingRenderer(), clock, DefaultFadeDelay, zap.NewNop())
	s.Load(domain.RecommendationSet{"a", "b"})
	clock.onWait = func() { s.Load(domain.RecommendationSet{"x", "y", "z"}) }

	require.NoError(t, s.Tick(context.Background()))

	state := s.State()
	assert.Equal(t, domain.RecommendationSet{"x", "y", "z"}, state.Items)
	assert.Equal(t, 0, state.Cursor)
}

func TestTickCancelledDuringFade(t *testing.T) {
	r := newRecordingRenderer()
	s := NewScheduler(r, &fakeClock{block: true}, DefaultFadeDelay, zap.NewNop())
	s.Load(domain.RecommendationSet{"a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Tick(ctx), context.Canceled)
	assert.Equal(t, 0, s.State().Cursor)
}

func TestRunAppliesSubmittedSetsAndTicks(t *testing.T) {
	r := newRecordingRenderer()
	s := NewScheduler(r, &fakeClock{}, 0, zap.NewNop())
	ticks := make(chan time.Time)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, ticks) }()

	require.NoError(t, s.Submit(ctx, domain.RecommendationSet{"a", "b"}))
	require.Eventually(t, func() bool { return s.Status().Items == 2 }, time.Second, 5*time.Millisecond)

	ticks <- time.Now()
	ticks <- time.Now()
	require.Eventually(t, func() bool { return s.State().Cursor == 0 && len(r.Events()) == 2*19 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
