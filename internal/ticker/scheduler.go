package ticker

import (
	"context"
	"sync"
	"time"

	"liquidity-ticker/internal/domain"

	"go.uber.org/zap"
)

const (
	DefaultInterval  = 5000 * time.Millisecond
	DefaultFadeDelay = 500 * time.Millisecond
)

type Phase string

const (
	PhaseFadeOut Phase = "fade-out"
	PhaseFadeIn  Phase = "fade-in"
)

// Slot is one visible ticker row. Index runs from 1 to SlotCount.
type Slot struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

type Renderer interface {
	SetSlot(ctx context.Context, slot Slot)
	Transition(ctx context.Context, index int, phase Phase)
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Rotating bool   `json:"rotating"`
	Cursor   int    `json:"cursor"`
	Items    int    `json:"items"`
	Slots    []Slot `json:"slots"`
}

// Scheduler rotates a recommendation set through the ticker slots.
type Scheduler struct {
	renderer Renderer
	clock    Clock
	fade     time.Duration
	logger   *zap.Logger
	loads    chan domain.RecommendationSet

	mu    sync.RWMutex
	state RotationState
	slots [SlotCount]Slot
}

func NewScheduler(renderer Renderer, clock Clock, fade time.Duration, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if fade < 0 {
		fade = DefaultFadeDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		renderer: renderer,
		clock:    clock,
		fade:     fade,
		logger:   logger,
		loads:    make(chan domain.RecommendationSet, 1),
	}
	for i := range s.slots {
		s.slots[i].Index = i + 1
	}
	return s
}

// Load replaces the rotating set and resets the cursor. An empty set stops
// rotation. A Load that lands during a tick's fade wins over that tick.
// Callers running Run should use Submit instead.
func (s *Scheduler) Load(set domain.RecommendationSet) {
	items := make(domain.RecommendationSet, len(set))
	copy(items, set)

	s.mu.Lock()
	s.state = RotationState{Items: items}
	s.mu.Unlock()
	s.logger.Debug("rotation loaded", zap.Int("items", len(items)))
}

// Submit hands a new set to the Run goroutine.
func (s *Scheduler) Submit(ctx context.Context, set domain.RecommendationSet) error {
	select {
	case s.loads <- set:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) State() RotationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := make([]Slot, SlotCount)
	copy(slots, s.slots[:])
	return Status{
		Rotating: s.state.Active(),
		Cursor:   s.state.Cursor,
		Items:    len(s.state.Items),
		Slots:    slots,
	}
}

// Tick advances the rotation by one step. It is a no-op while idle and
// returns ctx.Err() if cancelled during the fade.
func (s *Scheduler) Tick(ctx context.Context) error {
	state := s.State()
	if !state.Active() {
		return nil
	}

	s.mu.Lock()
	for i := SlotCount - 1; i > 0; i-- {
		s.slots[i].Text = s.slots[i-1].Text
		s.slots[i].Label = s.slots[i-1].Label
	}
	shifted := s.slots
	s.mu.Unlock()

	for i := SlotCount - 1; i > 0; i-- {
		s.renderer.SetSlot(ctx, shifted[i])
	}
	for i := 1; i <= SlotCount; i++ {
		s.renderer.Transition(ctx, i, PhaseFadeOut)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(s.fade):
	}

	window := state.Window(SlotCount)
	for i := 1; i <= SlotCount; i++ {
		slot := Slot{Index: i, Text: window[i-1], Label: RecencyLabel(i)}
		s.mu.Lock()
		s.slots[i-1] = slot
		s.mu.Unlock()
		s.renderer.SetSlot(ctx, slot)
		s.renderer.Transition(ctx, i, PhaseFadeIn)
	}

	s.mu.Lock()
	if sameRotation(s.state, state) {
		s.state = state.Advance()
	}
	s.mu.Unlock()
	return nil
}

// sameRotation reports whether b is still the set and cursor held in a. A
// set loaded during the fade replaces the one being advanced.
func sameRotation(a, b RotationState) bool {
	if a.Cursor != b.Cursor || len(a.Items) != len(b.Items) {
		return false
	}
	return len(a.Items) == 0 || &a.Items[0] == &b.Items[0]
}

// Run applies submitted sets and ticks on one goroutine until ctx ends.
// Ticks arriving while a tick is in progress are dropped by the channel.
func (s *Scheduler) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case set := <-s.loads:
			s.Load(set)
		case <-ticks:
			if err := s.Tick(ctx); err != nil {
				return err
			}
		}
	}
}
