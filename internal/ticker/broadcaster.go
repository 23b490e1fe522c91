package ticker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

// RetryNotice is published when a refresh fails.
const RetryNotice = "Unable to load recommendations, please try again."

type EventType string

const (
	EventSnapshot   EventType = "snapshot"
	EventSlot       EventType = "slot"
	EventTransition EventType = "transition"
	EventNotice     EventType = "notice"
)

type Event struct {
	Type   EventType `json:"type"`
	Slot   *Slot     `json:"slot,omitempty"`
	Index  int       `json:"index,omitempty"`
	Phase  Phase     `json:"phase,omitempty"`
	Slots  []Slot    `json:"slots,omitempty"`
	Notice string    `json:"notice,omitempty"`
}

// Broadcaster is a Renderer that fans events out to subscribers and keeps
// the latest slot contents for late joiners.
type Broadcaster struct {
	logger  *zap.Logger
	buffer  int
	nextID  atomic.Uint64
	subs    *xsync.Map[uint64, *subscriber]
	onCount func(n int)

	mu     sync.RWMutex
	slots  [SlotCount]Slot
	notice string
}

func NewBroadcaster(buffer int, logger *zap.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Broadcaster{
		logger: logger,
		buffer: buffer,
		subs:   xsync.NewMap[uint64, *subscriber](),
	}
	for i := range b.slots {
		b.slots[i].Index = i + 1
	}
	return b
}

// OnSubscriberCount registers fn to be called whenever the number of
// subscribers changes.
func (b *Broadcaster) OnSubscriberCount(fn func(n int)) {
	b.onCount = fn
}

// Subscribe registers a subscriber. The first event on the channel is a
// snapshot of the current slots. The returned func unsubscribes.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	id := b.nextID.Add(1)
	sub := &subscriber{ch: make(chan Event, b.buffer)}
	sub.ch <- b.snapshotEvent()
	b.subs.Store(id, sub)
	b.countChanged()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			if s, ok := b.subs.LoadAndDelete(id); ok {
				s.close()
			}
			b.countChanged()
		})
	}
}

func (b *Broadcaster) Subscribers() int {
	return b.subs.Size()
}

func (b *Broadcaster) SetSlot(ctx context.Context, slot Slot) {
	if slot.Index < 1 || slot.Index > SlotCount {
		return
	}
	b.mu.Lock()
	b.slots[slot.Index-1] = slot
	b.mu.Unlock()
	b.publish(Event{Type: EventSlot, Slot: &slot})
}

func (b *Broadcaster) Transition(ctx context.Context, index int, phase Phase) {
	b.publish(Event{Type: EventTransition, Index: index, Phase: phase})
}

// Notify publishes a notice and keeps it for new subscribers. An empty
// message clears it.
func (b *Broadcaster) Notify(message string) {
	b.mu.Lock()
	b.notice = message
	b.mu.Unlock()
	b.publish(Event{Type: EventNotice, Notice: message})
}

func (b *Broadcaster) Notice() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.notice
}

func (b *Broadcaster) Slots() []Slot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Slot, SlotCount)
	copy(out, b.slots[:])
	return out
}

func (b *Broadcaster) snapshotEvent() Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	slots := make([]Slot, SlotCount)
	copy(slots, b.slots[:])
	return Event{Type: EventSnapshot, Slots: slots, Notice: b.notice}
}

func (b *Broadcaster) publish(ev Event) {
	b.subs.Range(func(id uint64, sub *subscriber) bool {
		if !sub.send(ev) {
			b.logger.Debug("dropping ticker event for slow subscriber", zap.Uint64("subscriber", id))
		}
		return true
	})
}

func (b *Broadcaster) countChanged() {
	if b.onCount != nil {
		b.onCount(b.subs.Size())
	}
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// send never blocks; it reports false when the event was dropped.
func (s *subscriber) send(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	close(s.ch)
}
