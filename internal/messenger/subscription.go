package messenger

import (
	"sync"
	"time"

	"github.com/kamdyne/embednav/pkg/constants"
)

// SubscribeOptions bounds a subscription. MaxCount > 0 auto-closes the
// subscription after that many deliveries; 0 means deliver until cancelled.
// TimeBudget > 0 cancels the subscription after that duration of inactivity
// from its creation; 0 means no time bound.
type SubscribeOptions struct {
	MaxCount   int
	TimeBudget time.Duration
}

// ReactionSubscription is a cancellable stream of reaction events.
// The Events channel closes on cancellation, timeout, or max-count.
type ReactionSubscription struct {
	mu        sync.Mutex
	events    chan Reaction
	closed    bool
	remaining int
	timer     *time.Timer
	onCancel  func()
}

// NewReactionSubscription creates a subscription honoring opts. Adapters and
// test fakes feed it through Offer.
func NewReactionSubscription(opts SubscribeOptions) *ReactionSubscription {
	s := &ReactionSubscription{
		events:    make(chan Reaction, constants.EventChannelBufferSize),
		remaining: opts.MaxCount,
	}
	if opts.TimeBudget > 0 {
		s.timer = time.AfterFunc(opts.TimeBudget, s.Cancel)
	}
	return s
}

// SetOnCancel registers a hook invoked once when the subscription closes,
// typically to detach the underlying platform handler. If the subscription
// already closed, for instance when the budget timer fired before
// registration, the hook runs immediately.
func (s *ReactionSubscription) SetOnCancel(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	s.onCancel = fn
	s.mu.Unlock()
}

// Events returns the stream of accepted reactions.
func (s *ReactionSubscription) Events() <-chan Reaction {
	return s.events
}

// Offer delivers an event if the subscription is still open. Events arriving
// while the buffer is full are dropped; reaction input is lossy by nature.
// Returns false once the subscription has closed.
func (s *ReactionSubscription) Offer(r Reaction) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	select {
	case s.events <- r:
	default:
		s.mu.Unlock()
		return true
	}
	if s.remaining > 0 {
		s.remaining--
		if s.remaining == 0 {
			s.closeLocked()
			return true
		}
	}
	s.mu.Unlock()
	return true
}

// Cancel closes the subscription. Idempotent and never blocks.
func (s *ReactionSubscription) Cancel() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closeLocked()
}

// closeLocked finalizes the subscription. Called with mu held; releases it.
func (s *ReactionSubscription) closeLocked() {
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	close(s.events)
	fn := s.onCancel
	s.onCancel = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// TextSubscription is a cancellable stream of text messages, with the same
// close semantics as ReactionSubscription.
type TextSubscription struct {
	mu        sync.Mutex
	events    chan TextMessage
	closed    bool
	remaining int
	timer     *time.Timer
	onCancel  func()
}

// NewTextSubscription creates a text subscription honoring opts.
func NewTextSubscription(opts SubscribeOptions) *TextSubscription {
	s := &TextSubscription{
		events:    make(chan TextMessage, constants.EventChannelBufferSize),
		remaining: opts.MaxCount,
	}
	if opts.TimeBudget > 0 {
		s.timer = time.AfterFunc(opts.TimeBudget, s.Cancel)
	}
	return s
}

// SetOnCancel registers a hook invoked once when the subscription closes.
// A hook registered after the close runs immediately.
func (s *TextSubscription) SetOnCancel(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	s.onCancel = fn
	s.mu.Unlock()
}

// Events returns the stream of matching text messages.
func (s *TextSubscription) Events() <-chan TextMessage {
	return s.events
}

// Offer delivers a message if the subscription is still open.
func (s *TextSubscription) Offer(m TextMessage) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	select {
	case s.events <- m:
	default:
		s.mu.Unlock()
		return true
	}
	if s.remaining > 0 {
		s.remaining--
		if s.remaining == 0 {
			s.closeLocked()
			return true
		}
	}
	s.mu.Unlock()
	return true
}

// Cancel closes the subscription. Idempotent and never blocks.
func (s *TextSubscription) Cancel() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closeLocked()
}

func (s *TextSubscription) closeLocked() {
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	close(s.events)
	fn := s.onCancel
	s.onCancel = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
