package interact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kamdyne/embednav/internal/logger"
	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/kamdyne/embednav/pkg/constants"
	"github.com/sirupsen/logrus"
)

// ConsumerConfig configures one consumption session.
type ConsumerConfig struct {
	// Target is the message whose reactions are consumed.
	Target *messenger.Message
	// Constraint narrows which reactions qualify. The bot's own reactions
	// are always excluded regardless of the constraint.
	Constraint Constraint
	// TimeBudget bounds each individual wait, not the whole session.
	TimeBudget time.Duration
	// RemovalPace overrides the steady-state removal interval. Zero uses
	// the default. Tests inject a tiny value here.
	RemovalPace time.Duration
	// DedupeWindow overrides the duplicate-suppression window. Zero uses
	// the default.
	DedupeWindow time.Duration
}

type removal struct {
	sym   messenger.Symbol
	actor messenger.Actor
}

// Consumer consumes qualifying reactions from one message, removing each
// accepted reaction from the remote message as it is consumed. Removals are
// serialized through a FIFO queue with soft pacing so at most one remote
// delete is in flight per session.
type Consumer struct {
	m      messenger.Messenger
	target *messenger.Message
	filter Filter
	budget time.Duration
	pace   time.Duration
	window time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time

	queue     chan removal
	done      chan struct{}
	closeOnce sync.Once
}

// NewConsumer validates the configuration and starts the removal worker.
// Configuration errors are returned synchronously before any remote I/O.
func NewConsumer(m messenger.Messenger, cfg ConsumerConfig) (*Consumer, error) {
	if m == nil {
		return nil, fmt.Errorf("consumer requires a messenger")
	}
	if cfg.Target == nil || cfg.Target.ID == "" {
		return nil, fmt.Errorf("consumer requires a target message")
	}
	if cfg.TimeBudget <= 0 {
		return nil, fmt.Errorf("consumer time budget must be positive, got %v", cfg.TimeBudget)
	}

	pace := cfg.RemovalPace
	if pace == 0 {
		pace = constants.RemovalPace
	}
	window := cfg.DedupeWindow
	if window == 0 {
		window = constants.DedupeWindow
	}

	base := cfg.Constraint.Build()
	self := m.Self()
	filter := func(r messenger.Reaction) bool {
		if self.ID != "" && r.Actor.ID == self.ID {
			return false
		}
		return base(r)
	}

	c := &Consumer{
		m:        m,
		target:   cfg.Target,
		filter:   filter,
		budget:   cfg.TimeBudget,
		pace:     pace,
		window:   window,
		lastSeen: make(map[string]time.Time),
		queue:    make(chan removal, constants.RemovalQueueSize),
		done:     make(chan struct{}),
	}
	go c.removalWorker()
	return c, nil
}

// ConsumeOne waits for the next qualifying reaction within the time budget.
// The accepted reaction's removal is enqueued before ConsumeOne returns, so
// no second event for the same session can be accepted ahead of it.
// Returns ok=false on timeout, cancellation, or session close; remote
// failures degrade to the same no-match result.
func (c *Consumer) ConsumeOne(ctx context.Context) (messenger.Reaction, bool) {
	select {
	case <-c.done:
		return messenger.Reaction{}, false
	default:
	}
	if ctx.Err() != nil {
		return messenger.Reaction{}, false
	}

	sub := c.m.SubscribeReactions(c.target, c.filter, messenger.SubscribeOptions{
		TimeBudget: c.budget,
	})
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return messenger.Reaction{}, false
		case <-c.done:
			return messenger.Reaction{}, false
		case ev, ok := <-sub.Events():
			if !ok {
				return messenger.Reaction{}, false
			}
			if !c.accept(ev) {
				continue
			}
			c.enqueueRemoval(ev)
			return ev, true
		}
	}
}

// Close stops the session: any in-flight ConsumeOne returns no-match
// promptly and the removal worker exits. Idempotent, never blocks.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// accept applies the dedupe window to one qualifying event.
func (c *Consumer) accept(ev messenger.Reaction) bool {
	key := ev.Symbol.Key() + "|" + ev.Actor.ID
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.lastSeen[key]; ok && now.Sub(last) < c.window {
		return false
	}
	for k, t := range c.lastSeen {
		if now.Sub(t) >= c.window {
			delete(c.lastSeen, k)
		}
	}
	c.lastSeen[key] = now
	return true
}

func (c *Consumer) enqueueRemoval(ev messenger.Reaction) {
	select {
	case c.queue <- removal{sym: ev.Symbol, actor: ev.Actor}:
	default:
		logger.WithFields(logrus.Fields{
			"message": c.target.ID,
			"symbol":  ev.Symbol.Key(),
		}).Warn("removal-queue-full-dropping")
	}
}

// removalWorker drains the FIFO removal queue, issuing one remote delete at
// a time with the configured pacing between deletes.
func (c *Consumer) removalWorker() {
	for {
		select {
		case <-c.done:
			return
		case r := <-c.queue:
			if err := c.m.RemoveReaction(c.target, r.sym, r.actor); err != nil {
				logger.WithFields(logrus.Fields{
					"message": c.target.ID,
					"symbol":  r.sym.Key(),
					"error":   err,
				}).Debug("reaction-removal-failed")
			}
			select {
			case <-c.done:
				return
			case <-time.After(c.pace):
			}
		}
	}
}
