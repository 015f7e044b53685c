package interact

import (
	"context"

	"github.com/kamdyne/embednav/internal/messenger"
)

// Monitor is a finite, lazily-evaluated sequence of consumed reactions.
// Each Next call runs one fresh consumption wait; the sequence ends the
// first time a wait yields no match. A new Monitor restarts the sequence;
// a stopped Monitor stays ended.
type Monitor struct {
	c     *Consumer
	limit int
	seen  int
	ended bool
}

// NewMonitor builds a monitor over a fresh consumption session.
// limit > 0 caps how many reactions the sequence yields; 0 means unbounded.
func NewMonitor(m messenger.Messenger, cfg ConsumerConfig, limit int) (*Monitor, error) {
	c, err := NewConsumer(m, cfg)
	if err != nil {
		return nil, err
	}
	return &Monitor{c: c, limit: limit}, nil
}

// Next blocks for the next consumed reaction. ok=false ends the sequence;
// once ended, Next keeps returning false.
func (mo *Monitor) Next(ctx context.Context) (messenger.Reaction, bool) {
	if mo.ended {
		return messenger.Reaction{}, false
	}
	if mo.limit > 0 && mo.seen >= mo.limit {
		mo.end()
		return messenger.Reaction{}, false
	}
	ev, ok := mo.c.ConsumeOne(ctx)
	if !ok {
		mo.end()
		return messenger.Reaction{}, false
	}
	mo.seen++
	return ev, true
}

// Stop ends the sequence early without waiting for another event.
// Safe to call from any goroutine, idempotent, never blocks.
func (mo *Monitor) Stop() {
	mo.c.Close()
}

func (mo *Monitor) end() {
	mo.ended = true
	mo.c.Close()
}
