package interact

import (
	"context"
	"time"

	"github.com/kamdyne/embednav/internal/logger"
	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/kamdyne/embednav/pkg/constants"
	"github.com/sirupsen/logrus"
)

// TrashConfig configures a trash guard.
type TrashConfig struct {
	// AllowedDeleters restricts who may trigger deletion. Empty = anyone.
	AllowedDeleters []string
	// TimeBudget bounds how long the guard waits. Zero uses the default.
	TimeBudget time.Duration
	// Symbols overrides the accepted delete symbols. Empty uses the default
	// trash set.
	Symbols []messenger.Symbol
	// RemovalPace and DedupeWindow tune the underlying consumer. Zero uses
	// the defaults.
	RemovalPace  time.Duration
	DedupeWindow time.Duration
}

// TrashGuard watches one message for a delete reaction and removes the
// message when a qualifying one arrives. Deletion failures are logged and
// swallowed; a concurrently deleted message is a silent no-op.
type TrashGuard struct {
	done chan struct{}
	mon  *Monitor
}

// TrashSymbols is the default set of delete symbols a guard accepts.
func TrashSymbols() []messenger.Symbol {
	return []messenger.Symbol{
		messenger.Sym(constants.EmojiDiscard),
		messenger.Sym(constants.EmojiTrashAlt),
	}
}

// AttachTrashGuard starts a guard on msg. Fire-and-forget from the caller's
// perspective; Done can be watched when the caller cares about completion.
// Configuration errors are returned before anything remote happens.
func AttachTrashGuard(m messenger.Messenger, msg *messenger.Message, cfg TrashConfig) (*TrashGuard, error) {
	budget := cfg.TimeBudget
	if budget == 0 {
		budget = constants.TrashGuardTimeout
	}
	symbols := cfg.Symbols
	if len(symbols) == 0 {
		symbols = TrashSymbols()
	}

	mon, err := NewMonitor(m, ConsumerConfig{
		Target: msg,
		Constraint: Constraint{
			Users: cfg.AllowedDeleters,
			Emoji: symbols,
		},
		TimeBudget:   budget,
		RemovalPace:  cfg.RemovalPace,
		DedupeWindow: cfg.DedupeWindow,
	}, 1)
	if err != nil {
		return nil, err
	}

	g := &TrashGuard{done: make(chan struct{}), mon: mon}
	go g.run(m, msg)
	return g, nil
}

// Done closes when the guard finishes, whether by deletion or timeout.
func (g *TrashGuard) Done() <-chan struct{} {
	return g.done
}

// Stop detaches the guard without deleting anything.
func (g *TrashGuard) Stop() {
	g.mon.Stop()
}

func (g *TrashGuard) run(m messenger.Messenger, msg *messenger.Message) {
	defer close(g.done)
	defer g.mon.Stop()

	ev, ok := g.mon.Next(context.Background())
	if !ok {
		return
	}

	if err := m.DeleteMessage(msg); err != nil {
		logger.WithFields(logrus.Fields{
			"message": msg.ID,
			"error":   err,
		}).Warn("trash-guard-delete-failed")
		return
	}
	logger.WithFields(logrus.Fields{
		"message": msg.ID,
		"actor":   ev.Actor.ID,
	}).Debug("trash-guard-deleted-message")
}
