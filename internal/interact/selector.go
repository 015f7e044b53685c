package interact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kamdyne/embednav/internal/logger"
	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/kamdyne/embednav/pkg/constants"
	"github.com/sirupsen/logrus"
)

// SelectorConfig configures one selection session.
type SelectorConfig struct {
	// ChannelID receives the option list and the typed choice.
	ChannelID string
	// Options are the rendered list entries, one per selectable.
	Options []string
	// Title and Color style the option pages.
	Title string
	Color int
	// ResultRenderer, when set, produces the final non-interactive rendering
	// for the chosen index, applied once the choice resolves.
	ResultRenderer func(choice int) *messenger.Renderable
	// ItemsPerPage is the fixed option-page size. Zero defaults to 5.
	ItemsPerPage int
	// ActorID restricts whose typed choice counts. Empty = anyone.
	ActorID string
	// TimeBudget bounds each wait. Zero uses the default.
	TimeBudget time.Duration
	// ClearReactions clears all reactions after the choice resolves,
	// following a short grace delay so an in-flight removal is not raced.
	ClearReactions bool
	// ClearGrace overrides the grace delay. Zero uses the default.
	ClearGrace time.Duration
	// RemovalPace and DedupeWindow tune the underlying consumer.
	RemovalPace  time.Duration
	DedupeWindow time.Duration
}

// Choice is the outcome of a selection session. OK=false means the session
// was abandoned without a choice. Err carries a failure from applying the
// result rendering; the choice itself is still valid in that case.
type Choice struct {
	Index int
	OK    bool
	Err   error
}

// SelectorSession is one live selection session.
type SelectorSession struct {
	// Message is the option-list message, nil when the session
	// short-circuited without sending anything interactive.
	Message *messenger.Message
	result  chan Choice
	done    chan struct{}
}

// Chosen delivers the session's choice exactly once.
func (s *SelectorSession) Chosen() <-chan Choice {
	return s.result
}

// Done closes once the choice has been delivered. Observers that do not need
// the choice wait here so they never race the Chosen receiver.
func (s *SelectorSession) Done() <-chan struct{} {
	return s.done
}

// Selector resolves one zero-based index out of a selectable list by racing
// a reaction-driven option pager against a typed numeric choice.
type Selector struct {
	m   messenger.Messenger
	cfg SelectorConfig
}

// NewSelector validates the configuration before any remote I/O.
func NewSelector(m messenger.Messenger, cfg SelectorConfig) (*Selector, error) {
	if m == nil {
		return nil, fmt.Errorf("selector requires a messenger")
	}
	if len(cfg.Options) == 0 {
		return nil, fmt.Errorf("selector requires at least one option")
	}
	if len(cfg.Options) > constants.MaxSelectablesPerSession {
		return nil, fmt.Errorf("too many options: %d (max %d)", len(cfg.Options), constants.MaxSelectablesPerSession)
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("selector requires a channel")
	}
	if cfg.ItemsPerPage == 0 {
		cfg.ItemsPerPage = 5
	}
	if cfg.ItemsPerPage < 0 {
		return nil, fmt.Errorf("items per page must be positive, got %d", cfg.ItemsPerPage)
	}
	if cfg.TimeBudget == 0 {
		cfg.TimeBudget = constants.DefaultSelectTimeBudget
	}
	if cfg.TimeBudget < 0 {
		return nil, fmt.Errorf("time budget must be positive, got %v", cfg.TimeBudget)
	}
	if cfg.ClearGrace == 0 {
		cfg.ClearGrace = constants.ReactionClearGrace
	}
	return &Selector{m: m, cfg: cfg}, nil
}

// Open starts the session. With exactly one selectable the choice resolves
// to index 0 immediately, without affordances or waiting.
func (s *Selector) Open(ctx context.Context) (*SelectorSession, error) {
	session := &SelectorSession{
		result: make(chan Choice, 1),
		done:   make(chan struct{}),
	}

	if len(s.cfg.Options) == 1 {
		if s.cfg.ResultRenderer != nil {
			msg, err := s.m.SendRenderable(s.cfg.ChannelID, s.cfg.ResultRenderer(0))
			if err != nil {
				return nil, fmt.Errorf("failed to send selection result: %w", err)
			}
			session.Message = msg
		}
		session.result <- Choice{Index: 0, OK: true}
		close(session.result)
		close(session.done)
		return session, nil
	}

	pages := s.optionPages()
	sent, err := s.m.SendRenderable(s.cfg.ChannelID, renderPage(pages, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to open selector: %w", err)
	}
	session.Message = sent

	if len(pages) > 1 {
		for _, b := range defaultButtons(ModeCyclic) {
			if err := s.m.ReactWith(sent, b); err != nil {
				logger.WithFields(logrus.Fields{
					"message": sent.ID,
					"symbol":  b.Key(),
					"error":   err,
				}).Warn("failed-to-attach-navigation-reaction")
			}
		}
	}

	go s.run(ctx, session, pages)
	return session, nil
}

// run coordinates the race between the option pager and the typed numeric
// choice. Exactly one Choice is delivered.
func (s *Selector) run(ctx context.Context, session *SelectorSession, pages []*messenger.Renderable) {
	deliver := func(c Choice) {
		session.result <- c
		close(session.result)
		close(session.done)
	}

	navDone := make(chan struct{})
	var mon *Monitor
	if len(pages) > 1 {
		var err error
		mon, err = NewMonitor(s.m, ConsumerConfig{
			Target:       session.Message,
			Constraint:   Constraint{Emoji: defaultButtons(ModeCyclic)},
			TimeBudget:   s.cfg.TimeBudget,
			RemovalPace:  s.cfg.RemovalPace,
			DedupeWindow: s.cfg.DedupeWindow,
		}, 0)
		if err != nil {
			logger.WithField("error", err).Error("selector-monitor-setup-failed")
			deliver(Choice{OK: false})
			return
		}
		go func() {
			defer close(navDone)
			s.navLoop(ctx, mon, session.Message, pages)
		}()
	} else {
		close(navDone)
	}
	stopNav := func() {
		if mon != nil {
			mon.Stop()
		}
		<-navDone
	}

	// The typed wait is re-armed per budget, so a session whose pager is
	// still consuming reactions stays open. Abandonment resolves only once
	// both input channels have gone quiet.
	for {
		textSub := s.m.AwaitTextMessages(s.cfg.ChannelID, s.textPredicate(), messenger.SubscribeOptions{
			MaxCount:   1,
			TimeBudget: s.cfg.TimeBudget,
		})

		select {
		case <-ctx.Done():
			textSub.Cancel()
			stopNav()
			deliver(Choice{OK: false})
			return
		case tm, ok := <-textSub.Events():
			if !ok {
				// One typed-wait budget lapsed without a numeral. End the
				// session only if the pager has exhausted too; otherwise
				// re-arm and keep listening.
				select {
				case <-navDone:
					deliver(Choice{OK: false})
					return
				default:
					continue
				}
			}

			// The typed choice wins the race: cancel the reaction loop before
			// any further page edit can happen.
			stopNav()

			choice, _ := parseChoice(tm.Content, len(s.cfg.Options))
			idx := choice - 1

			if err := s.m.DeleteMessage(&messenger.Message{ID: tm.ID, ChannelID: tm.ChannelID}); err != nil {
				logger.WithFields(logrus.Fields{"message": tm.ID, "error": err}).Debug("typed-choice-delete-failed")
			}

			if s.cfg.ClearReactions {
				time.Sleep(s.cfg.ClearGrace)
				if err := s.m.ClearReactions(session.Message); err != nil {
					logger.WithFields(logrus.Fields{"message": session.Message.ID, "error": err}).Debug("clear-reactions-failed")
				}
			}

			var applyErr error
			if s.cfg.ResultRenderer != nil {
				if _, err := s.m.EditRenderable(session.Message, s.cfg.ResultRenderer(idx)); err != nil {
					applyErr = err
				}
			}
			deliver(Choice{Index: idx, OK: true, Err: applyErr})
			return
		}
	}
}

// navLoop pages through the option list. It never resolves a choice; it
// only changes which page of options is visible.
func (s *Selector) navLoop(ctx context.Context, mon *Monitor, msg *messenger.Message, pages []*messenger.Renderable) {
	idx := 0
	n := len(pages)
	for {
		ev, ok := mon.Next(ctx)
		if !ok {
			return
		}
		switch {
		case symbolIs(ev.Symbol, constants.EmojiBack):
			idx = (idx - 1 + n) % n
		case symbolIs(ev.Symbol, constants.EmojiForward):
			idx = (idx + 1) % n
		default:
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if _, err := s.m.EditRenderable(msg, renderPage(pages, idx)); err != nil {
			if errors.Is(err, messenger.ErrMessageGone) {
				return
			}
			logger.WithFields(logrus.Fields{"message": msg.ID, "error": err}).Warn("option-page-edit-failed")
		}
	}
}

// textPredicate matches a strict base-10 numeral in [1, len(options)] from
// the constraining actor. Anything else is left alone in the channel.
func (s *Selector) textPredicate() func(messenger.TextMessage) bool {
	n := len(s.cfg.Options)
	actor := s.cfg.ActorID
	return func(tm messenger.TextMessage) bool {
		if actor != "" && tm.Actor.ID != actor {
			return false
		}
		_, ok := parseChoice(tm.Content, n)
		return ok
	}
}

// optionPages chunks the options into fixed-size pages with global 1-based
// numbering, so the typed numeral always refers to the original list.
func (s *Selector) optionPages() []*messenger.Renderable {
	per := s.cfg.ItemsPerPage
	var pages []*messenger.Renderable
	for start := 0; start < len(s.cfg.Options); start += per {
		end := start + per
		if end > len(s.cfg.Options) {
			end = len(s.cfg.Options)
		}
		var b strings.Builder
		for i := start; i < end; i++ {
			fmt.Fprintf(&b, "**%d.** %s\n", i+1, s.cfg.Options[i])
		}
		pages = append(pages, &messenger.Renderable{
			Title:       s.cfg.Title,
			Description: strings.TrimRight(b.String(), "\n"),
			Color:       s.cfg.Color,
		})
	}
	return pages
}

// parseChoice parses a trimmed strict base-10 numeral within [1, n].
// Leading signs or any non-digit character disqualify the content.
func parseChoice(content string, n int) (int, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || len(trimmed) > 9 {
		return 0, false
	}
	value := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, false
		}
		value = value*10 + int(r-'0')
	}
	if value < 1 || value > n {
		return 0, false
	}
	return value, true
}
