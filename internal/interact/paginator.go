package interact

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/kamdyne/embednav/internal/logger"
	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/kamdyne/embednav/pkg/constants"
	"github.com/sirupsen/logrus"
)

// Mode selects the pagination behavior.
type Mode int

const (
	// ModeCyclic pages forward/backward with wraparound at both ends.
	ModeCyclic Mode = iota
	// ModeReroll jumps to a uniformly random page on each event. The
	// current page is not excluded from the draw.
	ModeReroll
	// ModeConsumeOnAdvance removes each page from the pool as it is left.
	// When one page remains the session offers a single discard affordance
	// instead of navigation; discarding deletes the message and ends the
	// session.
	ModeConsumeOnAdvance
)

// randIntn is a seam for deterministic tests.
var randIntn = rand.Intn

// PaginatorConfig configures one pagination session.
type PaginatorConfig struct {
	// ChannelID receives the initial message. Ignored when Message is set.
	ChannelID string
	// Message, when set, is an existing message to take over and edit
	// instead of sending a new one.
	Message *messenger.Message
	// Pages is the ordered page sequence. Must be non-empty.
	Pages []*messenger.Renderable
	// Buttons are the navigation affordances, attached in the given order.
	// Empty derives a default set from the mode. Each must be one of the
	// known navigation symbols.
	Buttons []messenger.Symbol
	// StartPage is the initial page index.
	StartPage int
	// TimeBudget bounds each wait for input. Zero uses the default.
	TimeBudget time.Duration
	// Mode selects the navigation behavior.
	Mode Mode
	// RemovalPace and DedupeWindow tune the underlying consumer.
	RemovalPace  time.Duration
	DedupeWindow time.Duration
}

// PageResult is the terminal outcome of a pagination session. OK=false means
// the session ended without a resting page: the message was deleted,
// discarded, or the session was aborted.
type PageResult struct {
	Index int
	OK    bool
}

// PaginatorSession is one live pagination session.
type PaginatorSession struct {
	// Message is the message the session owns and edits.
	Message *messenger.Message
	result  chan PageResult
	done    chan struct{}
}

// Terminal delivers the session's terminal page result exactly once.
func (s *PaginatorSession) Terminal() <-chan PageResult {
	return s.result
}

// Done closes once the terminal result has been delivered. Observers that do
// not need the result wait here so they never race the Terminal receiver.
func (s *PaginatorSession) Done() <-chan struct{} {
	return s.done
}

// Paginator owns an ordered sequence of renderable pages and drives the
// render/footer-update cycle from consumed navigation reactions.
type Paginator struct {
	m       messenger.Messenger
	cfg     PaginatorConfig
	buttons []messenger.Symbol
}

// RenderPages applies a renderer to build the page sequence up front.
// Pages are immutable once rendered; only the cursor moves afterwards.
func RenderPages(n int, render func(i int) *messenger.Renderable) []*messenger.Renderable {
	pages := make([]*messenger.Renderable, n)
	for i := 0; i < n; i++ {
		pages[i] = render(i)
	}
	return pages
}

// NewPaginator validates the configuration. All configuration errors are
// reported here, before any remote I/O.
func NewPaginator(m messenger.Messenger, cfg PaginatorConfig) (*Paginator, error) {
	if m == nil {
		return nil, fmt.Errorf("paginator requires a messenger")
	}
	if len(cfg.Pages) == 0 {
		return nil, fmt.Errorf("paginator requires at least one page")
	}
	for i, p := range cfg.Pages {
		if p == nil {
			return nil, fmt.Errorf("page %d is nil", i)
		}
	}
	if cfg.StartPage < 0 || cfg.StartPage >= len(cfg.Pages) {
		return nil, fmt.Errorf("start page %d out of range [0, %d)", cfg.StartPage, len(cfg.Pages))
	}
	if cfg.Message == nil && cfg.ChannelID == "" {
		return nil, fmt.Errorf("paginator requires a channel or an existing message")
	}
	if cfg.TimeBudget == 0 {
		cfg.TimeBudget = constants.DefaultPageTimeBudget
	}
	if cfg.TimeBudget < 0 {
		return nil, fmt.Errorf("time budget must be positive, got %v", cfg.TimeBudget)
	}

	buttons := cfg.Buttons
	if len(buttons) == 0 {
		buttons = defaultButtons(cfg.Mode)
	}
	for _, b := range buttons {
		if !isNavigationSymbol(b) {
			return nil, fmt.Errorf("unknown navigation button %q", b.Key())
		}
	}

	return &Paginator{m: m, cfg: cfg, buttons: buttons}, nil
}

func defaultButtons(mode Mode) []messenger.Symbol {
	if mode == ModeReroll {
		return []messenger.Symbol{messenger.Sym(constants.EmojiReroll)}
	}
	return []messenger.Symbol{
		messenger.Sym(constants.EmojiBack),
		messenger.Sym(constants.EmojiForward),
	}
}

func isNavigationSymbol(s messenger.Symbol) bool {
	switch s.Name {
	case constants.EmojiBack, constants.EmojiForward, constants.EmojiReroll:
		return true
	}
	return false
}

// Open renders the initial page, attaches the navigation affordances in
// order, and starts the interactive loop. The returned session's Terminal
// channel resolves when the loop ends.
func (p *Paginator) Open(ctx context.Context) (*PaginatorSession, error) {
	pages := append([]*messenger.Renderable(nil), p.cfg.Pages...)
	idx := p.cfg.StartPage

	msg := p.cfg.Message
	initial := renderPage(pages, idx)
	if msg == nil {
		sent, err := p.m.SendRenderable(p.cfg.ChannelID, initial)
		if err != nil {
			return nil, fmt.Errorf("failed to open paginator: %w", err)
		}
		msg = sent
	} else {
		edited, err := p.m.EditRenderable(msg, initial)
		if err != nil {
			return nil, fmt.Errorf("failed to open paginator: %w", err)
		}
		msg = edited
	}

	// Attach order is deterministic so a retried open is visually stable.
	for _, b := range p.buttons {
		if err := p.m.ReactWith(msg, b); err != nil {
			logger.WithFields(logrus.Fields{
				"message": msg.ID,
				"symbol":  b.Key(),
				"error":   err,
			}).Warn("failed-to-attach-navigation-reaction")
		}
	}

	session := &PaginatorSession{
		Message: msg,
		result:  make(chan PageResult, 1),
		done:    make(chan struct{}),
	}
	go p.loop(ctx, session, pages, idx)
	return session, nil
}

// loop is the session's single event loop. It owns the page slice and
// cursor; nothing else mutates them.
func (p *Paginator) loop(ctx context.Context, session *PaginatorSession, pages []*messenger.Renderable, idx int) {
	deliver := func(res PageResult) {
		session.result <- res
		close(session.result)
		close(session.done)
	}

	mon, err := p.newNavMonitor(session.Message)
	if err != nil {
		logger.WithField("error", err).Error("paginator-monitor-setup-failed")
		deliver(PageResult{OK: false})
		return
	}
	defer func() { mon.Stop() }()

	discardPhase := false

	for {
		if ctx.Err() != nil {
			deliver(PageResult{OK: false})
			return
		}

		ev, ok := mon.Next(ctx)
		if !ok {
			if ctx.Err() != nil {
				deliver(PageResult{OK: false})
				return
			}
			// Exhaustion: strip the transient footer with one last edit.
			p.finalEdit(session.Message, pages, idx)
			deliver(PageResult{Index: idx, OK: true})
			return
		}

		if discardPhase {
			if !symbolIs(ev.Symbol, constants.EmojiDiscard) {
				continue
			}
			if err := p.m.DeleteMessage(session.Message); err != nil {
				logger.WithFields(logrus.Fields{
					"message": session.Message.ID,
					"error":   err,
				}).Warn("discard-delete-failed")
			}
			deliver(PageResult{OK: false})
			return
		}

		idx, pages = p.applyNavigation(ev.Symbol, idx, pages)

		if p.cfg.Mode == ModeConsumeOnAdvance && len(pages) == 1 && !discardPhase {
			discardPhase = true
			mon.Stop()
			mon, err = p.newDiscardMonitor(session.Message)
			if err != nil {
				logger.WithField("error", err).Error("paginator-discard-monitor-failed")
				deliver(PageResult{OK: false})
				return
			}
			p.swapToDiscardAffordance(session.Message)
		}

		if ctx.Err() != nil {
			deliver(PageResult{OK: false})
			return
		}
		if _, err := p.m.EditRenderable(session.Message, renderPage(pages, idx)); err != nil {
			if errors.Is(err, messenger.ErrMessageGone) {
				deliver(PageResult{OK: false})
				return
			}
			// A single failed visual update must not abort the session.
			logger.WithFields(logrus.Fields{
				"message": session.Message.ID,
				"error":   err,
			}).Warn("page-edit-failed")
		}
	}
}

// applyNavigation moves the cursor for one accepted event and, in
// consume-on-advance mode, removes the departed page. After removal the
// cursor is corrected so travel visually continues in the same direction;
// the correction is applied symmetrically for both directions.
func (p *Paginator) applyNavigation(sym messenger.Symbol, idx int, pages []*messenger.Renderable) (int, []*messenger.Renderable) {
	n := len(pages)
	prev := idx

	switch {
	case symbolIs(sym, constants.EmojiBack):
		idx = (idx - 1 + n) % n
	case symbolIs(sym, constants.EmojiForward):
		idx = (idx + 1) % n
	case symbolIs(sym, constants.EmojiReroll):
		if p.cfg.Mode == ModeConsumeOnAdvance && n > 1 {
			pages = removePage(pages, prev)
			return randIntn(len(pages)), pages
		}
		return randIntn(n), pages
	default:
		return idx, pages
	}

	if p.cfg.Mode == ModeConsumeOnAdvance && n > 1 {
		pages = removePage(pages, prev)
		if idx > prev {
			idx--
		}
	}
	return idx, pages
}

func removePage(pages []*messenger.Renderable, i int) []*messenger.Renderable {
	out := make([]*messenger.Renderable, 0, len(pages)-1)
	out = append(out, pages[:i]...)
	return append(out, pages[i+1:]...)
}

func (p *Paginator) newNavMonitor(msg *messenger.Message) (*Monitor, error) {
	return NewMonitor(p.m, ConsumerConfig{
		Target:       msg,
		Constraint:   Constraint{Emoji: p.buttons},
		TimeBudget:   p.cfg.TimeBudget,
		RemovalPace:  p.cfg.RemovalPace,
		DedupeWindow: p.cfg.DedupeWindow,
	}, 0)
}

func (p *Paginator) newDiscardMonitor(msg *messenger.Message) (*Monitor, error) {
	return NewMonitor(p.m, ConsumerConfig{
		Target:       msg,
		Constraint:   Constraint{Emoji: []messenger.Symbol{messenger.Sym(constants.EmojiDiscard)}},
		TimeBudget:   p.cfg.TimeBudget,
		RemovalPace:  p.cfg.RemovalPace,
		DedupeWindow: p.cfg.DedupeWindow,
	}, 1)
}

// swapToDiscardAffordance replaces the navigation reactions with the single
// discard affordance. Best-effort on both calls.
func (p *Paginator) swapToDiscardAffordance(msg *messenger.Message) {
	if err := p.m.ClearReactions(msg); err != nil {
		logger.WithFields(logrus.Fields{"message": msg.ID, "error": err}).Debug("clear-reactions-failed")
	}
	if err := p.m.ReactWith(msg, messenger.Sym(constants.EmojiDiscard)); err != nil {
		logger.WithFields(logrus.Fields{"message": msg.ID, "error": err}).Warn("failed-to-attach-discard-reaction")
	}
}

// finalEdit strips the transient page-position footer by re-editing with the
// page's own rendering. Skipped when no footer was ever shown.
func (p *Paginator) finalEdit(msg *messenger.Message, pages []*messenger.Renderable, idx int) {
	if len(pages) < 2 {
		return
	}
	if _, err := p.m.EditRenderable(msg, pages[idx]); err != nil {
		if errors.Is(err, messenger.ErrMessageGone) {
			return
		}
		logger.WithFields(logrus.Fields{"message": msg.ID, "error": err}).Warn("final-footer-strip-failed")
	}
}

// renderPage produces the visible rendering of one page, appending the
// page-position footer when more than one page remains. The page's own
// footer, if any, is preserved ahead of the position marker.
func renderPage(pages []*messenger.Renderable, idx int) *messenger.Renderable {
	page := pages[idx]
	if len(pages) < 2 {
		return page
	}
	position := fmt.Sprintf("Page %d of %d", idx+1, len(pages))
	if page.Footer != "" {
		position = page.Footer + " | " + position
	}
	return page.WithFooter(position)
}

func symbolIs(sym messenger.Symbol, name string) bool {
	return sym.Matches(messenger.Sym(name))
}
