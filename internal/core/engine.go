package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kamdyne/embednav/internal/interact"
	"github.com/kamdyne/embednav/internal/logger"
	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/kamdyne/embednav/internal/router"
	"github.com/sirupsen/logrus"
)

// Connector is the platform connection surface the engine drives: the full
// messaging contract plus connection lifecycle.
type Connector interface {
	messenger.Messenger
	Start(onMessage func(messenger.TextMessage)) error
	Stop() error
}

// Engine owns the platform connection, the command registry, and the set of
// live widget sessions.
type Engine struct {
	config   *Config
	conn     Connector
	registry *router.Registry
	rt       *router.Router

	mu     sync.RWMutex
	active map[string]struct{} // encoded CustomID -> live widget session
}

// NewEngine creates an engine. Commands are registered on Registry() before
// Run connects anything.
func NewEngine(config *Config, conn Connector) (*Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("engine requires a config")
	}
	if conn == nil {
		return nil, fmt.Errorf("engine requires a connector")
	}

	registry := router.NewRegistry()
	rt, err := router.New(conn, registry, config.CommandPrefix, config.IsUserAuthorized)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:   config,
		conn:     conn,
		registry: registry,
		rt:       rt,
		active:   make(map[string]struct{}),
	}

	if err := registry.Register("help", router.Computed(e.helpResponder)); err != nil {
		return nil, err
	}
	return e, nil
}

// Registry exposes the command registry for startup-time registration.
func (e *Engine) Registry() *router.Registry {
	return e.registry
}

// Run connects the messenger and dispatches incoming messages until the
// context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	logger.WithField("prefix", e.config.CommandPrefix).Info("starting-embednav-engine")

	if err := e.conn.Start(e.rt.Dispatch); err != nil {
		return fmt.Errorf("failed to start messenger: %w", err)
	}

	<-ctx.Done()

	logger.Info("stopping-embednav-engine")
	if err := e.conn.Stop(); err != nil {
		return fmt.Errorf("failed to stop messenger: %w", err)
	}
	return nil
}

// OpenPaginator opens a pagination session with the engine's configured
// timing defaults and tracks it until it resolves.
func (e *Engine) OpenPaginator(ctx context.Context, cfg interact.PaginatorConfig) (*interact.PaginatorSession, error) {
	if cfg.ChannelID == "" && cfg.Message == nil {
		cfg.ChannelID = e.config.Discord.ChannelID
	}
	e.applyTiming(&cfg.TimeBudget, e.config.Interact.PageBudget(), &cfg.RemovalPace, &cfg.DedupeWindow)

	p, err := interact.NewPaginator(e.conn, cfg)
	if err != nil {
		return nil, err
	}
	session, err := p.Open(ctx)
	if err != nil {
		return nil, err
	}

	key := e.track("paginator", session.Message.ID)
	go func() {
		<-session.Done()
		e.untrack(key)
	}()
	return session, nil
}

// OpenSelector opens a selection session with the engine's configured
// timing defaults and tracks it until it resolves.
func (e *Engine) OpenSelector(ctx context.Context, cfg interact.SelectorConfig) (*interact.SelectorSession, error) {
	if cfg.ChannelID == "" {
		cfg.ChannelID = e.config.Discord.ChannelID
	}
	if cfg.ItemsPerPage == 0 {
		cfg.ItemsPerPage = e.config.Interact.ItemsPerPage
	}
	if cfg.ClearGrace == 0 {
		cfg.ClearGrace = e.config.Interact.ClearGraceDuration()
	}
	e.applyTiming(&cfg.TimeBudget, e.config.Interact.SelectBudget(), &cfg.RemovalPace, &cfg.DedupeWindow)

	s, err := interact.NewSelector(e.conn, cfg)
	if err != nil {
		return nil, err
	}
	session, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}

	if session.Message != nil {
		key := e.track("selector", session.Message.ID)
		go func() {
			<-session.Done()
			e.untrack(key)
		}()
	}
	return session, nil
}

// GuardTrashable attaches a trash guard with the engine's configured
// timeout and pacing.
func (e *Engine) GuardTrashable(msg *messenger.Message, allowedDeleters ...string) (*interact.TrashGuard, error) {
	return interact.AttachTrashGuard(e.conn, msg, interact.TrashConfig{
		AllowedDeleters: allowedDeleters,
		TimeBudget:      e.config.Interact.TrashTimeoutDuration(),
		RemovalPace:     e.config.Interact.RemovalPaceDuration(),
		DedupeWindow:    e.config.Interact.DedupeWindowDuration(),
	})
}

// ActiveSessions reports how many widget sessions are currently live.
func (e *Engine) ActiveSessions() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.active)
}

func (e *Engine) applyTiming(budget *time.Duration, defBudget time.Duration, pace, window *time.Duration) {
	if *budget == 0 {
		*budget = defBudget
	}
	if *pace == 0 {
		*pace = e.config.Interact.RemovalPaceDuration()
	}
	if *window == 0 {
		*window = e.config.Interact.DedupeWindowDuration()
	}
}

func (e *Engine) track(widget, messageID string) string {
	key := router.CustomID{Widget: widget, MessageID: messageID}.Encode()
	e.mu.Lock()
	e.active[key] = struct{}{}
	e.mu.Unlock()
	logger.WithFields(logrus.Fields{"widget": widget, "message": messageID}).Debug("widget-session-opened")
	return key
}

func (e *Engine) untrack(key string) {
	e.mu.Lock()
	delete(e.active, key)
	e.mu.Unlock()
	if id, err := router.DecodeCustomID(key); err == nil {
		logger.WithFields(logrus.Fields{"widget": id.Widget, "message": id.MessageID}).Debug("widget-session-closed")
	}
}

// helpResponder lists the registered commands.
func (e *Engine) helpResponder(req router.Request) (*messenger.Renderable, error) {
	var b strings.Builder
	for _, name := range e.registry.Names() {
		fmt.Fprintf(&b, "`%s%s`\n", e.config.CommandPrefix, name)
	}
	return &messenger.Renderable{
		Title:       "Commands",
		Description: strings.TrimRight(b.String(), "\n"),
	}, nil
}
