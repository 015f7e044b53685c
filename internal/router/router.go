package router

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kamdyne/embednav/internal/logger"
	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/sirupsen/logrus"
)

// Registry maps command names to responders. Built at startup and handed to
// the router; safe for concurrent lookup.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Responder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Responder)}
}

// Register binds a command name to a responder. Names are matched
// case-sensitively; duplicate or empty registrations are rejected.
func (r *Registry) Register(name string, rsp Responder) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("command name %q cannot contain whitespace", name)
	}
	if !rsp.valid() {
		return fmt.Errorf("responder for %q has no payload", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("command %q is already registered", name)
	}
	r.handlers[name] = rsp
	return nil
}

// Lookup finds the responder for a command name.
func (r *Registry) Lookup(name string) (Responder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rsp, ok := r.handlers[name]
	return rsp, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Router resolves incoming messages against a registry and sends the
// resolved reply back to the originating channel.
type Router struct {
	m        messenger.Messenger
	registry *Registry
	prefix   string
	allowed  func(actorID string) bool
}

// New creates a router. prefix is the command marker (for example "!");
// allowed, when non-nil, gates dispatch per actor.
func New(m messenger.Messenger, registry *Registry, prefix string, allowed func(actorID string) bool) (*Router, error) {
	if m == nil {
		return nil, fmt.Errorf("router requires a messenger")
	}
	if registry == nil {
		return nil, fmt.Errorf("router requires a registry")
	}
	if prefix == "" {
		return nil, fmt.Errorf("router requires a command prefix")
	}
	return &Router{m: m, registry: registry, prefix: prefix, allowed: allowed}, nil
}

// Dispatch routes one incoming message. Non-command messages and unknown
// commands are ignored silently; handler and send failures are logged.
func (rt *Router) Dispatch(msg messenger.TextMessage) {
	content := strings.TrimSpace(msg.Content)
	if !strings.HasPrefix(content, rt.prefix) {
		return
	}
	fields := strings.Fields(content[len(rt.prefix):])
	if len(fields) == 0 {
		return
	}
	name := fields[0]

	rsp, ok := rt.registry.Lookup(name)
	if !ok {
		return
	}

	if rt.allowed != nil && !rt.allowed(msg.Actor.ID) {
		logger.WithFields(logrus.Fields{
			"command": name,
			"actor":   msg.Actor.ID,
		}).Warn("command-rejected-by-whitelist")
		return
	}

	reply, err := rsp.Resolve(Request{Msg: msg, Args: fields[1:]})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"command": name,
			"error":   err,
		}).Error("command-handler-failed")
		return
	}
	if reply == nil {
		return
	}
	if _, err := rt.m.SendRenderable(msg.ChannelID, reply); err != nil {
		logger.WithFields(logrus.Fields{
			"command": name,
			"channel": msg.ChannelID,
			"error":   err,
		}).Error("command-reply-failed")
	}
}
