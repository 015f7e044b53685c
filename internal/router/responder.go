// Package router routes incoming text commands to response-generating
// handlers and hands the result to the messaging collaborator.
//
// Handlers live in an explicit Registry constructed at startup; there is no
// package-level mutable state, so independent routers (and tests) cannot
// contaminate each other.
package router

import (
	"fmt"

	"github.com/kamdyne/embednav/internal/messenger"
)

// Request carries one dispatched command invocation.
type Request struct {
	// Msg is the triggering message.
	Msg messenger.TextMessage
	// Args are the whitespace-separated tokens after the command name.
	Args []string
}

// Responder produces the reply for a command. It is a tagged variant:
// either a static renderable or a function computing one per request,
// resolved exactly once at dispatch.
type Responder struct {
	static   *messenger.Renderable
	computed func(Request) (*messenger.Renderable, error)
}

// Static wraps a fixed reply.
func Static(r *messenger.Renderable) Responder {
	return Responder{static: r}
}

// Computed wraps a per-request reply generator.
func Computed(fn func(Request) (*messenger.Renderable, error)) Responder {
	return Responder{computed: fn}
}

// Resolve produces the reply for one request.
func (r Responder) Resolve(req Request) (*messenger.Renderable, error) {
	if r.computed != nil {
		return r.computed(req)
	}
	if r.static != nil {
		return r.static, nil
	}
	return nil, fmt.Errorf("responder has no payload")
}

// valid reports whether the responder carries either variant.
func (r Responder) valid() bool {
	return r.static != nil || r.computed != nil
}
