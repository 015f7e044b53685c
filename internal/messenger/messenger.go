// Package messenger defines the narrow messaging contract the interactive
// engines consume, plus the Discord adapter implementing it.
//
// The interface is deliberately platform-neutral: engines render pages as
// Renderable values, identify emoji as Symbol values, and receive input
// through cancellable subscriptions. Only the adapter in discord.go touches
// the concrete SDK types, mirroring how the rest of the codebase keeps
// platform specifics behind small mockable interfaces.
//
// # Delivery semantics
//
//   - Send/Edit return an error; an edit against a deleted message returns
//     ErrMessageGone so callers can treat it as a normal terminal condition.
//   - DeleteMessage is idempotent: deleting an already-gone message is a no-op.
//   - ReactWith and RemoveReaction are best-effort; callers are expected to
//     log and continue on failure.
//   - Subscriptions deliver events in arrival order and close on cancel,
//     timeout, or max-count.
package messenger

import "errors"

// ErrMessageGone reports that the target message no longer exists.
// Engines treat it as a terminal condition equivalent to timeout.
var ErrMessageGone = errors.New("messenger: message no longer exists")

// Messenger is the messaging collaborator consumed by the interactive
// engines. Implementations must be safe for concurrent use.
type Messenger interface {
	// Self returns the bot's own actor identity.
	Self() Actor

	// SendRenderable posts content to a channel and returns a handle.
	SendRenderable(channelID string, r *Renderable) (*Message, error)

	// EditRenderable replaces the message content in place.
	// Returns ErrMessageGone if the message was deleted externally.
	EditRenderable(msg *Message, r *Renderable) (*Message, error)

	// DeleteMessage removes a message. No-op if it is already gone.
	DeleteMessage(msg *Message) error

	// ReactWith attaches the bot's reaction to a message. Best-effort.
	ReactWith(msg *Message, sym Symbol) error

	// RemoveReaction removes one actor's reaction from a message. Best-effort.
	RemoveReaction(msg *Message, sym Symbol, actor Actor) error

	// ClearReactions removes every reaction from a message. Best-effort.
	ClearReactions(msg *Message) error

	// SubscribeReactions streams reaction-add events on a message that pass
	// pred, excluding the bot's own reactions.
	SubscribeReactions(msg *Message, pred func(Reaction) bool, opts SubscribeOptions) *ReactionSubscription

	// AwaitTextMessages streams text messages in a channel that pass pred,
	// excluding the bot's own messages.
	AwaitTextMessages(channelID string, pred func(TextMessage) bool, opts SubscribeOptions) *TextSubscription
}
