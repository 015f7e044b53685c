package constants

import "time"

// Reaction consumption pacing
const (
	// RemovalPace is the steady-state interval between remote reaction removals.
	// Removals are serialized through a FIFO queue so at most one delete is in
	// flight per session, which keeps us under Discord's reaction rate limits.
	RemovalPace = 800 * time.Millisecond
	// DedupeWindow is how long a (symbol, actor) pair is remembered after being
	// accepted. A double-click inside this window enqueues only one removal.
	DedupeWindow = 500 * time.Millisecond
	// RemovalQueueSize is the buffer size of the per-session removal queue.
	RemovalQueueSize = 32
)

// Interactive session time budgets
const (
	// DefaultPageTimeBudget is the per-wait budget for pagination loops.
	DefaultPageTimeBudget = 2 * time.Minute
	// DefaultSelectTimeBudget is the per-wait budget for selection sessions.
	DefaultSelectTimeBudget = 2 * time.Minute
	// TrashGuardTimeout bounds how long a trash guard waits for a delete reaction.
	TrashGuardTimeout = 10 * time.Minute
	// ReactionClearGrace is the delay before clearing all reactions after a
	// selection resolves, so an in-flight removal is not raced.
	ReactionClearGrace = 1 * time.Second
)

// Navigation and cleanup symbols
const (
	// EmojiBack navigates one page backward.
	EmojiBack = "⬅️"
	// EmojiForward navigates one page forward.
	EmojiForward = "➡️"
	// EmojiReroll jumps to a uniformly random page.
	EmojiReroll = "🎲"
	// EmojiDiscard ends a consume-on-advance session on its last page.
	EmojiDiscard = "🗑️"
	// EmojiTrashAlt is the secondary delete symbol accepted by trash guards.
	EmojiTrashAlt = "❌"
)

// Discord embed limits
const (
	// MaxEmbedDescriptionLength is Discord's embed description character limit.
	MaxEmbedDescriptionLength = 4096
	// MaxEmbedFooterLength is Discord's embed footer character limit.
	MaxEmbedFooterLength = 2048
	// MaxSelectablesPerSession caps how many selectables one session may offer.
	MaxSelectablesPerSession = 500
)

// Subscription plumbing
const (
	// EventChannelBufferSize is the buffer size for subscription event channels.
	EventChannelBufferSize = 16
)

// Token masking
const (
	// MinTokenLengthForMasking is the minimum token length to apply masking
	MinTokenLengthForMasking = 10
	// TokenMaskPrefixLength is the length of prefix to show before masking
	TokenMaskPrefixLength = 7
	// TokenMaskSuffixLength is the length of suffix to show after masking
	TokenMaskSuffixLength = 4
)

// Logging defaults
const (
	// DefaultLogMaxSize is the default maximum log file size in MB
	DefaultLogMaxSize = 100
	// DefaultLogMaxAge is the default maximum number of days to retain old logs
	DefaultLogMaxAge = 30
)
