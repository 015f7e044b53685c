// Package interact implements the reaction-driven interactive engines:
// filtered reaction consumption, serial monitoring, pagination, selection,
// and the trash guard that deletes a message on demand.
//
// Every engine owns its message, timers, and subscriptions for the lifetime
// of one session. Cancellation flows through context.Context and is honored
// before each wait and before each remote write. Transient remote failures
// are logged and swallowed so a single failed edit never aborts a session.
package interact

import (
	"github.com/kamdyne/embednav/internal/messenger"
)

// Constraint restricts which (actor, symbol) reaction events qualify.
// Four independent axes; all that are set must pass:
//
//   - Users: if non-empty, the actor ID must be a member.
//   - NotUsers: if non-empty, the actor ID must not be a member.
//   - Emoji: if non-empty, the symbol must match one entry by name or ID.
//   - NotEmoji: if non-empty, the symbol must match no entry by name or ID.
type Constraint struct {
	Users    []string
	NotUsers []string
	Emoji    []messenger.Symbol
	NotEmoji []messenger.Symbol
}

// Filter is a pure predicate over one reaction event.
type Filter func(r messenger.Reaction) bool

// Build compiles the constraint into a filter. The filter is deterministic
// and performs no I/O.
func (c Constraint) Build() Filter {
	allowUsers := toSet(c.Users)
	denyUsers := toSet(c.NotUsers)
	allowEmoji := append([]messenger.Symbol(nil), c.Emoji...)
	denyEmoji := append([]messenger.Symbol(nil), c.NotEmoji...)

	return func(r messenger.Reaction) bool {
		if len(allowUsers) > 0 {
			if _, ok := allowUsers[r.Actor.ID]; !ok {
				return false
			}
		}
		if len(denyUsers) > 0 {
			if _, ok := denyUsers[r.Actor.ID]; ok {
				return false
			}
		}
		if len(allowEmoji) > 0 && !matchesAny(r.Symbol, allowEmoji) {
			return false
		}
		if len(denyEmoji) > 0 && matchesAny(r.Symbol, denyEmoji) {
			return false
		}
		return true
	}
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// matchesAny checks the symbol against each candidate by name or ID.
// Custom emoji carry both forms; either match qualifies.
func matchesAny(sym messenger.Symbol, candidates []messenger.Symbol) bool {
	for _, c := range candidates {
		if c.Matches(sym) {
			return true
		}
	}
	return false
}
