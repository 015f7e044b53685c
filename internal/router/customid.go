package router

import (
	"fmt"
	"strings"
)

// CustomID is a structured compound identifier for tracking widget sessions.
// The separator-based wire form is an implementation detail of Encode/Decode
// and never leaks past this codec.
type CustomID struct {
	// Widget names the owning widget kind, e.g. "paginator" or "selector".
	Widget string
	// MessageID is the message the widget session owns.
	MessageID string
	// Extra carries optional widget-specific payload.
	Extra string
}

// customIDSep is the unit separator; it cannot appear in Discord snowflakes
// or in the widget names this codebase uses.
const customIDSep = "\x1f"

// Encode packs the identifier into its wire form.
func (c CustomID) Encode() string {
	return c.Widget + customIDSep + c.MessageID + customIDSep + c.Extra
}

// DecodeCustomID unpacks a wire-form identifier. Payloads with the wrong
// field count or an empty widget name are rejected.
func DecodeCustomID(s string) (CustomID, error) {
	parts := strings.Split(s, customIDSep)
	if len(parts) != 3 {
		return CustomID{}, fmt.Errorf("malformed custom id: %d fields", len(parts))
	}
	if parts[0] == "" {
		return CustomID{}, fmt.Errorf("malformed custom id: empty widget")
	}
	return CustomID{Widget: parts[0], MessageID: parts[1], Extra: parts[2]}, nil
}
