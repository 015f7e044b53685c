package messenger

// Actor identifies a user or bot account on the platform.
type Actor struct {
	ID   string
	Name string
	Bot  bool
}

// Symbol is an emoji reference. Custom emoji carry both a display name and a
// platform-unique ID; plain unicode emoji have only a name.
type Symbol struct {
	Name string
	ID   string
}

// Sym builds a Symbol from a plain unicode emoji or display name.
func Sym(name string) Symbol {
	return Symbol{Name: name}
}

// Key returns the canonical identity used for dedupe sets and map keys.
// Custom emoji are keyed by ID because names are not unique across guilds.
func (s Symbol) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// APIName returns the emoji reference in the form the platform API expects:
// "name:id" for custom emoji, the bare emoji otherwise.
func (s Symbol) APIName() string {
	if s.ID != "" {
		return s.Name + ":" + s.ID
	}
	return s.Name
}

// Matches reports whether the other symbol refers to the same emoji,
// comparing by ID when both sides have one and by display name otherwise.
func (s Symbol) Matches(other Symbol) bool {
	if s.ID != "" && s.ID == other.ID {
		return true
	}
	return s.Name != "" && s.Name == other.Name
}

// Reaction is an actor's attachment of a symbol to a message.
type Reaction struct {
	Symbol Symbol
	Actor  Actor
}

// TextMessage is an incoming text message from the platform.
type TextMessage struct {
	ID        string
	ChannelID string
	Content   string
	Actor     Actor
}

// Message is a handle to a message the bot posted or edits.
type Message struct {
	ID        string
	ChannelID string
}
