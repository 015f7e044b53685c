package interact

import (
	"fmt"
	"sync"

	"github.com/kamdyne/embednav/internal/messenger"
)

// fakeMessenger is an in-memory Messenger for exercising the engines
// without a live platform connection. Test code feeds events through react
// and typeText; every remote write is recorded for assertions.
type fakeMessenger struct {
	mu      sync.Mutex
	self    messenger.Actor
	nextID  int
	gone    map[string]bool
	deleted map[string]bool

	sends     []sentMessage
	edits     []editRecord
	botReacts []reactRecord
	removals  []removeRecord
	cleared   []string

	rsubs []*reactionSubEntry
	tsubs []*textSubEntry
}

type sentMessage struct {
	Channel string
	Render  *messenger.Renderable
	Msg     *messenger.Message
}

type editRecord struct {
	MsgID  string
	Render *messenger.Renderable
}

type reactRecord struct {
	MsgID string
	Sym   messenger.Symbol
}

type removeRecord struct {
	MsgID string
	Sym   messenger.Symbol
	Actor messenger.Actor
}

type reactionSubEntry struct {
	msgID string
	pred  func(messenger.Reaction) bool
	sub   *messenger.ReactionSubscription
}

type textSubEntry struct {
	channel string
	pred    func(messenger.TextMessage) bool
	sub     *messenger.TextSubscription
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		self:    messenger.Actor{ID: "bot-1", Name: "embednav", Bot: true},
		gone:    make(map[string]bool),
		deleted: make(map[string]bool),
	}
}

func (f *fakeMessenger) Self() messenger.Actor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.self
}

func (f *fakeMessenger) SendRenderable(channelID string, r *messenger.Renderable) (*messenger.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := &messenger.Message{ID: fmt.Sprintf("m%d", f.nextID), ChannelID: channelID}
	f.sends = append(f.sends, sentMessage{Channel: channelID, Render: r, Msg: msg})
	return msg, nil
}

func (f *fakeMessenger) EditRenderable(msg *messenger.Message, r *messenger.Renderable) (*messenger.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone[msg.ID] || f.deleted[msg.ID] {
		return nil, messenger.ErrMessageGone
	}
	f.edits = append(f.edits, editRecord{MsgID: msg.ID, Render: r})
	return msg, nil
}

func (f *fakeMessenger) DeleteMessage(msg *messenger.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[msg.ID] = true
	return nil
}

func (f *fakeMessenger) ReactWith(msg *messenger.Message, sym messenger.Symbol) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.botReacts = append(f.botReacts, reactRecord{MsgID: msg.ID, Sym: sym})
	return nil
}

func (f *fakeMessenger) RemoveReaction(msg *messenger.Message, sym messenger.Symbol, actor messenger.Actor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removals = append(f.removals, removeRecord{MsgID: msg.ID, Sym: sym, Actor: actor})
	return nil
}

func (f *fakeMessenger) ClearReactions(msg *messenger.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, msg.ID)
	return nil
}

func (f *fakeMessenger) SubscribeReactions(msg *messenger.Message, pred func(messenger.Reaction) bool, opts messenger.SubscribeOptions) *messenger.ReactionSubscription {
	sub := messenger.NewReactionSubscription(opts)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rsubs = append(f.rsubs, &reactionSubEntry{msgID: msg.ID, pred: pred, sub: sub})
	return sub
}

func (f *fakeMessenger) AwaitTextMessages(channelID string, pred func(messenger.TextMessage) bool, opts messenger.SubscribeOptions) *messenger.TextSubscription {
	sub := messenger.NewTextSubscription(opts)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tsubs = append(f.tsubs, &textSubEntry{channel: channelID, pred: pred, sub: sub})
	return sub
}

// react simulates a human reaction arriving on msgID.
func (f *fakeMessenger) react(msgID string, r messenger.Reaction) {
	f.mu.Lock()
	subs := append([]*reactionSubEntry(nil), f.rsubs...)
	f.mu.Unlock()
	for _, e := range subs {
		if e.msgID != msgID {
			continue
		}
		if e.pred != nil && !e.pred(r) {
			continue
		}
		e.sub.Offer(r)
	}
}

// typeText simulates a human message arriving in a channel.
func (f *fakeMessenger) typeText(channelID string, tm messenger.TextMessage) {
	f.mu.Lock()
	subs := append([]*textSubEntry(nil), f.tsubs...)
	f.mu.Unlock()
	for _, e := range subs {
		if e.channel != channelID {
			continue
		}
		if e.pred != nil && !e.pred(tm) {
			continue
		}
		e.sub.Offer(tm)
	}
}

func (f *fakeMessenger) markGone(msgID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gone[msgID] = true
}

func (f *fakeMessenger) isDeleted(msgID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted[msgID]
}

func (f *fakeMessenger) reactionSubCount(msgID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.rsubs {
		if e.msgID == msgID {
			count++
		}
	}
	return count
}

func (f *fakeMessenger) textSubCount(channelID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.tsubs {
		if e.channel == channelID {
			count++
		}
	}
	return count
}

func (f *fakeMessenger) editCount(msgID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.edits {
		if e.MsgID == msgID {
			count++
		}
	}
	return count
}

func (f *fakeMessenger) editFooters(msgID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var footers []string
	for _, e := range f.edits {
		if e.MsgID == msgID {
			footers = append(footers, e.Render.Footer)
		}
	}
	return footers
}

func (f *fakeMessenger) editTitles(msgID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var titles []string
	for _, e := range f.edits {
		if e.MsgID == msgID {
			titles = append(titles, e.Render.Title)
		}
	}
	return titles
}

func (f *fakeMessenger) lastEdit(msgID string) *messenger.Renderable {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.edits) - 1; i >= 0; i-- {
		if f.edits[i].MsgID == msgID {
			return f.edits[i].Render
		}
	}
	return nil
}

func (f *fakeMessenger) removalCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.removals)
}

func (f *fakeMessenger) removalList() []removeRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]removeRecord(nil), f.removals...)
}

func (f *fakeMessenger) botReactSymbols(msgID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, r := range f.botReacts {
		if r.MsgID == msgID {
			names = append(names, r.Sym.Name)
		}
	}
	return names
}

func (f *fakeMessenger) clearCount(msgID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, id := range f.cleared {
		if id == msgID {
			count++
		}
	}
	return count
}

func (f *fakeMessenger) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

func (f *fakeMessenger) lastSend() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends[len(f.sends)-1]
}
