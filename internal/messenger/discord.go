package messenger

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/kamdyne/embednav/internal/logger"
)

// discordSession is the slice of discordgo.Session the adapter needs.
// Narrowed so tests can substitute a mock without a live gateway connection.
type discordSession interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveAll(channelID, messageID string, options ...discordgo.RequestOption) error
}

// DiscordMessenger implements Messenger on top of a Discord gateway session.
type DiscordMessenger struct {
	mu      sync.RWMutex
	token   string
	session discordSession
	self    Actor
}

// NewDiscordMessenger creates a Discord messenger. The session is established
// in Start.
func NewDiscordMessenger(token string) *DiscordMessenger {
	return &DiscordMessenger{token: token}
}

// Start opens the gateway connection and begins delivering incoming text
// messages to onMessage. Bot-authored messages are filtered out.
func (d *DiscordMessenger) Start(onMessage func(TextMessage)) error {
	logger.WithField("token", maskSecret(d.token)).Info("starting-discord-messenger")

	session, err := discordgo.New("Bot " + d.token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentMessageContent

	d.mu.Lock()
	d.session = session
	d.mu.Unlock()

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		d.mu.Lock()
		d.self = Actor{ID: r.User.ID, Name: r.User.Username, Bot: true}
		d.mu.Unlock()
		logger.WithField("user", r.User.Username).Info("discord-gateway-ready")
	})

	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if onMessage == nil {
			return
		}
		onMessage(TextMessage{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			Content:   m.Content,
			Actor:     Actor{ID: m.Author.ID, Name: m.Author.Username},
		})
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (d *DiscordMessenger) Stop() error {
	d.mu.Lock()
	session := d.session
	d.session = nil
	d.mu.Unlock()

	if session == nil {
		return nil
	}
	if err := session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

// Self returns the bot's own identity. Zero value before the gateway is ready.
func (d *DiscordMessenger) Self() Actor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.self
}

func (d *DiscordMessenger) getSession() (discordSession, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.session == nil {
		return nil, fmt.Errorf("discord session not initialized")
	}
	return d.session, nil
}

// SendRenderable posts an embed to a channel.
func (d *DiscordMessenger) SendRenderable(channelID string, r *Renderable) (*Message, error) {
	session, err := d.getSession()
	if err != nil {
		return nil, err
	}
	msg, err := session.ChannelMessageSendEmbed(channelID, toEmbed(r))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return &Message{ID: msg.ID, ChannelID: msg.ChannelID}, nil
}

// EditRenderable replaces the embed of an existing message.
func (d *DiscordMessenger) EditRenderable(msg *Message, r *Renderable) (*Message, error) {
	session, err := d.getSession()
	if err != nil {
		return nil, err
	}
	edited, err := session.ChannelMessageEditEmbed(msg.ChannelID, msg.ID, toEmbed(r))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMessageGone
		}
		return nil, fmt.Errorf("failed to edit message %s: %w", msg.ID, err)
	}
	return &Message{ID: edited.ID, ChannelID: edited.ChannelID}, nil
}

// DeleteMessage removes a message. Already-deleted messages are a no-op.
func (d *DiscordMessenger) DeleteMessage(msg *Message) error {
	session, err := d.getSession()
	if err != nil {
		return err
	}
	if err := session.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete message %s: %w", msg.ID, err)
	}
	return nil
}

// ReactWith attaches the bot's own reaction to a message.
func (d *DiscordMessenger) ReactWith(msg *Message, sym Symbol) error {
	session, err := d.getSession()
	if err != nil {
		return err
	}
	if err := session.MessageReactionAdd(msg.ChannelID, msg.ID, sym.APIName()); err != nil {
		return fmt.Errorf("failed to react with %s: %w", sym.Key(), err)
	}
	return nil
}

// RemoveReaction removes one actor's reaction from a message.
func (d *DiscordMessenger) RemoveReaction(msg *Message, sym Symbol, actor Actor) error {
	session, err := d.getSession()
	if err != nil {
		return err
	}
	if err := session.MessageReactionRemove(msg.ChannelID, msg.ID, sym.APIName(), actor.ID); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove reaction %s: %w", sym.Key(), err)
	}
	return nil
}

// ClearReactions removes every reaction from a message.
func (d *DiscordMessenger) ClearReactions(msg *Message) error {
	session, err := d.getSession()
	if err != nil {
		return err
	}
	if err := session.MessageReactionsRemoveAll(msg.ChannelID, msg.ID); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to clear reactions on %s: %w", msg.ID, err)
	}
	return nil
}

// SubscribeReactions streams reaction-add events on one message. The bot's
// own reactions never pass the subscription.
func (d *DiscordMessenger) SubscribeReactions(msg *Message, pred func(Reaction) bool, opts SubscribeOptions) *ReactionSubscription {
	sub := NewReactionSubscription(opts)

	session, err := d.getSession()
	if err != nil {
		logger.WithField("error", err).Error("subscribe-reactions-without-session")
		sub.Cancel()
		return sub
	}

	remove := session.AddHandler(func(s *discordgo.Session, e *discordgo.MessageReactionAdd) {
		if e.MessageID != msg.ID {
			return
		}
		self := d.Self()
		if self.ID != "" && e.UserID == self.ID {
			return
		}
		r := Reaction{
			Symbol: Symbol{Name: e.Emoji.Name, ID: e.Emoji.ID},
			Actor:  Actor{ID: e.UserID},
		}
		if pred != nil && !pred(r) {
			return
		}
		sub.Offer(r)
	})
	sub.SetOnCancel(remove)
	return sub
}

// AwaitTextMessages streams matching text messages from one channel.
func (d *DiscordMessenger) AwaitTextMessages(channelID string, pred func(TextMessage) bool, opts SubscribeOptions) *TextSubscription {
	sub := NewTextSubscription(opts)

	session, err := d.getSession()
	if err != nil {
		logger.WithField("error", err).Error("await-text-without-session")
		sub.Cancel()
		return sub
	}

	remove := session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != channelID {
			return
		}
		if m.Author == nil || m.Author.Bot {
			return
		}
		tm := TextMessage{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			Content:   m.Content,
			Actor:     Actor{ID: m.Author.ID, Name: m.Author.Username},
		}
		if pred != nil && !pred(tm) {
			return
		}
		sub.Offer(tm)
	})
	sub.SetOnCancel(remove)
	return sub
}

// toEmbed converts a platform-neutral renderable to a Discord embed.
func toEmbed(r *Renderable) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       r.Title,
		Description: r.Description,
		Color:       r.Color,
	}
	for _, f := range r.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if r.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: r.ImageURL}
	}
	if r.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: r.Footer}
	}
	return embed
}

// isNotFound reports whether err is the platform's "unknown message" answer.
func isNotFound(err error) bool {
	restErr, ok := err.(*discordgo.RESTError)
	if !ok {
		return false
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
