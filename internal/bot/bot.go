package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/countdown-bot/internal/clock"
	"github.com/pfrederiksen/countdown-bot/internal/conversation"
	"github.com/pfrederiksen/countdown-bot/internal/event"
	"github.com/pfrederiksen/countdown-bot/internal/logger"
	"github.com/pfrederiksen/countdown-bot/internal/telegram"
)

// Messenger sends replies back to a chat
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}

// EventStore is the event list the commands operate on
type EventStore interface {
	Load() ([]event.Event, error)
	Add(evt event.Event) error
	RemoveAt(position int) (string, error)
}

// Bot dispatches messages to command handlers
type Bot struct {
	messenger     Messenger
	store         EventStore
	conversations *conversation.Manager
	clock         clock.Clock
	username      string
}

// New creates a Bot. username is the bot's own @handle, used to spot mentions
// and to accept /command@username in group chats; it may be empty.
func New(messenger Messenger, store EventStore, conversations *conversation.Manager, c clock.Clock, username string) *Bot {
	return &Bot{
		messenger:     messenger,
		store:         store,
		conversations: conversations,
		clock:         c,
		username:      username,
	}
}

// HandleMessage processes one incoming message
func (b *Bot) HandleMessage(ctx context.Context, msg *telegram.Message) {
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	key := conversation.Key{UserID: msg.From.ID, ChatID: msg.Chat.ID}
	text := strings.TrimSpace(msg.Text)

	if command, args, ok := b.parseCommand(text); ok {
		logger.Info("Command received", logger.Fields{
			"chat_id": msg.Chat.ID,
			"user_id": msg.From.ID,
			"command": command,
		})
		b.handleCommand(ctx, key, command, args)
		return
	}

	if session, ok := b.conversations.Get(key); ok {
		b.handleReply(ctx, session, text)
		return
	}

	if msg.Mentions(b.username) {
		b.reply(ctx, msg.Chat.ID, getHelpMessage())
		return
	}

	if msg.Chat.Type == "private" && text != "" {
		b.reply(ctx, msg.Chat.ID, privateHintMessage)
	}
}

// parseCommand splits "/cmd@bot arg..." or "!cmd arg..." into its parts.
// Commands addressed to a different bot are not ours.
func (b *Bot) parseCommand(text string) (string, []string, bool) {
	if len(text) < 2 || (text[0] != '/' && text[0] != '!') {
		return "", nil, false
	}

	parts := strings.Fields(text[1:])
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at >= 0 {
		target := command[at+1:]
		if b.username != "" && !strings.EqualFold(target, b.username) {
			return "", nil, false
		}
		command = command[:at]
	}

	return command, parts[1:], true
}

// handleCommand routes a command. /add and /delete replace any prompt the
// user already had open in this chat.
func (b *Bot) handleCommand(ctx context.Context, key conversation.Key, command string, args []string) {
	chatID := key.ChatID

	switch command {
	case "ping":
		logger.IncrCounter("commands.ping")
		b.reply(ctx, chatID, pongMessage)

	case "start", "help":
		logger.IncrCounter("commands.help")
		b.reply(ctx, chatID, getHelpMessage())

	case "events":
		logger.IncrCounter("commands.events")
		b.reply(ctx, chatID, getEventsMenu())

	case "list", "list_events":
		logger.IncrCounter("commands.list")
		b.handleList(ctx, chatID)

	case "add", "add_event":
		logger.IncrCounter("commands.add")
		b.startAdd(ctx, key, strings.Join(args, " "))

	case "delete", "remove", "delete_event", "remove_event":
		logger.IncrCounter("commands.delete")
		b.startDelete(ctx, key, args)

	case "countdown":
		logger.IncrCounter("commands.countdown")
		b.handleCountdown(ctx, chatID)

	case "export":
		logger.IncrCounter("commands.export")
		b.handleExport(ctx, chatID)

	case "cancel":
		logger.IncrCounter("commands.cancel")
		if _, ok := b.conversations.Cancel(key); ok {
			b.reply(ctx, chatID, abortedMessage)
		} else {
			b.reply(ctx, chatID, nothingToCancel)
		}

	default:
		logger.IncrCounter("commands.unknown")
		b.reply(ctx, chatID, unknownCommandMessage(command))
	}
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	events, err := b.store.Load()
	if err != nil {
		b.fail(ctx, chatID, "Loading events failed", err)
		return
	}
	b.reply(ctx, chatID, event.FormatEventList(events))
}

func (b *Bot) handleCountdown(ctx context.Context, chatID int64) {
	events, err := b.store.Load()
	if err != nil {
		b.fail(ctx, chatID, "Loading events failed", err)
		return
	}
	b.reply(ctx, chatID, event.FormatCountdownList(events, b.clock.Now()))
}

// ExpireConversations drops prompts nobody answered in time and tells their users
func (b *Bot) ExpireConversations(ctx context.Context) {
	for _, s := range b.conversations.Sweep() {
		logger.IncrCounter("conversations.expired")
		logger.Info("Conversation expired", logger.Fields{
			"session_id": s.ID,
			"chat_id":    s.Key.ChatID,
			"user_id":    s.Key.UserID,
			"kind":       string(s.Kind),
			"state":      string(s.State),
		})
		b.reply(ctx, s.Key.ChatID, timedOutMessage)
	}
	logger.SetGauge("conversations.active", float64(b.conversations.Len()))
}

// reply sends text, logging rather than returning send failures
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.messenger.SendMessage(ctx, chatID, text); err != nil {
		logger.Error("Sending reply failed", logger.Fields{"chat_id": chatID}, err)
	}
}

// fail logs a store failure and tells the user something went wrong.
// The failure ends the current command only.
func (b *Bot) fail(ctx context.Context, chatID int64, message string, err error) {
	logger.IncrCounter("errors.store")
	logger.Error(message, logger.Fields{"chat_id": chatID}, err)
	b.reply(ctx, chatID, genericErrorMessage)
}

func confirmAdded(evt event.Event, countdown string) string {
	return fmt.Sprintf("Added %s on %s (%s away).", evt.Name, evt.DateText(), countdown)
}
