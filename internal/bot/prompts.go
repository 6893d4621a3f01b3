package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pfrederiksen/countdown-bot/internal/calendar"
	"github.com/pfrederiksen/countdown-bot/internal/conversation"
	"github.com/pfrederiksen/countdown-bot/internal/event"
	"github.com/pfrederiksen/countdown-bot/internal/logger"
	"github.com/pfrederiksen/countdown-bot/internal/storage"
)

const exportFilename = "events.ics"

func isQuit(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "q")
}

// startAdd opens an add prompt. "/add Birthday party" skips straight to the date.
func (b *Bot) startAdd(ctx context.Context, key conversation.Key, inlineName string) {
	b.conversations.Start(key, conversation.KindAdd)
	logger.SetGauge("conversations.active", float64(b.conversations.Len()))

	if strings.TrimSpace(inlineName) == "" {
		b.reply(ctx, key.ChatID, askNameMessage)
		return
	}
	b.acceptName(ctx, key, inlineName)
}

// startDelete shows the numbered list and asks which entry to remove.
// "/delete 2" removes straight away.
func (b *Bot) startDelete(ctx context.Context, key conversation.Key, args []string) {
	events, err := b.store.Load()
	if err != nil {
		b.conversations.Cancel(key)
		b.fail(ctx, key.ChatID, "Loading events failed", err)
		return
	}
	if len(events) == 0 {
		b.conversations.Cancel(key)
		b.reply(ctx, key.ChatID, event.NoEventsMessage)
		return
	}

	b.conversations.Start(key, conversation.KindDelete)
	logger.SetGauge("conversations.active", float64(b.conversations.Len()))

	if len(args) > 0 {
		b.acceptPosition(ctx, key, args[0])
		return
	}
	b.reply(ctx, key.ChatID, event.FormatEventList(events)+"\n\n"+askPositionMessage)
}

// handleReply feeds a plain message into the user's open prompt
func (b *Bot) handleReply(ctx context.Context, session conversation.Session, text string) {
	key := session.Key

	if isQuit(text) {
		b.conversations.Cancel(key)
		b.reply(ctx, key.ChatID, abortedMessage)
		return
	}

	switch session.State {
	case conversation.AwaitingName:
		b.acceptName(ctx, key, text)
	case conversation.AwaitingDate:
		b.acceptDate(ctx, session, text)
	case conversation.AwaitingPosition:
		b.acceptPosition(ctx, key, text)
	}
}

func (b *Bot) acceptName(ctx context.Context, key conversation.Key, text string) {
	name := strings.TrimSpace(text)

	switch err := event.ValidateName(name); {
	case errors.Is(err, event.ErrEmptyName):
		b.conversations.Touch(key)
		b.reply(ctx, key.ChatID, emptyNameMessage)
		return
	case errors.Is(err, event.ErrNameTooLong):
		b.conversations.Touch(key)
		b.reply(ctx, key.ChatID, nameTooLongMessage)
		return
	}

	if _, ok := b.conversations.SetName(key, name); !ok {
		return
	}
	b.reply(ctx, key.ChatID, askDateMessage)
}

// acceptDate re-prompts until it gets a valid date that is today or later
func (b *Bot) acceptDate(ctx context.Context, session conversation.Session, text string) {
	key := session.Key
	now := b.clock.Now()
	text = strings.TrimSpace(text)

	if !event.IsValidFutureDate(text, now) {
		b.conversations.Touch(key)
		b.reply(ctx, key.ChatID, invalidDateMessage)
		return
	}

	date, err := event.ParseDate(text)
	if err != nil {
		b.conversations.Touch(key)
		b.reply(ctx, key.ChatID, invalidDateMessage)
		return
	}

	evt := event.New(session.Name, date)
	if err := b.store.Add(evt); err != nil {
		b.conversations.Cancel(key)
		b.fail(ctx, key.ChatID, "Saving event failed", err)
		return
	}

	b.conversations.Complete(key)
	logger.IncrCounter("events.added")
	logger.Info("Event added", logger.Fields{
		"session_id": session.ID,
		"chat_id":    key.ChatID,
		"name":       evt.Name,
		"date":       evt.DateText(),
	})
	b.reply(ctx, key.ChatID, confirmAdded(evt, event.FormatCountdown(evt, now)))
}

// acceptPosition re-prompts on anything that is not a whole number.
// A number outside the list ends the prompt.
func (b *Bot) acceptPosition(ctx context.Context, key conversation.Key, text string) {
	position, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		b.conversations.Touch(key)
		b.reply(ctx, key.ChatID, invalidNumberMessage)
		return
	}

	name, err := b.store.RemoveAt(position)
	if err != nil {
		b.conversations.Cancel(key)
		if errors.Is(err, storage.ErrOutOfRange) {
			b.reply(ctx, key.ChatID, outOfRangeMessage)
			return
		}
		b.fail(ctx, key.ChatID, "Removing event failed", err)
		return
	}

	b.conversations.Complete(key)
	logger.IncrCounter("events.removed")
	logger.Info("Event removed", logger.Fields{
		"chat_id":  key.ChatID,
		"position": position,
		"name":     name,
	})
	b.reply(ctx, key.ChatID, fmt.Sprintf("Deleted %s.", name))
}

// handleExport uploads every event as an iCalendar attachment
func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	events, err := b.store.Load()
	if err != nil {
		b.fail(ctx, chatID, "Loading events failed", err)
		return
	}
	if len(events) == 0 {
		b.reply(ctx, chatID, event.NoEventsMessage)
		return
	}

	data := calendar.GenerateICS(events, b.clock.Now())
	caption := fmt.Sprintf("%d event(s). Open the file to add them to your calendar.", len(events))
	if err := b.messenger.SendDocument(ctx, chatID, exportFilename, []byte(data), caption); err != nil {
		logger.Error("Sending calendar failed", logger.Fields{"chat_id": chatID}, err)
		b.reply(ctx, chatID, genericErrorMessage)
	}
}
