package bot

import (
	"context"
	"time"

	"github.com/pfrederiksen/countdown-bot/internal/logger"
	"github.com/pfrederiksen/countdown-bot/internal/telegram"
)

// retryDelay is the pause after a failed getUpdates call
var retryDelay = 5 * time.Second

// sweepInterval is how often unanswered prompts are checked for expiry
var sweepInterval = time.Second

// UpdateSource delivers incoming updates by long polling
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset, timeoutSeconds int) ([]telegram.Update, error)
}

// Run long-polls source and handles each message until ctx is cancelled.
// Updates are handled one at a time in arrival order.
func (b *Bot) Run(ctx context.Context, source UpdateSource, pollTimeout int) error {
	logger.Info("Starting long polling loop", logger.Fields{
		"username":     b.username,
		"poll_timeout": pollTimeout,
	})

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		b.sweepLoop(ctx)
	}()
	defer func() { <-sweepDone }()

	offset := 0
	for {
		if ctx.Err() != nil {
			logger.Info("Polling loop stopped", nil)
			return nil
		}

		start := time.Now()
		updates, err := source.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Polling loop stopped", nil)
				return nil
			}
			logger.IncrCounter("errors.get_updates")
			logger.Error("Error getting updates", nil, err)
			if !sleep(ctx, retryDelay) {
				return nil
			}
			continue
		}
		logger.RecordTiming("telegram.get_updates", time.Since(start))

		if len(updates) == 0 {
			continue
		}

		logger.Debug("Processing updates", logger.Fields{"count": len(updates)})
		b.ExpireConversations(ctx)

		for _, update := range updates {
			if update.Message != nil {
				b.HandleMessage(ctx, update.Message)
			}
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
		}
	}
}

func (b *Bot) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.ExpireConversations(ctx)
		}
	}
}

// sleep waits for d and reports false if ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
