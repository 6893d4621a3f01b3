package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/countdown-bot/internal/bot"
	"github.com/pfrederiksen/countdown-bot/internal/clock"
	"github.com/pfrederiksen/countdown-bot/internal/conversation"
	"github.com/pfrederiksen/countdown-bot/internal/health"
	"github.com/pfrederiksen/countdown-bot/internal/logger"
	"github.com/pfrederiksen/countdown-bot/internal/telegram"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and long-poll Telegram for messages",
		Args:  cobra.NoArgs,
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	app, err := loadConfig()
	if err != nil {
		return err
	}
	if err := app.Validate(); err != nil {
		return err
	}

	store, err := openStore(app)
	if err != nil {
		return err
	}
	// Fail at startup rather than on the first command if the file is unreadable
	if _, err := store.Load(); err != nil {
		return fmt.Errorf("opening event store: %w", err)
	}

	client, err := telegram.NewClient(app.Telegram.Token)
	if err != nil {
		return fmt.Errorf("creating telegram client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	me, err := client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("checking bot token: %w", err)
	}

	logger.Info("Bot starting", logger.Fields{
		"username":  me.Username,
		"data_file": store.Path(),
		"timeout":   app.Conversation.Timeout.String(),
	})

	sysClock := clock.SystemClock{}
	conversations := conversation.NewManager(sysClock, app.Conversation.Timeout)
	b := bot.New(client, store, conversations, sysClock, me.Username)

	if app.HTTP.Addr != "" {
		srv := health.NewServer(app.HTTP.Addr, store, logger.GetMetricsSnapshot)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Error("Health server stopped", logger.Fields{"addr": app.HTTP.Addr}, err)
			}
		}()
	}

	if err := b.Run(ctx, client, app.Telegram.PollTimeout); err != nil {
		return err
	}
	logger.Info("Bot stopped", nil)
	return nil
}
