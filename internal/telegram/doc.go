// Package telegram is a small Telegram Bot API client for the countdown bot.
//
// It covers what the bot needs: identifying itself (getMe), long polling for
// updates (getUpdates), plain-text replies (sendMessage) and file uploads
// (sendDocument). Requests are plain HTTPS calls with JSON or multipart bodies.
//
// Authentication requires a bot token from @BotFather.
package telegram
