// Package bot implements the countdown bot's command surface.
//
// It routes incoming Telegram messages to command handlers, drives the multi-step
// add and delete prompts through the conversation package, and runs the long-polling
// loop that feeds updates in one at a time.
package bot
