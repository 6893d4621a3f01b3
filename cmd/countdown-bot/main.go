package main

import "github.com/pfrederiksen/countdown-bot/internal/cli"

func main() {
	cli.Execute()
}
