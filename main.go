package main

import (
	"forums-bot/bot"
	"forums-bot/command"
	"forums-bot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.AllCommands)
}
