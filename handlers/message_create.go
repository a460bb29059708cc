package handlers

import (
	"strings"

	"forums-bot/bot"
	"forums-bot/command"
	"forums-bot/config"

	"github.com/bwmarrin/discordgo"
)

// MessageCreate will be called every time a new message is created on any channel that the authenticated bot has access to.
func MessageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}

		name, ok := parseCommand(m.Content, config.Prefix())
		if !ok {
			return
		}

		svc := b.Forums()
		if svc == nil {
			return
		}

		switch name {
		case command.Done:
			handleMessageDone(svc, m)
		case command.ToHelp:
			handleToHelp(svc, m)
		}
	}
}

// parseCommand returns the canonical command named by a prefixed message.
// Anything after the command name is ignored.
func parseCommand(content, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", false
	}
	return command.Resolve(fields[0])
}
