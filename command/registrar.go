package command

import "github.com/bwmarrin/discordgo"

// Command is an interface for application commands.
type Command interface {
	Definition() *discordgo.ApplicationCommand
}

// MessageCommand is a command invoked by a prefixed chat message.
type MessageCommand interface {
	Aliases() []string
}

// AllCommands holds all the application command instances.
var AllCommands = []Command{
	&DoneCommand{},
}

// AllMessageCommands holds all the message command instances.
var AllMessageCommands = []MessageCommand{
	&DoneCommand{},
	&ToHelpCommand{},
}

// Resolve maps a message command name or alias to its canonical name.
func Resolve(name string) (string, bool) {
	for _, cmd := range AllMessageCommands {
		aliases := cmd.Aliases()
		for _, alias := range aliases {
			if alias == name {
				return aliases[0], true
			}
		}
	}
	return "", false
}
