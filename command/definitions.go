package command

import "github.com/bwmarrin/discordgo"

// Names of the forum commands.
const (
	Done   = "done"
	ToHelp = "tohelp"
)

// DoneCommand defines the /done command. It is also available as a message
// command under the alias "close".
type DoneCommand struct{}

// Definition returns the application command definition.
func (c *DoneCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        Done,
		Description: "Mark this forum thread as done and archive it",
	}
}

// Aliases returns the message command names that invoke the command.
func (c *DoneCommand) Aliases() []string {
	return []string{Done, "close"}
}

// ToHelpCommand is message only: it must be sent as a reply to the first
// message of the run to move.
type ToHelpCommand struct{}

// Aliases returns the message command names that invoke the command.
func (c *ToHelpCommand) Aliases() []string {
	return []string{ToHelp}
}
