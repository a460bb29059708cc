package forums

import (
	"github.com/bwmarrin/discordgo"
)

// Session is the subset of the discordgo REST surface used by the commands.
// *discordgo.Session satisfies it; tests use a recording fake.
type Session interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ForumThreadStartComplex(channelID string, threadData *discordgo.ThreadStart, messageData *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ThreadMemberAdd(threadID, memberID string, options ...discordgo.RequestOption) error
}

// StateSession serves channel lookups from the gateway state cache before
// falling back to REST, so guard checks on cached channels cost no requests.
type StateSession struct {
	*discordgo.Session
}

// NewStateSession wraps s.
func NewStateSession(s *discordgo.Session) *StateSession {
	return &StateSession{Session: s}
}

// CleanContent resolves user, role and channel mentions of m using the state
// cache.
func (s *StateSession) CleanContent(m *discordgo.Message) string {
	content, err := m.ContentWithMoreMentionsReplaced(s.Session)
	if err != nil {
		return m.ContentWithMentionsReplaced()
	}
	return content
}

// Channel returns the cached channel when the state has it.
func (s *StateSession) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if s.State != nil {
		if ch, err := s.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	return s.Session.Channel(channelID, options...)
}
