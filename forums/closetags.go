package forums

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// ChannelLookup resolves a channel by ID.
type ChannelLookup interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// CloseTags maps a closeable forum channel ID to its resolved close tag.
// A channel without an entry gets archived without tagging.
type CloseTags struct {
	tags map[string]discordgo.ForumTag
}

// ResolveCloseTags looks up every configured forum and keeps the tag whose
// name matches exactly. Unknown channels, non-forum channels and missing tag
// names are skipped without error.
func ResolveCloseTags(lookup ChannelLookup, closeable map[string]string) CloseTags {
	tags := make(map[string]discordgo.ForumTag)
	for channelID, tagName := range closeable {
		if tagName == "" {
			continue
		}

		channel, err := lookup.Channel(channelID)
		if err != nil || channel == nil {
			log.Printf("Closeable channel %s could not be resolved, skipping close tag: %v", channelID, err)
			continue
		}
		if channel.Type != discordgo.ChannelTypeGuildForum {
			continue
		}

		for _, tag := range channel.AvailableTags {
			if tag.Name == tagName {
				tags[channelID] = tag
				break
			}
		}
	}
	return CloseTags{tags: tags}
}

// Lookup returns the close tag for channelID.
func (c CloseTags) Lookup(channelID string) (discordgo.ForumTag, bool) {
	tag, ok := c.tags[channelID]
	return tag, ok
}

// Len returns the number of resolved tags.
func (c CloseTags) Len() int {
	return len(c.tags)
}
