package forums

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var errNotFound = errors.New("not found")

type sentMessage struct {
	ChannelID string
	Content   string
	Send      *discordgo.MessageSend
}

type createdThread struct {
	ForumID string
	Start   *discordgo.ThreadStart
	Message *discordgo.MessageSend
}

// fakeSession records every write and serves reads from maps.
type fakeSession struct {
	mu sync.Mutex

	channels map[string]*discordgo.Channel
	messages map[string]*discordgo.Message
	history  []*discordgo.Message

	edits        map[string]*discordgo.ChannelEdit
	sent         []sentMessage
	threads      []createdThread
	deleted      map[string][]string
	members      map[string][]string
	historyCalls int
	nextThreadID int

	editErr   error
	createErr error
}

func newFakeSession(channels ...*discordgo.Channel) *fakeSession {
	f := &fakeSession{
		channels:     make(map[string]*discordgo.Channel),
		messages:     make(map[string]*discordgo.Message),
		edits:        make(map[string]*discordgo.ChannelEdit),
		deleted:      make(map[string][]string),
		members:      make(map[string][]string),
		nextThreadID: 9000,
	}
	for _, ch := range channels {
		f.channels[ch.ID] = ch
	}
	return f
}

func (f *fakeSession) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits) + len(f.sent) + len(f.threads) + len(f.deleted) + len(f.members)
}

func (f *fakeSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, errNotFound)
	}
	return ch, nil
}

func (f *fakeSession) ChannelEdit(channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits[channelID] = data
	return f.channels[channelID], nil
}

func (f *fakeSession) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", messageID, errNotFound)
	}
	return m, nil
}

// ChannelMessages returns up to limit messages after afterID, newest first.
func (f *fakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++

	var after []*discordgo.Message
	for _, m := range f.history {
		if compareSnowflakes(m.ID, afterID) > 0 {
			after = append(after, m)
		}
	}
	if len(after) > limit {
		after = after[:limit]
	}

	out := make([]*discordgo.Message, len(after))
	for i, m := range after {
		out[len(after)-1-i] = m
	}
	return out, nil
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Send: data})
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeSession) ChannelMessagesBulkDelete(channelID string, messages []string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[channelID] = append(f.deleted[channelID], messages...)
	return nil
}

func (f *fakeSession) ForumThreadStartComplex(channelID string, threadData *discordgo.ThreadStart, messageData *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.threads = append(f.threads, createdThread{ForumID: channelID, Start: threadData, Message: messageData})
	f.nextThreadID++
	return &discordgo.Channel{
		ID:       fmt.Sprint(f.nextThreadID),
		ParentID: channelID,
		Name:     threadData.Name,
		Type:     discordgo.ChannelTypeGuildPublicThread,
	}, nil
}

func (f *fakeSession) ThreadMemberAdd(threadID, memberID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[threadID] = append(f.members[threadID], memberID)
	return nil
}

// fakeAuth grants staff to listed users and roles to listed members. When
// channel is set, staff rights only hold in that channel.
type fakeAuth struct {
	staff   map[string]bool
	channel string
}

func (a fakeAuth) IsStaff(userID string, _ *discordgo.Member, channelID string) bool {
	if a.channel != "" && a.channel != channelID {
		return false
	}
	return a.staff[userID]
}

func (a fakeAuth) HasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// fakeFetcher returns the attachment URL as file content.
type fakeFetcher struct {
	mu      sync.Mutex
	fetched []string
	fail    bool
}

func (f *fakeFetcher) Fetch(_ context.Context, a *discordgo.MessageAttachment) (*discordgo.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("cdn unavailable")
	}
	f.fetched = append(f.fetched, a.ID)
	return &discordgo.File{Name: a.Filename, Reader: strings.NewReader(a.URL)}, nil
}
