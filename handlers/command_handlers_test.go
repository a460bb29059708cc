package handlers

import (
	"errors"
	"testing"

	"forums-bot/forums"
	"forums-bot/models"
	"forums-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	forumID  = "100"
	threadID = "120"
	textID   = "130"
	ownerID  = "1"
	otherID  = "2"
	closeTag = "t-done"
)

var errUnknownChannel = errors.New("unknown channel")

// threadSession serves channels from a map and records thread edits.
type threadSession struct {
	channels map[string]*discordgo.Channel
	edits    map[string]*discordgo.ChannelEdit
	sent     []string
}

func (f *threadSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errUnknownChannel
	}
	return ch, nil
}

func (f *threadSession) ChannelEdit(channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.edits[channelID] = data
	return f.channels[channelID], nil
}

func (f *threadSession) ChannelMessage(string, string, ...discordgo.RequestOption) (*discordgo.Message, error) {
	return nil, errors.New("not supported")
}

func (f *threadSession) ChannelMessages(string, int, string, string, string, ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	return nil, nil
}

func (f *threadSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (f *threadSession) ChannelMessageSendComplex(channelID string, _ *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *threadSession) ChannelMessagesBulkDelete(string, []string, ...discordgo.RequestOption) error {
	return nil
}

func (f *threadSession) ForumThreadStartComplex(string, *discordgo.ThreadStart, *discordgo.MessageSend, ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return nil, errors.New("not supported")
}

func (f *threadSession) ThreadMemberAdd(string, string, ...discordgo.RequestOption) error {
	return nil
}

// responder records the interaction calls in order.
type responder struct {
	calls     []string
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams
}

func (r *responder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.calls = append(r.calls, "respond")
	r.responses = append(r.responses, resp)
	return nil
}

func (r *responder) InteractionResponseDelete(*discordgo.Interaction, ...discordgo.RequestOption) error {
	r.calls = append(r.calls, "delete")
	return nil
}

func (r *responder) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.calls = append(r.calls, "followup")
	r.followups = append(r.followups, data)
	return &discordgo.Message{}, nil
}

func doneService(applied ...string) (*threadSession, *forums.Service) {
	session := &threadSession{
		channels: map[string]*discordgo.Channel{
			forumID: {
				ID:            forumID,
				Type:          discordgo.ChannelTypeGuildForum,
				AvailableTags: []discordgo.ForumTag{{ID: closeTag, Name: "Done"}},
			},
			threadID: {
				ID:          threadID,
				ParentID:    forumID,
				OwnerID:     ownerID,
				Type:        discordgo.ChannelTypeGuildPublicThread,
				AppliedTags: applied,
			},
			textID: {ID: textID, Type: discordgo.ChannelTypeGuildText},
		},
		edits: make(map[string]*discordgo.ChannelEdit),
	}
	cfg := models.ForumsConfig{Closeable: map[string]string{forumID: "Done"}}
	tags := forums.ResolveCloseTags(session, cfg.Closeable)
	return session, forums.NewService(session, utils.NewAuth(models.AuthConfig{}, nil), cfg, tags)
}

func slashDone(channelID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "g",
		ChannelID: channelID,
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
	}}
}

func assertSilentAck(t *testing.T, r *responder) {
	t.Helper()
	require.Equal(t, []string{"respond", "delete"}, r.calls)
	resp := r.responses[0]
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, resp.Type)
	require.NotNil(t, resp.Data)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}

func TestHandleDoneTagged(t *testing.T) {
	session, svc := doneService()
	r := &responder{}

	HandleDone(svc, r, slashDone(threadID, ownerID))

	require.Equal(t, []string{"respond"}, r.calls)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, r.responses[0].Type)
	assert.Equal(t, "Marked this thread as :white_check_mark: done.", r.responses[0].Data.Content)
	assert.Empty(t, session.sent)
	require.NotNil(t, session.edits[threadID])
	assert.Equal(t, []string{closeTag}, *session.edits[threadID].AppliedTags)
}

func TestHandleDoneArchivedIsSilent(t *testing.T) {
	session, svc := doneService(closeTag)
	r := &responder{}

	HandleDone(svc, r, slashDone(threadID, ownerID))

	assertSilentAck(t, r)
	require.NotNil(t, session.edits[threadID])
	assert.True(t, *session.edits[threadID].Archived)
}

func TestHandleDoneOutsideThreadIsSilent(t *testing.T) {
	session, svc := doneService()
	r := &responder{}

	HandleDone(svc, r, slashDone(textID, ownerID))

	assertSilentAck(t, r)
	assert.Empty(t, session.edits)
}

func TestHandleDoneUnauthorizedIsSilent(t *testing.T) {
	session, svc := doneService()
	r := &responder{}

	HandleDone(svc, r, slashDone(threadID, otherID))

	assertSilentAck(t, r)
	assert.Empty(t, session.edits)
}

func TestHandleDoneErrorIsSilent(t *testing.T) {
	_, svc := doneService()
	r := &responder{}

	HandleDone(svc, r, slashDone("404", ownerID))

	assertSilentAck(t, r)
}

func TestSlashReplyFallsBackToFollowup(t *testing.T) {
	r := &responder{}
	reply := slashReply(r, slashDone(threadID, ownerID), new(bool))

	require.NoError(t, reply("first"))
	require.NoError(t, reply("second"))

	assert.Equal(t, []string{"respond", "followup"}, r.calls)
	assert.Equal(t, "first", r.responses[0].Data.Content)
	assert.Equal(t, "second", r.followups[0].Content)
}
