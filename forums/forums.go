// Package forums implements the forum thread commands: marking a thread done
// and moving a misplaced help request into the help forum.
package forums

import (
	"errors"
	"log"

	"forums-bot/models"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrInvalidInvocation is returned when tohelp is used outside a text
	// channel or without replying to a resolvable message.
	ErrInvalidInvocation = errors.New("invalid invocation")
	// ErrNotForum is returned when the configured help channel is not a forum.
	ErrNotForum = errors.New("help channel is not a forum")
	// ErrNothingToMove is returned when the collected run has no text or files.
	ErrNothingToMove = errors.New("nothing to move")
)

// Authorizer answers the permission questions asked by done.
type Authorizer interface {
	IsStaff(userID string, member *discordgo.Member, channelID string) bool
	HasRole(member *discordgo.Member, roleID string) bool
}

// ActionRecorder persists performed actions. It is optional.
type ActionRecorder interface {
	Record(action models.Action) error
}

// ContentCleaner renders the content of a message for copying, replacing
// mention markup with readable names.
type ContentCleaner func(m *discordgo.Message) string

// Invocation is a single command call, built from a message or an interaction.
type Invocation struct {
	GuildID   string
	ChannelID string
	// MessageID is the invoking message; empty for slash commands.
	MessageID string
	Author    *discordgo.User
	Member    *discordgo.Member
	// Reference and Referenced describe the message the command replied to.
	Reference  *discordgo.MessageReference
	Referenced *discordgo.Message
	// Reply answers the invoker. When nil, replies go to ChannelID.
	Reply func(content string) error
}

func (inv Invocation) authorID() string {
	if inv.Author == nil {
		return ""
	}
	return inv.Author.ID
}

// Service runs the forum commands against a Session.
type Service struct {
	session   Session
	auth      Authorizer
	fetcher   AttachmentFetcher
	clean     ContentCleaner
	closeTags CloseTags
	cfg       models.ForumsConfig
	actions   ActionRecorder
}

// Option configures a Service.
type Option func(*Service)

// WithActionRecorder records every tag, archive and move through r.
func WithActionRecorder(r ActionRecorder) Option {
	return func(s *Service) {
		s.actions = r
	}
}

// WithFetcher replaces the attachment fetcher.
func WithFetcher(f AttachmentFetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithContentCleaner replaces how copied message content is rendered. The
// default only resolves user mentions.
func WithContentCleaner(c ContentCleaner) Option {
	return func(s *Service) {
		s.clean = c
	}
}

// NewService creates a Service. closeTags must already be resolved.
func NewService(session Session, auth Authorizer, cfg models.ForumsConfig, closeTags CloseTags, opts ...Option) *Service {
	s := &Service{
		session:   session,
		auth:      auth,
		fetcher:   NewHTTPFetcher(nil),
		clean:     (*discordgo.Message).ContentWithMentionsReplaced,
		closeTags: closeTags,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) reply(inv Invocation, content string) error {
	if inv.Reply != nil {
		return inv.Reply(content)
	}
	_, err := s.session.ChannelMessageSend(inv.ChannelID, content)
	return err
}

func (s *Service) record(action models.Action) {
	if s.actions == nil {
		return
	}
	if err := s.actions.Record(action); err != nil {
		log.Printf("Failed to record %s action for thread %s: %v", action.Action, action.ThreadID, err)
	}
}
