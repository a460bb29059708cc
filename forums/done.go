package forums

import (
	"context"
	"fmt"
	"slices"
	"time"

	"forums-bot/models"

	"github.com/bwmarrin/discordgo"
)

// maxAppliedTags is the number of tags a forum thread can carry.
const maxAppliedTags = 5

const (
	refuseStarterMessage = "No."
	doneMessage          = "Marked this thread as :white_check_mark: done."
)

// Outcome describes what MarkDone did.
type Outcome int

const (
	// OutcomeIgnored means the invocation was out of context and nothing happened.
	OutcomeIgnored Outcome = iota
	// OutcomeUnauthorized means the invoker may not close the thread. Nothing happened.
	OutcomeUnauthorized
	// OutcomeRefused means done was used on the starter post and got a refusal.
	OutcomeRefused
	// OutcomeArchived means the thread was archived without a tag change.
	OutcomeArchived
	// OutcomeTagged means the close tag was applied and the thread archived.
	OutcomeTagged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeRefused:
		return "refused"
	case OutcomeArchived:
		return "archived"
	case OutcomeTagged:
		return "tagged"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Silent reports whether the outcome produced no visible response.
func (o Outcome) Silent() bool {
	return o == OutcomeIgnored || o == OutcomeUnauthorized || o == OutcomeArchived
}

// MarkDone tags and archives the thread the command was invoked in.
func (s *Service) MarkDone(ctx context.Context, inv Invocation) (Outcome, error) {
	thread, err := s.session.Channel(inv.ChannelID, discordgo.WithContext(ctx))
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("failed to look up channel %s: %w", inv.ChannelID, err)
	}

	if !thread.IsThread() {
		return OutcomeIgnored, nil
	}
	if !s.cfg.IsCloseable(thread.ParentID) {
		return OutcomeIgnored, nil
	}

	// The starter post of a forum thread shares the thread's ID.
	if inv.MessageID != "" && inv.MessageID == thread.ID {
		if err := s.reply(inv, refuseStarterMessage); err != nil {
			return OutcomeRefused, fmt.Errorf("failed to send refusal to thread %s: %w", thread.ID, err)
		}
		return OutcomeRefused, nil
	}

	if !s.canClose(inv, thread) {
		return OutcomeUnauthorized, nil
	}

	outcome := OutcomeArchived
	edit := &discordgo.ChannelEdit{Archived: boolPtr(true)}

	if tag, ok := s.closeTags.Lookup(thread.ParentID); ok && !slices.Contains(thread.AppliedTags, tag.ID) {
		tags := applyCloseTag(thread.AppliedTags, tag.ID)
		edit.AppliedTags = &tags
		outcome = OutcomeTagged

		if err := s.reply(inv, doneMessage); err != nil {
			return OutcomeIgnored, fmt.Errorf("failed to send done confirmation to thread %s: %w", thread.ID, err)
		}
	}

	if _, err := s.session.ChannelEdit(thread.ID, edit, discordgo.WithContext(ctx)); err != nil {
		return OutcomeIgnored, fmt.Errorf("failed to archive thread %s: %w", thread.ID, err)
	}

	action := models.ActionArchived
	if outcome == OutcomeTagged {
		action = models.ActionTagged
	}
	s.record(models.Action{
		Action:    action,
		GuildID:   inv.GuildID,
		ChannelID: thread.ParentID,
		ThreadID:  thread.ID,
		UserID:    inv.authorID(),
		Timestamp: time.Now().Unix(),
	})

	return outcome, nil
}

func (s *Service) canClose(inv Invocation, thread *discordgo.Channel) bool {
	userID := inv.authorID()
	if userID == "" {
		return false
	}
	if thread.OwnerID == userID {
		return true
	}
	if s.auth == nil {
		return false
	}
	return s.auth.IsStaff(userID, inv.Member, permissionChannel(thread)) || s.auth.HasRole(inv.Member, s.cfg.HelpfulRole)
}

// permissionChannel returns the channel whose overwrites govern a thread.
// Threads carry no overwrites of their own.
func permissionChannel(thread *discordgo.Channel) string {
	if thread.ParentID != "" {
		return thread.ParentID
	}
	return thread.ID
}

// applyCloseTag puts closeTag in front of at most the first four current tags.
func applyCloseTag(applied []string, closeTag string) []string {
	keep := applied
	if len(keep) > maxAppliedTags-1 {
		keep = keep[:maxAppliedTags-1]
	}
	tags := make([]string, 0, len(keep)+1)
	tags = append(tags, closeTag)
	return append(tags, keep...)
}

func boolPtr(b bool) *bool {
	return &b
}
