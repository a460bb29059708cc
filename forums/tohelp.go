package forums

import (
	"context"
	"fmt"
	"slices"
	"time"

	"forums-bot/models"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"
)

const (
	// runLookahead bounds how many messages after the reference are inspected.
	runLookahead = 20
	// maxThreadName is the platform limit on thread names.
	maxThreadName = 100
)

const relocationNotice = "<@%s> asking questions in the wrong place will get your question buried, " +
	"so make sure to create a thread in our help forum. That way, you can keep track of all relevant " +
	"information pertaining to your question. Your help request was thus moved to the appropriate channel under <#%s>"

// MoveToHelp copies the run of messages starting at the replied-to message
// into a new thread of the help forum and removes the originals.
func (s *Service) MoveToHelp(ctx context.Context, inv Invocation) (*discordgo.Channel, error) {
	opt := discordgo.WithContext(ctx)

	source, err := s.session.Channel(inv.ChannelID, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to look up channel %s: %w", inv.ChannelID, err)
	}
	if source.Type != discordgo.ChannelTypeGuildText && source.Type != discordgo.ChannelTypeGuildNews {
		return nil, fmt.Errorf("%w: channel %s is not a text channel", ErrInvalidInvocation, source.ID)
	}

	start, err := s.resolveReference(inv, opt)
	if err != nil {
		return nil, err
	}

	help, err := s.session.Channel(s.cfg.HelpChannel, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to look up help channel %s: %w", s.cfg.HelpChannel, err)
	}
	if help.Type != discordgo.ChannelTypeGuildForum {
		return nil, fmt.Errorf("%w: %s", ErrNotForum, help.ID)
	}

	run, err := s.collectRun(inv, start, opt)
	if err != nil {
		return nil, err
	}

	blocks, err := buildBlocks(ctx, s.fetcher, s.clean, run)
	if err != nil {
		return nil, fmt.Errorf("failed to build content for run starting at %s: %w", start.ID, err)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: run starting at %s has no content", ErrNothingToMove, start.ID)
	}

	thread, err := s.session.ForumThreadStartComplex(help.ID, &discordgo.ThreadStart{
		Name: threadName(displayName(start)),
	}, blocks[0].MessageSend(), opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread in help channel %s: %w", help.ID, err)
	}

	for _, block := range blocks[1:] {
		if _, err := s.session.ChannelMessageSendComplex(thread.ID, block.MessageSend(), opt); err != nil {
			return thread, fmt.Errorf("failed to copy message into thread %s: %w", thread.ID, err)
		}
	}

	ids := make([]string, len(run))
	for i, m := range run {
		ids[i] = m.ID
	}

	var g errgroup.Group
	g.Go(func() error {
		return s.deleteMessages(inv.ChannelID, ids, opt)
	})
	g.Go(func() error {
		if err := s.session.ThreadMemberAdd(thread.ID, start.Author.ID, opt); err != nil {
			return fmt.Errorf("failed to add %s to thread %s: %w", start.Author.ID, thread.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return thread, err
	}

	if _, err := s.session.ChannelMessageSend(inv.ChannelID, fmt.Sprintf(relocationNotice, start.Author.ID, thread.ID), opt); err != nil {
		return thread, fmt.Errorf("failed to send relocation notice to %s: %w", inv.ChannelID, err)
	}

	s.record(models.Action{
		Action:    models.ActionMoved,
		GuildID:   inv.GuildID,
		ChannelID: inv.ChannelID,
		ThreadID:  thread.ID,
		UserID:    inv.authorID(),
		Timestamp: time.Now().Unix(),
	})

	return thread, nil
}

// resolveReference returns the message the command replied to, fetching it
// when the gateway did not embed it.
func (s *Service) resolveReference(inv Invocation, opt discordgo.RequestOption) (*discordgo.Message, error) {
	ref := inv.Reference
	if ref == nil || ref.MessageID == "" {
		return nil, fmt.Errorf("%w: command must reply to the first message to move", ErrInvalidInvocation)
	}
	if ref.ChannelID != "" && ref.ChannelID != inv.ChannelID {
		return nil, fmt.Errorf("%w: referenced message %s is in another channel", ErrInvalidInvocation, ref.MessageID)
	}

	msg := inv.Referenced
	if msg == nil {
		fetched, err := s.session.ChannelMessage(inv.ChannelID, ref.MessageID, opt)
		if err != nil {
			return nil, fmt.Errorf("%w: referenced message %s: %w", ErrInvalidInvocation, ref.MessageID, err)
		}
		msg = fetched
	}
	if msg == nil || msg.Author == nil {
		return nil, fmt.Errorf("%w: referenced message %s could not be resolved", ErrInvalidInvocation, ref.MessageID)
	}
	return msg, nil
}

// collectRun returns start followed by the contiguous messages of the same
// author, stopping at another author or at the invoking message.
func (s *Service) collectRun(inv Invocation, start *discordgo.Message, opt discordgo.RequestOption) ([]*discordgo.Message, error) {
	after, err := s.session.ChannelMessages(inv.ChannelID, runLookahead, "", start.ID, "", opt)
	if err != nil {
		return nil, fmt.Errorf("failed to read history after %s: %w", start.ID, err)
	}

	slices.SortFunc(after, func(a, b *discordgo.Message) int {
		return compareSnowflakes(a.ID, b.ID)
	})

	run := []*discordgo.Message{start}
	for _, m := range after {
		if m.Author == nil || m.Author.ID != start.Author.ID || m.ID == inv.MessageID {
			break
		}
		run = append(run, m)
	}
	return run, nil
}

// deleteMessages removes the run. discordgo falls back to a single delete for
// one ID; bulk delete rejects messages older than 14 days.
func (s *Service) deleteMessages(channelID string, ids []string, opt discordgo.RequestOption) error {
	if err := s.session.ChannelMessagesBulkDelete(channelID, ids, opt); err != nil {
		return fmt.Errorf("failed to delete %d messages from %s: %w", len(ids), channelID, err)
	}
	return nil
}

func threadName(author string) string {
	name := []rune(author + "'s issue")
	if len(name) > maxThreadName {
		name = name[:maxThreadName]
	}
	return string(name)
}

// compareSnowflakes orders decimal snowflake IDs numerically.
func compareSnowflakes(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
