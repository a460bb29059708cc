package forums

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"
)

// Block is one outbound message while moving a run: either a text embed or a
// batch of files.
type Block struct {
	Embed *discordgo.MessageEmbed
	Files []*discordgo.File
}

// MessageSend converts the block into a send payload.
func (b Block) MessageSend() *discordgo.MessageSend {
	send := &discordgo.MessageSend{Files: b.Files}
	if b.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{b.Embed}
	}
	return send
}

// buildBlocks converts every message of the run concurrently and flattens the
// result, keeping message order and text before files within a message.
func buildBlocks(ctx context.Context, fetcher AttachmentFetcher, clean ContentCleaner, run []*discordgo.Message) ([]Block, error) {
	perMessage := make([][]Block, len(run))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range run {
		g.Go(func() error {
			blocks, err := messageBlocks(gctx, fetcher, clean, m)
			perMessage[i] = blocks
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var blocks []Block
	for _, b := range perMessage {
		blocks = append(blocks, b...)
	}
	return blocks, nil
}

func messageBlocks(ctx context.Context, fetcher AttachmentFetcher, clean ContentCleaner, m *discordgo.Message) ([]Block, error) {
	var blocks []Block

	if content := clean(m); content != "" {
		blocks = append(blocks, Block{Embed: &discordgo.MessageEmbed{
			Description: content,
			Timestamp:   m.Timestamp.Format(time.RFC3339),
			Author: &discordgo.MessageEmbedAuthor{
				Name:    displayName(m),
				IconURL: m.Author.AvatarURL(""),
			},
		}})
	}

	if len(m.Attachments) == 0 {
		return blocks, nil
	}

	files := make([]*discordgo.File, len(m.Attachments))
	g, gctx := errgroup.WithContext(ctx)
	for i, attachment := range m.Attachments {
		g.Go(func() error {
			file, err := fetcher.Fetch(gctx, attachment)
			files[i] = file
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(blocks, Block{Files: files}), nil
}

// displayName prefers the guild nickname, then the global name, then the username.
func displayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
