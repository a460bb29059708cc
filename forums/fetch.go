package forums

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// AttachmentFetcher downloads a message attachment so it can be re-uploaded.
type AttachmentFetcher interface {
	Fetch(ctx context.Context, attachment *discordgo.MessageAttachment) (*discordgo.File, error)
}

// HTTPFetcher fetches attachments from the CDN.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher using client, or http.DefaultClient when nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// Fetch reads the whole attachment into memory.
func (f *HTTPFetcher) Fetch(ctx context.Context, attachment *discordgo.MessageAttachment) (*discordgo.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attachment.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for attachment %s: %w", attachment.ID, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment %s: %w", attachment.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download attachment %s: status %d", attachment.ID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment %s: %w", attachment.ID, err)
	}

	return &discordgo.File{
		Name:        attachment.Filename,
		ContentType: attachment.ContentType,
		Reader:      bytes.NewReader(data),
	}, nil
}
