package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"forums-bot/forums"
	"forums-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// InteractionResponder answers interactions. *discordgo.Session satisfies it.
type InteractionResponder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// HandleDone handles the /done command. The first reply answers the
// interaction and later replies are followups; outcomes without a reply are
// acknowledged invisibly.
func HandleDone(svc *forums.Service, s InteractionResponder, i *discordgo.InteractionCreate) {
	responded := false
	inv := forums.Invocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Author:    interactionUser(i),
		Member:    i.Member,
		Reply:     slashReply(s, i, &responded),
	}

	outcome, err := svc.MarkDone(context.Background(), inv)
	if err != nil {
		reportError("MarkDone", fmt.Sprintf("channel %s: %v", i.ChannelID, err))
	} else {
		reportDone(inv, outcome)
	}

	if (err != nil || outcome.Silent()) && !responded {
		acknowledgeSilently(s, i)
	}
}

// slashReply answers the interaction on the first call and sends followups
// afterwards. responded is set once the interaction has been answered.
func slashReply(s InteractionResponder, i *discordgo.InteractionCreate, responded *bool) func(string) error {
	return func(content string) error {
		if !*responded {
			*responded = true
			return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{Content: content},
			})
		}
		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content})
		return err
	}
}

// acknowledgeSilently completes an interaction without leaving a visible reply.
func acknowledgeSilently(s InteractionResponder, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Printf("Error acknowledging interaction %s: %v", i.ID, err)
		return
	}
	if err := s.InteractionResponseDelete(i.Interaction); err != nil {
		log.Printf("Error deleting acknowledgement of interaction %s: %v", i.ID, err)
	}
}

func handleMessageDone(svc *forums.Service, m *discordgo.MessageCreate) {
	inv := messageInvocation(m)
	outcome, err := svc.MarkDone(context.Background(), inv)
	if err != nil {
		reportError("MarkDone", fmt.Sprintf("channel %s: %v", m.ChannelID, err))
		return
	}
	reportDone(inv, outcome)
}

func handleToHelp(svc *forums.Service, m *discordgo.MessageCreate) {
	thread, err := svc.MoveToHelp(context.Background(), messageInvocation(m))
	switch {
	case errors.Is(err, forums.ErrInvalidInvocation):
		log.Printf("Ignoring tohelp from %s in %s: %v", m.Author.ID, m.ChannelID, err)
	case err != nil:
		reportError("MoveToHelp", fmt.Sprintf("channel %s: %v", m.ChannelID, err))
	default:
		utils.Info("Forums", "MoveToHelp", fmt.Sprintf("%s moved a help request from <#%s> to <#%s>", m.Author.ID, m.ChannelID, thread.ID))
	}
}

func messageInvocation(m *discordgo.MessageCreate) forums.Invocation {
	return forums.Invocation{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		Author:     m.Author,
		Member:     m.Member,
		Reference:  m.MessageReference,
		Referenced: m.ReferencedMessage,
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func reportDone(inv forums.Invocation, outcome forums.Outcome) {
	if outcome != forums.OutcomeTagged && outcome != forums.OutcomeArchived {
		return
	}
	utils.Info("Forums", "MarkDone", fmt.Sprintf("<@%s> closed <#%s> (%s)", inv.Author.ID, inv.ChannelID, outcome))
}

func reportError(operation, details string) {
	log.Printf("Error in %s: %s", operation, details)
	utils.Error("Forums", operation, details)
}
