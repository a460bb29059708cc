package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"forums-bot/command"
	"forums-bot/config"
	"forums-bot/database"
	"forums-bot/forums"
	"forums-bot/models"
	"forums-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Bot encapsulates the bot's state.
type Bot struct {
	Session  *discordgo.Session
	Commands map[string]command.Command
	Config   models.Config
	Actions  *database.ActionLog

	forums atomic.Pointer[forums.Service]
	health *healthServer
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	token := config.Token()
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return &Bot{
		Session:  dg,
		Commands: make(map[string]command.Command),
		Config:   cfg,
	}, nil
}

// Forums returns the forum command service, or nil until Start has resolved
// the close tags.
func (b *Bot) Forums() *forums.Service {
	return b.forums.Load()
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []command.Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	if b.Config.Health.Address != "" {
		hs, err := startHealthServer(b.Config.Health.Address)
		if err != nil {
			return err
		}
		b.health = hs
	}

	registerHandlers(b)

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	utils.InitLogger(b.Session)

	if path := b.Config.Database.Path; path != "" {
		actions, err := database.NewActionLog(path)
		if err != nil {
			return fmt.Errorf("error opening action log: %w", err)
		}
		b.Actions = actions
		if n, err := actions.Count(); err == nil {
			log.Printf("Action log %s holds %d entries", path, n)
		}
	}

	b.forums.Store(b.newForumsService())

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd.Definition())
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", cmd.Definition().Name, err)
		}
	}

	if b.Actions != nil {
		startScheduler(b.Actions, b.Config.Database.RetentionDays)
	}

	b.health.SetServing(true)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

func (b *Bot) newForumsService() *forums.Service {
	session := forums.NewStateSession(b.Session)
	cfg := b.Config.Forums

	tags := forums.ResolveCloseTags(session, cfg.Closeable)
	log.Printf("Resolved close tags for %d of %d closeable channels", tags.Len(), len(cfg.Closeable))

	checkHelpChannel(session, cfg.HelpChannel)

	opts := []forums.Option{
		forums.WithFetcher(forums.NewHTTPFetcher(b.Session.Client)),
		forums.WithContentCleaner(session.CleanContent),
	}
	if b.Actions != nil {
		opts = append(opts, forums.WithActionRecorder(b.Actions))
	}

	auth := utils.NewAuth(b.Config.Auth, utils.SessionPermissions(b.Session))
	return forums.NewService(session, auth, cfg, tags, opts...)
}

// checkHelpChannel warns about a misconfigured help channel. tohelp reports
// the same problem as an error when it is used.
func checkHelpChannel(lookup forums.ChannelLookup, channelID string) {
	if channelID == "" {
		utils.Warn("Bot", "Startup", "forums.help_channel is not set; tohelp will fail")
		return
	}
	ch, err := lookup.Channel(channelID)
	if err != nil {
		utils.Warn("Bot", "Startup", fmt.Sprintf("help channel %s could not be resolved: %v", channelID, err))
		return
	}
	if ch.Type != discordgo.ChannelTypeGuildForum {
		utils.Warn("Bot", "Startup", fmt.Sprintf("help channel %s is not a forum channel", channelID))
	}
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	b.health.SetServing(false)
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Actions != nil {
		if err := b.Actions.Close(); err != nil {
			log.Printf("Error closing action log: %v", err)
		}
	}
	b.health.Stop()
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commands []command.Command) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	bot.RegisterCommands(commands)

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
