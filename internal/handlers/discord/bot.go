package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/slitherbot/slither/internal/models"
	"github.com/slitherbot/slither/internal/services/game"
	"github.com/slitherbot/slither/internal/services/messaging"
)

// Button custom IDs. The roll button carries the team ID after the
// separator so a click can be routed without extra lookups.
const (
	ButtonRoll      = "snakes_roll"
	ButtonStandings = "snakes_standings"

	customIDSeparator = ":"
)

// Bot represents the Discord bot instance
type Bot struct {
	session          *discordgo.Session
	commands         map[string]CommandHandler
	commandIDs       map[string]string
	gameService      game.Service
	messagingService messaging.Service
	logger           zerolog.Logger
	config           *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Session reuses an existing Discord session. When nil a session is
	// created from Token.
	Session *discordgo.Session

	// Token is the Discord bot token. Ignored when Session is set.
	Token string

	// ApplicationID for the bot. Falls back to the session user ID.
	ApplicationID string

	// GuildID scopes command registration to one guild during development
	GuildID string

	// GameService drives the board
	GameService game.Service

	// MessagingService writes the bot's flavor text
	MessagingService messaging.Service

	// Logger is the bot's structured logger
	Logger zerolog.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil && cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	session := cfg.Session
	if session == nil {
		var err error
		session, err = discordgo.New("Bot " + cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
	}

	bot := &Bot{
		session:          session,
		commands:         make(map[string]CommandHandler),
		commandIDs:       make(map[string]string),
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		logger:           cfg.Logger,
		config:           cfg,
	}

	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Session exposes the underlying Discord session for collaborators that
// post outside the interaction flow, such as the announcer.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Start opens the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	snakesCmd := NewSnakesCommand(b.gameService, b.messagingService, b.logger)
	if err := b.RegisterCommand(snakesCmd); err != nil {
		return fmt.Errorf("failed to register snakes command: %w", err)
	}

	b.logger.Info().Msg("bot is running")
	return nil
}

// Stop removes registered commands and closes the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.logger.Warn().Err(err).Str("command", cmdName).Msg("failed to delete command")
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info().
		Str("command", cmd.GetName()).
		Str("command_id", createdCmd.ID).
		Str("guild_id", b.config.GuildID).
		Msg("registered command")

	return nil
}

// handleInteraction routes Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.logger.Error().Err(err).
					Str("command", i.ApplicationCommandData().Name).
					Msg("command handler failed")
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.logger.Error().Err(err).Msg("component handler failed")
		}
	}
}

// handleComponentInteraction handles button clicks
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID
	action, arg, _ := strings.Cut(customID, customIDSeparator)

	switch action {
	case ButtonRoll:
		return b.handleRollButton(s, i, arg)
	case ButtonStandings:
		return b.handleStandingsButton(s, i, arg)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
}

// handleRollButton rolls for the team encoded in the button's custom ID
func (b *Bot) handleRollButton(s *discordgo.Session, i *discordgo.InteractionCreate, teamID string) error {
	ctx := context.Background()

	resolved, err := b.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	})
	if err != nil {
		if errors.Is(err, game.ErrGameNotFound) {
			return RespondWithEphemeralMessage(s, i, "No game in this channel. Use `/snakes create` to set one up.")
		}
		return RespondWithError(s, i, "Could not look up the game.")
	}

	snapshot, err := b.gameService.GetGame(ctx, &game.GetGameInput{GameID: resolved.Game.ID})
	if err != nil {
		return respondWithServiceError(s, i, b.messagingService, err)
	}

	teamName := teamNameByID(snapshot.Teams, teamID)

	output, err := b.gameService.Roll(ctx, &game.RollInput{
		GameID:   resolved.Game.ID,
		TeamID:   teamID,
		RolledBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, b.messagingService, err)
	}

	return renderRollResponse(ctx, s, i, b.messagingService, output, teamName)
}

// handleStandingsButton shows the standings for the game in the channel
func (b *Bot) handleStandingsButton(s *discordgo.Session, i *discordgo.InteractionCreate, gameID string) error {
	ctx := context.Background()

	standings, err := b.gameService.GetStandings(ctx, &game.GetStandingsInput{GameID: gameID})
	if err != nil {
		return respondWithServiceError(s, i, b.messagingService, err)
	}

	return RespondWithEmbed(s, i, renderStandingsEmbed(standings.Standings))
}

// teamNameByID resolves a team's display name for user-facing text,
// falling back to the ID when the team is unknown
func teamNameByID(teams []*models.Team, teamID string) string {
	for _, team := range teams {
		if team.ID == teamID {
			return team.Name
		}
	}
	return teamID
}

// interactionUserID returns the acting user for a guild or DM interaction
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
