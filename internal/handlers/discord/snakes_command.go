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

// SnakesCommand handles the /snakes command
type SnakesCommand struct {
	BaseCommand
	gameService      game.Service
	messagingService messaging.Service
	logger           zerolog.Logger
}

// NewSnakesCommand creates a new snakes command handler
func NewSnakesCommand(gameService game.Service, messagingService messaging.Service, logger zerolog.Logger) *SnakesCommand {
	return &SnakesCommand{
		BaseCommand: BaseCommand{
			Name:        "snakes",
			Description: "Snakes and ladders community game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new game in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Name of the game",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "team_size",
							Description: "Maximum members per team",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "open",
					Description: "Open team registration",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "addteam",
					Description: "Register a team",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Team name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start the game",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "arm",
					Description: "Give a team its next roll",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "team",
							Description: "Team name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "roll",
					Description: "Roll the dice for a team",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "team",
							Description: "Team name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "standings",
					Description: "Show the current standings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "Show recent rolls",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "limit",
							Description: "Number of rolls to show",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the game status",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Reset the game",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "What to reset",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Full reset", Value: string(game.ResetTypeFull)},
								{Name: "Positions only", Value: string(game.ResetTypePositions)},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "abort",
					Description: "End the game without a winner",
				},
			},
		},
		gameService:      gameService,
		messagingService: messagingService,
		logger:           logger,
	}
}

// Handle processes a Discord interaction for the snakes command
func (c *SnakesCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	sub := data.Options[0]
	opts := commandOptions(sub.Options)

	switch sub.Name {
	case "create":
		return c.handleCreate(s, i, opts)
	case "open":
		return c.handleOpen(s, i)
	case "addteam":
		return c.handleAddTeam(s, i, opts)
	case "start":
		return c.handleStart(s, i)
	case "arm":
		return c.handleArm(s, i, opts)
	case "roll":
		return c.handleRoll(s, i, opts)
	case "standings":
		return c.handleStandings(s, i)
	case "history":
		return c.handleHistory(s, i, opts)
	case "status":
		return c.handleStatus(s, i)
	case "reset":
		return c.handleReset(s, i, opts)
	case "abort":
		return c.handleAbort(s, i)
	default:
		return errors.New("unknown subcommand")
	}
}

// commandOptions flattens subcommand options into a name lookup
func commandOptions(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	result := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		result[opt.Name] = opt
	}
	return result
}

// resolveGame finds the game bound to the interaction's channel
func (c *SnakesCommand) resolveGame(ctx context.Context, i *discordgo.InteractionCreate) (*models.Game, error) {
	output, err := c.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	})
	if err != nil {
		return nil, err
	}
	return output.Game, nil
}

// resolveTeam matches a team name within a game, case-insensitively
func (c *SnakesCommand) resolveTeam(ctx context.Context, gameID, teamName string) (*models.Team, error) {
	output, err := c.gameService.GetGame(ctx, &game.GetGameInput{GameID: gameID})
	if err != nil {
		return nil, err
	}

	for _, team := range output.Teams {
		if strings.EqualFold(team.Name, teamName) {
			return team, nil
		}
	}

	return nil, game.ErrTeamNotFound
}

func (c *SnakesCommand) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	input := &game.CreateGameInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Name:      opts["name"].StringValue(),
		CreatedBy: interactionUserID(i),
	}
	if opt, ok := opts["team_size"]; ok {
		input.MaxTeamSize = int(opt.IntValue())
	}

	output, err := c.gameService.CreateGame(ctx, input)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithEmbed(s, i, renderGameCreatedEmbed(output.Game))
}

func (c *SnakesCommand) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.OpenRegistration(ctx, &game.OpenRegistrationInput{
		GameID:      resolved.ID,
		RequestedBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf("Registration is open for **%s**! Moderators can add teams with `/snakes addteam`.", output.Game.Name))
}

func (c *SnakesCommand) handleAddTeam(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.AddTeam(ctx, &game.AddTeamInput{
		GameID:      resolved.ID,
		TeamName:    opts["name"].StringValue(),
		RequestedBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf("Team **%s** is on the board!", output.Team.Name))
}

func (c *SnakesCommand) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.StartGame(ctx, &game.StartGameInput{
		GameID:      resolved.ID,
		RequestedBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	statusMsg, err := c.messagingService.GetGameStatusMessage(ctx, &messaging.GetGameStatusMessageInput{
		GameStatus: output.Game.Status,
		GameName:   output.Game.Name,
		TeamCount:  len(output.Game.TeamIDs),
	})
	if err != nil {
		return RespondWithMessage(s, i, fmt.Sprintf("**%s** has started!", output.Game.Name))
	}

	return RespondWithMessage(s, i, statusMsg.Message)
}

func (c *SnakesCommand) handleArm(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	team, err := c.resolveTeam(ctx, resolved.ID, opts["team"].StringValue())
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.ArmTeam(ctx, &game.ArmTeamInput{
		TeamID:      team.ID,
		RequestedBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	rollButton := discordgo.Button{
		Label:    "Roll",
		Style:    discordgo.PrimaryButton,
		CustomID: ButtonRoll + customIDSeparator + output.Team.ID,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🎲",
		},
	}

	return RespondWithMessageAndButtons(s, i,
		fmt.Sprintf("**%s** may roll!", output.Team.Name),
		[]discordgo.MessageComponent{rollButton})
}

func (c *SnakesCommand) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	team, err := c.resolveTeam(ctx, resolved.ID, opts["team"].StringValue())
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.Roll(ctx, &game.RollInput{
		GameID:   resolved.ID,
		TeamID:   team.ID,
		RolledBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return renderRollResponse(ctx, s, i, c.messagingService, output, team.Name)
}

func (c *SnakesCommand) handleStandings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.GetStandings(ctx, &game.GetStandingsInput{GameID: resolved.ID})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithEmbed(s, i, renderStandingsEmbed(output.Standings))
}

func (c *SnakesCommand) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	input := &game.GetRollHistoryInput{GameID: resolved.ID}
	if opt, ok := opts["limit"]; ok {
		input.Limit = int(opt.IntValue())
	}

	output, err := c.gameService.GetRollHistory(ctx, input)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithEmbed(s, i, renderHistoryEmbed(resolved, output.Events))
}

func (c *SnakesCommand) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	statusMsg, err := c.messagingService.GetGameStatusMessage(ctx, &messaging.GetGameStatusMessageInput{
		GameStatus: resolved.Status,
		GameName:   resolved.Name,
		TeamCount:  len(resolved.TeamIDs),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithEmbed(s, i, renderGameStatusEmbed(resolved, statusMsg.Message))
}

func (c *SnakesCommand) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.ResetGame(ctx, &game.ResetGameInput{
		GameID:      resolved.ID,
		ResetType:   game.ResetType(opts["type"].StringValue()),
		RequestedBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf("**%s** has been reset. All teams are back on tile 0.", output.Game.Name))
}

func (c *SnakesCommand) handleAbort(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	resolved, err := c.resolveGame(ctx, i)
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	output, err := c.gameService.CompleteGame(ctx, &game.CompleteGameInput{
		GameID:      resolved.ID,
		RequestedBy: interactionUserID(i),
	})
	if err != nil {
		return respondWithServiceError(s, i, c.messagingService, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf("**%s** has been ended without a winner.", output.Game.Name))
}
