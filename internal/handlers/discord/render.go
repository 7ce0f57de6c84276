package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/slitherbot/slither/internal/board"
	"github.com/slitherbot/slither/internal/models"
	"github.com/slitherbot/slither/internal/services/game"
	"github.com/slitherbot/slither/internal/services/messaging"
)

// Embed colors
const (
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c
	colorGold  = 0xf1c40f
	colorBlue  = 0x3498db
	colorError = 0xff0000
)

// renderRollResponse renders the outcome of a roll, including denials
func renderRollResponse(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, msgSvc messaging.Service, output *game.RollOutput, teamName string) error {
	if output.Denied {
		denial, err := msgSvc.GetDenialMessage(ctx, &messaging.GetDenialMessageInput{
			TeamName: teamName,
			Reason:   string(output.DeniedReason),
		})
		if err != nil {
			return RespondWithEphemeralMessage(s, i, "That roll could not be processed.")
		}
		return RespondWithEphemeralMessage(s, i, denial.Message)
	}

	announcement, err := msgSvc.GetRollAnnouncement(ctx, &messaging.GetRollAnnouncementInput{
		Event: output.Event,
		Won:   output.Won,
	})
	if err != nil {
		return RespondWithMessage(s, i, fmt.Sprintf("%s rolled a %d and moved to tile %d.",
			output.Event.TeamName, output.Event.DiceRoll, output.Event.NewPosition))
	}

	color := colorGreen
	switch {
	case output.Won:
		color = colorGold
	case output.Event.SnakeOrLadder == string(board.EffectSnake):
		color = colorRed
	case output.Event.SnakeOrLadder == string(board.EffectLadder):
		color = colorBlue
	}

	embed := &discordgo.MessageEmbed{
		Title:       announcement.Title,
		Description: announcement.Message,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Dice",
				Value:  fmt.Sprintf("%d", output.Event.DiceRoll),
				Inline: true,
			},
			{
				Name:   "Position",
				Value:  fmt.Sprintf("%d → %d", output.Event.OldPosition, output.Event.NewPosition),
				Inline: true,
			},
		},
	}

	standingsButton := discordgo.Button{
		Label:    "Standings",
		Style:    discordgo.SecondaryButton,
		CustomID: ButtonStandings + customIDSeparator + output.Event.GameID,
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{standingsButton}},
			},
		},
	})
}

// renderStandingsEmbed renders the ranked team positions
func renderStandingsEmbed(standings *models.Standings) *discordgo.MessageEmbed {
	var sb strings.Builder

	for rank, team := range standings.Teams {
		marker := "🔒"
		if team.CanRoll {
			marker = "🎲"
		}
		if team.Position >= 100 {
			marker = "🏆"
		}
		fmt.Fprintf(&sb, "%d. **%s** — tile %d %s\n", rank+1, team.TeamName, team.Position, marker)
	}

	if sb.Len() == 0 {
		sb.WriteString("No teams yet.")
	}

	return &discordgo.MessageEmbed{
		Title:       "🐍 Standings 🪜",
		Description: sb.String(),
		Color:       colorBlue,
	}
}

// renderHistoryEmbed renders recent rolls, newest first
func renderHistoryEmbed(g *models.Game, events []*models.RollEvent) *discordgo.MessageEmbed {
	var sb strings.Builder

	for _, event := range events {
		line := fmt.Sprintf("**%s** rolled %d: %d → %d", event.TeamName, event.DiceRoll, event.OldPosition, event.NewPosition)
		switch event.SnakeOrLadder {
		case string(board.EffectSnake):
			line += " 🐍"
		case string(board.EffectLadder):
			line += " 🪜"
		}
		if event.NewPosition >= 100 {
			line += " 🏆"
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		sb.WriteString("No rolls yet.")
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Roll history — %s", g.Name),
		Description: sb.String(),
		Color:       colorBlue,
	}
}

// renderGameCreatedEmbed renders the summary for a freshly created game
func renderGameCreatedEmbed(g *models.Game) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🐍 %s 🪜", g.Name),
		Description: "A new game has been created! Moderators can open registration with `/snakes open`.",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Board",
				Value:  fmt.Sprintf("%d snakes, %d ladders", g.SnakeCount, g.LadderCount),
				Inline: true,
			},
			{
				Name:   "Registration closes",
				Value:  g.ApplicationDeadline.Format("Jan 2, 2006 15:04 MST"),
				Inline: true,
			},
		},
	}
}

// renderGameStatusEmbed renders the current state of a game
func renderGameStatusEmbed(g *models.Game, statusMessage string) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Status",
			Value:  string(g.Status),
			Inline: true,
		},
		{
			Name:   "Teams",
			Value:  fmt.Sprintf("%d", len(g.TeamIDs)),
			Inline: true,
		},
	}

	if g.WinnerTeamID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Winner",
			Value:  g.WinnerTeamID,
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       g.Name,
		Description: statusMessage,
		Color:       colorBlue,
		Fields:      fields,
	}
}

// respondWithServiceError translates service errors into user-facing text
func respondWithServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, msgSvc messaging.Service, err error) error {
	errorType := "unknown"
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		errorType = "game_not_found"
	case errors.Is(err, game.ErrTeamNotFound):
		errorType = "team_not_found"
	case errors.Is(err, game.ErrNotModerator):
		errorType = "not_moderator"
	case errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrGameCompletedOrWon),
		errors.Is(err, game.ErrInsufficientParticipants),
		errors.Is(err, game.ErrMultipleGamesNotAllowed):
		errorType = "invalid_transition"
	case errors.Is(err, game.ErrTeamNameTaken),
		errors.Is(err, game.ErrTooManyTeams):
		errorType = "team_name_taken"
	}

	msg, msgErr := msgSvc.GetErrorMessage(context.Background(), &messaging.GetErrorMessageInput{
		ErrorType: errorType,
	})
	if msgErr != nil {
		return RespondWithError(s, i, err.Error())
	}

	return RespondWithError(s, i, msg.Message)
}
