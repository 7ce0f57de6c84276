package game

import (
	"time"

	"github.com/slitherbot/slither/internal/models"
)

type SaveGameInput struct {
	Game *models.Game
}

type GetGameInput struct {
	GameID string
}

type CompleteGameIfActiveInput struct {
	GameID       string
	WinnerTeamID string
	Now          time.Time
}

type GetGamesForGuildInput struct {
	GuildID string
}

type GetGamesForGuildOutput struct {
	Games []*models.Game
}

type GetActiveGamesForGuildInput struct {
	GuildID string
}

type GetActiveGamesForGuildOutput struct {
	Games []*models.Game
}

type DeleteGameInput struct {
	GameID string
}
