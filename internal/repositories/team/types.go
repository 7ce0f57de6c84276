package team

import "github.com/slitherbot/slither/internal/models"

type SaveTeamInput struct {
	Team *models.Team
}

type GetTeamInput struct {
	TeamID string
}

type GetTeamsForGameInput struct {
	GameID string
}

type GetTeamsForGameOutput struct {
	Teams []*models.Team
}

type DeleteTeamInput struct {
	TeamID string
}
