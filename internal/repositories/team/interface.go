package team

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/slitherbot/slither/internal/repositories/team Repository

import (
	"context"

	"github.com/slitherbot/slither/internal/models"
)

// Repository defines the interface for team data persistence
type Repository interface {
	// SaveTeam persists a team
	SaveTeam(ctx context.Context, input *SaveTeamInput) error

	// GetTeam retrieves a team by ID
	GetTeam(ctx context.Context, input *GetTeamInput) (*models.Team, error)

	// GetTeamsForGame retrieves all teams in a game, in join order
	GetTeamsForGame(ctx context.Context, input *GetTeamsForGameInput) (*GetTeamsForGameOutput, error)

	// DeleteTeam removes a team
	DeleteTeam(ctx context.Context, input *DeleteTeamInput) error
}
