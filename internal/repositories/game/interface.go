package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/slitherbot/slither/internal/repositories/game Repository

import (
	"context"

	"github.com/slitherbot/slither/internal/models"
)

// Repository defines the interface for game data persistence
type Repository interface {
	// SaveGame persists a game
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// CompleteGameIfActive atomically completes an active game with a
	// winner, failing with ErrGameNotActive if it has already left the
	// active state
	CompleteGameIfActive(ctx context.Context, input *CompleteGameIfActiveInput) (*models.Game, error)

	// GetGamesForGuild retrieves all games in a guild, newest first
	GetGamesForGuild(ctx context.Context, input *GetGamesForGuildInput) (*GetGamesForGuildOutput, error)

	// GetActiveGamesForGuild retrieves the guild's games that are not completed
	GetActiveGamesForGuild(ctx context.Context, input *GetActiveGamesForGuildInput) (*GetActiveGamesForGuildOutput, error)

	// DeleteGame removes a game
	DeleteGame(ctx context.Context, input *DeleteGameInput) error
}
