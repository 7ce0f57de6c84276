package game

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/slitherbot/slither/internal/services/game Service

// Service defines the interface for game engine operations
type Service interface {
	// CreateGame creates a new game in the pending state
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// OpenRegistration moves a pending game into the registration phase
	OpenRegistration(ctx context.Context, input *OpenRegistrationInput) (*OpenRegistrationOutput, error)

	// AddTeam accepts a team into a game during registration
	AddTeam(ctx context.Context, input *AddTeamInput) (*AddTeamOutput, error)

	// StartGame moves a game with registered teams into active play
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// ArmTeam grants a team its next roll
	ArmTeam(ctx context.Context, input *ArmTeamInput) (*ArmTeamOutput, error)

	// Roll performs a dice roll for a team
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)

	// CompleteGame ends an active game without a winner
	CompleteGame(ctx context.Context, input *CompleteGameInput) (*CompleteGameOutput, error)

	// ResetGame re-initializes a game's positions and optionally its status
	ResetGame(ctx context.Context, input *ResetGameInput) (*ResetGameOutput, error)

	// GetGame retrieves a game and its teams
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// GetGameByChannel retrieves the most recent open game in a channel
	GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameByChannelOutput, error)

	// GetStandings returns the current board positions for a game
	GetStandings(ctx context.Context, input *GetStandingsInput) (*GetStandingsOutput, error)

	// GetRollHistory returns a game's roll events, newest first
	GetRollHistory(ctx context.Context, input *GetRollHistoryInput) (*GetRollHistoryOutput, error)

	// SweepUnannounced retries announcement delivery for unannounced rolls
	SweepUnannounced(ctx context.Context, input *SweepUnannouncedInput) (*SweepUnannouncedOutput, error)
}
