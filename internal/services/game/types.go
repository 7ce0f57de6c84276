package game

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/slitherbot/slither/internal/announce"
	"github.com/slitherbot/slither/internal/auth"
	"github.com/slitherbot/slither/internal/common/clock"
	"github.com/slitherbot/slither/internal/common/uuid"
	"github.com/slitherbot/slither/internal/dice"
	"github.com/slitherbot/slither/internal/gate"
	"github.com/slitherbot/slither/internal/models"
	gameRepo "github.com/slitherbot/slither/internal/repositories/game"
	guildRepo "github.com/slitherbot/slither/internal/repositories/guild"
	rollRepo "github.com/slitherbot/slither/internal/repositories/rollevent"
	teamRepo "github.com/slitherbot/slither/internal/repositories/team"
)

// DeniedReason explains why a roll request was not processed. Denial is a
// normal outcome, not an error.
type DeniedReason string

const (
	// DeniedReasonLocked means the team has consumed its roll grant and
	// must be re-armed by a moderator
	DeniedReasonLocked DeniedReason = "locked"

	// DeniedReasonInFlight means another roll for the team is already
	// being processed
	DeniedReasonInFlight DeniedReason = "already_in_flight"

	// DeniedReasonGameNotActive means the game is not accepting rolls
	DeniedReasonGameNotActive DeniedReason = "game_not_active"
)

// ResetType selects how much of a game a reset re-initializes
type ResetType string

const (
	// ResetTypeFull returns the game to pending with all positions cleared
	ResetTypeFull ResetType = "full"

	// ResetTypePositions clears positions but keeps the game in play
	ResetTypePositions ResetType = "positions"
)

// Config holds configuration for the game service
type Config struct {
	// DiceSides is the number of sides on the dice, defaults to 6
	DiceSides int

	// DefaultMaxTeams caps teams per game when a guild has no settings
	DefaultMaxTeams int

	// DefaultGameDuration is the registration window when a guild has no settings
	DefaultGameDuration time.Duration

	// Repository dependencies
	GameRepo      gameRepo.Repository
	TeamRepo      teamRepo.Repository
	RollEventRepo rollRepo.Repository
	GuildRepo     guildRepo.Repository

	// Service dependencies
	RollGate      *gate.Gate
	DiceRoller    dice.Roller
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Announcer     announce.Announcer
	Authorizer    auth.Authorizer

	// Logger for side-effect failures, defaults to a no-op logger
	Logger *zerolog.Logger
}

// CreateGameInput contains parameters for creating a new game
type CreateGameInput struct {
	// GuildID is the Discord server the game belongs to
	GuildID string

	// ChannelID is the Discord channel for roll announcements
	ChannelID string

	// Name is the display name of the game
	Name string

	// CreatedBy is the Discord user creating the game
	CreatedBy string

	// Tiles overrides the board topology, nil uses the standard board
	Tiles map[int]int

	// MaxTeamSize is the maximum number of members per team
	MaxTeamSize int

	// ApplicationDeadline overrides the registration window, zero uses the
	// guild's default duration
	ApplicationDeadline time.Time
}

// CreateGameOutput contains the result of creating a game
type CreateGameOutput struct {
	// Game is the created game
	Game *models.Game
}

// OpenRegistrationInput contains parameters for opening registration
type OpenRegistrationInput struct {
	// GameID is the game to open
	GameID string

	// RequestedBy is the Discord user requesting the transition
	RequestedBy string
}

// OpenRegistrationOutput contains the result of opening registration
type OpenRegistrationOutput struct {
	// Game is the updated game
	Game *models.Game
}

// AddTeamInput contains parameters for accepting a team into a game
type AddTeamInput struct {
	// GameID is the game to join
	GameID string

	// TeamName is the display name of the new team
	TeamName string

	// RequestedBy is the Discord user accepting the team
	RequestedBy string
}

// AddTeamOutput contains the result of accepting a team
type AddTeamOutput struct {
	// Team is the created team
	Team *models.Team
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	// GameID is the game to start
	GameID string

	// RequestedBy is the Discord user requesting the transition
	RequestedBy string
}

// StartGameOutput contains the result of starting a game
type StartGameOutput struct {
	// Game is the updated game
	Game *models.Game
}

// ArmTeamInput contains parameters for granting a team its next roll
type ArmTeamInput struct {
	// TeamID is the team to arm
	TeamID string

	// RequestedBy is the Discord user granting the roll
	RequestedBy string
}

// ArmTeamOutput contains the result of arming a team
type ArmTeamOutput struct {
	// Team is the updated team
	Team *models.Team
}

// RollInput contains parameters for performing a roll
type RollInput struct {
	// GameID is the game the team is rolling in
	GameID string

	// TeamID is the team rolling
	TeamID string

	// RolledBy is the Discord user submitting the roll
	RolledBy string

	// DiceValue supplies a fixed dice value instead of rolling, 0 rolls.
	// Values outside 1 through 6 are rejected.
	DiceValue int

	// Rearm leaves the team armed for another roll as part of the same
	// commit. Only management flows set this.
	Rearm bool
}

// RollOutput contains the result of a roll request
type RollOutput struct {
	// Denied indicates the roll was not processed; DeniedReason says why
	Denied bool

	// DeniedReason explains a denial, empty when the roll was processed
	DeniedReason DeniedReason

	// Event is the committed roll event, nil when denied
	Event *models.RollEvent

	// Won indicates the roll reached the goal tile
	Won bool
}

// CompleteGameInput contains parameters for ending a game without a winner
type CompleteGameInput struct {
	// GameID is the game to end
	GameID string

	// RequestedBy is the Discord user requesting the transition
	RequestedBy string
}

// CompleteGameOutput contains the result of ending a game
type CompleteGameOutput struct {
	// Game is the updated game
	Game *models.Game
}

// ResetGameInput contains parameters for re-initializing a game
type ResetGameInput struct {
	// GameID is the game to reset
	GameID string

	// ResetType selects a full or positions-only reset
	ResetType ResetType

	// RequestedBy is the Discord user requesting the reset
	RequestedBy string
}

// ResetGameOutput contains the result of a reset
type ResetGameOutput struct {
	// Game is the updated game
	Game *models.Game
}

// GetGameInput contains parameters for retrieving a game
type GetGameInput struct {
	// GameID is the game to retrieve
	GameID string
}

// GetGameOutput contains a game and its teams
type GetGameOutput struct {
	// Game is the retrieved game
	Game *models.Game

	// Teams are the game's teams in join order
	Teams []*models.Team
}

// GetGameByChannelInput contains parameters for resolving a channel's game
type GetGameByChannelInput struct {
	// GuildID is the guild to search
	GuildID string

	// ChannelID is the channel the game is bound to
	ChannelID string
}

// GetGameByChannelOutput contains the resolved game
type GetGameByChannelOutput struct {
	// Game is the most recent open game in the channel
	Game *models.Game
}

// GetStandingsInput contains parameters for retrieving standings
type GetStandingsInput struct {
	// GameID is the game to rank
	GameID string
}

// GetStandingsOutput contains the current standings
type GetStandingsOutput struct {
	// Standings ranks the game's teams by position, best first
	Standings *models.Standings
}

// GetRollHistoryInput contains parameters for retrieving roll history
type GetRollHistoryInput struct {
	// GameID is the game whose history is requested
	GameID string

	// Limit caps the number of events returned, 0 means no limit
	Limit int
}

// GetRollHistoryOutput contains a game's roll events, newest first
type GetRollHistoryOutput struct {
	// Events are the roll events, newest first
	Events []*models.RollEvent
}

// SweepUnannouncedInput contains parameters for an announcement retry sweep
type SweepUnannouncedInput struct {
	// Limit caps how many events one sweep attempts, 0 means no limit
	Limit int
}

// SweepUnannouncedOutput contains the result of a retry sweep
type SweepUnannouncedOutput struct {
	// Announced is the number of events delivered and marked this sweep
	Announced int

	// Failed is the number of events whose delivery failed and remain queued
	Failed int
}
