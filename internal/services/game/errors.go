package game

import "errors"

// Define errors
var (
	// ErrInvalidInput is returned for malformed dice values, positions or IDs
	ErrInvalidInput = errors.New("invalid input")

	// ErrGameNotFound is returned when a game is not found
	ErrGameNotFound = errors.New("game not found")

	// ErrTeamNotFound is returned when a team is not found in the game
	ErrTeamNotFound = errors.New("team not found")

	// ErrGameNotActive is returned when an operation requires an active game
	ErrGameNotActive = errors.New("game is not active")

	// ErrGameCompletedOrWon is returned when the game or team has already finished
	ErrGameCompletedOrWon = errors.New("game is completed or team has already won")

	// ErrInvalidTransition is returned for an illegal status transition
	ErrInvalidTransition = errors.New("invalid game status transition")

	// ErrInsufficientParticipants is returned when starting a game with no teams
	ErrInsufficientParticipants = errors.New("game has no registered teams")

	// ErrTooManyTeams is returned when the guild's team cap would be exceeded
	ErrTooManyTeams = errors.New("game is at maximum team capacity")

	// ErrTeamNameTaken is returned when a team name is already used in the game
	ErrTeamNameTaken = errors.New("team name is already taken in this game")

	// ErrMultipleGamesNotAllowed is returned when the guild permits one
	// active game at a time and another is running
	ErrMultipleGamesNotAllowed = errors.New("guild already has an active game")

	// ErrNotModerator is returned when a management operation is attempted
	// without the guild's moderator role
	ErrNotModerator = errors.New("user is not a moderator")

	// Config validation errors
	ErrNilConfig        = errors.New("config cannot be nil")
	ErrNilGameRepo      = errors.New("game repository cannot be nil")
	ErrNilTeamRepo      = errors.New("team repository cannot be nil")
	ErrNilRollEventRepo = errors.New("roll event repository cannot be nil")
	ErrNilGuildRepo     = errors.New("guild settings repository cannot be nil")
	ErrNilGate          = errors.New("roll gate cannot be nil")
	ErrNilDiceRoller    = errors.New("dice roller cannot be nil")
	ErrNilClock         = errors.New("clock cannot be nil")
	ErrNilUUIDGenerator = errors.New("UUID generator cannot be nil")
	ErrNilAnnouncer     = errors.New("announcer cannot be nil")
	ErrNilAuthorizer    = errors.New("authorizer cannot be nil")
)
