package models

// TeamStanding represents one team's place on the board
type TeamStanding struct {
	// TeamID is the unique identifier for the team
	TeamID string

	// TeamName is the display name of the team
	TeamName string

	// Position is the team's current tile
	Position int

	// CanRoll indicates whether the team is armed for its next roll
	CanRoll bool
}

// Standings represents the current board positions in a game, best first
type Standings struct {
	// GameID is the unique identifier for the game
	GameID string

	// Teams contains one entry per team, ordered by position descending
	Teams []*TeamStanding
}
