package models

import (
	"time"
)

// Team represents a team competing in a game
type Team struct {
	// ID is the unique identifier for the team
	ID string

	// GameID is the ID of the game the team belongs to
	GameID string

	// Name is the display name of the team
	Name string

	// CurrentPosition is the team's tile on the board, 0 is the start and 100 is the goal
	CurrentPosition int

	// CanRoll indicates whether the team is armed for its next roll.
	// Rolling consumes the grant; a moderator must re-arm the team.
	CanRoll bool

	// CreatedAt is when the team was accepted into the game
	CreatedAt time.Time

	// UpdatedAt is when the team was last updated
	UpdatedAt time.Time
}

// HasWon returns true if the team has reached the goal tile
func (t *Team) HasWon() bool {
	return t.CurrentPosition >= 100
}
