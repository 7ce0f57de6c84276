package models

import (
	"time"
)

// RollEvent is an append-only record of a single dice roll.
// Only AnnouncementSent may change after the event is written.
type RollEvent struct {
	// ID is the unique identifier for the roll
	ID string

	// GameID is the ID of the game the roll belongs to
	GameID string

	// TeamID is the ID of the team that rolled
	TeamID string

	// TeamName is the display name of the team at the time of the roll
	TeamName string

	// DiceRoll is the dice value, 1 through 6
	DiceRoll int

	// OldPosition is the team's tile before the roll
	OldPosition int

	// NewPosition is the team's tile after the roll and any redirect
	NewPosition int

	// SnakeOrLadder describes the topology effect applied, empty when the
	// landed tile had no redirect
	SnakeOrLadder string

	// RolledBy is the Discord user ID that submitted the roll
	RolledBy string

	// AnnouncementSent indicates the roll has been handed to the announcer.
	// Flips false to true exactly once.
	AnnouncementSent bool

	// CreatedAt is when the roll was committed
	CreatedAt time.Time
}
