package models

import (
	"time"
)

// GameStatus represents the current state of a game
type GameStatus string

const (
	// GameStatusPending indicates a game has been created but registration is not open yet
	GameStatusPending GameStatus = "pending"

	// GameStatusRegistration indicates a game is accepting team registrations
	GameStatusRegistration GameStatus = "registration"

	// GameStatusActive indicates a game is in progress and teams may roll
	GameStatusActive GameStatus = "active"

	// GameStatusCompleted indicates a game has finished
	GameStatusCompleted GameStatus = "completed"
)

// IsPending returns true if the game has not opened registration yet
func (s GameStatus) IsPending() bool {
	return s == GameStatusPending
}

// IsRegistration returns true if the game is accepting teams
func (s GameStatus) IsRegistration() bool {
	return s == GameStatusRegistration
}

// IsActive returns true if the game is in progress
func (s GameStatus) IsActive() bool {
	return s == GameStatusActive
}

// IsCompleted returns true if the game has finished
func (s GameStatus) IsCompleted() bool {
	return s == GameStatusCompleted
}

// Game represents a snakes and ladders game
type Game struct {
	// ID is the unique identifier for the game
	ID string

	// GuildID is the Discord server the game belongs to
	GuildID string

	// ChannelID is the Discord channel where roll announcements are posted
	ChannelID string

	// Name is the display name of the game
	Name string

	// CreatedBy is the Discord user who created the game
	CreatedBy string

	// Status is the current state of the game
	Status GameStatus

	// Tiles maps a board tile to the tile a snake or ladder redirects to.
	// A tile has at most one redirect.
	Tiles map[int]int

	// SnakeCount is the number of snakes on the board, derived from Tiles
	SnakeCount int

	// LadderCount is the number of ladders on the board, derived from Tiles
	LadderCount int

	// TeamIDs contains the IDs of teams participating in the game
	TeamIDs []string

	// MaxTeamSize is the maximum number of members per team
	MaxTeamSize int

	// ApplicationDeadline is when team registration closes
	ApplicationDeadline time.Time

	// WinnerTeamID is the team that reached tile 100, empty until the game completes
	WinnerTeamID string

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time
}

// HasTeam returns true if the given team is participating in the game
func (g *Game) HasTeam(teamID string) bool {
	for _, id := range g.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
