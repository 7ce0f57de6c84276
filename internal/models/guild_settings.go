package models

import (
	"time"
)

// GuildSettings holds per-guild game parameters. The engine reads these as
// constraints when starting games; it never mutates them.
type GuildSettings struct {
	// GuildID is the Discord server these settings belong to
	GuildID string

	// ModeratorRoleID is the role allowed to run game-management commands,
	// empty when no role has been configured
	ModeratorRoleID string

	// MaxTeamsPerGame is the maximum number of teams allowed in one game
	MaxTeamsPerGame int

	// AllowMultipleGames indicates whether more than one game may be active
	// in the guild at the same time
	AllowMultipleGames bool

	// DefaultGameDuration is the default registration window for new games
	DefaultGameDuration time.Duration

	// UpdatedAt is when the settings were last changed
	UpdatedAt time.Time
}
