package auth

//go:generate mockgen -package=mocks -destination=mocks/mock_authorizer.go github.com/slitherbot/slither/internal/auth Authorizer

import (
	"context"
)

// Authorizer answers whether a user may run game-management operations.
// Ordinary rolls are never authorized through this check.
type Authorizer interface {
	// IsModerator reports whether the user holds the guild's moderator role
	IsModerator(ctx context.Context, input *IsModeratorInput) (bool, error)
}

// IsModeratorInput contains parameters for a moderator check
type IsModeratorInput struct {
	// UserID is the Discord user being checked
	UserID string

	// GuildID is the Discord server the check applies to
	GuildID string
}
