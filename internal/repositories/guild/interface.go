package guild

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/slitherbot/slither/internal/repositories/guild Repository

import (
	"context"

	"github.com/slitherbot/slither/internal/models"
)

// Repository defines the interface for guild settings persistence
type Repository interface {
	// SaveSettings persists a guild's settings
	SaveSettings(ctx context.Context, input *SaveSettingsInput) error

	// GetSettings retrieves a guild's settings
	GetSettings(ctx context.Context, input *GetSettingsInput) (*models.GuildSettings, error)
}
