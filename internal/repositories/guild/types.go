package guild

import "github.com/slitherbot/slither/internal/models"

type SaveSettingsInput struct {
	Settings *models.GuildSettings
}

type GetSettingsInput struct {
	GuildID string
}
