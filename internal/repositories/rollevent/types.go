package rollevent

import "github.com/slitherbot/slither/internal/models"

type AppendRollInput struct {
	Event *models.RollEvent
}

type GetRollInput struct {
	RollID string
}

type GetRollsForGameInput struct {
	GameID string

	// Limit caps the number of events returned, 0 means no limit
	Limit int
}

type GetRollsForGameOutput struct {
	Events []*models.RollEvent
}

type GetUnannouncedInput struct {
	// Limit caps the number of events returned, 0 means no limit
	Limit int
}

type GetUnannouncedOutput struct {
	Events []*models.RollEvent
}

type MarkAnnouncedInput struct {
	RollID string
}
