package rollevent

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/slitherbot/slither/internal/repositories/rollevent Repository

import (
	"context"

	"github.com/slitherbot/slither/internal/models"
)

// Repository defines the interface for the append-only roll event log
type Repository interface {
	// AppendRoll writes a new roll event. A duplicate roll ID is rejected.
	AppendRoll(ctx context.Context, input *AppendRollInput) error

	// GetRoll retrieves a roll event by ID
	GetRoll(ctx context.Context, input *GetRollInput) (*models.RollEvent, error)

	// GetRollsForGame retrieves a game's roll events, newest first
	GetRollsForGame(ctx context.Context, input *GetRollsForGameInput) (*GetRollsForGameOutput, error)

	// GetUnannounced retrieves events not yet announced, oldest first
	GetUnannounced(ctx context.Context, input *GetUnannouncedInput) (*GetUnannouncedOutput, error)

	// MarkAnnounced records that an event was handed to the announcer.
	// Safe to call more than once; the flag only ever flips false to true.
	MarkAnnounced(ctx context.Context, input *MarkAnnouncedInput) error
}
