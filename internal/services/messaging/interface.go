package messaging

import "context"

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/slitherbot/slither/internal/services/messaging Service

// Service generates the flavor text the bot posts to Discord
type Service interface {
	// GetRollAnnouncement returns the public announcement for a resolved roll
	GetRollAnnouncement(ctx context.Context, input *GetRollAnnouncementInput) (*GetRollAnnouncementOutput, error)

	// GetDenialMessage returns a message explaining why a roll was not processed
	GetDenialMessage(ctx context.Context, input *GetDenialMessageInput) (*GetDenialMessageOutput, error)

	// GetGameStatusMessage returns a dynamic message based on the game status
	GetGameStatusMessage(ctx context.Context, input *GetGameStatusMessageInput) (*GetGameStatusMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
