package announce

//go:generate mockgen -package=mocks -destination=mocks/mock_announcer.go github.com/slitherbot/slither/internal/announce Announcer

import (
	"context"

	"github.com/slitherbot/slither/internal/models"
)

// Announcer delivers roll outcomes to players. Delivery is best effort and
// may be retried; implementations must tolerate being called more than once
// for the same event.
type Announcer interface {
	// Notify announces a committed roll event
	Notify(ctx context.Context, input *NotifyInput) error
}

// NotifyInput contains parameters for announcing a roll
type NotifyInput struct {
	// GameID is the game the roll belongs to
	GameID string

	// ChannelID is the Discord channel to announce in
	ChannelID string

	// Event is the committed roll event
	Event *models.RollEvent
}
