package messaging

import (
	"github.com/slitherbot/slither/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// GetRollAnnouncementInput contains parameters for building a roll announcement
type GetRollAnnouncementInput struct {
	// Event is the committed roll being announced
	Event *models.RollEvent

	// Won indicates the roll ended the game
	Won bool

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetRollAnnouncementOutput contains the result of building a roll announcement
type GetRollAnnouncementOutput struct {
	// Title is the headline of the announcement
	Title string

	// Message is the announcement body
	Message string

	// Tone is the tone of the message
	Tone MessageTone
}

// GetDenialMessageInput contains parameters for building a denial message
type GetDenialMessageInput struct {
	// TeamName is the team whose roll was denied
	TeamName string

	// Reason is the machine-readable denial reason
	Reason string
}

// GetDenialMessageOutput contains the result of building a denial message
type GetDenialMessageOutput struct {
	Message string
}

// GetGameStatusMessageInput contains parameters for building a status message
type GetGameStatusMessageInput struct {
	GameStatus models.GameStatus
	GameName   string
	TeamCount  int
}

// GetGameStatusMessageOutput contains the result of building a status message
type GetGameStatusMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for building an error message
type GetErrorMessageInput struct {
	// ErrorType is the type of error
	ErrorType string
}

// GetErrorMessageOutput contains the result of building an error message
type GetErrorMessageOutput struct {
	Message string
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Seed overrides the random source seed, mainly for tests. Zero
	// seeds from the current time.
	Seed int64
}
