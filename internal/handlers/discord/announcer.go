package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/slitherbot/slither/internal/announce"
	"github.com/slitherbot/slither/internal/board"
	"github.com/slitherbot/slither/internal/services/messaging"
)

// Announcer posts roll announcements to the game's Discord channel
type Announcer struct {
	session          *discordgo.Session
	messagingService messaging.Service
	logger           zerolog.Logger
}

// AnnouncerConfig holds the configuration for the announcer
type AnnouncerConfig struct {
	// Session is the open Discord session to post through
	Session *discordgo.Session

	// MessagingService writes the announcement text
	MessagingService messaging.Service

	// Logger is the announcer's structured logger
	Logger zerolog.Logger
}

// NewAnnouncer creates a Discord-backed announcer
func NewAnnouncer(cfg *AnnouncerConfig) (*Announcer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	return &Announcer{
		session:          cfg.Session,
		messagingService: cfg.MessagingService,
		logger:           cfg.Logger,
	}, nil
}

// Notify posts the roll event to the channel it belongs to
func (a *Announcer) Notify(ctx context.Context, input *announce.NotifyInput) error {
	if input == nil || input.Event == nil {
		return errors.New("notify requires an event")
	}

	won := input.Event.NewPosition >= board.GoalTile

	announcement, err := a.messagingService.GetRollAnnouncement(ctx, &messaging.GetRollAnnouncementInput{
		Event: input.Event,
		Won:   won,
	})
	if err != nil {
		return fmt.Errorf("failed to build announcement: %w", err)
	}

	color := colorGreen
	switch {
	case won:
		color = colorGold
	case input.Event.SnakeOrLadder == string(board.EffectSnake):
		color = colorRed
	case input.Event.SnakeOrLadder == string(board.EffectLadder):
		color = colorBlue
	}

	embed := &discordgo.MessageEmbed{
		Title:       announcement.Title,
		Description: announcement.Message,
		Color:       color,
	}

	if _, err := a.session.ChannelMessageSendEmbed(input.ChannelID, embed); err != nil {
		a.logger.Warn().Err(err).
			Str("channel_id", input.ChannelID).
			Str("roll_id", input.Event.ID).
			Msg("failed to post announcement")
		return fmt.Errorf("failed to post announcement: %w", err)
	}

	return nil
}
