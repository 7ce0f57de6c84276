package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// service implements the Service interface
type service struct {
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	seed := time.Now().UnixNano()
	if config != nil && config.Seed != 0 {
		seed = config.Seed
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// GetRollAnnouncement returns the public announcement for a resolved roll
func (s *service) GetRollAnnouncement(ctx context.Context, input *GetRollAnnouncementInput) (*GetRollAnnouncementOutput, error) {
	if input == nil || input.Event == nil {
		return nil, errors.New("roll announcement requires an event")
	}

	event := input.Event
	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	if input.Won {
		messages := []string{
			"%s rolled a %d, landed on tile 100 and took the crown! Game over!",
			"Tile 100! %s sealed it with a %d. Somebody hang up the trophy.",
			"That's a wrap! %s rolled a %d straight onto the final tile.",
		}
		return &GetRollAnnouncementOutput{
			Title:   "🏆 We have a winner!",
			Message: fmt.Sprintf(s.pick(messages), event.TeamName, event.DiceRoll),
			Tone:    ToneCelebration,
		}, nil
	}

	switch event.SnakeOrLadder {
	case "Ladder":
		messages := []string{
			"%s rolled a %d, landed on tile %d and shot up the ladder to tile %d!",
			"A %[2]d sends %[1]s onto tile %[3]d. Ladder! Up they go to tile %[4]d.",
			"%s found a shortcut! A %d landed them on tile %d and the ladder carried them to tile %d.",
		}
		return &GetRollAnnouncementOutput{
			Title:   "🪜 Ladder!",
			Message: fmt.Sprintf(s.pick(messages), event.TeamName, event.DiceRoll, event.OldPosition+event.DiceRoll, event.NewPosition),
			Tone:    tone,
		}, nil

	case "Snake":
		messages := []string{
			"%s rolled a %d, landed on tile %d and slid down the snake to tile %d. Ouch.",
			"Sssssorry %[1]s. A %[2]d put you on tile %[3]d and the snake dragged you back to tile %[4]d.",
			"%s hit tile %[3]d with a %[2]d and took the scenic route down to tile %[4]d.",
		}
		return &GetRollAnnouncementOutput{
			Title:   "🐍 Snake!",
			Message: fmt.Sprintf(s.pick(messages), event.TeamName, event.DiceRoll, event.OldPosition+event.DiceRoll, event.NewPosition),
			Tone:    tone,
		}, nil
	}

	messages := []string{
		"%s rolled a %d and moved from tile %d to tile %d.",
		"A solid %[2]d for %[1]s. Tile %[3]d to tile %[4]d.",
		"%s advances! A %d takes them from tile %d to tile %d.",
	}
	return &GetRollAnnouncementOutput{
		Title:   "🎲 Roll",
		Message: fmt.Sprintf(s.pick(messages), event.TeamName, event.DiceRoll, event.OldPosition, event.NewPosition),
		Tone:    tone,
	}, nil
}

// GetDenialMessage returns a message explaining why a roll was not processed
func (s *service) GetDenialMessage(ctx context.Context, input *GetDenialMessageInput) (*GetDenialMessageOutput, error) {
	if input == nil {
		return nil, errors.New("denial message requires input")
	}

	var messages []string

	switch input.Reason {
	case "locked":
		messages = []string{
			"%s has already used their roll. Wait for a moderator to arm the team again.",
			"No dice for %s. The team's roll is spent until a moderator re-arms it.",
			"%s is locked. One roll per arming, those are the rules.",
		}
	case "already_in_flight":
		messages = []string{
			"Easy there, %s. A roll for your team is already being processed.",
			"%s, your dice are literally still in the air. One at a time.",
		}
	case "game_not_active":
		messages = []string{
			"%s, this game is not taking rolls right now.",
			"The board is closed, %s. No active game to roll in.",
		}
	default:
		messages = []string{
			"%s, that roll could not be processed.",
		}
	}

	return &GetDenialMessageOutput{
		Message: fmt.Sprintf(s.pick(messages), input.TeamName),
	}, nil
}

// GetGameStatusMessage returns a dynamic message based on the game status
func (s *service) GetGameStatusMessage(ctx context.Context, input *GetGameStatusMessageInput) (*GetGameStatusMessageOutput, error) {
	if input == nil {
		return nil, errors.New("status message requires input")
	}

	var messages []string

	switch {
	case input.GameStatus.IsPending():
		messages = []string{
			"%s is being set up. Registration has not opened yet.",
			"The board for %s is still being dusted off. Hang tight.",
		}
	case input.GameStatus.IsRegistration():
		messages = []string{
			"%s is open for registration! %d team(s) signed up so far.",
			"Get your teams in! %s has %d team(s) on the roster.",
		}
	case input.GameStatus.IsActive():
		messages = []string{
			"%s is underway with %d team(s) on the board. May the dice be kind.",
			"The snakes are hungry and the ladders are waiting. %s is live with %d team(s)!",
		}
	case input.GameStatus.IsCompleted():
		messages = []string{
			"%s has finished. The board is closed.",
			"That's all for %s. See you at the next game!",
		}
	default:
		return nil, fmt.Errorf("unknown game status: %s", input.GameStatus)
	}

	msg := s.pick(messages)
	if input.GameStatus.IsRegistration() || input.GameStatus.IsActive() {
		return &GetGameStatusMessageOutput{Message: fmt.Sprintf(msg, input.GameName, input.TeamCount)}, nil
	}
	return &GetGameStatusMessageOutput{Message: fmt.Sprintf(msg, input.GameName)}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("error message requires input")
	}

	var messages []string

	switch input.ErrorType {
	case "game_not_found":
		messages = []string{
			"I couldn't find that game. Did it slither away?",
			"No such game on my board.",
		}
	case "team_not_found":
		messages = []string{
			"I couldn't find that team.",
			"That team isn't on my roster.",
		}
	case "not_moderator":
		messages = []string{
			"Only a game moderator can do that.",
			"Nice try, but that button is moderator-only.",
		}
	case "invalid_transition":
		messages = []string{
			"The game isn't in the right state for that.",
		}
	case "team_name_taken":
		messages = []string{
			"That team name is already taken. Pick another.",
		}
	default:
		messages = []string{
			"Something went wrong. Try again in a moment.",
		}
	}

	return &GetErrorMessageOutput{Message: s.pick(messages)}, nil
}

func (s *service) pick(messages []string) string {
	return messages[s.rand.Intn(len(messages))]
}
