package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/slitherbot/slither/internal/models"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	service Service
	ctx     context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	svc, err := NewService(&ServiceConfig{Seed: 42})
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

func (s *MessagingServiceTestSuite) TestLadderAnnouncement() {
	out, err := s.service.GetRollAnnouncement(s.ctx, &GetRollAnnouncementInput{
		Event: &models.RollEvent{
			TeamName:      "The Mongooses",
			DiceRoll:      1,
			OldPosition:   8,
			NewPosition:   31,
			SnakeOrLadder: "Ladder",
		},
	})
	s.Require().NoError(err)
	s.Contains(out.Title, "Ladder")
	s.Contains(out.Message, "The Mongooses")
	s.Contains(out.Message, "31")
}

func (s *MessagingServiceTestSuite) TestSnakeAnnouncement() {
	out, err := s.service.GetRollAnnouncement(s.ctx, &GetRollAnnouncementInput{
		Event: &models.RollEvent{
			TeamName:      "The Cobras",
			DiceRoll:      1,
			OldPosition:   46,
			NewPosition:   26,
			SnakeOrLadder: "Snake",
		},
	})
	s.Require().NoError(err)
	s.Contains(out.Title, "Snake")
	s.Contains(out.Message, "The Cobras")
	s.Contains(out.Message, "26")
}

func (s *MessagingServiceTestSuite) TestWinAnnouncement() {
	out, err := s.service.GetRollAnnouncement(s.ctx, &GetRollAnnouncementInput{
		Event: &models.RollEvent{
			TeamName:    "The Mongooses",
			DiceRoll:    6,
			OldPosition: 94,
			NewPosition: 100,
		},
		Won: true,
	})
	s.Require().NoError(err)
	s.Equal(ToneCelebration, out.Tone)
	s.Contains(out.Message, "The Mongooses")
}

func (s *MessagingServiceTestSuite) TestDenialMessages() {
	for _, reason := range []string{"locked", "already_in_flight", "game_not_active", "unknown"} {
		out, err := s.service.GetDenialMessage(s.ctx, &GetDenialMessageInput{
			TeamName: "The Mongooses",
			Reason:   reason,
		})
		s.Require().NoError(err)
		s.Contains(out.Message, "The Mongooses")
	}
}

func (s *MessagingServiceTestSuite) TestGameStatusMessages() {
	for _, status := range []models.GameStatus{
		models.GameStatusPending,
		models.GameStatusRegistration,
		models.GameStatusActive,
		models.GameStatusCompleted,
	} {
		out, err := s.service.GetGameStatusMessage(s.ctx, &GetGameStatusMessageInput{
			GameStatus: status,
			GameName:   "Summer Ladder",
			TeamCount:  3,
		})
		s.Require().NoError(err)
		s.Contains(out.Message, "Summer Ladder")
	}
}

func (s *MessagingServiceTestSuite) TestUnknownStatusRejected() {
	_, err := s.service.GetGameStatusMessage(s.ctx, &GetGameStatusMessageInput{
		GameStatus: models.GameStatus("bogus"),
		GameName:   "Summer Ladder",
	})
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestErrorMessages() {
	out, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{ErrorType: "not_moderator"})
	s.Require().NoError(err)
	s.Contains(out.Message, "moderator")
}
