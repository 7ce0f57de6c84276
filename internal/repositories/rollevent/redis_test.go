package rollevent

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/slitherbot/slither/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newEvent(id string, createdAt time.Time) *models.RollEvent {
	return &models.RollEvent{
		ID:            id,
		GameID:        "test-game-id",
		TeamID:        "test-team-id",
		TeamName:      "The Mongooses",
		DiceRoll:      4,
		OldPosition:   5,
		NewPosition:   31,
		SnakeOrLadder: "Ladder",
		RolledBy:      "test-user-id",
		CreatedAt:     createdAt,
	}
}

func (s *RedisRepositoryTestSuite) TestAppendAndGetRoll() {
	event := s.newEvent("test-roll-id", s.testNow)

	err := s.repo.AppendRoll(context.Background(), &AppendRollInput{
		Event: event,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetRoll(context.Background(), &GetRollInput{
		RollID: "test-roll-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-roll-id", retrieved.ID)
	s.Equal("test-game-id", retrieved.GameID)
	s.Equal("test-team-id", retrieved.TeamID)
	s.Equal(4, retrieved.DiceRoll)
	s.Equal(5, retrieved.OldPosition)
	s.Equal(31, retrieved.NewPosition)
	s.Equal("Ladder", retrieved.SnakeOrLadder)
	s.False(retrieved.AnnouncementSent)
}

func (s *RedisRepositoryTestSuite) TestAppendDuplicateRollID() {
	event := s.newEvent("test-roll-id", s.testNow)
	s.Require().NoError(s.repo.AppendRoll(context.Background(), &AppendRollInput{Event: event}))

	err := s.repo.AppendRoll(context.Background(), &AppendRollInput{
		Event: s.newEvent("test-roll-id", s.testNow.Add(time.Second)),
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrDuplicateRollID)
}

func (s *RedisRepositoryTestSuite) TestGetRollNotFound() {
	_, err := s.repo.GetRoll(context.Background(), &GetRollInput{
		RollID: "missing-roll-id",
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrRollNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetRollsForGameNewestFirst() {
	for i, id := range []string{"roll-1", "roll-2", "roll-3"} {
		event := s.newEvent(id, s.testNow.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.repo.AppendRoll(context.Background(), &AppendRollInput{Event: event}))
	}

	out, err := s.repo.GetRollsForGame(context.Background(), &GetRollsForGameInput{
		GameID: "test-game-id",
	})
	s.Require().NoError(err)
	s.Require().Len(out.Events, 3)
	s.Equal("roll-3", out.Events[0].ID)
	s.Equal("roll-2", out.Events[1].ID)
	s.Equal("roll-1", out.Events[2].ID)
}

func (s *RedisRepositoryTestSuite) TestGetRollsForGameLimit() {
	for i, id := range []string{"roll-1", "roll-2", "roll-3"} {
		event := s.newEvent(id, s.testNow.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.repo.AppendRoll(context.Background(), &AppendRollInput{Event: event}))
	}

	out, err := s.repo.GetRollsForGame(context.Background(), &GetRollsForGameInput{
		GameID: "test-game-id",
		Limit:  2,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Events, 2)
	s.Equal("roll-3", out.Events[0].ID)
	s.Equal("roll-2", out.Events[1].ID)
}

func (s *RedisRepositoryTestSuite) TestGetUnannouncedOldestFirst() {
	for i, id := range []string{"roll-1", "roll-2"} {
		event := s.newEvent(id, s.testNow.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.repo.AppendRoll(context.Background(), &AppendRollInput{Event: event}))
	}

	out, err := s.repo.GetUnannounced(context.Background(), &GetUnannouncedInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Events, 2)
	s.Equal("roll-1", out.Events[0].ID)
	s.Equal("roll-2", out.Events[1].ID)
}

func (s *RedisRepositoryTestSuite) TestMarkAnnounced() {
	event := s.newEvent("test-roll-id", s.testNow)
	s.Require().NoError(s.repo.AppendRoll(context.Background(), &AppendRollInput{Event: event}))

	err := s.repo.MarkAnnounced(context.Background(), &MarkAnnouncedInput{
		RollID: "test-roll-id",
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetRoll(context.Background(), &GetRollInput{
		RollID: "test-roll-id",
	})
	s.Require().NoError(err)
	s.True(retrieved.AnnouncementSent)

	out, err := s.repo.GetUnannounced(context.Background(), &GetUnannouncedInput{})
	s.Require().NoError(err)
	s.Empty(out.Events)
}

func (s *RedisRepositoryTestSuite) TestMarkAnnouncedIdempotent() {
	event := s.newEvent("test-roll-id", s.testNow)
	s.Require().NoError(s.repo.AppendRoll(context.Background(), &AppendRollInput{Event: event}))

	s.Require().NoError(s.repo.MarkAnnounced(context.Background(), &MarkAnnouncedInput{RollID: "test-roll-id"}))
	s.Require().NoError(s.repo.MarkAnnounced(context.Background(), &MarkAnnouncedInput{RollID: "test-roll-id"}))

	retrieved, err := s.repo.GetRoll(context.Background(), &GetRollInput{
		RollID: "test-roll-id",
	})
	s.Require().NoError(err)
	s.True(retrieved.AnnouncementSent)
}

func (s *RedisRepositoryTestSuite) TestMarkAnnouncedNotFound() {
	err := s.repo.MarkAnnounced(context.Background(), &MarkAnnouncedInput{
		RollID: "missing-roll-id",
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrRollNotFound)
}
