package guild

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
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
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
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetSettings() {
	settings := &models.GuildSettings{
		GuildID:             "test-guild-id",
		ModeratorRoleID:     "test-role-id",
		MaxTeamsPerGame:     8,
		AllowMultipleGames:  true,
		DefaultGameDuration: 7 * 24 * time.Hour,
	}

	err := s.repo.SaveSettings(context.Background(), &SaveSettingsInput{
		Settings: settings,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSettings(context.Background(), &GetSettingsInput{
		GuildID: "test-guild-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-guild-id", retrieved.GuildID)
	s.Equal("test-role-id", retrieved.ModeratorRoleID)
	s.Equal(8, retrieved.MaxTeamsPerGame)
	s.True(retrieved.AllowMultipleGames)
	s.Equal(7*24*time.Hour, retrieved.DefaultGameDuration)
}

func (s *RedisRepositoryTestSuite) TestGetSettingsNotFound() {
	_, err := s.repo.GetSettings(context.Background(), &GetSettingsInput{
		GuildID: "missing-guild-id",
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrSettingsNotFound)
}

func (s *RedisRepositoryTestSuite) TestSaveSettingsRequiresGuildID() {
	err := s.repo.SaveSettings(context.Background(), &SaveSettingsInput{
		Settings: &models.GuildSettings{},
	})
	s.Require().Error(err)
}
