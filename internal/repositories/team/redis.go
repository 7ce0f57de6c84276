package team

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/slitherbot/slither/internal/models"
)

const (
	// Key prefixes for Redis
	teamKeyPrefix      = "team:"
	gameTeamsKeyPrefix = "game_teams:"
)

// ErrTeamNotFound is returned when a team is not found
var ErrTeamNotFound = errors.New("team not found")

// Config holds configuration for the Redis team repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed team repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveTeam persists a team to Redis
func (r *redisRepository) SaveTeam(ctx context.Context, input *SaveTeamInput) error {
	if input == nil || input.Team == nil {
		return errors.New("input and team cannot be nil")
	}

	teamJSON, err := json.Marshal(input.Team)
	if err != nil {
		return fmt.Errorf("failed to marshal team: %w", err)
	}

	pipe := r.client.Pipeline()

	teamKey := fmt.Sprintf("%s%s", teamKeyPrefix, input.Team.ID)
	pipe.Set(ctx, teamKey, teamJSON, 0)

	// Index the team under its game, scored by join time
	if input.Team.GameID != "" {
		gameKey := fmt.Sprintf("%s%s", gameTeamsKeyPrefix, input.Team.GameID)
		pipe.ZAdd(ctx, gameKey, redis.Z{
			Score:  float64(input.Team.CreatedAt.UnixNano()),
			Member: input.Team.ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save team: %w", err)
	}

	return nil
}

// GetTeam retrieves a team by ID from Redis
func (r *redisRepository) GetTeam(ctx context.Context, input *GetTeamInput) (*models.Team, error) {
	if input == nil || input.TeamID == "" {
		return nil, errors.New("input and team ID cannot be empty")
	}

	teamKey := fmt.Sprintf("%s%s", teamKeyPrefix, input.TeamID)
	teamJSON, err := r.client.Get(ctx, teamKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	var team models.Team
	if err := json.Unmarshal([]byte(teamJSON), &team); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team: %w", err)
	}

	return &team, nil
}

// GetTeamsForGame retrieves all teams in a game, in join order
func (r *redisRepository) GetTeamsForGame(ctx context.Context, input *GetTeamsForGameInput) (*GetTeamsForGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	gameKey := fmt.Sprintf("%s%s", gameTeamsKeyPrefix, input.GameID)
	teamIDs, err := r.client.ZRange(ctx, gameKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get team IDs for game: %w", err)
	}

	if len(teamIDs) == 0 {
		return &GetTeamsForGameOutput{
			Teams: []*models.Team{},
		}, nil
	}

	pipe := r.client.Pipeline()
	teamCommands := make(map[string]*redis.StringCmd, len(teamIDs))

	for _, teamID := range teamIDs {
		teamKey := fmt.Sprintf("%s%s", teamKeyPrefix, teamID)
		teamCommands[teamID] = pipe.Get(ctx, teamKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	teams := make([]*models.Team, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		teamJSON, err := teamCommands[teamID].Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
		}

		var team models.Team
		if err := json.Unmarshal([]byte(teamJSON), &team); err != nil {
			return nil, fmt.Errorf("failed to unmarshal team %s: %w", teamID, err)
		}

		teams = append(teams, &team)
	}

	return &GetTeamsForGameOutput{
		Teams: teams,
	}, nil
}

// DeleteTeam removes a team from Redis
func (r *redisRepository) DeleteTeam(ctx context.Context, input *DeleteTeamInput) error {
	if input == nil || input.TeamID == "" {
		return errors.New("input and team ID cannot be empty")
	}

	team, err := r.GetTeam(ctx, &GetTeamInput{
		TeamID: input.TeamID,
	})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()

	teamKey := fmt.Sprintf("%s%s", teamKeyPrefix, input.TeamID)
	pipe.Del(ctx, teamKey)

	if team.GameID != "" {
		gameKey := fmt.Sprintf("%s%s", gameTeamsKeyPrefix, team.GameID)
		pipe.ZRem(ctx, gameKey, input.TeamID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}
