package game

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
	gameKeyPrefix       = "game:"
	guildGamesKeyPrefix = "guild_games:"
	activeGamesPrefix   = "active_games:"
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

// ErrGameNotActive is returned by CompleteGameIfActive when the game has
// already left the active state
var ErrGameNotActive = errors.New("game is not active")

// completeRetries bounds optimistic-lock retries when the game key is
// modified concurrently
const completeRetries = 3

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
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

// SaveGame persists a game to Redis
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}

	gameJSON, err := json.Marshal(input.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	pipe := r.client.Pipeline()

	gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, input.Game.ID)
	pipe.Set(ctx, gameKey, gameJSON, 0)

	// Index the game under its guild
	if input.Game.GuildID != "" {
		guildKey := fmt.Sprintf("%s%s", guildGamesKeyPrefix, input.Game.GuildID)
		pipe.ZAdd(ctx, guildKey, redis.Z{
			Score:  float64(input.Game.CreatedAt.UnixNano()),
			Member: input.Game.ID,
		})

		// Track games that still accept play in a per-guild set so the
		// engine can enforce the one-active-game constraint cheaply
		activeKey := fmt.Sprintf("%s%s", activeGamesPrefix, input.Game.GuildID)
		if input.Game.Status == models.GameStatusCompleted {
			pipe.SRem(ctx, activeKey, input.Game.ID)
		} else {
			pipe.SAdd(ctx, activeKey, input.Game.ID)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// CompleteGameIfActive atomically moves a game from active to completed and
// records the winner. The status check and the write happen under WATCH, so
// of any set of concurrent winning commits exactly one succeeds; the rest
// get ErrGameNotActive.
func (r *redisRepository) CompleteGameIfActive(ctx context.Context, input *CompleteGameIfActiveInput) (*models.Game, error) {
	if input == nil || input.GameID == "" || input.WinnerTeamID == "" {
		return nil, errors.New("input, game ID and winner team ID cannot be empty")
	}

	gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, input.GameID)
	var completed *models.Game

	txn := func(tx *redis.Tx) error {
		gameJSON, err := tx.Get(ctx, gameKey).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to get game: %w", err)
		}

		var game models.Game
		if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
			return fmt.Errorf("failed to unmarshal game: %w", err)
		}

		if !game.Status.IsActive() {
			return ErrGameNotActive
		}

		game.Status = models.GameStatusCompleted
		game.WinnerTeamID = input.WinnerTeamID
		game.UpdatedAt = input.Now

		updatedJSON, err := json.Marshal(&game)
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey, updatedJSON, 0)
			if game.GuildID != "" {
				activeKey := fmt.Sprintf("%s%s", activeGamesPrefix, game.GuildID)
				pipe.SRem(ctx, activeKey, game.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		completed = &game
		return nil
	}

	for attempt := 0; attempt < completeRetries; attempt++ {
		err := r.client.Watch(ctx, txn, gameKey)
		if err == nil {
			return completed, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// The key changed under us; re-read and re-check the status
			continue
		}
		return nil, err
	}

	return nil, redis.TxFailedErr
}

// GetGame retrieves a game by ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, input.GameID)
	gameJSON, err := r.client.Get(ctx, gameKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game models.Game
	if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// GetGamesForGuild retrieves all games in a guild, newest first
func (r *redisRepository) GetGamesForGuild(ctx context.Context, input *GetGamesForGuildInput) (*GetGamesForGuildOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guildKey := fmt.Sprintf("%s%s", guildGamesKeyPrefix, input.GuildID)
	gameIDs, err := r.client.ZRevRange(ctx, guildKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game IDs for guild: %w", err)
	}

	games, err := r.getGames(ctx, gameIDs)
	if err != nil {
		return nil, err
	}

	return &GetGamesForGuildOutput{
		Games: games,
	}, nil
}

// GetActiveGamesForGuild retrieves the guild's games that are not completed
func (r *redisRepository) GetActiveGamesForGuild(ctx context.Context, input *GetActiveGamesForGuildInput) (*GetActiveGamesForGuildOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	activeKey := fmt.Sprintf("%s%s", activeGamesPrefix, input.GuildID)
	gameIDs, err := r.client.SMembers(ctx, activeKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active game IDs: %w", err)
	}

	games, err := r.getGames(ctx, gameIDs)
	if err != nil {
		return nil, err
	}

	return &GetActiveGamesForGuildOutput{
		Games: games,
	}, nil
}

// DeleteGame removes a game from Redis
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	// Get the game first for its guild indexes
	game, err := r.GetGame(ctx, &GetGameInput{
		GameID: input.GameID,
	})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()

	gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, input.GameID)
	pipe.Del(ctx, gameKey)

	if game.GuildID != "" {
		guildKey := fmt.Sprintf("%s%s", guildGamesKeyPrefix, game.GuildID)
		pipe.ZRem(ctx, guildKey, input.GameID)

		activeKey := fmt.Sprintf("%s%s", activeGamesPrefix, game.GuildID)
		pipe.SRem(ctx, activeKey, input.GameID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// getGames fetches a batch of games by ID, skipping ones deleted in between
func (r *redisRepository) getGames(ctx context.Context, gameIDs []string) ([]*models.Game, error) {
	if len(gameIDs) == 0 {
		return []*models.Game{}, nil
	}

	pipe := r.client.Pipeline()
	gameCommands := make(map[string]*redis.StringCmd, len(gameIDs))

	for _, gameID := range gameIDs {
		gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, gameID)
		gameCommands[gameID] = pipe.Get(ctx, gameKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	games := make([]*models.Game, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		gameJSON, err := gameCommands[gameID].Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get game %s: %w", gameID, err)
		}

		var game models.Game
		if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameID, err)
		}

		games = append(games, &game)
	}

	return games, nil
}
