package rollevent

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
	rollKeyPrefix      = "roll:"
	gameRollsKeyPrefix = "game_rolls:"
	unannouncedKey     = "unannounced_rolls"
)

// Define errors
var (
	// ErrRollNotFound is returned when a roll event is not found
	ErrRollNotFound = errors.New("roll event not found")

	// ErrDuplicateRollID is returned when appending an event whose ID already exists
	ErrDuplicateRollID = errors.New("roll ID already exists")
)

// Config holds configuration for the Redis roll event repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed roll event repository
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

// AppendRoll writes a new roll event to the log
func (r *redisRepository) AppendRoll(ctx context.Context, input *AppendRollInput) error {
	if input == nil || input.Event == nil {
		return errors.New("input and event cannot be nil")
	}

	event := input.Event

	if event.ID == "" {
		return errors.New("roll ID cannot be empty")
	}

	if event.CreatedAt.IsZero() {
		return errors.New("roll created time cannot be zero")
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal roll event: %w", err)
	}

	// SetNX guards roll ID uniqueness; the indexes are only written once
	// the event key is known to be new
	rollKey := fmt.Sprintf("%s%s", rollKeyPrefix, event.ID)
	created, err := r.client.SetNX(ctx, rollKey, eventJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to append roll event: %w", err)
	}

	if !created {
		return ErrDuplicateRollID
	}

	pipe := r.client.Pipeline()

	gameKey := fmt.Sprintf("%s%s", gameRollsKeyPrefix, event.GameID)
	pipe.ZAdd(ctx, gameKey, redis.Z{
		Score:  float64(event.CreatedAt.UnixNano()),
		Member: event.ID,
	})

	if !event.AnnouncementSent {
		pipe.ZAdd(ctx, unannouncedKey, redis.Z{
			Score:  float64(event.CreatedAt.UnixNano()),
			Member: event.ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index roll event: %w", err)
	}

	return nil
}

// GetRoll retrieves a roll event by ID from Redis
func (r *redisRepository) GetRoll(ctx context.Context, input *GetRollInput) (*models.RollEvent, error) {
	if input == nil || input.RollID == "" {
		return nil, errors.New("input and roll ID cannot be empty")
	}

	return r.getRoll(ctx, input.RollID)
}

// GetRollsForGame retrieves a game's roll events, newest first
func (r *redisRepository) GetRollsForGame(ctx context.Context, input *GetRollsForGameInput) (*GetRollsForGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	gameKey := fmt.Sprintf("%s%s", gameRollsKeyPrefix, input.GameID)
	rollIDs, err := r.client.ZRevRange(ctx, gameKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get roll IDs for game: %w", err)
	}

	events, err := r.getRolls(ctx, rollIDs)
	if err != nil {
		return nil, err
	}

	return &GetRollsForGameOutput{
		Events: events,
	}, nil
}

// GetUnannounced retrieves events not yet announced, oldest first
func (r *redisRepository) GetUnannounced(ctx context.Context, input *GetUnannouncedInput) (*GetUnannouncedOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	rollIDs, err := r.client.ZRange(ctx, unannouncedKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get unannounced roll IDs: %w", err)
	}

	events, err := r.getRolls(ctx, rollIDs)
	if err != nil {
		return nil, err
	}

	return &GetUnannouncedOutput{
		Events: events,
	}, nil
}

// MarkAnnounced records that an event was handed to the announcer
func (r *redisRepository) MarkAnnounced(ctx context.Context, input *MarkAnnouncedInput) error {
	if input == nil || input.RollID == "" {
		return errors.New("input and roll ID cannot be empty")
	}

	event, err := r.getRoll(ctx, input.RollID)
	if err != nil {
		return err
	}

	// Idempotent: a second call finds the flag already set
	if event.AnnouncementSent {
		return nil
	}

	event.AnnouncementSent = true

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal roll event: %w", err)
	}

	pipe := r.client.Pipeline()

	rollKey := fmt.Sprintf("%s%s", rollKeyPrefix, input.RollID)
	pipe.Set(ctx, rollKey, eventJSON, 0)
	pipe.ZRem(ctx, unannouncedKey, input.RollID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark roll announced: %w", err)
	}

	return nil
}

// getRoll fetches a single event by ID
func (r *redisRepository) getRoll(ctx context.Context, rollID string) (*models.RollEvent, error) {
	rollKey := fmt.Sprintf("%s%s", rollKeyPrefix, rollID)
	eventJSON, err := r.client.Get(ctx, rollKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRollNotFound
		}
		return nil, fmt.Errorf("failed to get roll event: %w", err)
	}

	var event models.RollEvent
	if err := json.Unmarshal([]byte(eventJSON), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roll event: %w", err)
	}

	return &event, nil
}

// getRolls fetches a batch of events by ID, preserving the input order
func (r *redisRepository) getRolls(ctx context.Context, rollIDs []string) ([]*models.RollEvent, error) {
	if len(rollIDs) == 0 {
		return []*models.RollEvent{}, nil
	}

	pipe := r.client.Pipeline()
	rollCommands := make(map[string]*redis.StringCmd, len(rollIDs))

	for _, rollID := range rollIDs {
		rollKey := fmt.Sprintf("%s%s", rollKeyPrefix, rollID)
		rollCommands[rollID] = pipe.Get(ctx, rollKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get roll events: %w", err)
	}

	events := make([]*models.RollEvent, 0, len(rollIDs))
	for _, rollID := range rollIDs {
		eventJSON, err := rollCommands[rollID].Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get roll event %s: %w", rollID, err)
		}

		var event models.RollEvent
		if err := json.Unmarshal([]byte(eventJSON), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal roll event %s: %w", rollID, err)
		}

		events = append(events, &event)
	}

	return events, nil
}
