package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/slitherbot/slither/internal/common/clock"
	"github.com/slitherbot/slither/internal/common/uuid"
	"github.com/slitherbot/slither/internal/dice"
	"github.com/slitherbot/slither/internal/gate"
	"github.com/slitherbot/slither/internal/handlers/discord"
	gameRepo "github.com/slitherbot/slither/internal/repositories/game"
	guildRepo "github.com/slitherbot/slither/internal/repositories/guild"
	rollRepo "github.com/slitherbot/slither/internal/repositories/rollevent"
	teamRepo "github.com/slitherbot/slither/internal/repositories/team"
	gameService "github.com/slitherbot/slither/internal/services/game"
	"github.com/slitherbot/slither/internal/services/messaging"
)

type config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,required"`
	ApplicationID string `env:"APPLICATION_ID"`
	GuildID       string `env:"GUILD_ID"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
}

func main() {
	// A missing .env is fine in production
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to parse configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
	}

	games, err := gameRepo.NewRedis(&gameRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create game repository")
	}

	teams, err := teamRepo.NewRedis(&teamRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create team repository")
	}

	rolls, err := rollRepo.NewRedis(&rollRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create roll event repository")
	}

	guilds, err := guildRepo.NewRedis(&guildRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create guild repository")
	}

	clk := &clock.DefaultClock{}

	rollGate, err := gate.New(&gate.Config{Clock: clk})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create roll gate")
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create messaging service")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	announcer, err := discord.NewAnnouncer(&discord.AnnouncerConfig{
		Session:          session,
		MessagingService: messagingSvc,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create announcer")
	}

	authorizer, err := discord.NewAuthorizer(&discord.AuthorizerConfig{
		Session:   session,
		GuildRepo: guilds,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create authorizer")
	}

	gameSvc, err := gameService.New(&gameService.Config{
		GameRepo:      games,
		TeamRepo:      teams,
		RollEventRepo: rolls,
		GuildRepo:     guilds,
		RollGate:      rollGate,
		DiceRoller:    dice.New(&dice.Config{}),
		Clock:         clk,
		UUIDGenerator: uuid.New(),
		Announcer:     announcer,
		Authorizer:    authorizer,
		Logger:        &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create game service")
	}

	bot, err := discord.New(&discord.Config{
		Session:          session,
		ApplicationID:    cfg.ApplicationID,
		GuildID:          cfg.GuildID,
		GameService:      gameSvc,
		MessagingService: messagingSvc,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create discord bot")
	}

	if err := bot.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start discord bot")
	}

	// Retry announcements that failed delivery
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweeper(sweepCtx, gameSvc, cfg.SweepInterval, logger)

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	stopSweep()

	if err := bot.Stop(); err != nil {
		logger.Error().Err(err).Msg("error stopping bot")
	}

	logger.Info().Msg("bot has been shut down")
}

// runSweeper periodically redelivers unannounced roll events
func runSweeper(ctx context.Context, svc gameService.Service, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			output, err := svc.SweepUnannounced(ctx, &gameService.SweepUnannouncedInput{})
			if err != nil {
				logger.Error().Err(err).Msg("announcement sweep failed")
				continue
			}
			if output.Announced > 0 || output.Failed > 0 {
				logger.Info().
					Int("announced", output.Announced).
					Int("failed", output.Failed).
					Msg("announcement sweep completed")
			}
		}
	}
}
