package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/slitherbot/slither/internal/announce"
	"github.com/slitherbot/slither/internal/auth"
	"github.com/slitherbot/slither/internal/board"
	"github.com/slitherbot/slither/internal/common/clock"
	"github.com/slitherbot/slither/internal/common/uuid"
	"github.com/slitherbot/slither/internal/dice"
	"github.com/slitherbot/slither/internal/gate"
	"github.com/slitherbot/slither/internal/models"
	gameRepo "github.com/slitherbot/slither/internal/repositories/game"
	guildRepo "github.com/slitherbot/slither/internal/repositories/guild"
	rollRepo "github.com/slitherbot/slither/internal/repositories/rollevent"
	teamRepo "github.com/slitherbot/slither/internal/repositories/team"
)

const (
	defaultDiceSides    = 6
	defaultMaxTeams     = 10
	defaultGameDuration = 7 * 24 * time.Hour
)

// service implements the Service interface
type service struct {
	diceSides           int
	defaultMaxTeams     int
	defaultGameDuration time.Duration

	gameRepo      gameRepo.Repository
	teamRepo      teamRepo.Repository
	rollEventRepo rollRepo.Repository
	guildRepo     guildRepo.Repository

	rollGate      *gate.Gate
	diceRoller    dice.Roller
	clock         clock.Clock
	uuidGenerator uuid.UUID
	announcer     announce.Announcer
	authorizer    auth.Authorizer

	logger zerolog.Logger
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.TeamRepo == nil {
		return nil, ErrNilTeamRepo
	}

	if cfg.RollEventRepo == nil {
		return nil, ErrNilRollEventRepo
	}

	if cfg.GuildRepo == nil {
		return nil, ErrNilGuildRepo
	}

	if cfg.RollGate == nil {
		return nil, ErrNilGate
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if cfg.Announcer == nil {
		return nil, ErrNilAnnouncer
	}

	if cfg.Authorizer == nil {
		return nil, ErrNilAuthorizer
	}

	diceSides := cfg.DiceSides
	if diceSides <= 0 {
		diceSides = defaultDiceSides
	}

	maxTeams := cfg.DefaultMaxTeams
	if maxTeams <= 0 {
		maxTeams = defaultMaxTeams
	}

	gameDuration := cfg.DefaultGameDuration
	if gameDuration <= 0 {
		gameDuration = defaultGameDuration
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &service{
		diceSides:           diceSides,
		defaultMaxTeams:     maxTeams,
		defaultGameDuration: gameDuration,
		gameRepo:            cfg.GameRepo,
		teamRepo:            cfg.TeamRepo,
		rollEventRepo:       cfg.RollEventRepo,
		guildRepo:           cfg.GuildRepo,
		rollGate:            cfg.RollGate,
		diceRoller:          cfg.DiceRoller,
		clock:               cfg.Clock,
		uuidGenerator:       cfg.UUIDGenerator,
		announcer:           cfg.Announcer,
		authorizer:          cfg.Authorizer,
		logger:              logger,
	}, nil
}

// CreateGame creates a new game in the pending state
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil || input.GuildID == "" || input.ChannelID == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}

	tiles := input.Tiles
	if tiles == nil {
		tiles = board.StandardTiles()
	}

	// Validate the topology before anything is stored
	b, err := board.New(tiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	settings := s.guildSettings(ctx, input.GuildID)

	now := s.clock.Now()

	deadline := input.ApplicationDeadline
	if deadline.IsZero() {
		deadline = now.Add(settings.DefaultGameDuration)
	}

	game := &models.Game{
		ID:                  s.uuidGenerator.NewUUID(),
		GuildID:             input.GuildID,
		ChannelID:           input.ChannelID,
		Name:                strings.TrimSpace(input.Name),
		CreatedBy:           input.CreatedBy,
		Status:              models.GameStatusPending,
		Tiles:               tiles,
		SnakeCount:          b.SnakeCount(),
		LadderCount:         b.LadderCount(),
		TeamIDs:             []string{},
		MaxTeamSize:         input.MaxTeamSize,
		ApplicationDeadline: deadline,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	return &CreateGameOutput{Game: game}, nil
}

// OpenRegistration moves a pending game into the registration phase
func (s *service) OpenRegistration(ctx context.Context, input *OpenRegistrationInput) (*OpenRegistrationOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if err := s.requireModerator(ctx, input.RequestedBy, game.GuildID); err != nil {
		return nil, err
	}

	if !game.Status.IsPending() {
		return nil, ErrInvalidTransition
	}

	// Registration needs a team size to advertise
	if game.MaxTeamSize <= 0 {
		return nil, ErrInvalidTransition
	}

	game.Status = models.GameStatusRegistration
	game.UpdatedAt = s.clock.Now()

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	return &OpenRegistrationOutput{Game: game}, nil
}

// AddTeam accepts a team into a game during registration
func (s *service) AddTeam(ctx context.Context, input *AddTeamInput) (*AddTeamOutput, error) {
	if input == nil || input.GameID == "" || strings.TrimSpace(input.TeamName) == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if err := s.requireModerator(ctx, input.RequestedBy, game.GuildID); err != nil {
		return nil, err
	}

	if !game.Status.IsRegistration() {
		return nil, ErrInvalidTransition
	}

	settings := s.guildSettings(ctx, game.GuildID)
	if len(game.TeamIDs) >= settings.MaxTeamsPerGame {
		return nil, ErrTooManyTeams
	}

	teamName := strings.TrimSpace(input.TeamName)

	existing, err := s.teamRepo.GetTeamsForGame(ctx, &teamRepo.GetTeamsForGameInput{
		GameID: game.ID,
	})
	if err != nil {
		return nil, err
	}

	for _, t := range existing.Teams {
		if strings.EqualFold(t.Name, teamName) {
			return nil, ErrTeamNameTaken
		}
	}

	now := s.clock.Now()
	team := &models.Team{
		ID:              s.uuidGenerator.NewUUID(),
		GameID:          game.ID,
		Name:            teamName,
		CurrentPosition: 0,
		CanRoll:         false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.teamRepo.SaveTeam(ctx, &teamRepo.SaveTeamInput{Team: team}); err != nil {
		return nil, err
	}

	game.TeamIDs = append(game.TeamIDs, team.ID)
	game.UpdatedAt = now

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	return &AddTeamOutput{Team: team}, nil
}

// StartGame moves a game with registered teams into active play
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if err := s.requireModerator(ctx, input.RequestedBy, game.GuildID); err != nil {
		return nil, err
	}

	if !game.Status.IsRegistration() {
		return nil, ErrInvalidTransition
	}

	if len(game.TeamIDs) == 0 {
		return nil, ErrInsufficientParticipants
	}

	settings := s.guildSettings(ctx, game.GuildID)

	if len(game.TeamIDs) > settings.MaxTeamsPerGame {
		return nil, ErrTooManyTeams
	}

	if !settings.AllowMultipleGames {
		active, err := s.gameRepo.GetActiveGamesForGuild(ctx, &gameRepo.GetActiveGamesForGuildInput{
			GuildID: game.GuildID,
		})
		if err != nil {
			return nil, err
		}

		for _, other := range active.Games {
			if other.ID != game.ID && other.Status.IsActive() {
				return nil, ErrMultipleGamesNotAllowed
			}
		}
	}

	game.Status = models.GameStatusActive
	game.UpdatedAt = s.clock.Now()

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	return &StartGameOutput{Game: game}, nil
}

// ArmTeam grants a team its next roll
func (s *service) ArmTeam(ctx context.Context, input *ArmTeamInput) (*ArmTeamOutput, error) {
	if input == nil || input.TeamID == "" {
		return nil, ErrInvalidInput
	}

	team, err := s.getTeam(ctx, input.TeamID)
	if err != nil {
		return nil, err
	}

	game, err := s.getGame(ctx, team.GameID)
	if err != nil {
		return nil, err
	}

	if err := s.requireModerator(ctx, input.RequestedBy, game.GuildID); err != nil {
		return nil, err
	}

	if game.Status.IsCompleted() || team.HasWon() {
		return nil, ErrGameCompletedOrWon
	}

	team.CanRoll = true
	team.UpdatedAt = s.clock.Now()

	if err := s.teamRepo.SaveTeam(ctx, &teamRepo.SaveTeamInput{Team: team}); err != nil {
		return nil, err
	}

	return &ArmTeamOutput{Team: team}, nil
}

// Roll performs a dice roll for a team. Requests are serialized per team:
// of any set of concurrent requests for one team, exactly one is processed
// and the rest are denied.
func (s *service) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil || input.GameID == "" || input.TeamID == "" {
		return nil, ErrInvalidInput
	}

	if input.DiceValue != 0 && (input.DiceValue < 1 || input.DiceValue > s.diceSides) {
		return nil, ErrInvalidInput
	}

	switch s.rollGate.Acquire(input.TeamID) {
	case gate.ResultInFlight:
		return &RollOutput{
			Denied:       true,
			DeniedReason: DeniedReasonInFlight,
		}, nil

	case gate.ResultExpired:
		// A previous roll abandoned its slot. Lock the team rather than
		// letting an ambiguous grant be consumed twice.
		if err := s.lockTeam(ctx, input.TeamID); err != nil {
			return nil, err
		}

		s.logger.Warn().
			Str("team_id", input.TeamID).
			Msg("cleared abandoned roll slot, team locked")

		return &RollOutput{
			Denied:       true,
			DeniedReason: DeniedReasonLocked,
		}, nil
	}

	held := true
	defer func() {
		if held {
			s.rollGate.Release(input.TeamID)
		}
	}()

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if !game.Status.IsActive() {
		return &RollOutput{
			Denied:       true,
			DeniedReason: DeniedReasonGameNotActive,
		}, nil
	}

	team, err := s.getTeam(ctx, input.TeamID)
	if err != nil {
		return nil, err
	}

	if team.GameID != game.ID {
		return nil, ErrTeamNotFound
	}

	if team.HasWon() {
		return nil, ErrGameCompletedOrWon
	}

	if !team.CanRoll {
		return &RollOutput{
			Denied:       true,
			DeniedReason: DeniedReasonLocked,
		}, nil
	}

	b, err := board.New(game.Tiles)
	if err != nil {
		return nil, fmt.Errorf("game %s has a corrupted board: %w", game.ID, err)
	}

	diceValue := input.DiceValue
	if diceValue == 0 {
		diceValue = s.diceRoller.Roll(s.diceSides)
	}

	result, err := b.ResolveRoll(team.CurrentPosition, diceValue)
	if err != nil {
		switch {
		case errors.Is(err, board.ErrAlreadyWon):
			return nil, ErrGameCompletedOrWon
		case errors.Is(err, board.ErrInvalidDice), errors.Is(err, board.ErrInvalidPosition):
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		default:
			return nil, err
		}
	}

	now := s.clock.Now()

	// A winning roll must claim the completion slot before anything is
	// committed. Exactly one concurrent winning commit succeeds; losers
	// learn another team already won and nothing of theirs is recorded.
	if result.Won {
		completed, err := s.gameRepo.CompleteGameIfActive(ctx, &gameRepo.CompleteGameIfActiveInput{
			GameID:       game.ID,
			WinnerTeamID: team.ID,
			Now:          now,
		})
		if err != nil {
			if errors.Is(err, gameRepo.ErrGameNotActive) {
				return &RollOutput{
					Denied:       true,
					DeniedReason: DeniedReasonGameNotActive,
				}, nil
			}
			return nil, err
		}
		game = completed
	}

	// Commit the team: rolling consumes the grant
	team.CurrentPosition = result.NewPosition
	team.CanRoll = input.Rearm && !result.Won
	team.UpdatedAt = now

	if err := s.teamRepo.SaveTeam(ctx, &teamRepo.SaveTeamInput{Team: team}); err != nil {
		return nil, err
	}

	event := &models.RollEvent{
		ID:            s.uuidGenerator.NewUUID(),
		GameID:        game.ID,
		TeamID:        team.ID,
		TeamName:      team.Name,
		DiceRoll:      result.DiceRoll,
		OldPosition:   result.OldPosition,
		NewPosition:   result.NewPosition,
		SnakeOrLadder: string(result.Effect),
		RolledBy:      input.RolledBy,
		CreatedAt:     now,
	}

	if err := s.rollEventRepo.AppendRoll(ctx, &rollRepo.AppendRollInput{Event: event}); err != nil {
		return nil, err
	}

	s.rollGate.Release(input.TeamID)
	held = false

	// Announcement is a post-commit side effect; a delivery failure never
	// rolls back the committed roll. The event stays queued for the sweep.
	s.announce(ctx, game, event)

	return &RollOutput{
		Event: event,
		Won:   result.Won,
	}, nil
}

// CompleteGame ends an active game without a winner
func (s *service) CompleteGame(ctx context.Context, input *CompleteGameInput) (*CompleteGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if err := s.requireModerator(ctx, input.RequestedBy, game.GuildID); err != nil {
		return nil, err
	}

	if !game.Status.IsActive() {
		return nil, ErrInvalidTransition
	}

	game.Status = models.GameStatusCompleted
	game.UpdatedAt = s.clock.Now()

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	return &CompleteGameOutput{Game: game}, nil
}

// ResetGame re-initializes a game. A full reset returns the game to
// pending; a positions reset clears the board but keeps the game in play.
// Roll history is never deleted.
func (s *service) ResetGame(ctx context.Context, input *ResetGameInput) (*ResetGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	if input.ResetType != ResetTypeFull && input.ResetType != ResetTypePositions {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if err := s.requireModerator(ctx, input.RequestedBy, game.GuildID); err != nil {
		return nil, err
	}

	if game.Status.IsPending() {
		return nil, ErrInvalidTransition
	}

	now := s.clock.Now()

	teams, err := s.teamRepo.GetTeamsForGame(ctx, &teamRepo.GetTeamsForGameInput{
		GameID: game.ID,
	})
	if err != nil {
		return nil, err
	}

	for _, team := range teams.Teams {
		team.CurrentPosition = 0
		team.CanRoll = false
		team.UpdatedAt = now

		if err := s.teamRepo.SaveTeam(ctx, &teamRepo.SaveTeamInput{Team: team}); err != nil {
			return nil, err
		}
	}

	switch input.ResetType {
	case ResetTypeFull:
		game.Status = models.GameStatusPending
	case ResetTypePositions:
		// Re-open play when the game had already finished
		if game.Status.IsCompleted() {
			game.Status = models.GameStatusActive
		}
	}

	game.WinnerTeamID = ""
	game.UpdatedAt = now

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	return &ResetGameOutput{Game: game}, nil
}

// GetGame retrieves a game and its teams
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.GetTeamsForGame(ctx, &teamRepo.GetTeamsForGameInput{
		GameID: game.ID,
	})
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{
		Game:  game,
		Teams: teams.Teams,
	}, nil
}

// GetGameByChannel resolves the game a channel's commands should act on.
// An active game wins; otherwise the newest pending or registration game
// in the channel is returned so moderators can manage it pre-start.
func (s *service) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameByChannelOutput, error) {
	if input == nil || input.GuildID == "" || input.ChannelID == "" {
		return nil, ErrInvalidInput
	}

	active, err := s.gameRepo.GetActiveGamesForGuild(ctx, &gameRepo.GetActiveGamesForGuildInput{
		GuildID: input.GuildID,
	})
	if err != nil {
		return nil, err
	}

	// The guild's open-games set also holds pending and registration
	// games, so filter to truly active here
	for _, g := range active.Games {
		if g.ChannelID == input.ChannelID && g.Status.IsActive() {
			return &GetGameByChannelOutput{Game: g}, nil
		}
	}

	all, err := s.gameRepo.GetGamesForGuild(ctx, &gameRepo.GetGamesForGuildInput{
		GuildID: input.GuildID,
	})
	if err != nil {
		return nil, err
	}

	// Newest first, so the first open match is the one to act on
	for _, g := range all.Games {
		if g.ChannelID != input.ChannelID {
			continue
		}
		if g.Status.IsPending() || g.Status.IsRegistration() {
			return &GetGameByChannelOutput{Game: g}, nil
		}
	}

	return nil, ErrGameNotFound
}

// GetStandings returns the current board positions for a game, best first
func (s *service) GetStandings(ctx context.Context, input *GetStandingsInput) (*GetStandingsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.GetTeamsForGame(ctx, &teamRepo.GetTeamsForGameInput{
		GameID: game.ID,
	})
	if err != nil {
		return nil, err
	}

	standings := &models.Standings{
		GameID: game.ID,
		Teams:  make([]*models.TeamStanding, 0, len(teams.Teams)),
	}

	for _, team := range teams.Teams {
		standings.Teams = append(standings.Teams, &models.TeamStanding{
			TeamID:   team.ID,
			TeamName: team.Name,
			Position: team.CurrentPosition,
			CanRoll:  team.CanRoll,
		})
	}

	sort.SliceStable(standings.Teams, func(i, j int) bool {
		return standings.Teams[i].Position > standings.Teams[j].Position
	})

	return &GetStandingsOutput{Standings: standings}, nil
}

// GetRollHistory returns a game's roll events, newest first
func (s *service) GetRollHistory(ctx context.Context, input *GetRollHistoryInput) (*GetRollHistoryOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	out, err := s.rollEventRepo.GetRollsForGame(ctx, &rollRepo.GetRollsForGameInput{
		GameID: input.GameID,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &GetRollHistoryOutput{Events: out.Events}, nil
}

// SweepUnannounced retries announcement delivery for unannounced rolls,
// oldest first. Safe to run repeatedly; delivery is at-least-once and
// MarkAnnounced is idempotent.
func (s *service) SweepUnannounced(ctx context.Context, input *SweepUnannouncedInput) (*SweepUnannouncedOutput, error) {
	if input == nil {
		input = &SweepUnannouncedInput{}
	}

	pending, err := s.rollEventRepo.GetUnannounced(ctx, &rollRepo.GetUnannouncedInput{
		Limit: input.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := &SweepUnannouncedOutput{}
	games := make(map[string]*models.Game)

	for _, event := range pending.Events {
		game, ok := games[event.GameID]
		if !ok {
			game, err = s.getGame(ctx, event.GameID)
			if err != nil {
				s.logger.Error().Err(err).
					Str("roll_id", event.ID).
					Str("game_id", event.GameID).
					Msg("skipping unannounced roll for missing game")
				out.Failed++
				continue
			}
			games[event.GameID] = game
		}

		if err := s.announcer.Notify(ctx, &announce.NotifyInput{
			GameID:    game.ID,
			ChannelID: game.ChannelID,
			Event:     event,
		}); err != nil {
			s.logger.Warn().Err(err).
				Str("roll_id", event.ID).
				Msg("announcement retry failed")
			out.Failed++
			continue
		}

		if err := s.rollEventRepo.MarkAnnounced(ctx, &rollRepo.MarkAnnouncedInput{
			RollID: event.ID,
		}); err != nil {
			s.logger.Error().Err(err).
				Str("roll_id", event.ID).
				Msg("failed to mark roll announced")
			out.Failed++
			continue
		}

		out.Announced++
	}

	return out, nil
}

// announce delivers a freshly committed event, marking it on success
func (s *service) announce(ctx context.Context, game *models.Game, event *models.RollEvent) {
	if err := s.announcer.Notify(ctx, &announce.NotifyInput{
		GameID:    game.ID,
		ChannelID: game.ChannelID,
		Event:     event,
	}); err != nil {
		s.logger.Warn().Err(err).
			Str("roll_id", event.ID).
			Str("game_id", game.ID).
			Msg("roll announcement failed, event queued for retry")
		return
	}

	if err := s.rollEventRepo.MarkAnnounced(ctx, &rollRepo.MarkAnnouncedInput{
		RollID: event.ID,
	}); err != nil {
		s.logger.Error().Err(err).
			Str("roll_id", event.ID).
			Msg("failed to mark roll announced")
	}
}

// getGame loads a game, mapping repository not-found to the service error
func (s *service) getGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.gameRepo.GetGame(ctx, &gameRepo.GetGameInput{GameID: gameID})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

// getTeam loads a team, mapping repository not-found to the service error
func (s *service) getTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.GetTeam(ctx, &teamRepo.GetTeamInput{TeamID: teamID})
	if err != nil {
		if errors.Is(err, teamRepo.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

// lockTeam persists canRoll=false for a team
func (s *service) lockTeam(ctx context.Context, teamID string) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if !team.CanRoll {
		return nil
	}

	team.CanRoll = false
	team.UpdatedAt = s.clock.Now()

	return s.teamRepo.SaveTeam(ctx, &teamRepo.SaveTeamInput{Team: team})
}

// requireModerator enforces the moderator capability for management operations
func (s *service) requireModerator(ctx context.Context, userID, guildID string) error {
	if userID == "" {
		return ErrNotModerator
	}

	ok, err := s.authorizer.IsModerator(ctx, &auth.IsModeratorInput{
		UserID:  userID,
		GuildID: guildID,
	})
	if err != nil {
		return err
	}

	if !ok {
		return ErrNotModerator
	}

	return nil
}

// guildSettings loads a guild's settings, falling back to defaults
func (s *service) guildSettings(ctx context.Context, guildID string) *models.GuildSettings {
	settings, err := s.guildRepo.GetSettings(ctx, &guildRepo.GetSettingsInput{
		GuildID: guildID,
	})
	if err != nil {
		if !errors.Is(err, guildRepo.ErrSettingsNotFound) {
			s.logger.Warn().Err(err).
				Str("guild_id", guildID).
				Msg("failed to load guild settings, using defaults")
		}

		return &models.GuildSettings{
			GuildID:             guildID,
			MaxTeamsPerGame:     s.defaultMaxTeams,
			AllowMultipleGames:  false,
			DefaultGameDuration: s.defaultGameDuration,
		}
	}

	if settings.MaxTeamsPerGame <= 0 {
		settings.MaxTeamsPerGame = s.defaultMaxTeams
	}

	if settings.DefaultGameDuration <= 0 {
		settings.DefaultGameDuration = s.defaultGameDuration
	}

	return settings
}
