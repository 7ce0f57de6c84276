package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/slitherbot/slither/internal/announce"
	announceMocks "github.com/slitherbot/slither/internal/announce/mocks"
	"github.com/slitherbot/slither/internal/auth"
	authMocks "github.com/slitherbot/slither/internal/auth/mocks"
	clockMocks "github.com/slitherbot/slither/internal/common/clock/mocks"
	uuidMocks "github.com/slitherbot/slither/internal/common/uuid/mocks"
	diceMocks "github.com/slitherbot/slither/internal/dice/mocks"
	"github.com/slitherbot/slither/internal/gate"
	"github.com/slitherbot/slither/internal/models"
	gameRepo "github.com/slitherbot/slither/internal/repositories/game"
	guildRepo "github.com/slitherbot/slither/internal/repositories/guild"
	rollRepo "github.com/slitherbot/slither/internal/repositories/rollevent"
	teamRepo "github.com/slitherbot/slither/internal/repositories/team"
)

const (
	testModeratorID = "test-moderator-id"
	testPlayerID    = "test-player-id"
	testGuildID     = "test-guild-id"
	testChannelID   = "test-channel-id"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockClock      *clockMocks.MockClock
	mockUUID       *uuidMocks.MockUUID
	mockDiceRoller *diceMocks.MockRoller
	mockAnnouncer  *announceMocks.MockAnnouncer
	mockAuthorizer *authMocks.MockAuthorizer

	mr       *miniredis.Miniredis
	client   *redis.Client
	games    gameRepo.Repository
	teams    teamRepo.Repository
	rolls    rollRepo.Repository
	guilds   guildRepo.Repository
	rollGate *gate.Gate

	service Service
	ctx     context.Context

	now         time.Time
	uuidCounter int

	// announceErr, when set, makes every Notify call fail
	announceErr error
	announced   int
	announceMu  sync.Mutex
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockDiceRoller = diceMocks.NewMockRoller(s.mockCtrl)
	s.mockAnnouncer = announceMocks.NewMockAnnouncer(s.mockCtrl)
	s.mockAuthorizer = authMocks.NewMockAuthorizer(s.mockCtrl)

	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.uuidCounter = 0
	s.announceErr = nil
	s.announced = 0

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.uuidCounter++
		return fmt.Sprintf("test-uuid-%d", s.uuidCounter)
	}).AnyTimes()

	s.mockAuthorizer.EXPECT().IsModerator(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *auth.IsModeratorInput) (bool, error) {
			return input.UserID == testModeratorID, nil
		}).AnyTimes()

	s.mockAnnouncer.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *announce.NotifyInput) error {
			s.announceMu.Lock()
			defer s.announceMu.Unlock()
			if s.announceErr != nil {
				return s.announceErr
			}
			s.announced++
			return nil
		}).AnyTimes()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	s.games, err = gameRepo.NewRedis(&gameRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.teams, err = teamRepo.NewRedis(&teamRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.rolls, err = rollRepo.NewRedis(&rollRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.guilds, err = guildRepo.NewRedis(&guildRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.rollGate, err = gate.New(&gate.Config{
		Clock:           s.mockClock,
		InFlightTimeout: 30 * time.Second,
	})
	s.Require().NoError(err)

	svc, err := New(&Config{
		GameRepo:      s.games,
		TeamRepo:      s.teams,
		RollEventRepo: s.rolls,
		GuildRepo:     s.guilds,
		RollGate:      s.rollGate,
		DiceRoller:    s.mockDiceRoller,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		Announcer:     s.mockAnnouncer,
		Authorizer:    s.mockAuthorizer,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.mockCtrl.Finish()
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

// createActiveGame builds a started game with one armed team per name
func (s *GameServiceTestSuite) createActiveGame(teamNames ...string) (*models.Game, []*models.Team) {
	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Summer Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	teams := make([]*models.Team, 0, len(teamNames))
	for _, name := range teamNames {
		added, err := s.service.AddTeam(s.ctx, &AddTeamInput{
			GameID:      created.Game.ID,
			TeamName:    name,
			RequestedBy: testModeratorID,
		})
		s.Require().NoError(err)
		teams = append(teams, added.Team)
	}

	_, err = s.service.StartGame(s.ctx, &StartGameInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	for _, team := range teams {
		_, err = s.service.ArmTeam(s.ctx, &ArmTeamInput{
			TeamID:      team.ID,
			RequestedBy: testModeratorID,
		})
		s.Require().NoError(err)
	}

	game, err := s.games.GetGame(s.ctx, &gameRepo.GetGameInput{GameID: created.Game.ID})
	s.Require().NoError(err)

	return game, teams
}

// moveTeam places a team on a tile directly through the repository
func (s *GameServiceTestSuite) moveTeam(teamID string, position int) {
	team, err := s.teams.GetTeam(s.ctx, &teamRepo.GetTeamInput{TeamID: teamID})
	s.Require().NoError(err)
	team.CurrentPosition = position
	s.Require().NoError(s.teams.SaveTeam(s.ctx, &teamRepo.SaveTeamInput{Team: team}))
}

func (s *GameServiceTestSuite) TestCreateGameDefaults() {
	out, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Summer Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Game)

	s.Equal(models.GameStatusPending, out.Game.Status)
	s.Equal(10, out.Game.SnakeCount)
	s.Equal(9, out.Game.LadderCount)
	s.Equal(31, out.Game.Tiles[9])
	s.Equal(s.now.Add(7*24*time.Hour), out.Game.ApplicationDeadline)
	s.Empty(out.Game.TeamIDs)
}

func (s *GameServiceTestSuite) TestCreateGameRejectsBadTopology() {
	_, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Name:      "Broken Board",
		Tiles:     map[int]int{10: 10},
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *GameServiceTestSuite) TestCreateGameRequiresName() {
	_, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Name:      "   ",
	})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *GameServiceTestSuite) TestOpenRegistrationRequiresModerator() {
	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Summer Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testPlayerID,
	})
	s.ErrorIs(err, ErrNotModerator)
}

func (s *GameServiceTestSuite) TestOpenRegistrationRequiresTeamSize() {
	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Name:      "Summer Ladder",
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *GameServiceTestSuite) TestOpenRegistrationOnlyFromPending() {
	game, _ := s.createActiveGame("The Mongooses")

	_, err := s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      game.ID,
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *GameServiceTestSuite) TestStartGameRequiresTeams() {
	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Summer Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrInsufficientParticipants)
}

func (s *GameServiceTestSuite) TestStartGameSecondActiveGameDenied() {
	s.createActiveGame("The Mongooses")

	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Second Game",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.AddTeam(s.ctx, &AddTeamInput{
		GameID:      created.Game.ID,
		TeamName:    "The Cobras",
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrMultipleGamesNotAllowed)
}

func (s *GameServiceTestSuite) TestStartGameAllowedWithGuildSetting() {
	s.Require().NoError(s.guilds.SaveSettings(s.ctx, &guildRepo.SaveSettingsInput{
		Settings: &models.GuildSettings{
			GuildID:            testGuildID,
			MaxTeamsPerGame:    10,
			AllowMultipleGames: true,
		},
	}))

	s.createActiveGame("The Mongooses")

	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Second Game",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.AddTeam(s.ctx, &AddTeamInput{
		GameID:      created.Game.ID,
		TeamName:    "The Cobras",
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	out, err := s.service.StartGame(s.ctx, &StartGameInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusActive, out.Game.Status)
}

func (s *GameServiceTestSuite) TestAddTeamDuplicateName() {
	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Summer Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.AddTeam(s.ctx, &AddTeamInput{
		GameID:      created.Game.ID,
		TeamName:    "The Mongooses",
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.AddTeam(s.ctx, &AddTeamInput{
		GameID:      created.Game.ID,
		TeamName:    "the mongooses",
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrTeamNameTaken)
}

func (s *GameServiceTestSuite) TestAddTeamGuildCap() {
	s.Require().NoError(s.guilds.SaveSettings(s.ctx, &guildRepo.SaveSettingsInput{
		Settings: &models.GuildSettings{
			GuildID:         testGuildID,
			MaxTeamsPerGame: 1,
		},
	}))

	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Summer Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	_, err = s.service.OpenRegistration(s.ctx, &OpenRegistrationInput{
		GameID:      created.Game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.AddTeam(s.ctx, &AddTeamInput{
		GameID:      created.Game.ID,
		TeamName:    "The Mongooses",
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.AddTeam(s.ctx, &AddTeamInput{
		GameID:      created.Game.ID,
		TeamName:    "The Cobras",
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrTooManyTeams)
}

func (s *GameServiceTestSuite) TestAddTeamOnlyDuringRegistration() {
	game, _ := s.createActiveGame("The Mongooses")

	_, err := s.service.AddTeam(s.ctx, &AddTeamInput{
		GameID:      game.ID,
		TeamName:    "Latecomers",
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *GameServiceTestSuite) TestRollLadder() {
	game, teams := s.createActiveGame("The Mongooses")
	s.moveTeam(teams[0].ID, 8)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 1,
	})
	s.Require().NoError(err)
	s.Require().False(out.Denied)
	s.Require().NotNil(out.Event)

	s.Equal(8, out.Event.OldPosition)
	s.Equal(31, out.Event.NewPosition)
	s.Equal("Ladder", out.Event.SnakeOrLadder)
	s.Equal(1, out.Event.DiceRoll)
	s.Equal("The Mongooses", out.Event.TeamName)
	s.False(out.Won)

	// The grant is consumed and the position committed
	team, err := s.teams.GetTeam(s.ctx, &teamRepo.GetTeamInput{TeamID: teams[0].ID})
	s.Require().NoError(err)
	s.Equal(31, team.CurrentPosition)
	s.False(team.CanRoll)

	// The event is announced and marked
	s.Equal(1, s.announced)
	event, err := s.rolls.GetRoll(s.ctx, &rollRepo.GetRollInput{RollID: out.Event.ID})
	s.Require().NoError(err)
	s.True(event.AnnouncementSent)
}

func (s *GameServiceTestSuite) TestRollSnake() {
	game, teams := s.createActiveGame("The Mongooses")
	s.moveTeam(teams[0].ID, 46)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 1,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Event)
	s.Equal(26, out.Event.NewPosition)
	s.Equal("Snake", out.Event.SnakeOrLadder)
}

func (s *GameServiceTestSuite) TestRollWinCompletesGame() {
	game, teams := s.createActiveGame("The Mongooses", "The Cobras")
	s.moveTeam(teams[0].ID, 99)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 6,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Event)
	s.True(out.Won)
	s.Equal(100, out.Event.NewPosition)
	s.Empty(out.Event.SnakeOrLadder)

	updated, err := s.games.GetGame(s.ctx, &gameRepo.GetGameInput{GameID: game.ID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusCompleted, updated.Status)
	s.Equal(teams[0].ID, updated.WinnerTeamID)

	// Everyone is locked out once a team wins
	other, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[1].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.Require().NoError(err)
	s.True(other.Denied)
	s.Equal(DeniedReasonGameNotActive, other.DeniedReason)
}

func (s *GameServiceTestSuite) TestRollWinRaceRecordsSingleWinner() {
	game, teams := s.createActiveGame("The Mongooses", "The Cobras")
	s.moveTeam(teams[0].ID, 99)
	s.moveTeam(teams[1].ID, 99)

	// The dice callback fires after The Cobras' roll has read the game as
	// active. Committing The Mongooses' winning roll inside it recreates
	// the window where two teams race to tile 100.
	s.mockDiceRoller.EXPECT().Roll(6).DoAndReturn(func(int) int {
		out, err := s.service.Roll(s.ctx, &RollInput{
			GameID:    game.ID,
			TeamID:    teams[0].ID,
			RolledBy:  testPlayerID,
			DiceValue: 1,
		})
		s.Require().NoError(err)
		s.Require().True(out.Won)
		return 1
	})

	outB, err := s.service.Roll(s.ctx, &RollInput{
		GameID:   game.ID,
		TeamID:   teams[1].ID,
		RolledBy: testPlayerID,
	})
	s.Require().NoError(err)

	// The second winning commit loses the race cleanly
	s.True(outB.Denied)
	s.Equal(DeniedReasonGameNotActive, outB.DeniedReason)
	s.False(outB.Won)
	s.Nil(outB.Event)

	updated, err := s.games.GetGame(s.ctx, &gameRepo.GetGameInput{GameID: game.ID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusCompleted, updated.Status)
	s.Equal(teams[0].ID, updated.WinnerTeamID)

	// Nothing of the losing roll was recorded
	teamB, err := s.teams.GetTeam(s.ctx, &teamRepo.GetTeamInput{TeamID: teams[1].ID})
	s.Require().NoError(err)
	s.Equal(99, teamB.CurrentPosition)

	history, err := s.service.GetRollHistory(s.ctx, &GetRollHistoryInput{GameID: game.ID})
	s.Require().NoError(err)
	s.Require().Len(history.Events, 1)
	s.Equal(teams[0].ID, history.Events[0].TeamID)
}

func (s *GameServiceTestSuite) TestRollConsumesGrant() {
	game, teams := s.createActiveGame("The Mongooses")

	_, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.Require().NoError(err)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.Require().NoError(err)
	s.True(out.Denied)
	s.Equal(DeniedReasonLocked, out.DeniedReason)
}

func (s *GameServiceTestSuite) TestRollRearmKeepsGrant() {
	game, teams := s.createActiveGame("The Mongooses")

	_, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
		Rearm:     true,
	})
	s.Require().NoError(err)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.Require().NoError(err)
	s.False(out.Denied)
}

func (s *GameServiceTestSuite) TestRollGameNotActive() {
	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Summer Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    created.Game.ID,
		TeamID:    "some-team-id",
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.Require().NoError(err)
	s.True(out.Denied)
	s.Equal(DeniedReasonGameNotActive, out.DeniedReason)
}

func (s *GameServiceTestSuite) TestRollTeamAlreadyWon() {
	game, teams := s.createActiveGame("The Mongooses")
	s.moveTeam(teams[0].ID, 100)

	_, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.ErrorIs(err, ErrGameCompletedOrWon)
}

func (s *GameServiceTestSuite) TestRollInvalidDiceValue() {
	game, teams := s.createActiveGame("The Mongooses")

	for _, dice := range []int{-1, 7} {
		_, err := s.service.Roll(s.ctx, &RollInput{
			GameID:    game.ID,
			TeamID:    teams[0].ID,
			RolledBy:  testPlayerID,
			DiceValue: dice,
		})
		s.ErrorIs(err, ErrInvalidInput)
	}
}

func (s *GameServiceTestSuite) TestRollUsesDiceRoller() {
	game, teams := s.createActiveGame("The Mongooses")
	s.mockDiceRoller.EXPECT().Roll(6).Return(4)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:   game.ID,
		TeamID:   teams[0].ID,
		RolledBy: testPlayerID,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Event)
	s.Equal(4, out.Event.DiceRoll)
	s.Equal(14, out.Event.NewPosition) // tile 4 ladder climbs to 14
}

func (s *GameServiceTestSuite) TestRollConcurrentDoubleSubmission() {
	game, teams := s.createActiveGame("The Mongooses")

	var wg sync.WaitGroup
	outputs := make(chan *RollOutput, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := s.service.Roll(s.ctx, &RollInput{
				GameID:    game.ID,
				TeamID:    teams[0].ID,
				RolledBy:  testPlayerID,
				DiceValue: 3,
			})
			s.Require().NoError(err)
			outputs <- out
		}()
	}

	wg.Wait()
	close(outputs)

	processed := 0
	denied := 0
	for out := range outputs {
		if out.Denied {
			denied++
			s.Contains([]DeniedReason{DeniedReasonInFlight, DeniedReasonLocked}, out.DeniedReason)
		} else {
			processed++
		}
	}

	s.Equal(1, processed)
	s.Equal(1, denied)
}

func (s *GameServiceTestSuite) TestRollAnnounceFailureKeepsCommit() {
	game, teams := s.createActiveGame("The Mongooses")
	s.announceErr = errors.New("discord is down")

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Event)

	// The commit stands and the event stays queued for retry
	team, err := s.teams.GetTeam(s.ctx, &teamRepo.GetTeamInput{TeamID: teams[0].ID})
	s.Require().NoError(err)
	s.NotEqual(0, team.CurrentPosition)

	pending, err := s.rolls.GetUnannounced(s.ctx, &rollRepo.GetUnannouncedInput{})
	s.Require().NoError(err)
	s.Require().Len(pending.Events, 1)
	s.Equal(out.Event.ID, pending.Events[0].ID)

	// The sweep delivers it once the announcer recovers
	s.announceErr = nil
	sweep, err := s.service.SweepUnannounced(s.ctx, &SweepUnannouncedInput{})
	s.Require().NoError(err)
	s.Equal(1, sweep.Announced)
	s.Equal(0, sweep.Failed)

	pending, err = s.rolls.GetUnannounced(s.ctx, &rollRepo.GetUnannouncedInput{})
	s.Require().NoError(err)
	s.Empty(pending.Events)
}

func (s *GameServiceTestSuite) TestRollExpiredSlotLocksTeam() {
	game, teams := s.createActiveGame("The Mongooses")

	// Simulate a crashed roll holding the slot past the timeout
	s.Require().Equal(gate.ResultGranted, s.rollGate.Acquire(teams[0].ID))
	s.now = s.now.Add(time.Minute)

	out, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 3,
	})
	s.Require().NoError(err)
	s.True(out.Denied)
	s.Equal(DeniedReasonLocked, out.DeniedReason)

	// The team is never silently re-armed
	team, err := s.teams.GetTeam(s.ctx, &teamRepo.GetTeamInput{TeamID: teams[0].ID})
	s.Require().NoError(err)
	s.False(team.CanRoll)
}

func (s *GameServiceTestSuite) TestCompleteGameAbort() {
	game, _ := s.createActiveGame("The Mongooses")

	out, err := s.service.CompleteGame(s.ctx, &CompleteGameInput{
		GameID:      game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusCompleted, out.Game.Status)
	s.Empty(out.Game.WinnerTeamID)

	_, err = s.service.CompleteGame(s.ctx, &CompleteGameInput{
		GameID:      game.ID,
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *GameServiceTestSuite) TestResetGameFull() {
	game, teams := s.createActiveGame("The Mongooses")
	s.moveTeam(teams[0].ID, 99)

	_, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 1,
	})
	s.Require().NoError(err)

	out, err := s.service.ResetGame(s.ctx, &ResetGameInput{
		GameID:      game.ID,
		ResetType:   ResetTypeFull,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusPending, out.Game.Status)
	s.Empty(out.Game.WinnerTeamID)

	team, err := s.teams.GetTeam(s.ctx, &teamRepo.GetTeamInput{TeamID: teams[0].ID})
	s.Require().NoError(err)
	s.Equal(0, team.CurrentPosition)
	s.False(team.CanRoll)

	// History survives the reset
	history, err := s.service.GetRollHistory(s.ctx, &GetRollHistoryInput{GameID: game.ID})
	s.Require().NoError(err)
	s.Len(history.Events, 1)
}

func (s *GameServiceTestSuite) TestResetGamePositionsReopensCompleted() {
	game, teams := s.createActiveGame("The Mongooses")
	s.moveTeam(teams[0].ID, 99)

	_, err := s.service.Roll(s.ctx, &RollInput{
		GameID:    game.ID,
		TeamID:    teams[0].ID,
		RolledBy:  testPlayerID,
		DiceValue: 1,
	})
	s.Require().NoError(err)

	out, err := s.service.ResetGame(s.ctx, &ResetGameInput{
		GameID:      game.ID,
		ResetType:   ResetTypePositions,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)
	s.Equal(models.GameStatusActive, out.Game.Status)
	s.Empty(out.Game.WinnerTeamID)
}

func (s *GameServiceTestSuite) TestResetGameRejectsUnknownType() {
	game, _ := s.createActiveGame("The Mongooses")

	_, err := s.service.ResetGame(s.ctx, &ResetGameInput{
		GameID:      game.ID,
		ResetType:   ResetType("partial"),
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *GameServiceTestSuite) TestArmTeamAfterCompletion() {
	game, teams := s.createActiveGame("The Mongooses")

	_, err := s.service.CompleteGame(s.ctx, &CompleteGameInput{
		GameID:      game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	_, err = s.service.ArmTeam(s.ctx, &ArmTeamInput{
		TeamID:      teams[0].ID,
		RequestedBy: testModeratorID,
	})
	s.ErrorIs(err, ErrGameCompletedOrWon)
}

func (s *GameServiceTestSuite) TestGetStandings() {
	game, teams := s.createActiveGame("The Mongooses", "The Cobras", "The Pythons")
	s.moveTeam(teams[0].ID, 12)
	s.moveTeam(teams[1].ID, 47)
	s.moveTeam(teams[2].ID, 3)

	out, err := s.service.GetStandings(s.ctx, &GetStandingsInput{GameID: game.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Standings.Teams, 3)

	s.Equal("The Cobras", out.Standings.Teams[0].TeamName)
	s.Equal("The Mongooses", out.Standings.Teams[1].TeamName)
	s.Equal("The Pythons", out.Standings.Teams[2].TeamName)
}

func (s *GameServiceTestSuite) TestGetRollHistoryNewestFirst() {
	game, teams := s.createActiveGame("The Mongooses")

	for i := 0; i < 3; i++ {
		_, err := s.service.Roll(s.ctx, &RollInput{
			GameID:    game.ID,
			TeamID:    teams[0].ID,
			RolledBy:  testPlayerID,
			DiceValue: 2,
			Rearm:     true,
		})
		s.Require().NoError(err)
		s.now = s.now.Add(time.Second)
	}

	out, err := s.service.GetRollHistory(s.ctx, &GetRollHistoryInput{GameID: game.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Events, 3)
	s.True(out.Events[0].CreatedAt.After(out.Events[2].CreatedAt))
}

func (s *GameServiceTestSuite) TestGetGameByChannel() {
	game, _ := s.createActiveGame("The Mongooses")

	out, err := s.service.GetGameByChannel(s.ctx, &GetGameByChannelInput{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
	})
	s.Require().NoError(err)
	s.Equal(game.ID, out.Game.ID)

	_, err = s.service.GetGameByChannel(s.ctx, &GetGameByChannelInput{
		GuildID:   testGuildID,
		ChannelID: "some-other-channel",
	})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *GameServiceTestSuite) TestGetGameByChannelPrefersActiveOverPending() {
	active, _ := s.createActiveGame("The Mongooses")

	// A newer pending game in the same channel must not shadow the
	// active one
	s.now = s.now.Add(time.Minute)
	_, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Autumn Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	out, err := s.service.GetGameByChannel(s.ctx, &GetGameByChannelInput{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
	})
	s.Require().NoError(err)
	s.Equal(active.ID, out.Game.ID)
}

func (s *GameServiceTestSuite) TestGetGameByChannelPrefersPendingOverCompleted() {
	game, _ := s.createActiveGame("The Mongooses")

	_, err := s.service.CompleteGame(s.ctx, &CompleteGameInput{
		GameID:      game.ID,
		RequestedBy: testModeratorID,
	})
	s.Require().NoError(err)

	s.now = s.now.Add(time.Minute)
	created, err := s.service.CreateGame(s.ctx, &CreateGameInput{
		GuildID:     testGuildID,
		ChannelID:   testChannelID,
		Name:        "Autumn Ladder",
		MaxTeamSize: 5,
	})
	s.Require().NoError(err)

	out, err := s.service.GetGameByChannel(s.ctx, &GetGameByChannelInput{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
	})
	s.Require().NoError(err)
	s.Equal(created.Game.ID, out.Game.ID)
}

func (s *GameServiceTestSuite) TestGameNotFound() {
	_, err := s.service.GetGame(s.ctx, &GetGameInput{GameID: "missing-game-id"})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *GameServiceTestSuite) TestNewValidatesDependencies() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilGameRepo)
}
