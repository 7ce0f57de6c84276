package gate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/slitherbot/slither/internal/common/clock/mocks"
)

type GateTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *mocks.MockClock
	gate      *Gate

	now time.Time
}

func (s *GateTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	g, err := New(&Config{
		Clock:           s.mockClock,
		InFlightTimeout: 30 * time.Second,
	})
	s.Require().NoError(err)
	s.gate = g
}

func TestGateTestSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func (s *GateTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilClock)
}

func (s *GateTestSuite) TestAcquireAndRelease() {
	s.Equal(ResultGranted, s.gate.Acquire("team-1"))
	s.True(s.gate.InFlight("team-1"))

	s.gate.Release("team-1")
	s.False(s.gate.InFlight("team-1"))

	s.Equal(ResultGranted, s.gate.Acquire("team-1"))
}

func (s *GateTestSuite) TestSecondAcquireDenied() {
	s.Equal(ResultGranted, s.gate.Acquire("team-1"))
	s.Equal(ResultInFlight, s.gate.Acquire("team-1"))
}

func (s *GateTestSuite) TestTeamsAreIndependent() {
	s.Equal(ResultGranted, s.gate.Acquire("team-1"))
	s.Equal(ResultGranted, s.gate.Acquire("team-2"))
}

func (s *GateTestSuite) TestAbandonedSlotExpires() {
	s.Equal(ResultGranted, s.gate.Acquire("team-1"))

	s.now = s.now.Add(31 * time.Second)

	s.False(s.gate.InFlight("team-1"))
	s.Equal(ResultExpired, s.gate.Acquire("team-1"))

	// The slot is cleared after the expiry report
	s.Equal(ResultGranted, s.gate.Acquire("team-1"))
}

func (s *GateTestSuite) TestSlotHeldWithinTimeout() {
	s.Equal(ResultGranted, s.gate.Acquire("team-1"))

	s.now = s.now.Add(29 * time.Second)

	s.Equal(ResultInFlight, s.gate.Acquire("team-1"))
}

func (s *GateTestSuite) TestConcurrentAcquireGrantsExactlyOne() {
	const attempts = 64

	var wg sync.WaitGroup
	results := make(chan AcquireResult, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.gate.Acquire("team-1")
		}()
	}

	wg.Wait()
	close(results)

	granted := 0
	for result := range results {
		if result == ResultGranted {
			granted++
		} else {
			s.Equal(ResultInFlight, result)
		}
	}

	s.Equal(1, granted)
}
