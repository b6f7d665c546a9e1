package factory

import (
	"time"

	"github.com/cardfold/mayi-go/internal/dependencies/mocks"
	"github.com/cardfold/mayi-go/internal/services/game"
	"github.com/cardfold/mayi-go/internal/storage/memory"
	"github.com/cardfold/mayi-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The mock random makes deals deterministic: hands follow deck build order.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(testutil.FixtureTime)
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		15*time.Second,
		game.Config{StrictInvariants: true},
		nil,
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
