package reset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdleRequestStartsImmediately(t *testing.T) {
	s := New(Config{})
	fx := s.Request()
	assert.True(t, fx.StartSession)
	require.NotNil(t, fx.Toast)
	assert.Equal(t, Success, fx.Toast.Kind)
	assert.Equal(t, "New word chosen!", fx.Toast.Message)
	require.NotNil(t, fx.Dismiss)
	assert.Equal(t, fx.Toast.Gen, fx.Dismiss.Gen)
	assert.Equal(t, 3*time.Second, fx.Dismiss.After)
	assert.Nil(t, fx.Cooldown)
	assert.Equal(t, Showing, s.Phase())
	assert.Equal(t, 0, s.Pending())
}

func TestRequestsWhileShowingAreQueuedOnce(t *testing.T) {
	s := New(Config{})
	first := s.Request()

	for i := 1; i <= 3; i++ {
		fx := s.Request()
		assert.Equal(t, Effects{}, fx)
		assert.Equal(t, i, s.Pending())
		assert.True(t, s.Queued())
	}

	fx := s.Dismiss(first.Toast.Gen)
	assert.True(t, fx.StartSession, "exactly one deferred start")
	require.NotNil(t, fx.Toast)
	assert.Equal(t, Success, fx.Toast.Kind)
	assert.Greater(t, fx.Toast.Gen, first.Toast.Gen)
	assert.Equal(t, 0, s.Pending())
	assert.False(t, s.Queued())

	fx = s.Dismiss(fx.Toast.Gen)
	assert.False(t, fx.StartSession)
	assert.Equal(t, Idle, s.Phase())
}

func TestFourthRequestWhileShowingIsPenalized(t *testing.T) {
	s := New(Config{})
	first := s.Request()
	s.Request()
	s.Request()
	s.Request()

	fx := s.Request()
	assert.False(t, fx.StartSession)
	require.NotNil(t, fx.Toast)
	assert.Equal(t, Danger, fx.Toast.Kind)
	require.NotNil(t, fx.Cooldown)
	assert.Equal(t, 5*time.Second, fx.Cooldown.After)
	assert.Equal(t, Penalized, s.Phase())
	assert.False(t, s.Enabled())
	assert.False(t, s.Queued(), "queued start is discarded")
	assert.Equal(t, "🦎", s.ButtonLabel())

	assert.Equal(t, Effects{}, s.Request(), "ignored while penalized")
	assert.Equal(t, Effects{}, s.Dismiss(first.Toast.Gen), "superseded toast timer")

	assert.Equal(t, Effects{}, s.Dismiss(fx.Toast.Gen))
	_, visible := s.Toast()
	assert.False(t, visible)
	assert.Equal(t, Penalized, s.Phase())

	assert.Equal(t, Effects{}, s.CooldownExpired(fx.Cooldown.Gen), "no automatic start")
	assert.Equal(t, Idle, s.Phase())
	assert.True(t, s.Enabled())
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, "New Game", s.ButtonLabel())

	assert.True(t, s.Request().StartSession)
}

func TestCooldownWhileToastStillVisible(t *testing.T) {
	s := New(Config{ToastDuration: 10 * time.Second, Cooldown: time.Second})
	s.Request()
	var fx Effects
	for i := 0; i < 4; i++ {
		fx = s.Request()
	}
	require.NotNil(t, fx.Cooldown)
	s.CooldownExpired(fx.Cooldown.Gen)
	assert.Equal(t, Showing, s.Phase())

	assert.Equal(t, Effects{}, s.Request())
	assert.Equal(t, 1, s.Pending(), "fresh window after cooldown")
}

// Threshold counts presses within one uninterrupted visible window.
func TestThresholdScopedPerWindow(t *testing.T) {
	s := New(Config{})
	fx := s.Request()
	s.Request()
	s.Request()
	fx = s.Dismiss(fx.Toast.Gen)
	require.True(t, fx.StartSession)

	s.Request()
	s.Request()
	s.Request()
	assert.Equal(t, Showing, s.Phase())
	assert.Equal(t, 3, s.Pending())
}

func TestStaleTimersAreIgnored(t *testing.T) {
	s := New(Config{})
	fx := s.Request()
	assert.Equal(t, Effects{}, s.Dismiss(fx.Toast.Gen+1))
	assert.Equal(t, Effects{}, s.CooldownExpired(1))
	assert.Equal(t, Showing, s.Phase())
	toast, ok := s.Toast()
	require.True(t, ok)
	assert.Equal(t, fx.Toast.Gen, toast.Gen)
}

func TestCustomThreshold(t *testing.T) {
	s := New(Config{Threshold: 2, DangerMessage: "slow down"})
	s.Request()
	s.Request()
	fx := s.Request()
	require.NotNil(t, fx.Toast)
	assert.Equal(t, "slow down", fx.Toast.Message)
	assert.Equal(t, Penalized, s.Phase())
}
