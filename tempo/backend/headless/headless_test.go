package headless_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-tempo/tempo/backend"
	"github.com/valerio/go-tempo/tempo/backend/headless"
	"github.com/valerio/go-tempo/tempo/input/action"
)

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		// Create headless backend for 3 frames
		h := headless.New(3, 1)
		require.NoError(t, h.Init(backend.Config{Title: "Test"}))

		frame := backend.Frame{
			Tweens: []backend.TweenView{{Name: "fade", Value: 0.5, Progress: 0.5, State: "running"}},
			Timers: []backend.TimerView{{Name: "tick", Progress: 0.25, State: "running"}},
		}

		for i := 0; i < 3; i++ {
			frame.Number = uint64(i + 1)
			events, err := h.Update(frame)
			assert.NoError(t, err)

			if i < 2 {
				// Should not quit before reaching max frames
				assert.Empty(t, events)
			} else {
				// Should send quit event on last frame
				assert.Len(t, events, 1)
				assert.Equal(t, action.Quit, events[0].Action)
			}
		}

		assert.Equal(t, 3, h.Frames())
		assert.Equal(t, uint64(3), h.LastFrame().Number)
		assert.NoError(t, h.Cleanup())
	})

	t.Run("unbounded run", func(t *testing.T) {
		h := headless.New(0, 0)
		require.NoError(t, h.Init(backend.Config{}))

		for i := 0; i < 100; i++ {
			events, err := h.Update(backend.Frame{})
			require.NoError(t, err)
			assert.Empty(t, events)
		}
		assert.Equal(t, 100, h.Frames())
	})
}
