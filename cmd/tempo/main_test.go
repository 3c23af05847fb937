package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, loadDotEnv(""))
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEMPO_TEST_CURVE=easeOutQuad\n"), 0o600))
	t.Setenv("TEMPO_TEST_CURVE", "")
	require.NoError(t, os.Unsetenv("TEMPO_TEST_CURVE"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "easeOutQuad", os.Getenv("TEMPO_TEST_CURVE"))
}

func TestDemoSceneBuilds(t *testing.T) {
	desc, err := loadDescriptor("")
	require.NoError(t, err)
	require.NoError(t, desc.Validate())

	scene, err := desc.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, scene.Group.Len())
	assert.Len(t, scene.Timers, 3)
}

func TestResolveFPS(t *testing.T) {
	assert.Equal(t, 30.0, resolveFPS(30, 120))
	assert.Equal(t, 120.0, resolveFPS(0, 120))
	assert.Equal(t, 60.0, resolveFPS(0, 0))
}

func TestSceneTitle(t *testing.T) {
	assert.Equal(t, "demo", sceneTitle(""))
	assert.Equal(t, "intro", sceneTitle("scenes/intro.yaml"))
}
