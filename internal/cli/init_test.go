package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	applog "lottotrack/internal/log"
	"lottotrack/internal/settings"
)

func TestGracefulShutdownOnParentCancel(t *testing.T) {
	logger := applog.New(applog.Config{Disabled: true})
	parent, cancel := context.WithCancel(context.Background())

	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(parent, logger, time.Second, func(context.Context) {
		close(cleaned)
	})

	cancel()
	WaitForShutdown(ctx, done)

	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup did not run before shutdown completed")
	}
	require.Error(t, ctx.Err())
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("STATS_MONTHS", "6")
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	require.Equal(t, 6, cfg.StatsMonths)

	t.Setenv("DATA_BACKEND", "postgres")
	_, err = LoadAndValidateConfig()
	require.ErrorContains(t, err, "invalid data backend")
}

func TestSetupLoggerLevel(t *testing.T) {
	prefs := settings.NewStore(filepath.Join(t.TempDir(), "settings.toml"))

	t.Setenv("LOG_LEVEL", "debug")
	logger := SetupLogger(applog.ComponentWorker, prefs, nil)
	require.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	require.Equal(t, applog.ComponentWorker, logger.Component())

	t.Setenv("LOG_LEVEL", "warn")
	logger = SetupLogger(applog.ComponentWorker, nil, nil)
	require.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
