package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o600))

	schedule := &recordingScheduleTarget{}
	period := &recordingPeriodTarget{}
	watcher, err := NewSeedWatcher(path, schedule, period, zap.NewNop())
	require.NoError(t, err)
	watcher.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o600))

	assert.Eventually(t, func() bool {
		reloads, err := watcher.reloadState()
		return reloads > 0 && err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestSeedWatcherReloadKeepsSettingsOnInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schedule:\n  start_hour: 99\n"), 0o600))

	schedule := &recordingScheduleTarget{}
	watcher, err := NewSeedWatcher(path, schedule, nil, nil)
	require.NoError(t, err)
	defer watcher.watcher.Close()

	watcher.Reload()

	reloads, lastErr := watcher.reloadState()
	assert.Equal(t, 1, reloads)
	assert.ErrorIs(t, lastErr, ErrInvalidSeed)
	assert.Empty(t, schedule.settings)
}
