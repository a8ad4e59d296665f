package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/enroll/internal/config"
	"github.com/mergington/enroll/internal/mode"
	"github.com/mergington/enroll/internal/mode/shared"
	"github.com/mergington/enroll/internal/pubsub"
	"github.com/mergington/enroll/internal/ui/toaster"
	"github.com/mergington/enroll/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func testServices() mode.Services {
	cfg := config.Defaults()
	cfg.AutoReload = false
	return mode.Services{
		Config: &cfg,
		Clock:  shared.FixedClock{Time: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)},
	}
}

func TestNew_NoWatcherWhenAutoReloadDisabled(t *testing.T) {
	m := New(testServices())
	t.Cleanup(func() { _ = m.Close() })

	assert.Nil(t, m.watcherHandle)
	assert.Nil(t, m.watcherListener)
}

func TestNew_NoWatcherWithoutConfigPath(t *testing.T) {
	services := testServices()
	services.Config.AutoReload = true

	m := New(services)
	t.Cleanup(func() { _ = m.Close() })

	assert.Nil(t, m.watcherHandle)
}

func TestInit_ReturnsCommands(t *testing.T) {
	m := New(testServices())
	t.Cleanup(func() { _ = m.Close() })

	assert.NotNil(t, m.Init())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := New(testServices())
	t.Cleanup(func() { _ = m.Close() })

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 48})

	am, ok := updated.(Model)
	require.True(t, ok)
	assert.Equal(t, 120, am.width)
	assert.Equal(t, 48, am.height)
}

func TestUpdate_ShowToast(t *testing.T) {
	m := New(testServices())
	t.Cleanup(func() { _ = m.Close() })

	updated, cmd := m.Update(mode.ShowToastMsg{Message: "Signed up!", Style: mode.ToastSuccess})

	am := updated.(Model)
	assert.True(t, am.toaster.Visible())
	assert.NotNil(t, cmd, "toast schedules its own dismissal")
}

func TestUpdate_ToastDismiss(t *testing.T) {
	m := New(testServices())
	t.Cleanup(func() { _ = m.Close() })

	updated, _ := m.Update(mode.ShowToastMsg{Message: "Signed up!", Style: mode.ToastSuccess})
	am := updated.(Model)
	require.True(t, am.toaster.Visible())

	// The real DismissMsg carries the toast's sequence number; replay it
	// through the toaster update path.
	updated, _ = am.Update(toaster.DismissMsg{Seq: 1})
	am = updated.(Model)

	assert.False(t, am.toaster.Visible())
}

func writeConfigFile(t *testing.T, email string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("email: %q\nauto_reload: false\n", email)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func configChanged() pubsub.Event[watcher.Event] {
	return pubsub.Event[watcher.Event]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Event{Type: watcher.ConfigChanged},
	}
}

// Persisting the signup email rewrites the watched config file; the reload
// that triggers parses to the config already in memory and must not fire a
// second refresh (whose toast would replace the signup toast).
func TestConfigChanged_SkipsSelfInitiatedWrite(t *testing.T) {
	services := testServices()
	services.Config.Email = "alice@mergington.edu"
	services.ConfigPath = writeConfigFile(t, "alice@mergington.edu")

	m := New(services)
	t.Cleanup(func() { _ = m.Close() })

	_, cmd := m.handleWatcherEvent(configChanged())

	assert.Nil(t, cmd, "a reload matching the in-memory config must not refresh")
}

func TestConfigChanged_AppliesExternalEdit(t *testing.T) {
	services := testServices()
	services.ConfigPath = writeConfigFile(t, "parent@mergington.edu")

	m := New(services)
	t.Cleanup(func() { _ = m.Close() })

	updated, cmd := m.handleWatcherEvent(configChanged())
	am := updated.(Model)

	assert.Equal(t, "parent@mergington.edu", am.services.Config.Email)
	assert.NotNil(t, cmd, "an external edit refreshes the roster")
}

func TestView_RendersRoster(t *testing.T) {
	m := New(testServices())
	t.Cleanup(func() { _ = m.Close() })

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	am := updated.(Model)

	assert.Contains(t, am.View(), "Loading activities")
}

func TestView_ToastOverlay(t *testing.T) {
	m := New(testServices())
	t.Cleanup(func() { _ = m.Close() })

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	updated, _ = updated.(Model).Update(mode.ShowToastMsg{Message: "Removed from Chess Club", Style: mode.ToastSuccess})
	am := updated.(Model)

	assert.Contains(t, am.View(), "Removed from Chess Club")
}

func TestToastStyleMapping(t *testing.T) {
	assert.Equal(t, toaster.StyleSuccess, toastStyle(mode.ToastSuccess))
	assert.Equal(t, toaster.StyleError, toastStyle(mode.ToastError))
	assert.Equal(t, toaster.StyleInfo, toastStyle(mode.ToastInfo))
}
