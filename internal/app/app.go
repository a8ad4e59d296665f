// Package app contains the root application model.
package app

import (
	"context"
	"reflect"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mergington/enroll/internal/config"
	"github.com/mergington/enroll/internal/log"
	"github.com/mergington/enroll/internal/mode"
	"github.com/mergington/enroll/internal/mode/roster"
	"github.com/mergington/enroll/internal/pubsub"
	"github.com/mergington/enroll/internal/ui/toaster"
	"github.com/mergington/enroll/internal/watcher"
)

// Model is the root application state.
type Model struct {
	// Mode management
	currentMode mode.AppMode
	roster      roster.Model

	// Shared services (passed to mode controllers)
	services mode.Services

	// Global state
	width  int
	height int

	// Centralized toaster - owned by app, not individual modes
	toaster toaster.Model

	// Config file watcher for auto-reload (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.Event]
}

// New creates the application model. When auto-reload is enabled and the
// config file path is known, a file watcher keeps the running app in sync
// with on-disk config edits.
func New(services mode.Services) Model {
	var (
		watcherHandle   *watcher.Watcher
		watcherCancel   context.CancelFunc
		watcherListener *pubsub.ContinuousListener[watcher.Event]
	)

	if services.Config.AutoReload && services.ConfigPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(services.ConfigPath))
		if err == nil {
			if err := w.Start(); err == nil {
				watcherHandle = w
				var ctx context.Context
				ctx, watcherCancel = context.WithCancel(context.Background())
				watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
			} else {
				_ = w.Stop()
			}
		}
		// Watcher init errors are non-fatal; the app works without auto-reload
	}

	return Model{
		currentMode:     mode.ModeRoster,
		roster:          roster.New(services),
		services:        services,
		toaster:         toaster.New(),
		watcherHandle:   watcherHandle,
		watcherCancel:   watcherCancel,
		watcherListener: watcherListener,
	}
}

// Init implements tea.Model. Starts the roster load and the watcher
// listener if auto-reload is enabled.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.roster.Init(),
	}

	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.roster = m.roster.SetSize(msg.Width, msg.Height)
		return m, nil

	case pubsub.Event[watcher.Event]:
		return m.handleWatcherEvent(msg)

	case mode.ShowToastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, toastStyle(msg.Style))
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}

	// Delegate all other messages to the active mode controller
	var cmd tea.Cmd
	m.roster, cmd = m.roster.Update(msg)
	return m, cmd
}

// handleWatcherEvent reloads config from disk and refreshes the roster.
func (m Model) handleWatcherEvent(msg pubsub.Event[watcher.Event]) (tea.Model, tea.Cmd) {
	switch msg.Payload.Type {
	case watcher.ConfigChanged:
		cfg, err := config.Load(m.services.ConfigPath)
		if err != nil {
			log.ErrorErr(log.CatConfig, "Config reload failed", err)
			return m, tea.Batch(
				func() tea.Msg {
					return mode.ShowToastMsg{Message: "Config reload failed; keeping previous settings", Style: mode.ToastError}
				},
				m.listenCmd(),
			)
		}

		// The app writes the config file itself after a signup (to persist
		// the email), which fires the watcher ~500ms later. That reload
		// parses to the config already in memory; skip it so the duplicate
		// refresh doesn't replace the signup toast.
		if reflect.DeepEqual(cfg, *m.services.Config) {
			log.Debug(log.CatConfig, "Config unchanged after reload, skipping refresh")
			return m, m.listenCmd()
		}

		log.Info(log.CatConfig, "Config reloaded", "server_url", cfg.ServerURL)
		*m.services.Config = cfg

		if m.services.RenderCache != nil {
			if err := m.services.RenderCache.Flush(context.Background()); err != nil {
				log.Warn(log.CatCache, "Flushing render cache failed", "error", err)
			}
		}

		var refreshCmd tea.Cmd
		m.roster, refreshCmd = m.roster.Refresh()
		return m, tea.Batch(refreshCmd, m.listenCmd())

	case watcher.WatcherError:
		log.Warn(log.CatWatch, "Watcher error received", "error", msg.Payload.Error)
		return m, m.listenCmd()
	}

	// Continue listening for unknown event types
	return m, m.listenCmd()
}

// listenCmd re-arms the watcher listener, or nothing when auto-reload is off.
func (m Model) listenCmd() tea.Cmd {
	if m.watcherListener == nil {
		return nil
	}
	return m.watcherListener.Listen()
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.roster.View()

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	// Scan resolves zone markers into clickable bounds and strips them
	// from the rendered output.
	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.watcherCancel != nil {
		m.watcherCancel()
	}

	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}

	return nil
}

func toastStyle(s mode.ToastStyle) toaster.Style {
	switch s {
	case mode.ToastError:
		return toaster.StyleError
	case mode.ToastInfo:
		return toaster.StyleInfo
	default:
		return toaster.StyleSuccess
	}
}
