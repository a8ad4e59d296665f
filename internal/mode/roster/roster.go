// Package roster implements the activity roster mode controller.
package roster

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mergington/enroll/internal/activity"
	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/config"
	"github.com/mergington/enroll/internal/keys"
	"github.com/mergington/enroll/internal/log"
	"github.com/mergington/enroll/internal/mode"
	"github.com/mergington/enroll/internal/mode/shared"
	"github.com/mergington/enroll/internal/ui/modal"
	"github.com/mergington/enroll/internal/ui/picker"
	"github.com/mergington/enroll/internal/ui/styles"
)

// ViewMode determines which view is active within the roster mode.
type ViewMode int

const (
	ViewRoster ViewMode = iota
	ViewActivityPicker
	ViewEmailModal
	ViewRemovePicker
	ViewRemoveConfirm
)

// pendingRemove tracks the participant awaiting unregister confirmation.
type pendingRemove struct {
	activityName string
	email        string
}

// Model is the roster mode state.
type Model struct {
	services mode.Services
	keys     keys.KeyMap

	activities activity.Collection
	view       ViewMode
	width      int
	height     int
	loading    bool
	spinner    spinner.Model
	err        error
	errContext string // Context for the error (e.g., "loading activities")
	updatedAt  time.Time

	// mutating is set while a signup or unregister request is in flight.
	// It blocks further submissions so a double press cannot fire the
	// request twice.
	mutating bool

	selected int // Index of the focused activity card

	picker picker.Model
	modal  modal.Model
	help   help.Model

	// inZone resolves mouse clicks against marked card controls.
	inZone zoneChecker

	// Signup flow state
	pendingActivity string

	// Unregister flow state
	pendingRemove pendingRemove

	// UI visibility toggles
	showHelp      bool
	showStatusBar bool

	// Refresh state tracking
	autoRefreshed   bool
	manualRefreshed bool
}

// New creates a new roster mode controller.
func New(services mode.Services) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)

	return Model{
		services:      services,
		keys:          keys.DefaultKeyMap(),
		view:          ViewRoster,
		loading:       true,
		spinner:       sp,
		help:          help.New(),
		inZone:        zoneInBounds,
		showStatusBar: services.Config.UI.ShowStatusBar,
	}
}

// Init returns initial commands for the mode.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchActivitiesCmd())
}

// Refresh triggers a roster reload.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.loading = true
	m.autoRefreshed = true
	m.manualRefreshed = false
	return m, tea.Batch(m.spinner.Tick, m.fetchActivitiesCmd())
}

// SetSize handles terminal resize.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.picker = m.picker.SetSize(width, height)
	m.modal.SetSize(width, height)
	m.help.Width = width
	return m
}

// Activities exposes the loaded roster.
func (m Model) Activities() activity.Collection {
	return m.activities
}

// Mutating reports whether a signup or unregister request is in flight.
func (m Model) Mutating() bool {
	return m.mutating
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.loading && !m.mutating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case activitiesLoadedMsg:
		return m.handleActivitiesLoaded(msg)

	case fetchFailedMsg:
		m.loading = false
		m.err = msg.err
		m.errContext = "loading activities"
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case mutationFailedMsg:
		// Clear the latch but leave the view alone: a rejected signup keeps
		// the email modal open with the form still populated.
		m.mutating = false
		return m, func() tea.Msg {
			return mode.ShowToastMsg{Message: api.UserMessage(msg.err), Style: mode.ToastError}
		}

	case modal.SubmitMsg:
		return m.handleModalSubmit(msg)

	case modal.CancelMsg:
		return m.handleModalCancel()
	}

	// Forward remaining messages to the active modal (cursor blink etc.)
	if m.view == ViewEmailModal {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleActivitiesLoaded installs a fresh roster and clamps the cursor.
func (m Model) handleActivitiesLoaded(msg activitiesLoadedMsg) (Model, tea.Cmd) {
	m.activities = msg.activities
	m.loading = false
	m.err = nil
	m.errContext = ""
	m.updatedAt = msg.fetchedAt

	if m.selected >= m.activities.Len() {
		m.selected = max(m.activities.Len()-1, 0)
	}

	log.Info(log.CatMode, "Roster loaded", "activities", m.activities.Len())

	var cmd tea.Cmd
	if m.autoRefreshed || m.manualRefreshed {
		m.autoRefreshed = false
		m.manualRefreshed = false
		cmd = func() tea.Msg {
			return mode.ShowToastMsg{Message: "Roster refreshed", Style: mode.ToastInfo}
		}
	}
	return m, cmd
}

// handleMutationDone shows the server's message, remembers the email, and
// reloads the roster so the card reflects the change.
func (m Model) handleMutationDone(msg mutationDoneMsg) (Model, tea.Cmd) {
	m.mutating = false
	m.loading = true

	// The signup modal stayed open while the request was in flight; it only
	// closes now that the server accepted.
	if msg.kind == mutationSignup && m.view == ViewEmailModal {
		m.view = ViewRoster
		m.pendingActivity = ""
	}

	if msg.kind == mutationSignup && msg.email != m.services.Config.Email {
		m.services.Config.Email = msg.email
		if m.services.ConfigPath != "" {
			if err := config.SaveEmail(m.services.ConfigPath, msg.email); err != nil {
				log.ErrorErr(log.CatConfig, "Persisting email failed", err)
			}
		}
	}

	toastMsg := msg.message
	if toastMsg == "" {
		switch msg.kind {
		case mutationSignup:
			toastMsg = fmt.Sprintf("Signed up %s for %s", msg.email, msg.activity)
		case mutationUnregister:
			toastMsg = fmt.Sprintf("Removed %s from %s", msg.email, msg.activity)
		}
	}

	return m, tea.Batch(
		func() tea.Msg { return mode.ShowToastMsg{Message: toastMsg, Style: mode.ToastSuccess} },
		m.spinner.Tick,
		m.fetchActivitiesCmd(),
	)
}

// View renders the roster mode.
func (m Model) View() string {
	switch m.view {
	case ViewActivityPicker, ViewRemovePicker:
		return m.picker.Overlay(m.renderRoster())
	case ViewEmailModal, ViewRemoveConfirm:
		return m.modal.Overlay(m.renderRoster())
	default:
		return m.renderRoster()
	}
}

// selectedActivity returns the focused activity, or false when the roster is
// empty.
func (m Model) selectedActivity() (activity.Activity, bool) {
	if m.activities.Len() == 0 {
		return activity.Activity{}, false
	}
	act, ok := m.activities.At(m.selected)
	return act, ok
}

// rosterHeight returns the height available for cards, accounting for the
// status bar.
func (m Model) rosterHeight() int {
	if m.showStatusBar {
		return m.height - 1
	}
	return m.height
}

func (m Model) updatedAtLabel() string {
	if m.updatedAt.IsZero() {
		return ""
	}
	return shared.FormatUpdatedAt(m.updatedAt)
}
