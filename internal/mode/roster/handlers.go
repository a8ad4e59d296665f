package roster

import (
	"fmt"
	"net/mail"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mergington/enroll/internal/flags"
	"github.com/mergington/enroll/internal/log"
	"github.com/mergington/enroll/internal/mode"
	"github.com/mergington/enroll/internal/ui/modal"
	"github.com/mergington/enroll/internal/ui/picker"
)

// handleKey routes key messages to the appropriate handler based on view mode.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.view {
	case ViewRoster:
		return m.handleRosterKey(msg)
	case ViewActivityPicker:
		return m.handleActivityPickerKey(msg)
	case ViewRemovePicker:
		return m.handleRemovePickerKey(msg)
	case ViewEmailModal, ViewRemoveConfirm:
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleRosterKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Dismiss a fetch error on any key press except quit
	if m.err != nil && !key.Matches(msg, m.keys.Quit) {
		m.err = nil
		m.errContext = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.activities.Len()-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.manualRefreshed = true
		m.autoRefreshed = false
		return m, tea.Batch(m.spinner.Tick, m.fetchActivitiesCmd())

	case key.Matches(msg, m.keys.Signup):
		return m.openActivityPicker()

	case key.Matches(msg, m.keys.Remove):
		return m.openRemovePicker()
	}

	return m, nil
}

// handleMouse maps clicks onto card controls via bubblezone. The zone ID of
// the clicked control carries the target indexes, so a single handler covers
// every signup button and remove control no matter how many cards render.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.view != ViewRoster {
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	id, ok := m.clickedZone(msg)
	if !ok {
		return m, nil
	}

	if ai, ok := parseSignupZoneID(id); ok {
		m.selected = ai
		return m.openEmailModalFor(ai)
	}

	if ai, pi, ok := parseRemoveZoneID(id); ok {
		act, found := m.activities.At(ai)
		if !found || pi >= len(act.Participants) {
			return m, nil
		}
		m.selected = ai
		return m.openRemoveConfirm(act.Name, act.Participants[pi])
	}

	return m, nil
}

// clickedZone returns the ID of the marked control under the click.
func (m Model) clickedZone(msg tea.MouseMsg) (string, bool) {
	for ai := 0; ai < m.activities.Len(); ai++ {
		if id := makeSignupZoneID(ai); m.inZone(id, msg) {
			return id, true
		}

		act, ok := m.activities.At(ai)
		if !ok {
			continue
		}
		for pi := range act.Participants {
			if id := makeRemoveZoneID(ai, pi); m.inZone(id, msg) {
				return id, true
			}
		}
	}
	return "", false
}

// openActivityPicker starts the signup flow with an activity selector.
func (m Model) openActivityPicker() (Model, tea.Cmd) {
	if m.activities.Len() == 0 {
		return m, nil
	}

	options := make([]picker.Option, 0, m.activities.Len())
	for _, act := range m.activities.All() {
		options = append(options, picker.Option{
			Label:  act.Name,
			Value:  act.Name,
			Detail: spotsLeftLabel(act.SpotsLeft()),
		})
	}

	m.picker = picker.New("Sign Up", options).
		SetSelected(m.selected).
		SetBoxWidth(pickerBoxWidth(m.width)).
		SetSize(m.width, m.height)
	m.view = ViewActivityPicker
	return m, nil
}

func (m Model) handleActivityPickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.view = ViewRoster
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Enter):
		chosen := m.picker.Selected()
		if chosen.Value == "" {
			m.view = ViewRoster
			return m, nil
		}
		if idx, ok := m.activities.Index(chosen.Value); ok {
			return m.openEmailModalFor(idx)
		}
		m.view = ViewRoster
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// openEmailModalFor prompts for the student email to sign up for the
// activity at the given index.
func (m Model) openEmailModalFor(activityIdx int) (Model, tea.Cmd) {
	act, ok := m.activities.At(activityIdx)
	if !ok {
		m.view = ViewRoster
		return m, nil
	}

	if act.IsFull() && m.services.Flags.Enabled(flags.FlagStrictCapacity) {
		m.view = ViewRoster
		return m, func() tea.Msg {
			return mode.ShowToastMsg{Message: act.Name + " is full", Style: mode.ToastError}
		}
	}

	m.pendingActivity = act.Name
	m.modal = modal.New(modal.Config{
		Title:   "Sign Up",
		Message: fmt.Sprintf("Sign up for %s (%s).", act.Name, spotsLeftLabel(act.SpotsLeft())),
		Input: &modal.InputConfig{
			Label:       "Email",
			Placeholder: "student@mergington.edu",
			Value:       m.services.Config.Email,
			MaxLength:   254,
		},
	})
	m.modal.SetSize(m.width, m.height)
	m.view = ViewEmailModal
	return m, m.modal.Init()
}

// openRemovePicker starts the unregister flow with a participant selector
// for the focused activity.
func (m Model) openRemovePicker() (Model, tea.Cmd) {
	act, ok := m.selectedActivity()
	if !ok {
		return m, nil
	}
	if len(act.Participants) == 0 {
		return m, func() tea.Msg {
			return mode.ShowToastMsg{Message: "No participants to remove", Style: mode.ToastInfo}
		}
	}

	options := make([]picker.Option, 0, len(act.Participants))
	for _, email := range act.Participants {
		options = append(options, picker.Option{Label: email, Value: email})
	}

	m.picker = picker.New("Remove from "+act.Name, options).
		SetBoxWidth(pickerBoxWidth(m.width)).
		SetSize(m.width, m.height)
	m.view = ViewRemovePicker
	return m, nil
}

func (m Model) handleRemovePickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.view = ViewRoster
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Enter):
		chosen := m.picker.Selected()
		act, ok := m.selectedActivity()
		if chosen.Value == "" || !ok {
			m.view = ViewRoster
			return m, nil
		}
		return m.openRemoveConfirm(act.Name, chosen.Value)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// openRemoveConfirm asks for confirmation before unregistering.
func (m Model) openRemoveConfirm(activityName, email string) (Model, tea.Cmd) {
	m.pendingRemove = pendingRemove{activityName: activityName, email: email}
	m.modal = modal.New(modal.Config{
		Title:          "Remove Participant",
		Message:        fmt.Sprintf("Remove %s from %s?", email, activityName),
		ConfirmVariant: modal.ButtonDanger,
	})
	m.modal.SetSize(m.width, m.height)
	m.view = ViewRemoveConfirm
	return m, m.modal.Init()
}

// handleModalSubmit dispatches the in-flight signup or unregister request.
func (m Model) handleModalSubmit(msg modal.SubmitMsg) (Model, tea.Cmd) {
	if m.mutating {
		// A request is already in flight; ignore the repeat submit.
		return m, nil
	}

	switch m.view {
	case ViewEmailModal:
		if _, err := mail.ParseAddress(msg.Value); err != nil {
			log.Warn(log.CatUI, "Rejected malformed email", "input", msg.Value)
			return m, func() tea.Msg {
				return mode.ShowToastMsg{Message: "Enter a valid email address", Style: mode.ToastError}
			}
		}
		// The modal stays open until the server answers. A rejection keeps
		// the form populated so the student can correct and resubmit.
		m.mutating = true
		return m, tea.Batch(m.spinner.Tick, m.signupCmd(m.pendingActivity, msg.Value))

	case ViewRemoveConfirm:
		pending := m.pendingRemove
		m.pendingRemove = pendingRemove{}
		m.view = ViewRoster
		m.mutating = true
		return m, tea.Batch(m.spinner.Tick, m.unregisterCmd(pending.activityName, pending.email))
	}

	return m, nil
}

func (m Model) handleModalCancel() (Model, tea.Cmd) {
	m.pendingActivity = ""
	m.pendingRemove = pendingRemove{}
	m.view = ViewRoster
	return m, nil
}

// pickerBoxWidth sizes picker overlays relative to the viewport.
func pickerBoxWidth(viewportWidth int) int {
	width := viewportWidth / 2
	if width < 36 {
		width = 36
	}
	if viewportWidth > 0 && width > viewportWidth-4 {
		width = viewportWidth - 4
	}
	return width
}
