package roster

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mergington/enroll/internal/activity"
	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/log"
)

// activitiesLoadedMsg carries a freshly fetched roster.
type activitiesLoadedMsg struct {
	activities activity.Collection
	fetchedAt  time.Time
}

// fetchFailedMsg reports a roster fetch error.
type fetchFailedMsg struct {
	err error
}

// mutationKind distinguishes signup from unregister for logging and toasts.
type mutationKind int

const (
	mutationSignup mutationKind = iota
	mutationUnregister
)

// mutationDoneMsg reports a successful signup or unregister.
type mutationDoneMsg struct {
	kind     mutationKind
	message  string
	activity string
	email    string
}

// mutationFailedMsg reports a failed signup or unregister.
type mutationFailedMsg struct {
	kind mutationKind
	err  error
}

// fetchActivitiesCmd loads the roster from the server.
func (m Model) fetchActivitiesCmd() tea.Cmd {
	client := m.services.Client
	clock := m.services.Clock
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		activities, err := client.Activities(ctx)
		if err != nil {
			log.ErrorErr(log.CatAPI, "Fetching activities failed", err)
			return fetchFailedMsg{err: err}
		}
		return activitiesLoadedMsg{activities: activities, fetchedAt: clock.Now()}
	}
}

// signupCmd registers email for the named activity.
func (m Model) signupCmd(activityName, email string) tea.Cmd {
	client := m.services.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		message, err := client.Signup(ctx, activityName, email)
		if err != nil {
			log.ErrorErr(log.CatAPI, "Signup failed", err, "activity", activityName)
			return mutationFailedMsg{kind: mutationSignup, err: err}
		}
		return mutationDoneMsg{
			kind:     mutationSignup,
			message:  message,
			activity: activityName,
			email:    email,
		}
	}
}

// unregisterCmd removes email from the named activity.
func (m Model) unregisterCmd(activityName, email string) tea.Cmd {
	client := m.services.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		message, err := client.Unregister(ctx, activityName, email)
		if err != nil {
			log.ErrorErr(log.CatAPI, "Unregister failed", err, "activity", activityName)
			return mutationFailedMsg{kind: mutationUnregister, err: err}
		}
		return mutationDoneMsg{
			kind:     mutationUnregister,
			message:  message,
			activity: activityName,
			email:    email,
		}
	}
}
