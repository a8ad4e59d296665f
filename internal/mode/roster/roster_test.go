package roster

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/enroll/internal/activity"
	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/config"
	"github.com/mergington/enroll/internal/flags"
	"github.com/mergington/enroll/internal/mode"
	"github.com/mergington/enroll/internal/mode/shared"
	"github.com/mergington/enroll/internal/testutil"
	"github.com/mergington/enroll/internal/ui/modal"
)

// testServer backs the api client used by testModel so commands drained in
// tests never dereference a nil client.
var testServer *httptest.Server

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	testServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	code := m.Run()
	testServer.Close()
	os.Exit(code)
}

var testClock = shared.FixedClock{Time: time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)}

func testModel() Model {
	cfg := config.Defaults()
	services := mode.Services{
		Config: &cfg,
		Client: api.NewClient(testServer.URL, time.Second),
		Clock:  testClock,
	}
	m := New(services)
	return m.SetSize(100, 40)
}

func loadedModel() Model {
	m := testModel()
	m, _ = m.Update(activitiesLoadedMsg{
		activities: testutil.DefaultCollection(),
		fetchedAt:  testClock.Now(),
	})
	return m
}

func keyRune(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }

// drain runs a command tree and collects every produced message.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findToast(t *testing.T, msgs []tea.Msg) mode.ShowToastMsg {
	t.Helper()
	for _, msg := range msgs {
		if toast, ok := msg.(mode.ShowToastMsg); ok {
			return toast
		}
	}
	t.Fatal("expected a ShowToastMsg")
	return mode.ShowToastMsg{}
}

func TestNew(t *testing.T) {
	m := testModel()

	assert.True(t, m.loading)
	assert.Equal(t, ViewRoster, m.view)
	assert.False(t, m.Mutating())
}

func TestInit_ReturnsCommands(t *testing.T) {
	assert.NotNil(t, testModel().Init())
}

func TestActivitiesLoaded(t *testing.T) {
	m := loadedModel()

	assert.False(t, m.loading)
	assert.Equal(t, 3, m.Activities().Len())
	assert.Equal(t, testClock.Now(), m.updatedAt)
}

func TestActivitiesLoaded_ClampsCursor(t *testing.T) {
	m := loadedModel()
	m.selected = 2

	m, _ = m.Update(activitiesLoadedMsg{
		activities: activity.NewCollection([]activity.Activity{
			testutil.NewActivity("Chess Club").Build(),
		}),
		fetchedAt: testClock.Now(),
	})

	assert.Equal(t, 0, m.selected)
}

func TestManualRefresh_ShowsToastOnLoad(t *testing.T) {
	m := loadedModel()

	m, _ = m.Update(keyRune("r"))
	assert.True(t, m.loading)

	m, cmd := m.Update(activitiesLoadedMsg{
		activities: testutil.DefaultCollection(),
		fetchedAt:  testClock.Now(),
	})
	_ = m

	toast := findToast(t, drain(cmd))
	assert.Equal(t, "Roster refreshed", toast.Message)
	assert.Equal(t, mode.ToastInfo, toast.Style)
}

func TestFetchFailed(t *testing.T) {
	m := testModel()

	m, _ = m.Update(fetchFailedMsg{err: errors.New("connection refused")})

	assert.False(t, m.loading)
	require.Error(t, m.err)
	assert.Equal(t, "loading activities", m.errContext)
}

func TestFetchFailed_ErrorClearedOnKey(t *testing.T) {
	m := loadedModel()
	m, _ = m.Update(fetchFailedMsg{err: errors.New("boom")})

	m, _ = m.Update(keyRune("j"))

	assert.NoError(t, m.err)
}

func TestNavigation(t *testing.T) {
	m := loadedModel()

	m, _ = m.Update(keyRune("j"))
	assert.Equal(t, 1, m.selected)

	m, _ = m.Update(keyRune("j"))
	m, _ = m.Update(keyRune("j"))
	assert.Equal(t, 2, m.selected, "cursor clamps at the last card")

	m, _ = m.Update(keyRune("k"))
	assert.Equal(t, 1, m.selected)

	m, _ = m.Update(keyRune("k"))
	m, _ = m.Update(keyRune("k"))
	assert.Equal(t, 0, m.selected, "cursor clamps at the first card")
}

func TestQuit(t *testing.T) {
	m := loadedModel()

	_, cmd := m.Update(keyRune("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSignupFlow_PickerThenModal(t *testing.T) {
	m := loadedModel()

	m, _ = m.Update(keyRune("s"))
	require.Equal(t, ViewActivityPicker, m.view)

	// Pick the second activity
	m, _ = m.Update(keyRune("j"))
	m, _ = m.Update(keyEnter())

	require.Equal(t, ViewEmailModal, m.view)
	assert.Equal(t, "Programming Class", m.pendingActivity)
}

func TestSignupFlow_PickerEscape(t *testing.T) {
	m := loadedModel()

	m, _ = m.Update(keyRune("s"))
	m, _ = m.Update(keyEsc())

	assert.Equal(t, ViewRoster, m.view)
}

func TestSignupFlow_EmptyRosterIgnored(t *testing.T) {
	m := testModel()
	m.loading = false

	m, _ = m.Update(keyRune("s"))

	assert.Equal(t, ViewRoster, m.view)
}

func TestSignupSubmit_ValidEmail(t *testing.T) {
	m := loadedModel()
	m, _ = m.openEmailModalFor(0)

	m, cmd := m.Update(modal.SubmitMsg{Value: "alice@mergington.edu"})

	assert.Equal(t, ViewEmailModal, m.view, "modal stays open until the server answers")
	assert.True(t, m.Mutating())
	assert.NotNil(t, cmd)
}

func TestSignupRejected_KeepsFormPopulated(t *testing.T) {
	m := loadedModel()
	m, _ = m.openEmailModalFor(0)

	for _, r := range "alice@mergington.edu" {
		m, _ = m.Update(keyRune(string(r)))
	}
	m, cmd := m.Update(keyEnter())
	for _, msg := range drain(cmd) {
		m, _ = m.Update(msg)
	}
	require.True(t, m.Mutating())

	m, cmd = m.Update(mutationFailedMsg{
		kind: mutationSignup,
		err:  &api.Error{StatusCode: 400, Detail: "Student already signed up"},
	})

	assert.Equal(t, ViewEmailModal, m.view, "rejection keeps the form open")
	assert.Equal(t, "alice@mergington.edu", m.modal.Value(), "typed email survives the rejection")
	assert.Equal(t, "Chess Club", m.pendingActivity, "resubmit targets the same activity")
	assert.False(t, m.Mutating())
	toast := findToast(t, drain(cmd))
	assert.Equal(t, "Student already signed up", toast.Message)
	assert.Equal(t, mode.ToastError, toast.Style)
}

func TestSignupAccepted_ClosesModal(t *testing.T) {
	m := loadedModel()
	m, _ = m.openEmailModalFor(0)
	m, _ = m.Update(modal.SubmitMsg{Value: "alice@mergington.edu"})
	require.Equal(t, ViewEmailModal, m.view)

	m, _ = m.Update(mutationDoneMsg{
		kind:     mutationSignup,
		message:  "Signed up alice@mergington.edu for Chess Club",
		activity: "Chess Club",
		email:    "alice@mergington.edu",
	})

	assert.Equal(t, ViewRoster, m.view)
	assert.Empty(t, m.pendingActivity)
}

func TestSignupSubmit_InvalidEmailRejected(t *testing.T) {
	m := loadedModel()
	m, _ = m.openEmailModalFor(0)

	m, cmd := m.Update(modal.SubmitMsg{Value: "not-an-email"})

	assert.Equal(t, ViewEmailModal, m.view, "modal stays open on invalid email")
	assert.False(t, m.Mutating())
	toast := findToast(t, drain(cmd))
	assert.Equal(t, mode.ToastError, toast.Style)
}

func TestSubmit_BlockedWhileMutating(t *testing.T) {
	m := loadedModel()
	m, _ = m.openEmailModalFor(0)
	m.mutating = true

	m2, cmd := m.Update(modal.SubmitMsg{Value: "alice@mergington.edu"})

	assert.Nil(t, cmd, "a second submit while a request is in flight must be ignored")
	assert.Equal(t, m.view, m2.view)
}

func TestRemoveFlow_PickerThenConfirm(t *testing.T) {
	m := loadedModel()

	// Chess Club has two participants
	m, _ = m.Update(keyRune("d"))
	require.Equal(t, ViewRemovePicker, m.view)

	m, _ = m.Update(keyEnter())
	require.Equal(t, ViewRemoveConfirm, m.view)
	assert.Equal(t, "Chess Club", m.pendingRemove.activityName)
	assert.Equal(t, "michael@mergington.edu", m.pendingRemove.email)
}

func TestRemoveFlow_NoParticipantsShowsToast(t *testing.T) {
	m := loadedModel()
	m.selected = 2 // Art Club has no participants

	m, cmd := m.Update(keyRune("d"))

	assert.Equal(t, ViewRoster, m.view)
	toast := findToast(t, drain(cmd))
	assert.Equal(t, mode.ToastInfo, toast.Style)
}

func TestRemoveConfirm_SubmitDispatchesUnregister(t *testing.T) {
	m := loadedModel()
	m, _ = m.openRemoveConfirm("Chess Club", "michael@mergington.edu")

	m, cmd := m.Update(modal.SubmitMsg{})

	assert.Equal(t, ViewRoster, m.view)
	assert.True(t, m.Mutating())
	assert.NotNil(t, cmd)
	assert.Equal(t, pendingRemove{}, m.pendingRemove)
}

func TestModalCancel_ResetsFlowState(t *testing.T) {
	m := loadedModel()
	m, _ = m.openRemoveConfirm("Chess Club", "michael@mergington.edu")

	m, _ = m.Update(modal.CancelMsg{})

	assert.Equal(t, ViewRoster, m.view)
	assert.Equal(t, pendingRemove{}, m.pendingRemove)
	assert.False(t, m.Mutating())
}

func TestMutationDone_TogglesLatchAndRefetches(t *testing.T) {
	m := loadedModel()
	m.mutating = true

	m, cmd := m.Update(mutationDoneMsg{
		kind:     mutationSignup,
		message:  "Signed up alice@mergington.edu for Chess Club",
		activity: "Chess Club",
		email:    "alice@mergington.edu",
	})

	assert.False(t, m.Mutating())
	assert.True(t, m.loading, "roster reloads after a successful mutation")
	toast := findToast(t, drain(cmd))
	assert.Equal(t, "Signed up alice@mergington.edu for Chess Club", toast.Message)
	assert.Equal(t, mode.ToastSuccess, toast.Style)
}

func TestMutationDone_RemembersEmail(t *testing.T) {
	m := loadedModel()

	m, _ = m.Update(mutationDoneMsg{
		kind:     mutationSignup,
		message:  "done",
		activity: "Chess Club",
		email:    "new@mergington.edu",
	})

	assert.Equal(t, "new@mergington.edu", m.services.Config.Email)
}

func TestMutationFailed_ShowsServerDetail(t *testing.T) {
	m := loadedModel()
	m.mutating = true

	m, cmd := m.Update(mutationFailedMsg{
		kind: mutationSignup,
		err:  &api.Error{StatusCode: 400, Detail: "Student already signed up"},
	})

	assert.False(t, m.Mutating())
	toast := findToast(t, drain(cmd))
	assert.Equal(t, "Student already signed up", toast.Message)
	assert.Equal(t, mode.ToastError, toast.Style)
}

func TestMouse_SignupZoneOpensEmailModal(t *testing.T) {
	m := loadedModel()

	// Render to register zones, then scan to resolve their bounds.
	zone.Scan(m.View())

	// Without a real terminal the zone bounds stay empty, so clicks
	// outside any zone must be a no-op.
	m2, cmd := m.handleMouse(tea.MouseMsg{
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
		X:      0,
		Y:      0,
	})

	assert.Equal(t, m.view, m2.view)
	assert.Nil(t, cmd)
}

func TestMouse_IgnoredOutsideRosterView(t *testing.T) {
	m := loadedModel()
	m, _ = m.Update(keyRune("s"))

	m2, cmd := m.handleMouse(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, m.view, m2.view)
	assert.Nil(t, cmd)
}

// click simulates a left-button release at the origin; the stubbed zone
// checker decides which control it lands on.
func click() tea.MouseMsg {
	return tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestMouse_ClickSignupButtonOpensEmailModal(t *testing.T) {
	m := loadedModel()
	m.inZone = func(id string, _ tea.MouseMsg) bool {
		return id == makeSignupZoneID(1)
	}

	m, _ = m.Update(click())

	assert.Equal(t, ViewEmailModal, m.view)
	assert.Equal(t, 1, m.selected, "click focuses the clicked card")
	assert.Equal(t, "Programming Class", m.pendingActivity)
}

func TestMouse_ClickRemoveControlOpensConfirm(t *testing.T) {
	m := loadedModel()
	m.inZone = func(id string, _ tea.MouseMsg) bool {
		return id == makeRemoveZoneID(0, 1)
	}

	m, _ = m.Update(click())

	assert.Equal(t, ViewRemoveConfirm, m.view)
	assert.Equal(t, "Chess Club", m.pendingRemove.activityName)
	assert.Equal(t, "daniel@mergington.edu", m.pendingRemove.email)
}

func TestMouse_ClickUnknownZoneIsNoop(t *testing.T) {
	m := loadedModel()
	m.inZone = func(id string, _ tea.MouseMsg) bool { return false }

	m2, cmd := m.Update(click())

	assert.Equal(t, ViewRoster, m2.view)
	assert.Nil(t, cmd)
}

func TestStrictCapacity_BlocksSignupForFullActivity(t *testing.T) {
	cfg := config.Defaults()
	services := mode.Services{
		Config: &cfg,
		Clock:  testClock,
		Flags:  flags.New(map[string]bool{flags.FlagStrictCapacity: true}),
	}
	m := New(services).SetSize(100, 40)
	m, _ = m.Update(activitiesLoadedMsg{
		activities: activity.NewCollection([]activity.Activity{
			testutil.NewActivity("Drama Club").WithMaxParticipants(2).Full().Build(),
		}),
		fetchedAt: testClock.Now(),
	})

	m, cmd := m.openEmailModalFor(0)

	assert.Equal(t, ViewRoster, m.view)
	toast := findToast(t, drain(cmd))
	assert.Equal(t, "Drama Club is full", toast.Message)
	assert.Equal(t, mode.ToastError, toast.Style)
}

func TestStrictCapacityOff_FullActivityStillOpensModal(t *testing.T) {
	m := testModel()
	m, _ = m.Update(activitiesLoadedMsg{
		activities: activity.NewCollection([]activity.Activity{
			testutil.NewActivity("Drama Club").WithMaxParticipants(2).Full().Build(),
		}),
		fetchedAt: testClock.Now(),
	})

	m, _ = m.openEmailModalFor(0)

	assert.Equal(t, ViewEmailModal, m.view)
}

func TestHelpToggle(t *testing.T) {
	m := loadedModel()

	m, _ = m.Update(keyRune("?"))
	assert.True(t, m.showHelp)

	m, _ = m.Update(keyRune("?"))
	assert.False(t, m.showHelp)
}
