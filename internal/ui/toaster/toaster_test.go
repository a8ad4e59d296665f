package toaster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func show(m Model, message string, style Style) Model {
	m, _ = m.Show(message, style)
	return m
}

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Hello", StyleSuccess)

	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "Hello")
	assert.NotNil(t, cmd, "Show should schedule auto-dismiss")
}

func TestHide(t *testing.T) {
	m := show(New(), "Hello", StyleSuccess).Hide()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := show(show(New(), "First", StyleSuccess), "Second", StyleError)

	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestUpdate_DismissesMatchingSeq(t *testing.T) {
	m := show(New(), "Signed up", StyleSuccess)

	m = m.Update(DismissMsg{Seq: m.seq})

	assert.False(t, m.Visible())
}

func TestUpdate_IgnoresStaleDismiss(t *testing.T) {
	m := show(New(), "First", StyleSuccess)
	staleSeq := m.seq
	m = show(m, "Second", StyleError)

	// The first toast's timer fires after it was replaced
	m = m.Update(DismissMsg{Seq: staleSeq})

	assert.True(t, m.Visible(), "a superseded toast's timer must not hide its replacement")
	assert.Contains(t, m.View(), "Second")
}

func TestUpdate_IgnoresOtherMessages(t *testing.T) {
	m := show(New(), "Hello", StyleInfo)

	m = m.Update("not a dismiss")

	assert.True(t, m.Visible())
}

func TestView_EmptyWhenNotVisible(t *testing.T) {
	assert.Empty(t, New().View())
}

func TestView_EmptyWhenMessageEmpty(t *testing.T) {
	m := Model{visible: true, message: ""}

	assert.Empty(t, m.View())
}

func TestView_StyleSuccess(t *testing.T) {
	view := show(New(), "Signed up for Chess Club!", StyleSuccess).View()

	assert.Contains(t, view, "✅")
	assert.Contains(t, view, "Signed up for Chess Club!")
	assert.Contains(t, view, "╭") // Rounded border corner
}

func TestView_StyleError(t *testing.T) {
	view := show(New(), "Activity not found", StyleError).View()

	assert.Contains(t, view, "❌")
	assert.Contains(t, view, "Activity not found")
	assert.Contains(t, view, "╭")
}

func TestView_StyleInfo(t *testing.T) {
	view := show(New(), "Roster refreshed", StyleInfo).View()

	assert.Contains(t, view, "ℹ️")
	assert.Contains(t, view, "Roster refreshed")
	assert.Contains(t, view, "╭")
}

func TestOverlay_NotVisibleReturnsBackground(t *testing.T) {
	bg := "Background\nContent"

	assert.Equal(t, bg, New().Overlay(bg, 20, 10))
}

func TestOverlay_VisiblePlacesAtBottom(t *testing.T) {
	m := show(New(), "Toast", StyleSuccess)
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 20)+"\n", 10), "\n")

	result := m.Overlay(bg, 20, 10)

	lines := strings.Split(result, "\n")
	bottomLines := lines[len(lines)-5:]
	found := false
	for _, line := range bottomLines {
		if strings.Contains(line, "Toast") {
			found = true
			break
		}
	}
	assert.True(t, found, "Toast should appear near the bottom of the overlay")
}

func TestOverlay_EmptyMessageReturnsBackground(t *testing.T) {
	m := Model{visible: true, message: ""}

	assert.Equal(t, "Background", m.Overlay("Background", 20, 10))
}

func TestShow_ImmutableModel(t *testing.T) {
	m1 := New()
	m2 := show(m1, "Hello", StyleSuccess)

	assert.False(t, m1.Visible())
	assert.True(t, m2.Visible())
}

func TestHide_ImmutableModel(t *testing.T) {
	m1 := show(New(), "Hello", StyleSuccess)
	m2 := m1.Hide()

	assert.True(t, m1.Visible())
	assert.False(t, m2.Visible())
}
