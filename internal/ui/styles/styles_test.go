package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityStyle(t *testing.T) {
	tests := []struct {
		name      string
		spotsLeft int
		expected  lipgloss.Style
	}{
		{"full roster", 0, CapacityFullStyle},
		{"overfull roster", -1, CapacityFullStyle},
		{"one spot", 1, CapacityLowStyle},
		{"three spots", 3, CapacityLowStyle},
		{"four spots", 4, CapacityOpenStyle},
		{"wide open", 12, CapacityOpenStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CapacityStyle(tt.spotsLeft))
		})
	}
}

func TestRenderFormSection_Structure(t *testing.T) {
	out := RenderFormSection([]string{"hello"}, "Email", "enter to submit", 30, false, BorderHighlightFocusColor)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Email")
	assert.Contains(t, lines[0], "enter to submit")
	assert.Contains(t, lines[1], "hello")
}

func TestRenderFormSection_NoTitle(t *testing.T) {
	out := RenderFormSection([]string{"body"}, "", "", 20, false, BorderHighlightFocusColor)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	// Every line spans the requested width
	for _, line := range lines {
		assert.Equal(t, 20, lipgloss.Width(line))
	}
}

func TestRenderFormSection_PadsContentToWidth(t *testing.T) {
	out := RenderFormSection([]string{"x"}, "", "", 24, true, BorderHighlightFocusColor)
	lines := strings.Split(out, "\n")
	assert.Equal(t, 24, lipgloss.Width(lines[1]))
}
