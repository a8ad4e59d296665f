package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Up uses k and up", binding: km.Up, expected: []string{"k", "up"}},
		{name: "Down uses j and down", binding: km.Down, expected: []string{"j", "down"}},
		{name: "Enter uses enter", binding: km.Enter, expected: []string{"enter"}},
		{name: "Signup uses s", binding: km.Signup, expected: []string{"s"}},
		{name: "Remove uses d and x", binding: km.Remove, expected: []string{"d", "x"}},
		{name: "Refresh uses r", binding: km.Refresh, expected: []string{"r"}},
		{name: "Help uses ?", binding: km.Help, expected: []string{"?"}},
		{name: "Escape uses esc", binding: km.Escape, expected: []string{"esc"}},
		{name: "Quit uses q and ctrl+c", binding: km.Quit, expected: []string{"q", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()

	for _, b := range []key.Binding{km.Up, km.Down, km.Enter, km.Signup, km.Remove, km.Refresh, km.Help, km.Escape, km.Quit} {
		help := b.Help()
		require.NotEmpty(t, help.Key, "key help should not be empty")
		require.NotEmpty(t, help.Desc, "key description should not be empty")
	}
}

func TestShortHelp_CoversCoreActions(t *testing.T) {
	km := DefaultKeyMap()
	require.Len(t, km.ShortHelp(), 7)
}

func TestFullHelp_GroupsBindings(t *testing.T) {
	km := DefaultKeyMap()
	groups := km.FullHelp()
	require.Len(t, groups, 3)
	for _, g := range groups {
		require.NotEmpty(t, g)
	}
}
