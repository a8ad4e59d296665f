// Package modal provides a reusable modal component for confirmation dialogs
// and input prompts.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mergington/enroll/internal/ui/overlay"
	"github.com/mergington/enroll/internal/ui/styles"
)

// ButtonVariant controls the styling of the confirm button.
type ButtonVariant int

const (
	ButtonPrimary ButtonVariant = iota // Blue (default)
	ButtonDanger                       // Red (for destructive actions)
)

// InputConfig defines the modal's optional text field.
type InputConfig struct {
	Label       string // Label displayed in the input section border
	Placeholder string // Placeholder text shown when empty
	Value       string // Initial value (optional)
	MaxLength   int    // Character limit (0 = unlimited)
}

// Config controls modal appearance and behavior.
type Config struct {
	Title          string        // Modal title (e.g., "Sign Up", "Remove Participant")
	Message        string        // Optional message/prompt text
	Input          *InputConfig  // Text field; nil puts the modal in confirmation mode
	ConfirmVariant ButtonVariant // Style for confirm button (default: ButtonPrimary)
	MinWidth       int           // Minimum width (0 = default 40)
}

// SubmitMsg is sent when the user confirms the modal.
// Value holds the text field content; empty in confirmation mode.
type SubmitMsg struct {
	Value string
}

// CancelMsg is sent when the user cancels the modal (Esc key or Cancel button).
type CancelMsg struct{}

// Field identifies which element is focused.
type Field int

const (
	FieldInput Field = iota
	FieldConfirm
	FieldCancel
)

// Model is the modal component state.
type Model struct {
	config  Config
	input   textinput.Model
	focused Field
	width   int
	height  int
}

// New creates a new modal with the given configuration.
// With an Input, the modal operates in input mode with a text field.
// Otherwise it operates in confirmation mode (just confirm/cancel).
func New(cfg Config) Model {
	m := Model{
		config:  cfg,
		focused: FieldConfirm,
	}

	if cfg.Input != nil {
		ti := textinput.New()
		ti.Placeholder = cfg.Input.Placeholder
		ti.Width = 36 // Fits within minWidth (40) minus borders/padding
		ti.Prompt = ""
		if cfg.Input.MaxLength > 0 {
			ti.CharLimit = cfg.Input.MaxLength
		}
		if cfg.Input.Value != "" {
			ti.SetValue(cfg.Input.Value)
		}
		ti.Focus()
		m.input = ti
		m.focused = FieldInput
	}

	return m
}

func (m Model) hasInput() bool {
	return m.config.Input != nil
}

// Init returns the initial command. For input mode, starts the cursor blink.
func (m Model) Init() tea.Cmd {
	if m.hasInput() {
		return textinput.Blink
	}
	return nil
}

// Update handles messages for the modal.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "ctrl+n":
			return m.nextField(), nil

		case "shift+tab", "up", "ctrl+p":
			return m.prevField(), nil

		case "left", "h":
			if m.focused == FieldCancel {
				m.focused = FieldConfirm
				return m, nil
			}

		case "right", "l":
			if m.focused == FieldConfirm {
				m.focused = FieldCancel
				return m, nil
			}

		case "enter":
			switch m.focused {
			case FieldInput, FieldConfirm:
				if m.hasInput() && strings.TrimSpace(m.input.Value()) == "" {
					return m, nil // Don't submit an empty field
				}
				value := strings.TrimSpace(m.input.Value())
				return m, func() tea.Msg { return SubmitMsg{Value: value} }
			case FieldCancel:
				return m, func() tea.Msg { return CancelMsg{} }
			}

		case "esc":
			return m, func() tea.Msg { return CancelMsg{} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	if m.focused == FieldInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// nextField moves focus to the next field.
func (m Model) nextField() Model {
	switch m.focused {
	case FieldInput:
		m.input.Blur()
		m.focused = FieldConfirm
	case FieldConfirm:
		m.focused = FieldCancel
	case FieldCancel:
		if m.hasInput() {
			m.focused = FieldInput
			m.input.Focus()
		} else {
			m.focused = FieldConfirm
		}
	}
	return m
}

// prevField moves focus to the previous field.
func (m Model) prevField() Model {
	switch m.focused {
	case FieldInput:
		m.input.Blur()
		m.focused = FieldCancel
	case FieldConfirm:
		if m.hasInput() {
			m.focused = FieldInput
			m.input.Focus()
		} else {
			m.focused = FieldCancel
		}
	case FieldCancel:
		m.focused = FieldConfirm
	}
	return m
}

// View renders the modal content (without overlay).
func (m Model) View() string {
	minWidth := 40
	if m.config.MinWidth > minWidth {
		minWidth = m.config.MinWidth
	}
	contentWidth := minWidth
	titleLen := lipgloss.Width(m.config.Title)
	if titleLen > contentWidth {
		contentWidth = titleLen
	}
	boxWidth := contentWidth + 2 // Account for content padding

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	dividerStyle := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder

	if m.config.Message != "" {
		msgStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Width(contentWidth)
		content.WriteString(msgStyle.Render(m.config.Message))
		content.WriteString("\n\n")
	}

	if m.hasInput() {
		content.WriteString(m.renderInputSection(contentWidth))
		content.WriteString("\n\n")
	}

	content.WriteString(m.renderButtons())

	var result strings.Builder
	result.WriteString(titleStyle.Render(m.config.Title))
	result.WriteString("\n")
	result.WriteString(divider)
	result.WriteString("\n")
	contentStyle := lipgloss.NewStyle().Padding(1, 1)
	result.WriteString(contentStyle.Render(content.String()))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth)

	return boxStyle.Render(result.String())
}

// renderInputSection renders the text field wrapped in a bordered section.
func (m Model) renderInputSection(width int) string {
	label := m.config.Input.Label
	if label == "" {
		label = "Input"
	}

	return styles.RenderFormSection([]string{m.input.View()}, label, "", width, m.focused == FieldInput, styles.BorderHighlightFocusColor)
}

// renderButtons renders Confirm and Cancel buttons.
func (m Model) renderButtons() string {
	var confirmStyle lipgloss.Style
	switch m.config.ConfirmVariant {
	case ButtonDanger:
		confirmStyle = styles.DangerButtonStyle
		if m.focused == FieldConfirm {
			confirmStyle = styles.DangerButtonFocusedStyle
		}
	default: // ButtonPrimary
		confirmStyle = styles.PrimaryButtonStyle
		if m.focused == FieldConfirm {
			confirmStyle = styles.PrimaryButtonFocusedStyle
		}
	}

	confirmLabel := "Confirm"
	if m.hasInput() {
		confirmLabel = "Submit"
	}
	confirmBtn := confirmStyle.Render(confirmLabel)

	cancelStyle := styles.SecondaryButtonStyle
	if m.focused == FieldCancel {
		cancelStyle = styles.SecondaryButtonFocusedStyle
	}
	cancelBtn := cancelStyle.Render("Cancel")

	return confirmBtn + "  " + cancelBtn
}

// Overlay renders the modal centered on the given background.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize updates the modal's knowledge of viewport size for overlay centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Value returns the current text field content.
func (m Model) Value() string {
	return m.input.Value()
}

// Focused returns the currently focused field.
func (m Model) Focused() Field {
	return m.focused
}
