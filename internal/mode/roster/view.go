package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mergington/enroll/internal/activity"
	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/cachemanager"
	"github.com/mergington/enroll/internal/log"
	"github.com/mergington/enroll/internal/ui/markdown"
	"github.com/mergington/enroll/internal/ui/styles"
)

// renderRoster draws the scrollable card list plus the status bar.
func (m Model) renderRoster() string {
	body := m.renderBody()

	if !m.showStatusBar {
		return body
	}
	if m.err != nil {
		return body + "\n" + m.renderErrorBar()
	}
	return body + "\n" + m.renderStatusBar()
}

func (m Model) renderBody() string {
	height := m.rosterHeight()

	if m.loading && m.activities.Len() == 0 {
		return m.renderCentered(m.spinner.View()+" Loading activities...", height)
	}

	if m.err != nil && m.activities.Len() == 0 {
		msg := styles.ErrorStyle.Render(api.UserMessage(m.err)) + "\n" +
			styles.EmptyPlaceholderStyle.Render("Press r to retry.")
		return m.renderCentered(msg, height)
	}

	if m.activities.Len() == 0 {
		return m.renderCentered(styles.EmptyPlaceholderStyle.Render("No activities available."), height)
	}

	cards := make([]string, 0, m.activities.Len())
	cardStarts := make([]int, 0, m.activities.Len())
	total := 0
	for i, act := range m.activities.All() {
		card := m.renderCard(i, act)
		cards = append(cards, card)
		cardStarts = append(cardStarts, total)
		total += lipgloss.Height(card)
	}

	lines := strings.Split(strings.Join(cards, "\n"), "\n")

	// Scroll so the selected card is visible. Derived from the selection
	// alone so the view stays a pure function of the model.
	offset := 0
	if total > height && m.selected < len(cardStarts) {
		selStart := cardStarts[m.selected]
		selEnd := total
		if m.selected+1 < len(cardStarts) {
			selEnd = cardStarts[m.selected+1]
		}
		if selEnd-selStart >= height {
			offset = selStart
		} else if selEnd > height {
			offset = selEnd - height
		}
		if offset > len(lines)-height {
			offset = len(lines) - height
		}
		if offset < 0 {
			offset = 0
		}
	}

	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[offset:end]

	// Pad to full height so overlays anchor to the bottom consistently
	out := strings.Join(visible, "\n")
	for i := len(visible); i < height; i++ {
		out += "\n"
	}
	return out
}

// renderCard draws one activity card with zone-marked controls.
func (m Model) renderCard(idx int, act activity.Activity) string {
	innerWidth := m.cardInnerWidth()

	var b strings.Builder

	spots := act.SpotsLeft()
	title := styles.ActivityTitleStyle.Render(act.Name) +
		"  " + styles.CapacityStyle(spots).Render(spotsLeftLabel(spots))
	b.WriteString(title)
	b.WriteString("\n")

	if act.Schedule != "" {
		b.WriteString(styles.ActivityScheduleStyle.Render(act.Schedule))
		b.WriteString("\n")
	}

	if desc := m.renderDescription(act, innerWidth); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.ActivityBodyStyle.Render(fmt.Sprintf("Participants (%d/%d)", len(act.Participants), act.MaxParticipants)))
	b.WriteString("\n")

	if len(act.Participants) == 0 {
		b.WriteString(styles.EmptyPlaceholderStyle.Render("No participants yet. Be the first!"))
		b.WriteString("\n")
	} else {
		for pi, email := range act.Participants {
			removeCtl := zone.Mark(makeRemoveZoneID(idx, pi), styles.RemoveControlStyle.Render("[x]"))
			b.WriteString("  • " + styles.ParticipantStyle.Render(email) + " " + removeCtl)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if act.IsFull() {
		b.WriteString(styles.EmptyPlaceholderStyle.Render("Activity full"))
	} else {
		b.WriteString(zone.Mark(makeSignupZoneID(idx), styles.PrimaryButtonStyle.Render("Sign up")))
	}

	cardStyle := styles.CardBorderStyle
	if idx == m.selected {
		cardStyle = styles.CardBorderFocusedStyle
	}
	return cardStyle.Width(m.cardWidth()).Render(b.String())
}

// renderDescription renders the activity description, optionally as
// markdown, memoized in the render cache.
func (m Model) renderDescription(act activity.Activity, width int) string {
	if act.Description == "" {
		return ""
	}

	if !m.services.Config.UI.MarkdownDescriptions {
		return styles.ActivityBodyStyle.Render(wordwrap.String(act.Description, width))
	}

	cacheKey := fmt.Sprintf("%s|%d|%s", act.Name, width, m.services.Config.UI.MarkdownStyle)
	if m.services.RenderCache != nil {
		if cached, ok := m.services.RenderCache.Get(context.Background(), cacheKey); ok {
			return cached
		}
	}

	r, err := markdown.New(width, m.services.Config.UI.MarkdownStyle)
	if err != nil {
		return styles.ActivityBodyStyle.Render(wordwrap.String(act.Description, width))
	}
	rendered, err := r.Render(act.Description)
	if err != nil {
		log.ErrorErr(log.CatUI, "Markdown render failed", err, "activity", act.Name)
		return styles.ActivityBodyStyle.Render(wordwrap.String(act.Description, width))
	}
	rendered = strings.TrimRight(rendered, "\n")

	if m.services.RenderCache != nil {
		m.services.RenderCache.Set(context.Background(), cacheKey, rendered, cachemanager.DefaultExpiration)
	}
	return rendered
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.loading || m.mutating {
		parts = append(parts, m.spinner.View())
	}

	parts = append(parts, fmt.Sprintf("%d activities", m.activities.Len()))

	if label := m.updatedAtLabel(); label != "" {
		parts = append(parts, label)
	}

	if m.showHelp {
		parts = append(parts, m.help.View(m.keys))
	} else {
		parts = append(parts, "? help")
	}

	bar := styles.StatusBarStyle.Render(strings.Join(parts, " · "))
	return truncateToWidth(bar, m.width)
}

func (m Model) renderErrorBar() string {
	msg := api.UserMessage(m.err)
	if m.errContext != "" {
		msg = m.errContext + ": " + msg
	}
	bar := styles.StatusBarStyle.Foreground(styles.StatusErrorColor).Render(msg)
	return truncateToWidth(bar, m.width)
}

func (m Model) renderCentered(content string, height int) string {
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

// cardWidth returns the outer card width.
func (m Model) cardWidth() int {
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return width
}

// cardInnerWidth returns the usable width inside the card border and padding.
func (m Model) cardInnerWidth() int {
	return max(m.cardWidth()-4, 10)
}

func spotsLeftLabel(spots int) string {
	switch {
	case spots <= 0:
		return "full"
	case spots == 1:
		return "1 spot left"
	default:
		return fmt.Sprintf("%d spots left", spots)
	}
}

func truncateToWidth(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
