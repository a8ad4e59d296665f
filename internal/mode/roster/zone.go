package roster

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// zoneChecker reports whether the zone with the given ID contains the click.
// Swapped for a stub in tests, where no terminal resolves zone bounds.
type zoneChecker func(id string, msg tea.MouseMsg) bool

// zoneInBounds checks the click against the global zone manager.
func zoneInBounds(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// Zone ID constants for mouse click detection on roster cards.
// Uses bubblezone to map clicks onto per-card signup buttons and
// per-participant remove controls.
const (
	zoneSignupPrefix = "roster-signup:"
	zoneRemovePrefix = "roster-remove:"
)

// makeSignupZoneID returns the zone ID for an activity card's signup button.
func makeSignupZoneID(activityIdx int) string {
	return fmt.Sprintf("%s%d", zoneSignupPrefix, activityIdx)
}

// makeRemoveZoneID returns the zone ID for a participant's remove control.
func makeRemoveZoneID(activityIdx, participantIdx int) string {
	return fmt.Sprintf("%s%d:%d", zoneRemovePrefix, activityIdx, participantIdx)
}

// parseSignupZoneID extracts the activity index from a signup zone ID.
func parseSignupZoneID(id string) (int, bool) {
	raw, ok := strings.CutPrefix(id, zoneSignupPrefix)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// parseRemoveZoneID extracts the activity and participant indexes from a
// remove zone ID.
func parseRemoveZoneID(id string) (activityIdx, participantIdx int, ok bool) {
	raw, found := strings.CutPrefix(id, zoneRemovePrefix)
	if !found {
		return 0, 0, false
	}
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	ai, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	pi, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return ai, pi, true
}
