// Package activity defines the domain model for extracurricular activities.
package activity

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Activity is a schedulable offering with bounded capacity and a roster of
// participant emails. Name is the unique key; participant order is display
// order.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// SpotsLeft reports remaining capacity. Computed, never stored.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsFull reports whether the activity has no remaining capacity.
func (a Activity) IsFull() bool {
	return a.SpotsLeft() <= 0
}

// HasParticipant reports whether email is on the roster.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Collection is the ordered set of activities as returned by the server.
// It is a transient snapshot: fully replaced on every fetch, never patched.
type Collection struct {
	activities []Activity
	byName     map[string]int
}

// NewCollection builds a collection preserving the given order.
// A duplicate name replaces the earlier entry in place.
func NewCollection(activities []Activity) Collection {
	c := Collection{byName: make(map[string]int, len(activities))}
	for _, a := range activities {
		if idx, ok := c.byName[a.Name]; ok {
			c.activities[idx] = a
			continue
		}
		c.byName[a.Name] = len(c.activities)
		c.activities = append(c.activities, a)
	}
	return c
}

// Len returns the number of activities.
func (c Collection) Len() int {
	return len(c.activities)
}

// All returns the activities in server order.
// The returned slice must not be mutated.
func (c Collection) All() []Activity {
	return c.activities
}

// At returns the activity at index i.
func (c Collection) At(i int) (Activity, bool) {
	if i < 0 || i >= len(c.activities) {
		return Activity{}, false
	}
	return c.activities[i], true
}

// Get looks an activity up by name.
func (c Collection) Get(name string) (Activity, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Activity{}, false
	}
	return c.activities[idx], true
}

// Index returns the position of the named activity in server order.
func (c Collection) Index(name string) (int, bool) {
	idx, ok := c.byName[name]
	return idx, ok
}

// Names returns activity names in server order, one per activity.
func (c Collection) Names() []string {
	names := make([]string, len(c.activities))
	for i, a := range c.activities {
		names[i] = a.Name
	}
	return names
}

// Sanitize strips terminal escape and control sequences from server-supplied
// text so it can only ever render as plain characters. Newlines and tabs are
// kept; everything else below 0x20, and DEL, is removed. This is a
// correctness requirement: activity fields and participant emails come from
// the wire and are never trusted as markup.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// Sanitized returns a copy of the activity with every server-supplied text
// field passed through Sanitize.
func (a Activity) Sanitized() Activity {
	out := Activity{
		Name:            Sanitize(a.Name),
		Description:     Sanitize(a.Description),
		Schedule:        Sanitize(a.Schedule),
		MaxParticipants: a.MaxParticipants,
		Participants:    make([]string, len(a.Participants)),
	}
	for i, p := range a.Participants {
		out.Participants[i] = Sanitize(p)
	}
	return out
}
