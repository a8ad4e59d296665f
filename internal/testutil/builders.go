// Package testutil provides fluent builders for constructing test fixtures.
package testutil

import "github.com/mergington/enroll/internal/activity"

// ActivityBuilder builds activity fixtures with sensible defaults.
type ActivityBuilder struct {
	act activity.Activity
}

// NewActivity starts a builder for an activity with the given name.
func NewActivity(name string) *ActivityBuilder {
	return &ActivityBuilder{act: activity.Activity{
		Name:            name,
		Description:     "A school activity",
		Schedule:        "Weekdays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
	}}
}

// WithDescription sets the description.
func (b *ActivityBuilder) WithDescription(desc string) *ActivityBuilder {
	b.act.Description = desc
	return b
}

// WithSchedule sets the schedule.
func (b *ActivityBuilder) WithSchedule(schedule string) *ActivityBuilder {
	b.act.Schedule = schedule
	return b
}

// WithMaxParticipants sets the capacity.
func (b *ActivityBuilder) WithMaxParticipants(n int) *ActivityBuilder {
	b.act.MaxParticipants = n
	return b
}

// WithParticipants sets the roster.
func (b *ActivityBuilder) WithParticipants(emails ...string) *ActivityBuilder {
	b.act.Participants = emails
	return b
}

// Full fills the roster to capacity with generated emails.
func (b *ActivityBuilder) Full() *ActivityBuilder {
	b.act.Participants = make([]string, b.act.MaxParticipants)
	for i := range b.act.Participants {
		b.act.Participants[i] = generatedEmail(i)
	}
	return b
}

// Build returns the finished activity.
func (b *ActivityBuilder) Build() activity.Activity {
	return b.act
}

func generatedEmail(i int) string {
	return string(rune('a'+i%26)) + "@mergington.edu"
}

// DefaultCollection returns a three-activity roster mirroring the typical
// server response: one with participants, one nearly full, one empty.
func DefaultCollection() activity.Collection {
	return activity.NewCollection([]activity.Activity{
		NewActivity("Chess Club").
			WithDescription("Learn strategies and compete in tournaments").
			WithSchedule("Fridays, 3:30 PM - 5:00 PM").
			WithMaxParticipants(12).
			WithParticipants("michael@mergington.edu", "daniel@mergington.edu").
			Build(),
		NewActivity("Programming Class").
			WithDescription("Learn programming fundamentals and build software projects").
			WithSchedule("Tuesdays and Thursdays, 3:30 PM - 4:30 PM").
			WithMaxParticipants(20).
			WithParticipants("emma@mergington.edu").
			Build(),
		NewActivity("Art Club").
			WithDescription("Explore painting and drawing techniques").
			WithSchedule("Wednesdays, 3:30 PM - 5:00 PM").
			WithMaxParticipants(15).
			Build(),
	})
}
