package presentation

import (
	"github.com/mergington/enroll/internal/activity"
)

// ActivityDTO represents an activity for presentation
type ActivityDTO struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
	SpotsLeft       int      `json:"spots_left"`
}

// FromActivity converts a domain activity to a DTO.
func FromActivity(act activity.Activity) ActivityDTO {
	participants := act.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityDTO{
		Name:            act.Name,
		Description:     act.Description,
		Schedule:        act.Schedule,
		MaxParticipants: act.MaxParticipants,
		Participants:    participants,
		SpotsLeft:       act.SpotsLeft(),
	}
}

// FromCollection converts a collection to DTOs in server order.
func FromCollection(c activity.Collection) []ActivityDTO {
	dtos := make([]ActivityDTO, 0, c.Len())
	for _, act := range c.All() {
		dtos = append(dtos, FromActivity(act))
	}
	return dtos
}
