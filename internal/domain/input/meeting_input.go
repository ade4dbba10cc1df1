package input

import (
	"time"

	"github.com/google/uuid"
)

type CreateMeetingInput struct {
	OrganizerID    uuid.UUID   `json:"organizer_id"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	Title          string      `json:"title"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time"`
	Location       string      `json:"location"`
}
