package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/business-nexus/backend/internal/domain/input"
)

const (
	MeetingStatusConfirmed = "confirmed"
	MeetingStatusCancelled = "cancelled"
)

type Meeting struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrganizerID uuid.UUID `json:"organizer_id" db:"organizer_id"`
	Title       string    `json:"title" db:"title"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`
	Status      string    `json:"status" db:"status"`
	Location    string    `json:"location" db:"location"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Participants always contains the organizer, loaded from the join table
	Participants []uuid.UUID `json:"participants" db:"-"`
}

func NewMeeting(in *input.CreateMeetingInput) *Meeting {
	return &Meeting{
		ID:           uuid.New(),
		OrganizerID:  in.OrganizerID,
		Title:        in.Title,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Status:       MeetingStatusConfirmed,
		Location:     in.Location,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Participants: DedupeParticipants(in.OrganizerID, in.ParticipantIDs),
	}
}

// DedupeParticipants returns the union of participants and the organizer,
// organizer first, with duplicates removed.
func DedupeParticipants(organizerID uuid.UUID, participantIDs []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{organizerID: {}}
	result := []uuid.UUID{organizerID}

	for _, id := range participantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}

// OverlapsWindow reports whether the meeting interval [StartTime, EndTime)
// overlaps the half-open window [start, end). Meetings that exactly abut
// (EndTime == start or StartTime == end) do not overlap.
func (m *Meeting) OverlapsWindow(start, end time.Time) bool {
	return m.StartTime.Before(end) && m.EndTime.After(start)
}

// HasParticipant reports whether the user takes part in the meeting.
func (m *Meeting) HasParticipant(userID uuid.UUID) bool {
	for _, id := range m.Participants {
		if id == userID {
			return true
		}
	}

	return false
}
