package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/business-nexus/backend/internal/domain/models"
)

type CreateMeetingRequest struct {
	Title          string      `json:"title"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time"`
	Location       string      `json:"location"`
}

type ListMeetingsResponse struct {
	Meetings []*models.Meeting `json:"meetings"`
}
