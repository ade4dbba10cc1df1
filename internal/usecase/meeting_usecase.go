package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/business-nexus/backend/internal/application/constant"
	"github.com/business-nexus/backend/internal/application/metric"
	"github.com/business-nexus/backend/internal/domain/apperror"
	"github.com/business-nexus/backend/internal/domain/events"
	"github.com/business-nexus/backend/internal/domain/input"
	"github.com/business-nexus/backend/internal/domain/models"
	"github.com/business-nexus/backend/internal/infra/adapters/memory"
	postrepo "github.com/business-nexus/backend/internal/infra/adapters/postgres/repository"
)

type MeetingUsecase interface {
	// CreateMeeting persists a confirmed meeting after the conflict check and
	// pushes a realtime notification to every online participant except the
	// organizer.
	CreateMeeting(ctx context.Context, in *input.CreateMeetingInput) (*models.Meeting, error)

	GetMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*models.Meeting, error)
	GetMeetingsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Meeting, error)
	DeleteMeeting(ctx context.Context, userID, meetingID uuid.UUID) error
}

type meetingUsecase struct {
	meetingRepo postrepo.MeetingRepository
	userRepo    postrepo.UserRepository

	presenceRepo memory.PresenceRepository
	connRepo     memory.ConnectionRepository
}

func NewMeetingUsecase(
	meetingRepo postrepo.MeetingRepository,
	userRepo postrepo.UserRepository,
	presenceRepo memory.PresenceRepository,
	connRepo memory.ConnectionRepository,
) MeetingUsecase {
	return &meetingUsecase{
		meetingRepo:  meetingRepo,
		userRepo:     userRepo,
		presenceRepo: presenceRepo,
		connRepo:     connRepo,
	}
}

func (uc *meetingUsecase) CreateMeeting(ctx context.Context, in *input.CreateMeetingInput) (*models.Meeting, error) {
	if err := validateMeetingInput(in); err != nil {
		return nil, err
	}

	meeting := models.NewMeeting(in)

	overlapping, err := uc.meetingRepo.FindConfirmedOverlapping(ctx, meeting.Participants, in.StartTime, in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("find overlapping meetings: %w", err)
	}

	if len(overlapping) > 0 {
		metric.IncrementMeetingConflicts()

		clash := overlapping[0]

		return nil, fmt.Errorf(
			"a participant is already booked from %s to %s: %w",
			clash.StartTime.Format(time.RFC3339),
			clash.EndTime.Format(time.RFC3339),
			apperror.ErrConflict,
		)
	}

	if err = uc.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	uc.notifyParticipants(ctx, meeting)

	return meeting, nil
}

func (uc *meetingUsecase) GetMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*models.Meeting, error) {
	meeting, err := uc.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	if !meeting.HasParticipant(userID) {
		return nil, fmt.Errorf("user is not a meeting participant: %w", apperror.ErrForbidden)
	}

	return meeting, nil
}

func (uc *meetingUsecase) GetMeetingsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Meeting, error) {
	return uc.meetingRepo.GetMeetingsByUserID(ctx, userID)
}

func (uc *meetingUsecase) DeleteMeeting(ctx context.Context, userID, meetingID uuid.UUID) error {
	meeting, err := uc.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}

	if meeting.OrganizerID != userID {
		return fmt.Errorf("only the organizer can delete the meeting: %w", apperror.ErrForbidden)
	}

	// participants are not notified about deletion
	return uc.meetingRepo.Delete(ctx, meetingID)
}

func validateMeetingInput(in *input.CreateMeetingInput) error {
	if in.Title == "" {
		return apperror.NewValidationError("title", "is required")
	}

	if in.StartTime.IsZero() {
		return apperror.NewValidationError("start_time", "is required")
	}

	if in.EndTime.IsZero() {
		return apperror.NewValidationError("end_time", "is required")
	}

	if !in.StartTime.Before(in.EndTime) {
		return apperror.NewValidationError("start_time", "must be before end_time")
	}

	return nil
}

// notifyParticipants pushes a new-notification event to every online
// participant except the organizer. Offline participants get nothing, they
// will see the meeting when they next fetch their list.
func (uc *meetingUsecase) notifyParticipants(ctx context.Context, meeting *models.Meeting) {
	organizer, err := uc.userRepo.GetUserByID(ctx, meeting.OrganizerID)
	if err != nil {
		slog.Error(
			"get organizer for meeting notification",
			slog.Any(constant.Error, err),
			slog.Any(constant.MeetingID, meeting.ID),
		)
		return
	}

	notification := events.NotificationEvent{
		SenderName: organizer.Name,
		Type:       "meeting",
		Message:    fmt.Sprintf("%s scheduled %q with you", organizer.Name, meeting.Title),
		CreatedAt:  time.Now(),
		RelatedRef: meeting.ID.String(),
	}

	data, err := json.Marshal(notification)
	if err != nil {
		slog.Error("marshal meeting notification", slog.Any(constant.Error, err))
		return
	}

	for _, participantID := range meeting.Participants {
		if participantID == meeting.OrganizerID {
			continue
		}

		connID, online := uc.presenceRepo.Lookup(participantID)
		if !online {
			continue
		}

		uc.connRepo.Write(connID, events.Message{Type: events.TypeNewNotification, Data: data})
	}
}
