package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/business-nexus/backend/internal/domain/apperror"
	"github.com/business-nexus/backend/internal/domain/events"
	"github.com/business-nexus/backend/internal/domain/input"
	"github.com/business-nexus/backend/internal/domain/models"
	"github.com/business-nexus/backend/internal/infra/adapters/memory"
)

type meetingFixture struct {
	uc       MeetingUsecase
	meetings *fakeMeetingRepo
	users    *fakeUserRepo
	presence memory.PresenceRepository
	conns    *recorderConnRepo

	organizer *models.User
}

func newMeetingFixture(t *testing.T) *meetingFixture {
	t.Helper()

	organizer := models.NewUser()
	organizer.Name = "Olivia"
	organizer.Email = "olivia@example.com"
	organizer.Role = models.RoleInvestor

	meetings := &fakeMeetingRepo{}
	users := newFakeUserRepo(organizer)
	presence := memory.NewPresenceRepository()
	conns := &recorderConnRepo{}

	return &meetingFixture{
		uc:        NewMeetingUsecase(meetings, users, presence, conns),
		meetings:  meetings,
		users:     users,
		presence:  presence,
		conns:     conns,
		organizer: organizer,
	}
}

func meetingInput(organizerID uuid.UUID, participantIDs []uuid.UUID, start, end time.Time) *input.CreateMeetingInput {
	return &input.CreateMeetingInput{
		OrganizerID:    organizerID,
		ParticipantIDs: participantIDs,
		Title:          "Funding round sync",
		StartTime:      start,
		EndTime:        end,
	}
}

func TestCreateMeetingSuccess(t *testing.T) {
	f := newMeetingFixture(t)

	p1 := uuid.New()
	p2 := uuid.New()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)

	meeting, err := f.uc.CreateMeeting(context.Background(), meetingInput(f.organizer.ID, []uuid.UUID{p1, p2}, start, end))
	require.NoError(t, err)

	assert.Equal(t, models.MeetingStatusConfirmed, meeting.Status)
	assert.ElementsMatch(t, []uuid.UUID{f.organizer.ID, p1, p2}, meeting.Participants)
	require.Len(t, f.meetings.meetings, 1)
}

func TestCreateMeetingNotifiesOnlineParticipants(t *testing.T) {
	f := newMeetingFixture(t)

	p1 := uuid.New()
	p2 := uuid.New()
	p1Conn := uuid.New()

	// p1 is online, p2 is not
	f.presence.Register(p1, p1Conn)

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	meeting, err := f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{p1, p2}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)

	require.Len(t, f.conns.writes, 1)

	payloads := f.conns.writesTo(p1Conn)
	require.Len(t, payloads, 1)

	msg, ok := payloads[0].(events.Message)
	require.True(t, ok)
	assert.Equal(t, events.TypeNewNotification, msg.Type)

	var notification events.NotificationEvent
	require.NoError(t, json.Unmarshal(msg.Data, &notification))
	assert.Equal(t, "Olivia", notification.SenderName)
	assert.Equal(t, "meeting", notification.Type)
	assert.Equal(t, meeting.ID.String(), notification.RelatedRef)
}

func TestCreateMeetingConflictNested(t *testing.T) {
	f := newMeetingFixture(t)

	p1 := uuid.New()
	p2 := uuid.New()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{p1, p2}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)

	// nested inside the first meeting, shares p2
	_, err = f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{p2}, start.Add(30*time.Minute), start.Add(45*time.Minute)),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// nothing was persisted for the rejected meeting
	assert.Len(t, f.meetings.meetings, 1)
}

func TestCreateMeetingAbuttingSucceeds(t *testing.T) {
	f := newMeetingFixture(t)

	p1 := uuid.New()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{p1}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)

	// existing.end == new.start: half-open intervals do not overlap
	_, err = f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{p1}, start.Add(time.Hour), start.Add(2*time.Hour)),
	)
	require.NoError(t, err)

	assert.Len(t, f.meetings.meetings, 2)
}

func TestCreateMeetingDisjointParticipantsDoNotConflict(t *testing.T) {
	f := newMeetingFixture(t)

	other := models.NewUser()
	other.Name = "Ethan"
	require.NoError(t, f.users.CreateUser(context.Background(), other))

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{uuid.New()}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)

	// same slot, completely different people
	_, err = f.uc.CreateMeeting(
		context.Background(),
		meetingInput(other.ID, []uuid.UUID{uuid.New()}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)
}

func TestCreateMeetingIgnoresCancelledMeetings(t *testing.T) {
	f := newMeetingFixture(t)

	p1 := uuid.New()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	cancelled := models.NewMeeting(meetingInput(f.organizer.ID, []uuid.UUID{p1}, start, start.Add(time.Hour)))
	cancelled.Status = models.MeetingStatusCancelled
	require.NoError(t, f.meetings.Create(context.Background(), cancelled))

	_, err := f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{p1}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)
}

func TestCreateMeetingValidation(t *testing.T) {
	f := newMeetingFixture(t)

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input *input.CreateMeetingInput
	}{
		{
			name: "missing title",
			input: &input.CreateMeetingInput{
				OrganizerID: f.organizer.ID,
				StartTime:   start,
				EndTime:     start.Add(time.Hour),
			},
		},
		{
			name: "missing start",
			input: &input.CreateMeetingInput{
				OrganizerID: f.organizer.ID,
				Title:       "Sync",
				EndTime:     start.Add(time.Hour),
			},
		},
		{
			name: "missing end",
			input: &input.CreateMeetingInput{
				OrganizerID: f.organizer.ID,
				Title:       "Sync",
				StartTime:   start,
			},
		},
		{
			name: "start equals end",
			input: &input.CreateMeetingInput{
				OrganizerID: f.organizer.ID,
				Title:       "Sync",
				StartTime:   start,
				EndTime:     start,
			},
		},
		{
			name: "inverted range",
			input: &input.CreateMeetingInput{
				OrganizerID: f.organizer.ID,
				Title:       "Sync",
				StartTime:   start.Add(time.Hour),
				EndTime:     start,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateMeeting(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
			assert.Empty(t, f.meetings.meetings)
		})
	}
}

func TestGetMeetingForbiddenForNonParticipant(t *testing.T) {
	f := newMeetingFixture(t)

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	meeting, err := f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{uuid.New()}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)

	_, err = f.uc.GetMeeting(context.Background(), uuid.New(), meeting.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := f.uc.GetMeeting(context.Background(), f.organizer.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, meeting.ID, got.ID)
}

func TestGetMeetingNotFound(t *testing.T) {
	f := newMeetingFixture(t)

	_, err := f.uc.GetMeeting(context.Background(), f.organizer.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteMeetingOrganizerOnly(t *testing.T) {
	f := newMeetingFixture(t)

	p1 := uuid.New()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	meeting, err := f.uc.CreateMeeting(
		context.Background(),
		meetingInput(f.organizer.ID, []uuid.UUID{p1}, start, start.Add(time.Hour)),
	)
	require.NoError(t, err)

	// a participant who is not the organizer may not delete
	err = f.uc.DeleteMeeting(context.Background(), p1, meeting.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Len(t, f.meetings.meetings, 1)

	require.NoError(t, f.uc.DeleteMeeting(context.Background(), f.organizer.ID, meeting.ID))
	assert.Empty(t, f.meetings.meetings)
}

func TestScheduleScenario(t *testing.T) {
	// end-to-end: O schedules [P1, P2] 10:00-11:00, then a nested
	// 10:30-10:45 slot with P2 must be rejected
	f := newMeetingFixture(t)

	p1 := uuid.New()
	p2 := uuid.New()

	meeting, err := f.uc.CreateMeeting(context.Background(), &input.CreateMeetingInput{
		OrganizerID:    f.organizer.ID,
		ParticipantIDs: []uuid.UUID{p1, p2},
		Title:          "Due diligence",
		StartTime:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusConfirmed, meeting.Status)
	assert.ElementsMatch(t, []uuid.UUID{p1, p2, f.organizer.ID}, meeting.Participants)

	_, err = f.uc.CreateMeeting(context.Background(), &input.CreateMeetingInput{
		OrganizerID:    f.organizer.ID,
		ParticipantIDs: []uuid.UUID{p2},
		Title:          "Quick follow-up",
		StartTime:      time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
		EndTime:        time.Date(2024, 1, 1, 10, 45, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}
