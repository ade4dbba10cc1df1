package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"

	"github.com/business-nexus/backend/internal/domain/apperror"
	"github.com/business-nexus/backend/internal/domain/models"
)

func candidateInit(candidate string) webrtc.ICECandidateInit {
	return webrtc.ICECandidateInit{Candidate: candidate}
}

// fakeMeetingRepo keeps meetings in a slice and mirrors the SQL overlap
// query with the domain overlap predicate.
type fakeMeetingRepo struct {
	meetings []*models.Meeting
}

func (f *fakeMeetingRepo) Create(ctx context.Context, meeting *models.Meeting) error {
	f.meetings = append(f.meetings, meeting)
	return nil
}

func (f *fakeMeetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	for _, meeting := range f.meetings {
		if meeting.ID == id {
			return meeting, nil
		}
	}

	return nil, fmt.Errorf("meeting %s: %w", id, apperror.ErrNotFound)
}

func (f *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, meeting := range f.meetings {
		if meeting.ID == id {
			f.meetings = append(f.meetings[:i], f.meetings[i+1:]...)
			return nil
		}
	}

	return nil
}

func (f *fakeMeetingRepo) GetMeetingsByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Meeting, error) {
	var result []*models.Meeting

	for _, meeting := range f.meetings {
		if meeting.HasParticipant(userID) {
			result = append(result, meeting)
		}
	}

	return result, nil
}

func (f *fakeMeetingRepo) FindConfirmedOverlapping(
	ctx context.Context,
	participantIDs []uuid.UUID,
	start, end time.Time,
) ([]*models.Meeting, error) {
	var result []*models.Meeting

	for _, meeting := range f.meetings {
		if meeting.Status != models.MeetingStatusConfirmed {
			continue
		}

		if !meeting.OverlapsWindow(start, end) {
			continue
		}

		for _, participantID := range participantIDs {
			if meeting.HasParticipant(participantID) {
				result = append(result, meeting)
				break
			}
		}
	}

	return result, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}

	for _, user := range users {
		repo.users[user.ID] = user
	}

	return repo
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperror.ErrNotFound)
	}

	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, fmt.Errorf("user %s: %w", email, apperror.ErrNotFound)
}

type recordedWrite struct {
	ConnID  uuid.UUID
	Payload any
}

// recorderConnRepo records every targeted write instead of touching sockets.
type recorderConnRepo struct {
	mu     sync.Mutex
	writes []recordedWrite
}

func (r *recorderConnRepo) Add(connID uuid.UUID, conn *websocket.Conn) {}

func (r *recorderConnRepo) Remove(connID uuid.UUID) {}

func (r *recorderConnRepo) Write(connID uuid.UUID, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writes = append(r.writes, recordedWrite{ConnID: connID, Payload: payload})
}

func (r *recorderConnRepo) writesTo(connID uuid.UUID) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var payloads []any

	for _, w := range r.writes {
		if w.ConnID == connID {
			payloads = append(payloads, w.Payload)
		}
	}

	return payloads
}
