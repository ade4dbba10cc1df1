package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/business-nexus/backend/internal/application/constant"
	"github.com/business-nexus/backend/internal/domain/events"
	"github.com/business-nexus/backend/internal/infra/adapters/memory"
	postrepo "github.com/business-nexus/backend/internal/infra/adapters/postgres/repository"
)

// SignalingUsecase coordinates call rooms and relays WebRTC handshake
// payloads between the two participants of a meeting. The relay is
// point-to-point and fire-and-forget: a stale target connection id means the
// message is dropped, peers learn about departures only through user-left.
type SignalingUsecase interface {
	HandleRegister(ctx context.Context, userID, connID uuid.UUID)

	HandleJoinRoom(ctx context.Context, userID, connID uuid.UUID, evt events.JoinRoomEvent) error
	HandleLeaveRoom(ctx context.Context, connID uuid.UUID) error

	HandleOffer(ctx context.Context, connID uuid.UUID, evt events.SdpEvent) error
	HandleAnswer(ctx context.Context, connID uuid.UUID, evt events.SdpEvent) error
	HandleCandidate(ctx context.Context, connID uuid.UUID, evt events.IceCandidateEvent) error

	HandleDisconnect(ctx context.Context, connID uuid.UUID)
}

type signalingUsecase struct {
	meetingRepo postrepo.MeetingRepository

	presenceRepo memory.PresenceRepository
	roomRepo     memory.RoomRepository
	connRepo     memory.ConnectionRepository
}

func NewSignalingUsecase(
	meetingRepo postrepo.MeetingRepository,
	presenceRepo memory.PresenceRepository,
	roomRepo memory.RoomRepository,
	connRepo memory.ConnectionRepository,
) SignalingUsecase {
	return &signalingUsecase{
		meetingRepo:  meetingRepo,
		presenceRepo: presenceRepo,
		roomRepo:     roomRepo,
		connRepo:     connRepo,
	}
}

func (s *signalingUsecase) HandleRegister(ctx context.Context, userID, connID uuid.UUID) {
	if registered := s.presenceRepo.Register(userID, connID); !registered {
		// first registration wins, duplicate register calls from client
		// re-renders are no-ops
		slog.Info(
			"presence already registered for user, keeping existing connection",
			slog.Any(constant.UserID, userID),
			slog.Any(constant.ConnID, connID),
		)
	}
}

func (s *signalingUsecase) HandleJoinRoom(ctx context.Context, userID, connID uuid.UUID, evt events.JoinRoomEvent) error {
	if evt.RoomID == "" {
		s.send(connID, events.TypeError, events.ErrorEvent{Message: "room_id is required"})
		return nil
	}

	meetingID, err := uuid.Parse(evt.RoomID)
	if err != nil {
		s.send(connID, events.TypeError, events.ErrorEvent{Message: "invalid room_id"})
		return nil
	}

	// rooms are named by meeting id, the meeting must exist
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		slog.Error("get meeting", slog.Any(constant.Error, err))
		s.send(connID, events.TypeError, events.ErrorEvent{Message: "meeting not found"})
		return nil
	}

	if !meeting.HasParticipant(userID) {
		s.send(connID, events.TypeError, events.ErrorEvent{Message: "not a meeting participant"})
		return nil
	}

	s.roomRepo.Join(evt.RoomID, memory.RoomMember{ConnID: connID, Name: evt.DisplayName})

	// the first joiner receives nothing and waits for this event
	joined := events.UserJoinedEvent{
		ConnectionID: connID.String(),
		Name:         evt.DisplayName,
	}

	for _, member := range s.roomRepo.MembersExcept(evt.RoomID, connID) {
		s.send(member.ConnID, events.TypeUserJoined, joined)
	}

	return nil
}

func (s *signalingUsecase) HandleLeaveRoom(ctx context.Context, connID uuid.UUID) error {
	roomID, ok := s.roomRepo.Leave(connID)
	if !ok {
		return nil
	}

	s.notifyUserLeft(roomID, connID)

	return nil
}

func (s *signalingUsecase) HandleOffer(ctx context.Context, connID uuid.UUID, evt events.SdpEvent) error {
	return s.relaySdp(connID, events.TypeOffer, evt)
}

func (s *signalingUsecase) HandleAnswer(ctx context.Context, connID uuid.UUID, evt events.SdpEvent) error {
	return s.relaySdp(connID, events.TypeAnswer, evt)
}

func (s *signalingUsecase) HandleCandidate(ctx context.Context, connID uuid.UUID, evt events.IceCandidateEvent) error {
	targetID, err := uuid.Parse(evt.TargetConnectionID)
	if err != nil {
		s.send(connID, events.TypeError, events.ErrorEvent{Message: "invalid target_connection_id"})
		return nil
	}

	s.send(targetID, events.TypeIceCandidate, events.IceCandidateEvent{
		FromConnectionID: connID.String(),
		Candidate:        evt.Candidate,
	})

	return nil
}

// HandleDisconnect runs once per dying connection: presence entry removed,
// room left, remaining members told. Disconnect is the only cancellation
// signal, there is no reconnection grace period.
func (s *signalingUsecase) HandleDisconnect(ctx context.Context, connID uuid.UUID) {
	s.presenceRepo.RemoveByConnection(connID)

	roomID, ok := s.roomRepo.Leave(connID)
	if !ok {
		return
	}

	s.notifyUserLeft(roomID, connID)
}

func (s *signalingUsecase) relaySdp(connID uuid.UUID, eventType string, evt events.SdpEvent) error {
	targetID, err := uuid.Parse(evt.TargetConnectionID)
	if err != nil {
		s.send(connID, events.TypeError, events.ErrorEvent{Message: "invalid target_connection_id"})
		return nil
	}

	s.send(targetID, eventType, events.SdpEvent{
		FromConnectionID: connID.String(),
		SDP:              evt.SDP,
	})

	return nil
}

func (s *signalingUsecase) notifyUserLeft(roomID string, connID uuid.UUID) {
	left := events.UserLeftEvent{ConnectionID: connID.String()}

	for _, member := range s.roomRepo.MembersExcept(roomID, connID) {
		s.send(member.ConnID, events.TypeUserLeft, left)
	}
}

func (s *signalingUsecase) send(connID uuid.UUID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal signaling event", slog.Any(constant.Error, err))
		return
	}

	s.connRepo.Write(connID, events.Message{Type: eventType, Data: data})
}
