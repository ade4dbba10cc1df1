package events

import (
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v4"
)

// Inbound event types
const (
	TypeRegister     = "register"
	TypeJoinRoom     = "join-room"
	TypeLeaveRoom    = "leave-room"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeIceCandidate = "ice-candidate"
)

// Outbound event types
const (
	TypeUserJoined      = "user-joined"
	TypeUserLeft        = "user-left"
	TypeNewNotification = "new-notification"
	TypeError           = "error"
)

// Message - generic envelope for every signaling event
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// JoinRoomEvent - a connection asks to join the room of a meeting
type JoinRoomEvent struct {
	RoomID      string `json:"room_id"`
	DisplayName string `json:"display_name"`
}

// LeaveRoomEvent - explicit leave; the room is implied by current membership
type LeaveRoomEvent struct {
	RoomID string `json:"room_id"`
}

// SdpEvent - offer/answer relayed point-to-point. TargetConnectionID is set by
// the sender, FromConnectionID is stamped by the relay before forwarding.
type SdpEvent struct {
	TargetConnectionID string `json:"target_connection_id,omitempty"`
	FromConnectionID   string `json:"from_connection_id,omitempty"`
	SDP                string `json:"sdp"`
}

// IceCandidateEvent - ICE candidates, same addressing as SdpEvent
type IceCandidateEvent struct {
	TargetConnectionID string                  `json:"target_connection_id,omitempty"`
	FromConnectionID   string                  `json:"from_connection_id,omitempty"`
	Candidate          webrtc.ICECandidateInit `json:"candidate"`
}

// UserJoinedEvent - sent to every other room member when a connection joins
type UserJoinedEvent struct {
	ConnectionID string `json:"connection_id"`
	Name         string `json:"name"`
}

// UserLeftEvent - sent to every remaining room member; authoritative teardown
// signal, relay traffic to the departed connection is silently dropped
type UserLeftEvent struct {
	ConnectionID string `json:"connection_id"`
}

// NotificationEvent - realtime push to one online user
type NotificationEvent struct {
	SenderName string    `json:"sender_name"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	RelatedRef string    `json:"related_ref,omitempty"`
}

// ErrorEvent - surfaced to the offending client only
type ErrorEvent struct {
	Message string `json:"message"`
}
