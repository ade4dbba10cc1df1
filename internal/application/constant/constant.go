package constant

// Common slog attribute keys
const (
	Error     = "error"
	UserID    = "user_id"
	UserEmail = "user_email"
	ConnID    = "connection_id"
	RoomID    = "room_id"
	MeetingID = "meeting_id"
)
