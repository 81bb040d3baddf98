package websocket

import "time"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot  Event = "snapshot"
	EventBooked    Event = "booked"
	EventCancelled Event = "cancelled"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// OccupancyEvent is published on a class's Redis channel whenever a
// booking claims or releases a spot, and forwarded verbatim to occupancy
// stream subscribers.
type OccupancyEvent struct {
	Event       Event     `json:"event"`
	ClassID     string    `json:"class_id"`
	BookingID   string    `json:"booking_id,omitempty"`
	BookedSpots int       `json:"booked_spots"`
	MaxSpots    int       `json:"max_spots"`
	At          time.Time `json:"at"`
}

// ErrorResponse is sent to a subscriber before closing on failure.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client payload the occupancy stream accepts.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// PongResponse answers a client ping.
type PongResponse struct {
	Event Event `json:"event"`
}
