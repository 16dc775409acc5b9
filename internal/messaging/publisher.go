package messaging

import (
	"encoding/json"
	"log/slog"
)

// EventNotice carries human-readable text the client should show the player,
// like a run summary or a leaderboard announcement.
const EventNotice = "notice"

// Event is the envelope for server-to-player pushes.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PlayerSubject returns the subject a player's client listens on.
func PlayerSubject(id string) string {
	return "player." + id
}

// NatsPublisher pushes events to individual player subjects.
type NatsPublisher struct {
	server *Server
}

// NewNatsPublisher wraps a Server for per-player event delivery.
func NewNatsPublisher(server *Server) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// SendToPlayer pushes a notice to one player. Delivery is best effort: a
// player with no connected client just misses the event.
func (p *NatsPublisher) SendToPlayer(id string, message string) {
	data, err := json.Marshal(Event{Type: EventNotice, Message: message})
	if err != nil {
		slog.Error("encoding player event", "playerId", id, "error", err)
		return
	}
	if err := p.server.Publish(PlayerSubject(id), data); err != nil {
		slog.Error("publishing player event", "playerId", id, "error", err)
	}
}
