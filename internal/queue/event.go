// Package queue carries session participation events over RabbitMQ.
package queue

import "time"

const (
	ActionParticipate = "participate"
	ActionWithdraw    = "withdraw"
)

// ParticipationEvent is published after a roster change has been saved.  It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type ParticipationEvent struct {
	SessionID   uint64    `json:"session_id"`
	SessionName string    `json:"session_name"`
	UserID      uint64    `json:"user_id"`
	Action      string    `json:"action"` // participate | withdraw
	Roster      int       `json:"roster_size"`
	OccurredAt  time.Time `json:"occurred_at"`
}
