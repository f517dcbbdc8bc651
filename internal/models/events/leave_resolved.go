package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resolution outcomes carried on LeaveResolved events.
const (
	OutcomeApproved   = "approved"
	OutcomeRejected   = "rejected"
	OutcomeRolledBack = "rolled_back"
)

type LeaveResolved struct {
	EventID    string          `json:"event_id"`
	Requester  string          `json:"requester"`
	Days       decimal.Decimal `json:"days"`
	Outcome    string          `json:"outcome"`
	MessageTS  string          `json:"message_ts"`
	OccurredAt time.Time       `json:"occurred_at"`
}
