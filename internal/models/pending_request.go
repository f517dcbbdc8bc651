package models

import "github.com/shopspring/decimal"

// PendingRequest represents a submitted leave request awaiting a reaction.
// It is keyed in the registry by the Slack timestamp of the posted approval
// message and lives only in process memory.
type PendingRequest struct {
	Requester string
	Days      decimal.Decimal
}
