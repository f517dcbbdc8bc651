package models

import "github.com/shopspring/decimal"

// LedgerRow represents one tracked person in the leave ledger sheet.
// The sheet stores five columns per row: nickname, join date, entitlement,
// used and remaining. Conversion between the raw string cells and this
// typed record happens only at the accessor boundary.
type LedgerRow struct {
	Nickname    string          // matched case-insensitively against Slack user names
	JoinDate    string          // raw "YYYY.MM.DD" text, may be hand-edited garbage
	Entitlement decimal.Decimal // overwritten with months worked while tenure < 12 months
	Used        decimal.Decimal // accumulator of approved leave days
	Remaining   decimal.Decimal // derived, Entitlement - Used
}
