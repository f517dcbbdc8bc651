package workflow

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SubmitIntent is the validated form of an inbound leave command.
type SubmitIntent struct {
	DateText string
	Days     decimal.Decimal
	Reason   string
	Approver string
}

// ParseSubmitCommand parses the slash-command text
// "dateToken/dayCount/reason/approverMention" into a SubmitIntent.
func ParseSubmitCommand(text string) (SubmitIntent, error) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 4 {
		return SubmitIntent{}, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedCommand, len(parts))
	}

	days, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return SubmitIntent{}, fmt.Errorf("%w: %q", ErrInvalidDayCount, parts[1])
	}
	if days.Cmp(decimal.Zero) <= 0 {
		return SubmitIntent{}, fmt.Errorf("%w: %q", ErrInvalidDayCount, parts[1])
	}

	return SubmitIntent{
		DateText: strings.TrimSpace(parts[0]),
		Days:     days,
		Reason:   strings.TrimSpace(parts[2]),
		Approver: strings.TrimSpace(parts[3]),
	}, nil
}

// FormatDateToken rewrites a 6-character YYMMDD token as "YY년MM월DD일" for
// display. Tokens of any other length pass through unchanged.
func FormatDateToken(token string) string {
	if len(token) != 6 {
		return token
	}
	return fmt.Sprintf("%s년%s월%s일", token[:2], token[2:4], token[4:6])
}

// formatApprover wraps an @-prefixed approver as a Slack mention and leaves
// anything else verbatim.
func formatApprover(approver string) string {
	if strings.HasPrefix(approver, "@") {
		return "<" + approver + ">"
	}
	return approver
}
