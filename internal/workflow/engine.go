package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"leaveledger/internal/interfaces"
	"leaveledger/internal/ledger"
	"leaveledger/internal/models"
	"leaveledger/internal/models/events"
	"leaveledger/internal/obs"
	"leaveledger/internal/registry"
)

// EventTopic is the topic resolution events are published on.
const EventTopic = "leave_resolved"

// Engine runs the approval workflow: a submission posts an approval message
// and registers a pending request; a reaction on that message resolves it
// against the ledger, rolling the mutation back if it would drive the
// requester's remaining balance negative.
type Engine struct {
	ledger   *ledger.Accessor
	registry *registry.Registry
	notifier interfaces.Notifier
	events   interfaces.EventPublisher
	metrics  *obs.Metrics
	log      *slog.Logger
}

func NewEngine(
	acc *ledger.Accessor,
	reg *registry.Registry,
	notifier interfaces.Notifier,
	publisher interfaces.EventPublisher,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		ledger:   acc,
		registry: reg,
		notifier: notifier,
		events:   publisher,
		metrics:  metrics,
		log:      logger,
	}
}

// Submit posts the formatted request message to the channel and registers a
// pending request under the returned message timestamp. A failed post aborts
// the workflow: nothing is registered and the submitter gets the error back.
func (e *Engine) Submit(ctx context.Context, requester string, intent SubmitIntent, channel string) (string, error) {
	text := fmt.Sprintf(
		"[연차 신청] %s 님이 %s에 %s일 연차를 신청했습니다.\n사유: %s\n승인자: %s (승인 :white_check_mark: / 반려 :x:)",
		requester,
		FormatDateToken(intent.DateText),
		intent.Days.String(),
		intent.Reason,
		formatApprover(intent.Approver),
	)

	ts, err := e.notifier.PostMessage(ctx, channel, text)
	if err != nil {
		e.metrics.ObserveSubmission(obs.SubmissionNotifyFailed)
		return "", fmt.Errorf("%w: %v", ErrNotificationFailure, err)
	}

	e.registry.Put(ts, models.PendingRequest{Requester: requester, Days: intent.Days})
	e.metrics.ObserveSubmission(obs.SubmissionPosted)
	e.log.Info("leave request posted",
		"requester", requester,
		"days", intent.Days.String(),
		"message_ts", ts,
	)
	return ts, nil
}

// Resolve applies an approve or reject decision for the pending request
// registered under messageTS. A miss in the registry is a silent no-op: the
// reaction refers to an untracked message. The accessor is called exactly
// once for read and once for write; every path persists one snapshot.
func (e *Engine) Resolve(ctx context.Context, messageTS string, approve bool, reactingUser, channel string) error {
	req, ok := e.registry.Get(messageTS)
	if !ok {
		return nil
	}

	rows, err := e.ledger.FetchAll(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range rows {
		if strings.EqualFold(rows[i].Nickname, req.Requester) {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.log.Warn("requester not in ledger, resolution aborted",
			"requester", req.Requester,
			"message_ts", messageTS,
		)
		return fmt.Errorf("%w: %s", ErrLookupFailure, req.Requester)
	}

	prevUsed := rows[idx].Used
	if approve {
		rows[idx].Used = prevUsed.Add(req.Days)
	} else {
		rows[idx].Used = prevUsed.Sub(req.Days)
	}
	rows = e.ledger.Recalculate(rows)

	outcome := events.OutcomeRejected
	if approve {
		outcome = events.OutcomeApproved
	}

	if rows[idx].Remaining.IsNegative() {
		// The mutation would overdraw the balance: revert, notify the
		// reacting user, and persist the reverted snapshot.
		rows[idx].Used = prevUsed
		rows = e.ledger.Recalculate(rows)
		outcome = events.OutcomeRolledBack

		notice := fmt.Sprintf(
			"%s 님의 연차 신청을 승인할 수 없습니다. 잔여 연차: %s일",
			req.Requester,
			rows[idx].Remaining.String(),
		)
		if err := e.notifier.PostEphemeral(ctx, channel, reactingUser, notice); err != nil {
			e.log.Error("rollback notice failed", "err", err, "user", reactingUser)
		}
	}

	if err := e.ledger.PersistAll(ctx, rows); err != nil {
		return err
	}

	e.metrics.ObserveResolution(outcome)
	e.publishResolved(req, outcome, messageTS)
	e.log.Info("leave request resolved",
		"requester", req.Requester,
		"days", req.Days.String(),
		"outcome", outcome,
		"message_ts", messageTS,
	)
	return nil
}

// Balance returns the requester's stored remaining balance, "0" when the
// requester is not tracked in the ledger.
func (e *Engine) Balance(ctx context.Context, requester string) (string, error) {
	return e.ledger.Remaining(ctx, requester)
}

func (e *Engine) publishResolved(req models.PendingRequest, outcome, messageTS string) {
	if e.events == nil {
		return
	}
	evt := events.LeaveResolved{
		EventID:    uuid.New().String(),
		Requester:  req.Requester,
		Days:       req.Days,
		Outcome:    outcome,
		MessageTS:  messageTS,
		OccurredAt: time.Now().UTC(),
	}
	if err := e.events.Publish(EventTopic, evt); err != nil {
		e.log.Error("resolution event publish failed", "err", err, "outcome", outcome)
	}
}
