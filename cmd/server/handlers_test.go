package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	eventsmem "leaveledger/internal/events/memory"
	"leaveledger/internal/ledger"
	"leaveledger/internal/registry"
	memstore "leaveledger/internal/storage/memory"
	"leaveledger/internal/workflow"
)

type fakeNotifier struct {
	nextTS     string
	posted     []string
	ephemerals []string
}

func (f *fakeNotifier) PostMessage(ctx context.Context, channel, text string) (string, error) {
	f.posted = append(f.posted, text)
	return f.nextTS, nil
}

func (f *fakeNotifier) PostEphemeral(ctx context.Context, channel, user, text string) error {
	f.ephemerals = append(f.ephemerals, text)
	return nil
}

func testClock() time.Time {
	return time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
}

func newTestMux(rows [][]string) (*http.ServeMux, *memstore.Store, *fakeNotifier) {
	store := memstore.NewStore(rows)
	notifier := &fakeNotifier{nextTS: "1700000000.000100"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := workflow.NewEngine(
		ledger.NewAccessor(store, testClock),
		registry.New(16, time.Hour),
		notifier,
		eventsmem.NewPublisher(),
		nil,
		logger,
	)
	return newMux(engine, nil, logger, nil), store, notifier
}

func postCommand(t *testing.T, mux *http.ServeMux, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func postEvent(t *testing.T, mux *http.ServeMux, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func ephemeralText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if resp.ResponseType != "ephemeral" {
		t.Errorf("response_type = %q, want ephemeral", resp.ResponseType)
	}
	return resp.Text
}

func reactionPayload(reaction, ts string) string {
	return fmt.Sprintf(`{
		"type": "event_callback",
		"event": {
			"type": "reaction_added",
			"user": "U9",
			"reaction": %q,
			"item": {"type": "message", "channel": "C123", "ts": %q},
			"event_ts": "1700000001.000000"
		}
	}`, reaction, ts)
}

func TestURLVerificationEchoesChallenge(t *testing.T) {
	mux, store, notifier := newTestMux([][]string{{"alice", "2020.03.01", "10", "0", "10"}})

	rec := postEvent(t, mux, `{"type":"url_verification","token":"tok","challenge":"xyz"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["challenge"] != "xyz" {
		t.Errorf("challenge = %q, want %q", resp["challenge"], "xyz")
	}

	if store.PersistCalls() != 0 || len(notifier.posted) != 0 {
		t.Error("url_verification must not touch ledger or notifier")
	}
}

func TestBalanceCommand(t *testing.T) {
	mux, _, _ := newTestMux([][]string{{"alice", "2020.03.01", "15", "2", "13"}})

	rec := postCommand(t, mux, url.Values{
		"command":    {cmdLeaveBalance},
		"user_name":  {"alice"},
		"channel_id": {"C123"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	text := ephemeralText(t, rec)
	if text != "alice님의 잔여 연차는 13일입니다." {
		t.Errorf("text = %q", text)
	}
}

func TestBalanceCommandUnknownUser(t *testing.T) {
	mux, _, _ := newTestMux(nil)

	rec := postCommand(t, mux, url.Values{
		"command":   {cmdLeaveBalance},
		"user_name": {"ghost"},
	})
	if got := ephemeralText(t, rec); got != "ghost님의 잔여 연차는 0일입니다." {
		t.Errorf("text = %q", got)
	}
}

func TestSubmitThenApproveReaction(t *testing.T) {
	mux, store, notifier := newTestMux([][]string{{"alice", "2020.03.01", "15", "2", "13"}})

	rec := postCommand(t, mux, url.Values{
		"command":    {cmdRequestLeave},
		"text":       {"240115/1.5/family event/@bob"},
		"user_name":  {"alice"},
		"channel_id": {"C123"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}
	if len(notifier.posted) != 1 {
		t.Fatalf("posted %d messages, want 1", len(notifier.posted))
	}
	for _, want := range []string{"24년01월15일", "1.5", "family event", "<@bob>"} {
		if !strings.Contains(notifier.posted[0], want) {
			t.Errorf("posted message missing %q: %q", want, notifier.posted[0])
		}
	}

	rec = postEvent(t, mux, reactionPayload("white_check_mark", notifier.nextTS))
	if rec.Code != http.StatusOK {
		t.Fatalf("event status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("event body = %q", body)
	}

	rows, _ := store.FetchAll(context.Background())
	if got := rows[0][3]; got != "3.5" {
		t.Errorf("used = %q, want 3.5", got)
	}
}

func TestRejectReactionDecrementsUsed(t *testing.T) {
	mux, store, notifier := newTestMux([][]string{{"alice", "2020.03.01", "15", "5", "10"}})

	postCommand(t, mux, url.Values{
		"command":    {cmdRequestLeave},
		"text":       {"240115/2/trip/@bob"},
		"user_name":  {"alice"},
		"channel_id": {"C123"},
	})
	postEvent(t, mux, reactionPayload("x", notifier.nextTS))

	rows, _ := store.FetchAll(context.Background())
	if got := rows[0][3]; got != "3" {
		t.Errorf("used = %q, want 3", got)
	}
}

func TestMalformedCommandPostsNothing(t *testing.T) {
	mux, store, notifier := newTestMux(nil)

	rec := postCommand(t, mux, url.Values{
		"command":   {cmdRequestLeave},
		"text":      {"240115/1.5/missing approver"},
		"user_name": {"alice"},
	})
	if got := ephemeralText(t, rec); !strings.Contains(got, "명령 형식") {
		t.Errorf("text = %q", got)
	}
	if len(notifier.posted) != 0 || store.PersistCalls() != 0 {
		t.Error("malformed command must have no side effects")
	}
}

func TestNonNumericDayCountPostsNothing(t *testing.T) {
	mux, _, notifier := newTestMux(nil)

	rec := postCommand(t, mux, url.Values{
		"command":   {cmdRequestLeave},
		"text":      {"240115/two/family event/@bob"},
		"user_name": {"alice"},
	})
	if got := ephemeralText(t, rec); !strings.Contains(got, "숫자") {
		t.Errorf("text = %q", got)
	}
	if len(notifier.posted) != 0 {
		t.Error("invalid day count must not post")
	}
}

func TestUnknownReactionIgnored(t *testing.T) {
	mux, store, notifier := newTestMux([][]string{{"alice", "2020.03.01", "15", "2", "13"}})

	postCommand(t, mux, url.Values{
		"command":    {cmdRequestLeave},
		"text":       {"240115/1/sick/@bob"},
		"user_name":  {"alice"},
		"channel_id": {"C123"},
	})
	postEvent(t, mux, reactionPayload("thumbsup", notifier.nextTS))

	if store.PersistCalls() != 0 {
		t.Errorf("persisted %d times, want 0", store.PersistCalls())
	}
}

func TestReactionRemovedIgnored(t *testing.T) {
	mux, store, notifier := newTestMux([][]string{{"alice", "2020.03.01", "15", "2", "13"}})

	postCommand(t, mux, url.Values{
		"command":    {cmdRequestLeave},
		"text":       {"240115/1/sick/@bob"},
		"user_name":  {"alice"},
		"channel_id": {"C123"},
	})
	payload := fmt.Sprintf(`{
		"type": "event_callback",
		"event": {
			"type": "reaction_removed",
			"user": "U9",
			"reaction": "white_check_mark",
			"item": {"type": "message", "channel": "C123", "ts": %q},
			"event_ts": "1700000001.000000"
		}
	}`, notifier.nextTS)
	rec := postEvent(t, mux, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.PersistCalls() != 0 {
		t.Errorf("persisted %d times, want 0", store.PersistCalls())
	}
}

func TestEventsEndpointSwallowsResolutionErrors(t *testing.T) {
	// Requester is not in the ledger: the resolution fails internally but
	// the platform still gets its uniform acknowledgment.
	mux, store, notifier := newTestMux([][]string{{"carol", "2020.03.01", "15", "0", "15"}})

	postCommand(t, mux, url.Values{
		"command":    {cmdRequestLeave},
		"text":       {"240115/1/sick/@bob"},
		"user_name":  {"alice"},
		"channel_id": {"C123"},
	})
	rec := postEvent(t, mux, reactionPayload("white_check_mark", notifier.nextTS))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
	if store.PersistCalls() != 0 {
		t.Errorf("persisted %d times, want 0", store.PersistCalls())
	}
}

func TestHealthz(t *testing.T) {
	mux, _, _ := newTestMux(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
