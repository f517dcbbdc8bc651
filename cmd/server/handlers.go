package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"leaveledger/internal/obs"
	"leaveledger/internal/workflow"
)

const maxBodyBytes = 64 << 10

// Slash commands served by the bot.
const (
	cmdRequestLeave = "/연차신청"
	cmdLeaveBalance = "/연차몇개"
)

// Reactions that resolve a pending request. Anything else, including every
// reaction_removed event, is ignored; a decision is corrected by adding the
// opposite reaction, not by removing the first one.
func reactionOutcome(name string) (approve, ok bool) {
	switch name {
	case "white_check_mark", "흰색_확인_표시":
		return true, true
	case "x", "no_entry_sign":
		return false, true
	}
	return false, false
}

func newMux(engine *workflow.Engine, metrics *obs.Metrics, logger *slog.Logger, promHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/slack/command", handleSlashCommand(engine, metrics, logger))
	mux.HandleFunc("/slack/events", handleSlackEvents(engine, metrics, logger))
	if promHandler != nil {
		mux.Handle("/metrics", promHandler)
	}
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleSlashCommand(engine *workflow.Engine, metrics *obs.Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() { metrics.ObserveWebhook("command", time.Since(start).Seconds()) }()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		switch cmd.Command {
		case cmdRequestLeave:
			handleRequestLeave(w, r, engine, metrics, logger, cmd)
		case cmdLeaveBalance:
			remain, err := engine.Balance(r.Context(), cmd.UserName)
			if err != nil {
				logger.Error("balance lookup failed", "user", cmd.UserName, "err", err)
				writeEphemeral(w, "잔여 연차를 조회하지 못했습니다.")
				return
			}
			writeEphemeral(w, fmt.Sprintf("%s님의 잔여 연차는 %s일입니다.", cmd.UserName, remain))
		default:
			writeEphemeral(w, "지원하지 않는 명령입니다.")
		}
	}
}

func handleRequestLeave(w http.ResponseWriter, r *http.Request, engine *workflow.Engine, metrics *obs.Metrics, logger *slog.Logger, cmd slack.SlashCommand) {
	intent, err := workflow.ParseSubmitCommand(cmd.Text)
	if err != nil {
		logger.Warn("rejected leave command", "user", cmd.UserName, "err", err)
		switch {
		case errors.Is(err, workflow.ErrInvalidDayCount):
			metrics.ObserveSubmission(obs.SubmissionInvalidDays)
			writeEphemeral(w, "일수는 0보다 큰 숫자여야 합니다.")
		default:
			metrics.ObserveSubmission(obs.SubmissionMalformed)
			writeEphemeral(w, "명령 형식: 날짜(YYMMDD)/일수/사유/승인자")
		}
		return
	}

	if _, err := engine.Submit(r.Context(), cmd.UserName, intent, cmd.ChannelID); err != nil {
		logger.Error("submit failed", "user", cmd.UserName, "err", err)
		writeEphemeral(w, "연차 신청 메시지를 보내지 못했습니다. 잠시 후 다시 시도해주세요.")
		return
	}
	writeEphemeral(w, "연차 신청이 등록되었습니다. 승인 이모지를 기다려주세요.")
}

func handleSlackEvents(engine *workflow.Engine, metrics *obs.Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() { metrics.ObserveWebhook("events", time.Since(start).Seconds()) }()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
		if err != nil {
			// Swallowed: the events transport expects a fast, uniform
			// acknowledgment independent of what we made of the payload.
			logger.Warn("unparseable event payload", "err", err)
			writeStatusOK(w)
			return
		}

		switch event.Type {
		case slackevents.URLVerification:
			// Endpoint ownership check: echo the challenge, touch nothing.
			uv, ok := event.Data.(*slackevents.EventsAPIURLVerificationEvent)
			if !ok {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"challenge": uv.Challenge})
			return
		case slackevents.CallbackEvent:
			resolveReaction(r.Context(), engine, logger, event.InnerEvent)
		}
		writeStatusOK(w)
	}
}

func resolveReaction(ctx context.Context, engine *workflow.Engine, logger *slog.Logger, inner slackevents.EventsAPIInnerEvent) {
	ev, ok := inner.Data.(*slackevents.ReactionAddedEvent)
	if !ok {
		return
	}
	approve, ok := reactionOutcome(ev.Reaction)
	if !ok {
		return
	}
	if err := engine.Resolve(ctx, ev.Item.Timestamp, approve, ev.User, ev.Item.Channel); err != nil {
		logger.Error("resolution failed", "message_ts", ev.Item.Timestamp, "err", err)
	}
}

func writeEphemeral(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(slack.Msg{ResponseType: "ephemeral", Text: text})
}

func writeStatusOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
