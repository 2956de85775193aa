package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/pkg/errors"
	"go.uber.org/zap"
)

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		checks := make(map[string]string, len(s.deps.Checks))
		for name, check := range s.deps.Checks {
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		writeJSON(w, code, map[string]any{
			"status":   status,
			"checks":   checks,
			"sessions": s.ActiveSessions(),
		})
	}
}

// handleChat answers one query immediately; the typing delay only applies to
// websocket transcripts.
func (s *Server) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, constants.InputLimits.MaxBodyBytes)
		defer r.Body.Close()

		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, errors.NewValidationError("invalid request body", "body", nil).WithCause(err))
			return
		}

		query := s.deps.Adapter.Sanitize(req.Query)
		if utf8.RuneCountInString(query) < s.opts.MinQueryLength {
			s.writeError(w, errors.NewValidationError("query is empty or too short", "query", req.Query))
			return
		}

		key, text := s.deps.Assistant.AnswerWithIntent(query)
		writeJSON(w, http.StatusOK, domain.ChatReply{
			Message: domain.NewBotMessage(text),
			Intent:  key,
		})
	}
}

func (s *Server) handleIntro() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.introPayload())
	}
}

func (s *Server) introPayload() domain.IntroPayload {
	formatter := s.deps.Assistant.Formatter()
	payload := domain.IntroPayload{
		Intro:       domain.NewBotMessage(formatter.FormatIntro()),
		QuickTags:   formatter.QuickTags(),
		InfoBubbles: formatter.InfoBubbles(),
	}
	if s.deps.Assistant.FetchFailed() {
		notice := domain.NewBotMessage(formatter.FormatFetchError())
		payload.Notice = &notice
	}
	return payload
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.StatusCode(err), errorPayload(err))

	if errors.StatusCode(err) >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
}

func errorPayload(err error) domain.ErrorPayload {
	var verr *errors.ValidationError
	if stderrors.As(err, &verr) {
		return domain.ErrorPayload{Error: domain.ErrorDetail{
			Message: verr.Message,
			Code:    verr.Code,
			Field:   verr.Field,
		}}
	}

	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		return domain.ErrorPayload{Error: domain.ErrorDetail{Message: apiErr.Message, Code: apiErr.Code}}
	}

	var botErr *errors.BotError
	if stderrors.As(err, &botErr) {
		return domain.ErrorPayload{Error: domain.ErrorDetail{Message: botErr.Message, Code: botErr.Code}}
	}

	return domain.ErrorPayload{Error: domain.ErrorDetail{Message: "internal error", Code: errors.CodeBotError}}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
