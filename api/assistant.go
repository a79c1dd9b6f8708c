package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fairpay/award-engine/assistant"
)

// MatchAward suggests awards for a job description.
func (h *Handler) MatchAward(w http.ResponseWriter, r *http.Request) {
	if h.Assistant == nil {
		h.fail(w, r, "Matching is unavailable", assistant.ErrNotConfigured)
		return
	}
	var req assistant.JobQuery
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		h.fail(w, r, "jobTitle is required", badRequest("jobTitle is empty"))
		return
	}

	res, err := h.Assistant.MatchAward(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Award matching failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Ask answers a question with the loaded awards as knowledge base. With a
// sessionId the session's current breakdown is added as context.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.Assistant == nil {
		h.fail(w, r, "Assistant is unavailable", assistant.ErrNotConfigured)
		return
	}
	var req AskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		h.fail(w, r, "question is required", badRequest("question is empty"))
		return
	}

	calcContext := req.Context
	if req.SessionID != "" {
		if c := h.sessionContext(req.SessionID); c != "" {
			calcContext = strings.TrimSpace(calcContext + " " + c)
		}
	}

	answer, err := h.Assistant.Ask(r.Context(), assistant.Question{
		Text:          req.Question,
		KnowledgeBase: h.Registry.List(),
		Context:       calcContext,
	})
	if err != nil {
		h.fail(w, r, "Assistant request failed", err)
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

// sessionContext summarises a session's breakdown, or "" if there is none.
func (h *Handler) sessionContext(id string) string {
	calc, err := h.Sessions.Breakdown(id)
	if err != nil {
		return ""
	}
	b := calc.Breakdown
	return fmt.Sprintf("Award %s, classification %s, %s hours, total gross $%s, superannuation $%s.",
		calc.Session.AwardCode, calc.Session.ClassificationID, b.TotalHours,
		b.TotalGross.StringFixed(2), b.Superannuation.StringFixed(2))
}
