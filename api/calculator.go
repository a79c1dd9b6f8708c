package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fairpay/award-engine/pay"
	"github.com/fairpay/award-engine/store/sqlite"
)

// =============================================================================
// STATELESS CALCULATION
// =============================================================================

// Calculate runs the engine on an explicit award, classification and week.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.AwardCode == "" {
		h.fail(w, r, "awardCode is required", pay.ErrNoAwardSelected)
		return
	}

	week, err := BuildWeek(req.Shifts)
	if err != nil {
		h.fail(w, r, "Invalid shift", err)
		return
	}

	a, err := h.Registry.Get(req.AwardCode)
	if err != nil {
		h.fail(w, r, "Award not found", err)
		return
	}
	b, err := pay.CalculateFor(&a, req.ClassificationID, week)
	if err != nil {
		h.fail(w, r, "Calculation failed", err)
		return
	}

	dto := toBreakdownDTO(a, req.ClassificationID, b)
	dto.CalculationID = h.record(r.Context(), "", dto, week)
	writeJSON(w, http.StatusOK, dto)
}

// ListCalculations returns recent calculations, newest first. ?limit=
// defaults to 50.
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		writeJSON(w, http.StatusOK, []sqlite.Calculation{})
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	calcs, err := h.History.ListCalculations(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "Failed to list calculations", err)
		return
	}
	if calcs == nil {
		calcs = []sqlite.Calculation{}
	}
	writeJSON(w, http.StatusOK, calcs)
}

// record saves the calculation if history is enabled. A failed save is
// logged and does not fail the request.
func (h *Handler) record(ctx context.Context, sessionID string, dto BreakdownDTO, week pay.Week) string {
	if h.History == nil {
		return ""
	}
	c, err := h.History.SaveCalculation(ctx, sqlite.Calculation{
		SessionID:        sessionID,
		AwardCode:        dto.AwardCode,
		ClassificationID: dto.ClassificationID,
		Week:             week,
		Breakdown:        dto.Breakdown,
	})
	if err != nil {
		h.Logger.Warn("failed to record calculation", zap.Error(err), zap.String("award", dto.AwardCode))
		return ""
	}
	return c.ID
}

// =============================================================================
// SESSIONS
// =============================================================================

// CreateSession opens a session on the given award, or the first award.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	sess, err := h.Sessions.Create(req.AwardCode)
	if err != nil {
		h.fail(w, r, "Failed to create session", err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Session not found", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SelectAward switches the session's award. The classification resets to
// the award's first one.
func (h *Handler) SelectAward(w http.ResponseWriter, r *http.Request) {
	var req SelectAwardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	sess, err := h.Sessions.SelectAward(chi.URLParam(r, "id"), req.AwardCode)
	if err != nil {
		h.fail(w, r, "Failed to select award", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) SelectClassification(w http.ResponseWriter, r *http.Request) {
	var req SelectClassificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	sess, err := h.Sessions.SelectClassification(chi.URLParam(r, "id"), req.ClassificationID)
	if err != nil {
		h.fail(w, r, "Failed to select classification", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SetShift replaces one day's shift. The day in the path wins over any
// day in the body.
func (h *Handler) SetShift(w http.ResponseWriter, r *http.Request) {
	var in ShiftInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	in.Day = chi.URLParam(r, "day")
	d, shift, err := in.toShift()
	if err != nil {
		h.fail(w, r, "Invalid shift", badRequestErr(err))
		return
	}

	sess, err := h.Sessions.Update(chi.URLParam(r, "id"), func(s *pay.Session) error {
		return s.SetShift(d, shift)
	})
	if err != nil {
		h.fail(w, r, "Failed to set shift", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ResetSession clears the week. The selection is kept.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Update(chi.URLParam(r, "id"), func(s *pay.Session) error {
		s.Reset()
		return nil
	})
	if err != nil {
		h.fail(w, r, "Failed to reset session", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// GetBreakdown calculates the session's week against its selection.
func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	calc, err := h.Sessions.Breakdown(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Calculation failed", err)
		return
	}

	sess := calc.Session
	dto := toBreakdownDTO(calc.Award, sess.ClassificationID, calc.Breakdown)
	dto.CalculationID = h.record(r.Context(), sess.ID, dto, sess.Week)
	writeJSON(w, http.StatusOK, dto)
}

// badRequestErr keeps typed errors (penalty names) and marks the rest as
// request errors.
func badRequestErr(err error) error {
	if statusCode, _ := statusFor(err); statusCode == http.StatusBadRequest {
		return err
	}
	return badRequest(err.Error())
}
