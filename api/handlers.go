/*
handlers.go - HTTP API handlers for the award engine

PURPOSE:

	Exposes the award registry, the pay engine, calculator sessions and
	the AI collaborator via REST API. Handles HTTP request/response and
	JSON serialization, and delegates to the domain packages.

ENDPOINTS:

	Awards (awards.go):
	  GET    /api/awards                 List awards in registry order
	  GET    /api/awards/{code}          One award with effective penalties
	  POST   /api/awards                 Upsert award JSON
	  POST   /api/awards/ingest          Queue a pay guide for extraction (202)
	  GET    /api/ingestions/{id}        Ingestion job status
	  GET    /api/documents              Static pay guide library
	  POST   /api/documents/search       Live search (assistant)

	Assistant (assistant.go):
	  POST   /api/match                  Job description -> award matches
	  POST   /api/assistant              Free-text question

	Calculator (calculator.go):
	  POST   /api/calculate              Stateless breakdown
	  GET    /api/calculations           Calculation history
	  POST   /api/sessions               Open a calculator session
	  GET    /api/sessions/{id}          Session state
	  PUT    /api/sessions/{id}/award    Select award (resets classification)
	  PUT    /api/sessions/{id}/classification
	  PUT    /api/sessions/{id}/shifts/{day}
	  POST   /api/sessions/{id}/reset    Clear the week
	  POST   /api/sessions/{id}/scenario Load a sample week
	  GET    /api/sessions/{id}/breakdown

	Scenarios (scenarios.go):
	  GET    /api/scenarios              Sample weeks

ARCHITECTURE:

	Handler struct holds all dependencies. Assistant, Queue and History
	are optional: a nil Assistant or Queue answers 503, a nil History
	skips recording calculations.

ERROR HANDLING:

	Errors are returned as JSON with an HTTP status chosen by statusFor:
	  - 400: Malformed body, bad day/penalty/shift values
	  - 404: Unknown award, classification, session or job
	  - 422: No award/classification resolvable; strict validation failure
	  - 502: Assistant call failed
	  - 503: Assistant not configured, ingestion unavailable
	  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/fairpay/award-engine/assistant"
	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/ingest"
	"github.com/fairpay/award-engine/pay"
	"github.com/fairpay/award-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// History records computed breakdowns. Implemented by *sqlite.Store.
type History interface {
	SaveCalculation(ctx context.Context, c sqlite.Calculation) (sqlite.Calculation, error)
	ListCalculations(ctx context.Context, limit int) ([]sqlite.Calculation, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry  *award.Registry
	Sessions  *pay.Sessions
	Parser    ingest.Parser
	Assistant assistant.Service
	Queue     *ingest.Queue
	History   History
	Logger    *zap.Logger
}

// NewHandler creates a handler over reg with its own session table.
// Optional collaborators are set on the returned struct.
func NewHandler(reg *award.Registry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Registry: reg,
		Sessions: pay.NewSessions(reg),
		Logger:   logger,
	}
}

// Health reports liveness and what is wired.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{
		Status:    "ok",
		Awards:    h.Registry.Len(),
		Sessions:  h.Sessions.Len(),
		Assistant: h.Assistant != nil,
		Ingestion: h.Queue != nil,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

const maxBodyBytes = 20 << 20

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// decodeOptionalJSON leaves v untouched when the body is empty.
func decodeOptionalJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
		var ve *ingest.ValidationError
		if errors.As(err, &ve) {
			resp.Problems = ve.Problems
		}
	}
	writeJSON(w, status, resp)
}

// fail maps a domain error to a status and writes it. Server-side
// failures are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status, hint := statusFor(err)
	if hint != "" {
		message = hint
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(message,
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.Int("status", status))
	}
	writeError(w, status, message, err)
}

func statusFor(err error) (int, string) {
	var ue *assistant.UpstreamError
	switch {
	case pay.IsMissingSelection(err):
		return http.StatusUnprocessableEntity, "Ingest or select an award first"
	case award.IsNotFound(err),
		errors.Is(err, pay.ErrClassificationNotFound),
		errors.Is(err, pay.ErrSessionNotFound),
		errors.Is(err, ingest.ErrJobNotFound),
		errors.Is(err, errScenarioNotFound):
		return http.StatusNotFound, ""
	case errors.Is(err, ingest.ErrInvalid):
		return http.StatusUnprocessableEntity, "Award failed validation"
	case errors.Is(err, pay.ErrInvalidShift),
		errors.Is(err, award.ErrEmptyCode),
		errors.Is(err, award.ErrUnknownPenaltyType),
		errors.Is(err, ingest.ErrDecode),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, ""
	case errors.Is(err, assistant.ErrNotConfigured):
		return http.StatusServiceUnavailable, "AI assistant is not configured"
	case errors.Is(err, ingest.ErrQueueFull), errors.Is(err, ingest.ErrQueueStopped):
		return http.StatusServiceUnavailable, "Ingestion is unavailable"
	case errors.As(err, &ue):
		return http.StatusBadGateway, "AI assistant request failed"
	default:
		return http.StatusInternalServerError, ""
	}
}

// errBadRequest marks request-shape errors found by handlers.
var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return errBadRequest }
