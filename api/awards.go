package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fairpay/award-engine/assistant"
	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/ingest"
)

// =============================================================================
// AWARD HANDLERS
// =============================================================================

// ListAwards returns every award in registry order.
func (h *Handler) ListAwards(w http.ResponseWriter, r *http.Request) {
	awards := h.Registry.List()
	dtos := make([]AwardDTO, len(awards))
	for i, a := range awards {
		dtos[i] = toAwardDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAward returns one award by code.
func (h *Handler) GetAward(w http.ResponseWriter, r *http.Request) {
	a, err := h.Registry.Get(chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, "Award not found", err)
		return
	}
	dto := toAwardDTO(a)
	if v, ok := h.History.(awardVersioner); ok {
		if version, err := v.AwardVersion(r.Context(), a.Code); err == nil {
			dto.Version = version
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpsertAward stores award JSON in the registry. New codes answer 201,
// replaced codes 200.
func (h *Handler) UpsertAward(w http.ResponseWriter, r *http.Request) {
	var req ingest.AwardJSON
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	res, err := h.Parser.FromJSON(req)
	if err != nil {
		h.fail(w, r, "Invalid award", err)
		return
	}

	_, existed := h.Registry.Find(res.Award.Code)
	if err := h.Registry.Upsert(r.Context(), res.Award); err != nil {
		h.fail(w, r, "Failed to store award", err)
		return
	}
	h.Logger.Info("award upserted",
		zap.String("code", res.Award.Code),
		zap.Bool("replaced", existed),
		zap.Int("problems", len(res.Problems)))

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, UpsertAwardResponse{
		Award:    toAwardDTO(res.Award),
		Created:  !existed,
		Problems: res.Problems,
	})
}

// IngestAward queues a pay guide for extraction and answers 202 with the job.
func (h *Handler) IngestAward(w http.ResponseWriter, r *http.Request) {
	if h.Queue == nil {
		h.fail(w, r, "Ingestion is unavailable", assistant.ErrNotConfigured)
		return
	}

	var req IngestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doc := ingest.Document{Name: req.Name, MIMEType: req.MIMEType, Data: req.Data}
	if req.Text != "" {
		doc.Data = []byte(req.Text)
		doc.MIMEType = "text/plain"
	}
	if len(doc.Data) == 0 {
		h.fail(w, r, "Document is empty", badRequest("either text or data is required"))
		return
	}
	if doc.Name == "" {
		doc.Name = "document"
	}

	job, err := h.Queue.Submit(doc)
	if err != nil {
		h.fail(w, r, "Failed to queue document", err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

// GetIngestion returns an ingestion job.
func (h *Handler) GetIngestion(w http.ResponseWriter, r *http.Request) {
	if h.Queue == nil {
		h.fail(w, r, "Ingestion is unavailable", assistant.ErrNotConfigured)
		return
	}
	job, err := h.Queue.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Ingestion job not found", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// =============================================================================
// DOCUMENT LIBRARY
// =============================================================================

// ListDocuments filters the static library by ?industry= and ?q=.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	all := catalog.Documents()
	docs := catalog.Filter(all, r.URL.Query().Get("industry"), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, DocumentsResponse{
		Industries: catalog.Industries(all),
		Documents:  h.markIngested(docs),
	})
}

// SearchDocuments asks the assistant for official pay guides.
func (h *Handler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	if h.Assistant == nil {
		h.fail(w, r, "Search is unavailable", assistant.ErrNotConfigured)
		return
	}
	var req SearchDocumentsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		h.fail(w, r, "Query is required", badRequest("query is empty"))
		return
	}

	docs, err := h.Assistant.FindDocuments(r.Context(), req.Query)
	if err != nil {
		h.fail(w, r, "Document search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.markIngested(docs))
}

func (h *Handler) markIngested(docs []catalog.Document) []DocumentDTO {
	codes := h.Registry.Codes()
	out := make([]DocumentDTO, len(docs))
	for i, d := range docs {
		out[i] = DocumentDTO{Document: d, Ingested: d.AwardCode != "" && codes[d.AwardCode]}
	}
	return out
}

// awardVersioner is implemented by *sqlite.Store.
type awardVersioner interface {
	AwardVersion(ctx context.Context, code string) (int, error)
}
