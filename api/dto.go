/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	Defines the JSON structures for API communication. Domain types
	(award.Award, pay.Session, pay.Breakdown, ingest.Job) are returned
	as-is where their JSON shape is already the contract; the types here
	add request bodies and presentation extras.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:

	Decimal values are written as JSON strings ("202.16") so no precision
	is lost. Requests accept numbers or strings.

VALIDATION:

	Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - ingest/parse.go: AwardJSON, the ingestion wire format
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/ingest"
	"github.com/fairpay/award-engine/pay"
)

// =============================================================================
// AWARDS
// =============================================================================

// AwardDTO is an award with the penalty table the engine will actually use.
type AwardDTO struct {
	award.Award
	EffectiveRates        award.PenaltyRates `json:"effectiveRates"`
	UsesStandardPenalties bool               `json:"usesStandardPenalties"`
	Version               int                `json:"version,omitempty"`
}

func toAwardDTO(a award.Award) AwardDTO {
	return AwardDTO{
		Award:                 a,
		EffectiveRates:        a.EffectiveRates(),
		UsesStandardPenalties: a.PenaltyRates == nil,
	}
}

// UpsertAwardResponse reports the stored award and any validation warnings.
type UpsertAwardResponse struct {
	Award    AwardDTO         `json:"award"`
	Created  bool             `json:"created"`
	Problems []ingest.Problem `json:"problems,omitempty"`
}

// IngestRequest submits a pay guide for extraction. Text goes in Text;
// binary documents (PDF) go base64-encoded in Data with their MIME type.
type IngestRequest struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// DocumentDTO marks whether the document's award is already in the registry.
type DocumentDTO struct {
	catalog.Document
	Ingested bool `json:"ingested"`
}

type DocumentsResponse struct {
	Industries []string      `json:"industries"`
	Documents  []DocumentDTO `json:"documents"`
}

type SearchDocumentsRequest struct {
	Query string `json:"query"`
}

// =============================================================================
// ASSISTANT
// =============================================================================

type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
	Context   string `json:"context,omitempty"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// =============================================================================
// CALCULATOR
// =============================================================================

// ShiftInput is one day's entry. Day is a name ("Monday", "sat") or index.
type ShiftInput struct {
	Day         string          `json:"day"`
	Hours       decimal.Decimal `json:"hours"`
	IsCasual    bool            `json:"isCasual"`
	PenaltyType string          `json:"penaltyType"`
	Allowances  decimal.Decimal `json:"allowances"`
}

func (in ShiftInput) toShift() (pay.Day, pay.Shift, error) {
	d, err := pay.ParseDay(in.Day)
	if err != nil {
		return 0, pay.Shift{}, err
	}
	pt, err := award.ParsePenaltyType(in.PenaltyType)
	if err != nil {
		return 0, pay.Shift{}, err
	}
	return d, pay.Shift{
		Hours:       in.Hours,
		IsCasual:    in.IsCasual,
		PenaltyType: pt,
		Allowances:  in.Allowances,
	}, nil
}

// BuildWeek turns shift inputs into a validated week. Days not listed
// stay empty; a day listed twice keeps the last entry.
func BuildWeek(shifts []ShiftInput) (pay.Week, error) {
	week := pay.NewWeek()
	for _, in := range shifts {
		d, shift, err := in.toShift()
		if err != nil {
			return pay.Week{}, badRequestErr(err)
		}
		week.Set(d, shift)
	}
	if err := week.Validate(); err != nil {
		return pay.Week{}, err
	}
	return week, nil
}

// CalculateRequest runs the engine without a session. An empty
// ClassificationID means the award's first classification.
type CalculateRequest struct {
	AwardCode        string       `json:"awardCode"`
	ClassificationID string       `json:"classificationId"`
	Shifts           []ShiftInput `json:"shifts"`
}

// BreakdownDTO is a breakdown with the selection that produced it and the
// presentation extras.
type BreakdownDTO struct {
	pay.Breakdown
	AwardCode           string            `json:"awardCode"`
	AwardName           string            `json:"awardName"`
	ClassificationID    string            `json:"classificationId"`
	ClassificationTitle string            `json:"classificationTitle"`
	TotalPackage        decimal.Decimal   `json:"totalPackage"`
	Components          []pay.Component   `json:"components"`
	ReferenceAllowances []award.Allowance `json:"referenceAllowances"`
	CalculationID       string            `json:"calculationId,omitempty"`
}

func toBreakdownDTO(a award.Award, classificationID string, b pay.Breakdown) BreakdownDTO {
	dto := BreakdownDTO{
		Breakdown:           b,
		AwardCode:           a.Code,
		AwardName:           a.Name,
		ClassificationID:    classificationID,
		TotalPackage:        b.TotalPackage(),
		Components:          b.Components(),
		ReferenceAllowances: a.Allowances,
	}
	if c, err := pay.ResolveClassification(a, classificationID); err == nil {
		dto.ClassificationID = c.ID
		dto.ClassificationTitle = c.Title
	}
	if dto.ReferenceAllowances == nil {
		dto.ReferenceAllowances = []award.Allowance{}
	}
	return dto
}

// =============================================================================
// SESSIONS
// =============================================================================

type CreateSessionRequest struct {
	AwardCode string `json:"awardCode"`
}

type SelectAwardRequest struct {
	AwardCode string `json:"awardCode"`
}

type SelectClassificationRequest struct {
	ClassificationID string `json:"classificationId"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenarioId"`
}

// =============================================================================
// MISC
// =============================================================================

type HealthDTO struct {
	Status    string `json:"status"`
	Awards    int    `json:"awards"`
	Sessions  int    `json:"sessions"`
	Assistant bool   `json:"assistant"`
	Ingestion bool   `json:"ingestion"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error    string           `json:"error"`
	Details  string           `json:"details,omitempty"`
	Problems []ingest.Problem `json:"problems,omitempty"`
}
