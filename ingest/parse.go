/*
Package ingest converts externally produced award JSON into award.Award.

PURPOSE:

	The AI collaborator returns award rules as JSON of a known shape but
	unknown quality. This package is the explicit boundary between that
	untrusted JSON and the typed registry: decode (numbers or decimal
	strings), convert, and list every problem found. The shape matches
	what GET /api/awards/{code} returns, so an award can be posted back.

JSON SCHEMA:

	{
	  "code": "MA000004",
	  "name": "General Retail Industry Award",
	  "industry": "Retail",
	  "penaltyRates": {"saturday": 1.25, "sunday": 1.5, "publicHoliday": 2.25,
	                   "overtime": 1.5, "nightShift": 1.3},
	  "classifications": [
	    {"id": "R1", "title": "Level 1", "baseRate": 25.27, "casualLoading": 0.25}
	  ],
	  "allowances": [{"name": "Meal Allowance", "amount": 20.01}]
	}

MODES:
  - Lenient (default): problems are returned alongside the award, which is
    still upserted. A degenerate award then surfaces at calculation time.
  - Strict: any problem turns into a *ValidationError and nothing is upserted.

Undecodable JSON is an error in both modes.

SEE ALSO:
  - queue.go: Asynchronous ingestion jobs
  - award/registry.go: Upsert
*/
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/fairpay/award-engine/award"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// AwardJSON is the wire shape produced by ingestion. Amounts and
// multipliers decode from JSON numbers or decimal strings.
type AwardJSON struct {
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	Industry        string               `json:"industry"`
	PenaltyRates    *PenaltyRatesJSON    `json:"penaltyRates,omitempty"`
	Classifications []ClassificationJSON `json:"classifications"`
	Allowances      []AllowanceJSON      `json:"allowances,omitempty"`
}

type PenaltyRatesJSON struct {
	Saturday      decimal.Decimal `json:"saturday"`
	Sunday        decimal.Decimal `json:"sunday"`
	PublicHoliday decimal.Decimal `json:"publicHoliday"`
	Overtime      decimal.Decimal `json:"overtime"`
	NightShift    decimal.Decimal `json:"nightShift"`
}

type ClassificationJSON struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	BaseRate      decimal.Decimal `json:"baseRate"`
	CasualLoading decimal.Decimal `json:"casualLoading"`
	Description   string          `json:"description,omitempty"`
}

type AllowanceJSON struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDecode  = errors.New("award JSON could not be decoded")
	ErrInvalid = errors.New("award failed validation")
)

// Problem is one validation finding.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (p Problem) String() string { return p.Field + ": " + p.Message }

// ValidationError is returned in strict mode.
type ValidationError struct {
	Code     string
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("award %q is invalid: %s", e.Code, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// =============================================================================
// PARSER
// =============================================================================

// Result is a parsed award plus whatever was wrong with it.
type Result struct {
	Award    award.Award `json:"award"`
	Problems []Problem   `json:"problems,omitempty"`
}

// Parser decodes and validates award JSON.
type Parser struct {
	Strict bool
}

// Parse decodes data. Markdown code fences around the JSON are tolerated.
func (p Parser) Parse(data []byte) (Result, error) {
	var aj AwardJSON
	if err := json.Unmarshal(stripFences(data), &aj); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return p.FromJSON(aj)
}

// FromJSON converts an already decoded AwardJSON.
func (p Parser) FromJSON(aj AwardJSON) (Result, error) {
	a := aj.ToAward()
	res := Result{Award: a, Problems: Validate(a)}
	if p.Strict && len(res.Problems) > 0 {
		return res, &ValidationError{Code: a.Code, Problems: res.Problems}
	}
	return res, nil
}

// ToAward converts the wire shape into a registry award.
func (aj AwardJSON) ToAward() award.Award {
	a := award.Award{
		Code:     strings.TrimSpace(aj.Code),
		Name:     strings.TrimSpace(aj.Name),
		Industry: strings.TrimSpace(aj.Industry),
	}
	if aj.PenaltyRates != nil {
		a.PenaltyRates = &award.PenaltyRates{
			Saturday:      aj.PenaltyRates.Saturday,
			Sunday:        aj.PenaltyRates.Sunday,
			PublicHoliday: aj.PenaltyRates.PublicHoliday,
			Overtime:      aj.PenaltyRates.Overtime,
			NightShift:    aj.PenaltyRates.NightShift,
		}
	}
	a.Classifications = make([]award.Classification, 0, len(aj.Classifications))
	for _, c := range aj.Classifications {
		a.Classifications = append(a.Classifications, award.Classification{
			ID:            strings.TrimSpace(c.ID),
			Title:         c.Title,
			BaseRate:      c.BaseRate,
			CasualLoading: c.CasualLoading,
			Description:   c.Description,
		})
	}
	for _, al := range aj.Allowances {
		a.Allowances = append(a.Allowances, award.Allowance{
			Name:   al.Name,
			Amount: al.Amount,
		})
	}
	return a
}

// FromAward converts a registry award back to the wire shape.
func FromAward(a award.Award) AwardJSON {
	aj := AwardJSON{
		Code:            a.Code,
		Name:            a.Name,
		Industry:        a.Industry,
		Classifications: make([]ClassificationJSON, 0, len(a.Classifications)),
	}
	if a.PenaltyRates != nil {
		r := a.PenaltyRates
		aj.PenaltyRates = &PenaltyRatesJSON{
			Saturday:      r.Saturday,
			Sunday:        r.Sunday,
			PublicHoliday: r.PublicHoliday,
			Overtime:      r.Overtime,
			NightShift:    r.NightShift,
		}
	}
	for _, c := range a.Classifications {
		aj.Classifications = append(aj.Classifications, ClassificationJSON{
			ID:            c.ID,
			Title:         c.Title,
			BaseRate:      c.BaseRate,
			CasualLoading: c.CasualLoading,
			Description:   c.Description,
		})
	}
	for _, al := range a.Allowances {
		aj.Allowances = append(aj.Allowances, AllowanceJSON{Name: al.Name, Amount: al.Amount})
	}
	return aj
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate lists everything that would make a a degenerate or nonsensical award.
func Validate(a award.Award) []Problem {
	var problems []Problem
	add := func(field, format string, args ...any) {
		problems = append(problems, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if a.Code == "" {
		add("code", "is required")
	}
	if a.Name == "" {
		add("name", "is required")
	}
	if len(a.Classifications) == 0 {
		add("classifications", "at least one classification is required")
	}

	ids := make(map[string]bool)
	for i, c := range a.Classifications {
		field := fmt.Sprintf("classifications[%d]", i)
		if c.ID == "" {
			add(field+".id", "is required")
		} else if ids[c.ID] {
			add(field+".id", "duplicate id %q", c.ID)
		}
		ids[c.ID] = true
		if !c.BaseRate.IsPositive() {
			add(field+".baseRate", "must be positive, got %s", c.BaseRate)
		}
		if c.CasualLoading.IsNegative() {
			add(field+".casualLoading", "must not be negative, got %s", c.CasualLoading)
		}
	}

	if r := a.PenaltyRates; r != nil {
		for _, p := range award.PenaltyTypes {
			if p == award.PenaltyNone {
				continue
			}
			m := r.Multiplier(p)
			if m.IsNegative() {
				add("penaltyRates."+lowerFirst(string(p)), "must not be negative, got %s", m)
			} else if m.LessThan(decimal.NewFromInt(1)) {
				add("penaltyRates."+lowerFirst(string(p)), "below 1.0 (%s) is ignored by the calculator", m)
			}
		}
	}

	for i, al := range a.Allowances {
		if al.Amount.IsNegative() {
			add(fmt.Sprintf("allowances[%d].amount", i), "must not be negative, got %s", al.Amount)
		}
	}
	return problems
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// stripFences removes a surrounding ```json ... ``` block, if present.
func stripFences(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return trimmed
	}
	trimmed = bytes.TrimPrefix(trimmed, []byte("```"))
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	trimmed = bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte("```"))
	return bytes.TrimSpace(trimmed)
}
