/*
Package award provides the award/classification registry.

PURPOSE:

	Holds the domain model of Australian Modern Awards as far as pay
	calculation is concerned: penalty multipliers, flat allowances and the
	classifications (job grades) with their base hourly rates.

KEY CONCEPTS IN THIS FILE (types.go):
  - PenaltyRates: Multipliers of the base rate (1.0 = no penalty)
  - Allowance: Flat dollar amount, informational only
  - Classification: Job grade with base rate and casual loading
  - Award: Code, name, industry and the rules above

DESIGN PRINCIPLES:
 1. Precision: All money and multipliers are decimal.Decimal
 2. Wholesale replacement: An award is replaced as a unit, never merged
 3. No global state: The Registry is an owned value passed to consumers

USAGE:

	reg := award.NewRegistry(nil)
	_ = reg.Upsert(ctx, award.Award{Code: "MA000004", ...})
	a, ok := reg.Find("MA000004")

SEE ALSO:
  - registry.go: Registry implementation
  - store.go: Persistence interface
  - pay/engine.go: Consumes these types
*/
package award

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PENALTY RATES
// =============================================================================

// PenaltyRates holds the multipliers applied to the base hourly rate.
type PenaltyRates struct {
	Saturday      decimal.Decimal `json:"saturday"`
	Sunday        decimal.Decimal `json:"sunday"`
	PublicHoliday decimal.Decimal `json:"publicHoliday"`
	Overtime      decimal.Decimal `json:"overtime"`
	NightShift    decimal.Decimal `json:"nightShift"`
}

// StandardPenalties is the table used by awards that define none.
var StandardPenalties = PenaltyRates{
	Saturday:      decimal.RequireFromString("1.25"),
	Sunday:        decimal.RequireFromString("1.5"),
	PublicHoliday: decimal.RequireFromString("2.25"),
	Overtime:      decimal.RequireFromString("1.5"),
	NightShift:    decimal.RequireFromString("1.15"),
}

// =============================================================================
// PENALTY TYPE - Closed enumeration of shift conditions
// =============================================================================

type PenaltyType string

const (
	PenaltyNone          PenaltyType = "None"
	PenaltySaturday      PenaltyType = "Saturday"
	PenaltySunday        PenaltyType = "Sunday"
	PenaltyPublicHoliday PenaltyType = "PublicHoliday"
	PenaltyOvertime      PenaltyType = "Overtime"
	PenaltyNightShift    PenaltyType = "NightShift"
)

// PenaltyTypes lists every variant in display order.
var PenaltyTypes = []PenaltyType{
	PenaltyNone,
	PenaltySaturday,
	PenaltySunday,
	PenaltyPublicHoliday,
	PenaltyOvertime,
	PenaltyNightShift,
}

// ParsePenaltyType converts a wire name into a PenaltyType, ignoring case.
// The empty string is treated as None.
func ParsePenaltyType(s string) (PenaltyType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PenaltyNone, nil
	}
	for _, p := range PenaltyTypes {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", &UnknownPenaltyTypeError{Name: s}
}

// Multiplier returns the multiplier for p. None is always 1.0.
func (r PenaltyRates) Multiplier(p PenaltyType) decimal.Decimal {
	switch p {
	case PenaltySaturday:
		return r.Saturday
	case PenaltySunday:
		return r.Sunday
	case PenaltyPublicHoliday:
		return r.PublicHoliday
	case PenaltyOvertime:
		return r.Overtime
	case PenaltyNightShift:
		return r.NightShift
	default:
		return decimal.NewFromInt(1)
	}
}

// =============================================================================
// ALLOWANCE
// =============================================================================

// Allowance is a flat dollar amount published by an award.
// It is reference data only and never applied automatically.
type Allowance struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

type Classification struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	BaseRate      decimal.Decimal `json:"baseRate"`
	CasualLoading decimal.Decimal `json:"casualLoading"`
	Description   string          `json:"description,omitempty"`
}

// =============================================================================
// AWARD
// =============================================================================

type Award struct {
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Industry        string           `json:"industry"`
	Classifications []Classification `json:"classifications"`
	PenaltyRates    *PenaltyRates    `json:"penaltyRates,omitempty"`
	Allowances      []Allowance      `json:"allowances,omitempty"`
}

// EffectiveRates returns the award's own table, or StandardPenalties when
// the award defines none. There is no per-field fallback.
func (a Award) EffectiveRates() PenaltyRates {
	if a.PenaltyRates != nil {
		return *a.PenaltyRates
	}
	return StandardPenalties
}

// Classification finds a classification by id.
func (a Award) Classification(id string) (Classification, bool) {
	for _, c := range a.Classifications {
		if c.ID == id {
			return c, true
		}
	}
	return Classification{}, false
}

// DefaultClassification returns the first classification of the award.
func (a Award) DefaultClassification() (Classification, bool) {
	if len(a.Classifications) == 0 {
		return Classification{}, false
	}
	return a.Classifications[0], true
}

// Clone returns a deep copy so callers cannot alias registry state.
func (a Award) Clone() Award {
	out := a
	if a.Classifications != nil {
		out.Classifications = append([]Classification(nil), a.Classifications...)
	}
	if a.Allowances != nil {
		out.Allowances = append([]Allowance(nil), a.Allowances...)
	}
	if a.PenaltyRates != nil {
		rates := *a.PenaltyRates
		out.PenaltyRates = &rates
	}
	return out
}
