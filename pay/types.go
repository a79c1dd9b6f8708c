/*
Package pay computes weekly pay breakdowns against an award.

PURPOSE:

	Turns one award's penalty table, one classification and a week of
	shifts into base pay, penalty pay, casual loading, allowances, total
	gross and superannuation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Day: Monday..Sunday, index 0..6
  - Shift: One day's hours, casual flag, penalty type and allowances
  - Week: Exactly seven shifts, Monday first
  - Breakdown: The computed result

SEE ALSO:
  - engine.go: The calculation
  - session.go: Award/classification selection state
*/
package pay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fairpay/award-engine/award"
)

// =============================================================================
// DAY
// =============================================================================

type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// ShiftID is the stable id of the day's shift entry.
func (d Day) ShiftID() string {
	return fmt.Sprintf("shift-%d", int(d))
}

// ParseDay accepts a full or three-letter day name (any case), or an index 0-6.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		if i >= 0 && i <= 6 {
			return Day(i), nil
		}
		return 0, fmt.Errorf("%w: day index out of range: %d", ErrInvalidShift, i)
	}
	lower := strings.ToLower(s)
	for i, name := range dayNames {
		n := strings.ToLower(name)
		if lower == n || (len(lower) == 3 && strings.HasPrefix(n, lower)) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown day %q", ErrInvalidShift, s)
}

// =============================================================================
// SHIFT / WEEK
// =============================================================================

type Shift struct {
	ID          string            `json:"id"`
	Day         string            `json:"day"`
	Hours       decimal.Decimal   `json:"hours"`
	IsCasual    bool              `json:"isCasual"`
	PenaltyType award.PenaltyType `json:"penaltyType"`
	Allowances  decimal.Decimal   `json:"allowances"`
}

// Week holds one shift per day, Monday first.
type Week [7]Shift

// NewWeek returns an empty week with stable ids.
func NewWeek() Week {
	var w Week
	for i := range w {
		d := Day(i)
		w[i] = Shift{
			ID:          d.ShiftID(),
			Day:         d.String(),
			PenaltyType: award.PenaltyNone,
		}
	}
	return w
}

// Set replaces the shift for day, keeping its id and day name.
func (w *Week) Set(d Day, s Shift) {
	s.ID = d.ShiftID()
	s.Day = d.String()
	if s.PenaltyType == "" {
		s.PenaltyType = award.PenaltyNone
	}
	w[d] = s
}

// Validate rejects negative hours, negative allowances and unknown penalty types.
// Hours above 24 are accepted.
func (w Week) Validate() error {
	for i, s := range w {
		d := Day(i)
		if s.Hours.IsNegative() {
			return &ShiftError{Day: d, Field: "hours", Value: s.Hours.String()}
		}
		if s.Allowances.IsNegative() {
			return &ShiftError{Day: d, Field: "allowances", Value: s.Allowances.String()}
		}
		if _, err := award.ParsePenaltyType(string(s.PenaltyType)); err != nil {
			return &ShiftError{Day: d, Field: "penaltyType", Value: string(s.PenaltyType)}
		}
	}
	return nil
}

// =============================================================================
// BREAKDOWN
// =============================================================================

// Breakdown is the computed pay for one week.
type Breakdown struct {
	BasePay          decimal.Decimal `json:"basePay"`
	PenaltyPay       decimal.Decimal `json:"penaltyPay"`
	CasualLoadingPay decimal.Decimal `json:"casualLoadingPay"`
	Allowances       decimal.Decimal `json:"allowances"`
	TotalGross       decimal.Decimal `json:"totalGross"`
	Superannuation   decimal.Decimal `json:"superannuation"`

	TotalHours decimal.Decimal    `json:"totalHours"`
	Rates      award.PenaltyRates `json:"rates"`
	Days       [7]DayLine         `json:"days"`
}

// DayLine is one day's contribution.
type DayLine struct {
	Day              string            `json:"day"`
	Hours            decimal.Decimal   `json:"hours"`
	PenaltyType      award.PenaltyType `json:"penaltyType"`
	Multiplier       decimal.Decimal   `json:"multiplier"`
	BasePay          decimal.Decimal   `json:"basePay"`
	PenaltyPay       decimal.Decimal   `json:"penaltyPay"`
	CasualLoadingPay decimal.Decimal   `json:"casualLoadingPay"`
	Allowances       decimal.Decimal   `json:"allowances"`
	Total            decimal.Decimal   `json:"total"`
}

// TotalPackage is gross pay plus superannuation.
func (b Breakdown) TotalPackage() decimal.Decimal {
	return b.TotalGross.Add(b.Superannuation)
}

// Component is one named slice of the gross, for charts.
type Component struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Components lists the non-zero parts of the gross in a fixed order.
func (b Breakdown) Components() []Component {
	all := []Component{
		{Name: "Base", Value: b.BasePay},
		{Name: "Penalties", Value: b.PenaltyPay},
		{Name: "Casual", Value: b.CasualLoadingPay},
		{Name: "Allowances", Value: b.Allowances},
	}
	out := make([]Component, 0, len(all))
	for _, c := range all {
		if c.Value.IsPositive() {
			out = append(out, c)
		}
	}
	return out
}
