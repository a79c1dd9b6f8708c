/*
scenarios.go - Sample weeks for demos and manual testing

PURPOSE:

	Provides pre-built weeks of shifts that exercise specific parts of
	the engine: plain ordinary hours, weekend penalties, casual loading,
	public holidays, night shifts and overtime. Loading a scenario
	replaces the session's week; the award and classification selection
	is left alone.

AVAILABLE SCENARIOS:

	full-time-week:  Mon-Fri 7.6h ordinary hours
	weekend-casual:  Casual Saturday and Sunday with a meal allowance
	public-holiday:  Ordinary week with a public holiday Monday
	night-fill:      Four night shifts
	overtime:        Five 8h days plus a Saturday overtime shift
	empty:           No hours

USAGE VIA API:

	GET  /api/scenarios
	POST /api/sessions/{id}/scenario
	{"scenarioId": "weekend-casual"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description and shifts
 2. Use the day name or index as the key

SEE ALSO:
  - calculator.go: Session handlers
*/
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/pay"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO is a named sample week.
type ScenarioDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Shifts      []ShiftInput `json:"shifts"`
}

var errScenarioNotFound = errors.New("scenario not found")

func hours(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ordinary(day, h string) ShiftInput {
	return ShiftInput{Day: day, Hours: hours(h), PenaltyType: string(award.PenaltyNone)}
}

var scenarios = []ScenarioDTO{
	{
		ID:          "full-time-week",
		Name:        "Full-Time Week",
		Description: "Five 7.6 hour ordinary days, no penalties",
		Shifts: []ShiftInput{
			ordinary("Monday", "7.6"),
			ordinary("Tuesday", "7.6"),
			ordinary("Wednesday", "7.6"),
			ordinary("Thursday", "7.6"),
			ordinary("Friday", "7.6"),
		},
	},
	{
		ID:          "weekend-casual",
		Name:        "Weekend Casual",
		Description: "Casual Saturday and Sunday shifts with a meal allowance on Sunday",
		Shifts: []ShiftInput{
			{Day: "Saturday", Hours: hours("6"), IsCasual: true, PenaltyType: string(award.PenaltySaturday)},
			{Day: "Sunday", Hours: hours("8"), IsCasual: true, PenaltyType: string(award.PenaltySunday), Allowances: hours("10")},
		},
	},
	{
		ID:          "public-holiday",
		Name:        "Public Holiday Week",
		Description: "Ordinary week where Monday is a public holiday",
		Shifts: []ShiftInput{
			{Day: "Monday", Hours: hours("7.6"), PenaltyType: string(award.PenaltyPublicHoliday)},
			ordinary("Tuesday", "7.6"),
			ordinary("Wednesday", "7.6"),
			ordinary("Thursday", "7.6"),
			ordinary("Friday", "7.6"),
		},
	},
	{
		ID:          "night-fill",
		Name:        "Night Fill",
		Description: "Four 8 hour night shifts, Monday to Thursday",
		Shifts: []ShiftInput{
			{Day: "Monday", Hours: hours("8"), PenaltyType: string(award.PenaltyNightShift)},
			{Day: "Tuesday", Hours: hours("8"), PenaltyType: string(award.PenaltyNightShift)},
			{Day: "Wednesday", Hours: hours("8"), PenaltyType: string(award.PenaltyNightShift)},
			{Day: "Thursday", Hours: hours("8"), PenaltyType: string(award.PenaltyNightShift)},
		},
	},
	{
		ID:          "overtime",
		Name:        "Overtime Saturday",
		Description: "Five 8 hour days plus 4 hours of overtime on Saturday",
		Shifts: []ShiftInput{
			ordinary("Monday", "8"),
			ordinary("Tuesday", "8"),
			ordinary("Wednesday", "8"),
			ordinary("Thursday", "8"),
			ordinary("Friday", "8"),
			{Day: "Saturday", Hours: hours("4"), PenaltyType: string(award.PenaltyOvertime)},
		},
	},
	{
		ID:          "empty",
		Name:        "Empty Week",
		Description: "No hours entered",
		Shifts:      []ShiftInput{},
	},
}

// Scenarios returns the sample weeks.
func Scenarios() []ScenarioDTO {
	out := make([]ScenarioDTO, len(scenarios))
	copy(out, scenarios)
	return out
}

// FindScenario looks a sample week up by id.
func FindScenario(id string) (ScenarioDTO, error) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, nil
		}
	}
	return ScenarioDTO{}, fmt.Errorf("%w: %s", errScenarioNotFound, id)
}

// Week builds the scenario's week.
func (s ScenarioDTO) Week() (pay.Week, error) {
	return BuildWeek(s.Shifts)
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available sample weeks.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario replaces a session's week with a sample week.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	sc, err := FindScenario(req.ScenarioID)
	if err != nil {
		h.fail(w, r, "Unknown scenario", err)
		return
	}
	week, err := sc.Week()
	if err != nil {
		h.fail(w, r, "Scenario is invalid", err)
		return
	}

	sess, err := h.Sessions.Update(chi.URLParam(r, "id"), func(s *pay.Session) error {
		s.Week = week
		return nil
	})
	if err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
