/*
Package catalog holds the static reference data shipped with the binary.

PURPOSE:

	Seed awards let the calculator work before anything has been ingested.
	The document library lists popular Modern Awards so users can find the
	pay guide to ingest.

AVAILABLE SEED AWARDS:

	MA000004: General Retail Industry Award
	MA000009: Hospitality Industry (General) Award
	MA000010: Manufacturing and Associated Industries and Occupations Award

Rates are simplified; ingested pay guides replace a seed award wholesale
because the registry upserts by code.

SEE ALSO:
  - documents.go: Document library
  - award/registry.go: Seed()
*/
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/fairpay/award-engine/award"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// casual is the standard 25% casual loading.
var casual = d("0.25")

// =============================================================================
// SEED AWARDS
// =============================================================================

// SeedAwards returns fresh copies of the built-in awards, in registry order.
func SeedAwards() []award.Award {
	return []award.Award{
		RetailAward(),
		HospitalityAward(),
		ManufacturingAward(),
	}
}

// RetailAward returns MA000004. Night shift is higher than the standard table.
func RetailAward() award.Award {
	return award.Award{
		Code:     "MA000004",
		Name:     "General Retail Industry Award",
		Industry: "Retail",
		PenaltyRates: &award.PenaltyRates{
			Saturday:      d("1.25"),
			Sunday:        d("1.5"),
			PublicHoliday: d("2.25"),
			Overtime:      d("1.5"),
			NightShift:    d("1.30"),
		},
		Allowances: []award.Allowance{
			{Name: "Laundry Allowance", Amount: d("6.25")},
			{Name: "Meal Allowance", Amount: d("20.01")},
		},
		Classifications: []award.Classification{
			{ID: "R1", Title: "Retail Employee Level 1", BaseRate: d("25.27"), CasualLoading: casual, Description: "Shop assistant, entry level"},
			{ID: "R4", Title: "Retail Employee Level 4", BaseRate: d("28.50"), CasualLoading: casual, Description: "Team leader, supervisor"},
		},
	}
}

// HospitalityAward returns MA000009.
func HospitalityAward() award.Award {
	return award.Award{
		Code:     "MA000009",
		Name:     "Hospitality Industry (General) Award",
		Industry: "Hospitality",
		PenaltyRates: &award.PenaltyRates{
			Saturday:      d("1.25"),
			Sunday:        d("1.50"),
			PublicHoliday: d("2.25"),
			Overtime:      d("1.5"),
			NightShift:    d("1.15"),
		},
		Allowances: []award.Allowance{
			{Name: "Split Shift Allowance", Amount: d("4.87")},
			{Name: "Tool Allowance", Amount: d("12.50")},
		},
		Classifications: []award.Classification{
			{ID: "H2", Title: "Food & Beverage Attendant Grade 2", BaseRate: d("24.08"), CasualLoading: casual, Description: "Waiter, barista"},
			{ID: "H3", Title: "Food & Beverage Attendant Grade 3", BaseRate: d("25.12"), CasualLoading: casual, Description: "Senior waiter, bar attendant"},
			{ID: "C3", Title: "Cook Grade 3", BaseRate: d("26.15"), CasualLoading: casual, Description: "Qualified cook"},
		},
	}
}

// ManufacturingAward returns MA000010. Double time on Sundays.
func ManufacturingAward() award.Award {
	return award.Award{
		Code:     "MA000010",
		Name:     "Manufacturing and Associated Industries and Occupations Award",
		Industry: "Manufacturing",
		PenaltyRates: &award.PenaltyRates{
			Saturday:      d("1.50"),
			Sunday:        d("2.0"),
			PublicHoliday: d("2.5"),
			Overtime:      d("1.5"),
			NightShift:    d("1.15"),
		},
		Allowances: []award.Allowance{
			{Name: "Leading Hand Allowance", Amount: d("45.20")},
			{Name: "First Aid Allowance", Amount: d("19.36")},
		},
		Classifications: []award.Classification{
			{ID: "C10", Title: "Engineering/Production Employee Level C10", BaseRate: d("26.55"), CasualLoading: casual, Description: "Basic machine operator"},
			{ID: "C7", Title: "Engineering/Production Employee Level C7", BaseRate: d("30.15"), CasualLoading: casual, Description: "Tradesperson"},
		},
	}
}
