package pay_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/pay"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func level1() award.Classification {
	return award.Classification{
		ID:            "R1",
		Title:         "Retail Employee Level 1",
		BaseRate:      dec("25.27"),
		CasualLoading: dec("0.25"),
	}
}

func weekWith(d pay.Day, s pay.Shift) pay.Week {
	w := pay.NewWeek()
	w.Set(d, s)
	return w
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: want %s, got %s", msg, want, got)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestCalculate_PlainWeekdayShift(t *testing.T) {
	// GIVEN: 8 ordinary hours at $25.27, not casual, no allowances
	week := weekWith(pay.Monday, pay.Shift{Hours: dec("8")})

	// WHEN
	b := pay.Calculate(award.StandardPenalties, level1(), week)

	// THEN
	assertDec(t, "202.16", b.BasePay, "base")
	assertDec(t, "0", b.PenaltyPay, "penalty")
	assertDec(t, "0", b.CasualLoadingPay, "casual")
	assertDec(t, "202.16", b.TotalGross, "gross")
	assertDec(t, "23.2484", b.Superannuation, "super")
}

func TestCalculate_SundayCasualWithAllowance(t *testing.T) {
	week := weekWith(pay.Sunday, pay.Shift{
		Hours:       dec("8"),
		PenaltyType: award.PenaltySunday,
		IsCasual:    true,
		Allowances:  dec("10"),
	})

	b := pay.Calculate(award.StandardPenalties, level1(), week)

	assertDec(t, "202.16", b.BasePay, "base")
	assertDec(t, "101.08", b.PenaltyPay, "penalty")
	assertDec(t, "50.54", b.CasualLoadingPay, "casual")
	assertDec(t, "10", b.Allowances, "allowances")
	assertDec(t, "363.78", b.TotalGross, "gross")
}

func TestCalculateFor_DefaultsWhenAwardHasNoTable(t *testing.T) {
	a := award.Award{
		Code:            "MA000001",
		Classifications: []award.Classification{{ID: "A", BaseRate: dec("20")}},
	}
	week := weekWith(pay.Wednesday, pay.Shift{Hours: dec("5"), PenaltyType: award.PenaltyPublicHoliday})

	b, err := pay.CalculateFor(&a, "", week)
	require.NoError(t, err)
	assertDec(t, "125", b.PenaltyPay, "penalty")
	assertDec(t, "2.25", b.Rates.PublicHoliday, "effective table")
}

func TestCalculate_PenaltyAndCasualStack(t *testing.T) {
	class := award.Classification{BaseRate: dec("20"), CasualLoading: dec("0.25")}
	week := weekWith(pay.Saturday, pay.Shift{
		Hours:       dec("4"),
		PenaltyType: award.PenaltySaturday,
		IsCasual:    true,
	})

	b := pay.Calculate(award.StandardPenalties, class, week)

	assertDec(t, "80", b.BasePay, "base")
	assertDec(t, "20", b.PenaltyPay, "penalty = 4*20*0.25")
	assertDec(t, "20", b.CasualLoadingPay, "casual = 4*20*0.25")
	assertDec(t, "120", b.TotalGross, "gross")
}

func TestCalculateFor_EmptyClassificationsSignals(t *testing.T) {
	a := award.Award{Code: "MA000004"}
	_, err := pay.CalculateFor(&a, "", pay.NewWeek())
	assert.ErrorIs(t, err, pay.ErrNoClassification)
	assert.True(t, pay.IsMissingSelection(err))
}

func TestCalculateFor_NoAward(t *testing.T) {
	_, err := pay.CalculateFor(nil, "", pay.NewWeek())
	assert.ErrorIs(t, err, pay.ErrNoAwardSelected)
}

func TestCalculateFor_UnknownClassification(t *testing.T) {
	a := award.Award{Code: "MA000004", Classifications: []award.Classification{level1()}}
	_, err := pay.CalculateFor(&a, "R9", pay.NewWeek())

	var nf *pay.ClassificationNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "R9", nf.ClassificationID)
}

// =============================================================================
// POLICY DECISIONS
// =============================================================================

func TestCalculate_SubUnitMultiplierIgnored(t *testing.T) {
	// A multiplier below 1.0 adds nothing and never reduces pay.
	rates := award.StandardPenalties
	rates.NightShift = dec("0.8")
	week := weekWith(pay.Tuesday, pay.Shift{Hours: dec("10"), PenaltyType: award.PenaltyNightShift})

	b := pay.Calculate(rates, award.Classification{BaseRate: dec("30")}, week)

	assertDec(t, "300", b.BasePay, "base")
	assertDec(t, "0", b.PenaltyPay, "penalty")
	assertDec(t, "0.8", b.Days[pay.Tuesday].Multiplier, "line multiplier")
}

func TestCalculateFor_PartialTableNotMerged(t *testing.T) {
	// Award defines only Sunday; Saturday stays zero and contributes nothing.
	a := award.Award{
		Code:            "MA000002",
		PenaltyRates:    &award.PenaltyRates{Sunday: dec("2")},
		Classifications: []award.Classification{{ID: "C1", BaseRate: dec("10")}},
	}
	w := pay.NewWeek()
	w.Set(pay.Saturday, pay.Shift{Hours: dec("1"), PenaltyType: award.PenaltySaturday})
	w.Set(pay.Sunday, pay.Shift{Hours: dec("1"), PenaltyType: award.PenaltySunday})

	b, err := pay.CalculateFor(&a, "C1", w)
	require.NoError(t, err)
	assertDec(t, "10", b.PenaltyPay, "only Sunday's 1*10*(2-1)")
}

func TestCalculate_ZeroClassificationYieldsZeroes(t *testing.T) {
	w := weekWith(pay.Friday, pay.Shift{Hours: dec("8"), IsCasual: true, PenaltyType: award.PenaltyOvertime})
	b := pay.Calculate(award.StandardPenalties, award.Classification{}, w)
	assert.True(t, b.TotalGross.IsZero())
	assert.True(t, b.Superannuation.IsZero())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func fullWeek() pay.Week {
	w := pay.NewWeek()
	w.Set(pay.Monday, pay.Shift{Hours: dec("7.6")})
	w.Set(pay.Tuesday, pay.Shift{Hours: dec("7.6"), IsCasual: true})
	w.Set(pay.Wednesday, pay.Shift{Hours: dec("2"), PenaltyType: award.PenaltyOvertime})
	w.Set(pay.Thursday, pay.Shift{Hours: dec("6"), PenaltyType: award.PenaltyNightShift, Allowances: dec("6.25")})
	w.Set(pay.Saturday, pay.Shift{Hours: dec("5"), PenaltyType: award.PenaltySaturday, IsCasual: true})
	w.Set(pay.Sunday, pay.Shift{Hours: dec("3.5"), PenaltyType: award.PenaltySunday, Allowances: dec("20.01")})
	return w
}

func TestCalculate_TotalsAreExactSums(t *testing.T) {
	b := pay.Calculate(award.StandardPenalties, level1(), fullWeek())

	sum := b.BasePay.Add(b.PenaltyPay).Add(b.CasualLoadingPay).Add(b.Allowances)
	assert.True(t, b.TotalGross.Equal(sum))
	assert.True(t, b.Superannuation.Equal(b.TotalGross.Mul(dec("0.115"))))
	assert.True(t, b.TotalPackage().Equal(b.TotalGross.Add(b.Superannuation)))

	lines := decimal.Zero
	for _, l := range b.Days {
		lines = lines.Add(l.Total)
	}
	assert.True(t, lines.Equal(b.TotalGross), "day lines add up to gross")
	assertDec(t, "31.7", b.TotalHours, "hours")
}

func TestCalculate_ZeroShiftsContributeNothing(t *testing.T) {
	with := pay.Calculate(award.StandardPenalties, level1(), weekWith(pay.Monday, pay.Shift{Hours: dec("8")}))

	// Adding a zero-hour casual Sunday shift changes nothing.
	w := weekWith(pay.Monday, pay.Shift{Hours: dec("8")})
	w.Set(pay.Sunday, pay.Shift{PenaltyType: award.PenaltySunday, IsCasual: true})
	again := pay.Calculate(award.StandardPenalties, level1(), w)

	assert.True(t, with.TotalGross.Equal(again.TotalGross))
	assert.True(t, again.Days[pay.Sunday].Total.IsZero())
}

func TestCalculate_Idempotent(t *testing.T) {
	w := fullWeek()
	before := w

	first := pay.Calculate(award.StandardPenalties, level1(), w)
	second := pay.Calculate(award.StandardPenalties, level1(), w)

	assert.Equal(t, first, second)
	assert.Equal(t, before, w, "input week not mutated")
}

func TestBreakdown_ComponentsSkipZero(t *testing.T) {
	b := pay.Calculate(award.StandardPenalties, level1(), weekWith(pay.Monday, pay.Shift{Hours: dec("1"), Allowances: dec("2")}))
	comps := b.Components()
	require.Len(t, comps, 2)
	assert.Equal(t, "Base", comps[0].Name)
	assert.Equal(t, "Allowances", comps[1].Name)
}
