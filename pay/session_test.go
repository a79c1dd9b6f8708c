package pay_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/pay"
)

func newRegistry(t *testing.T, awards ...award.Award) *award.Registry {
	t.Helper()
	reg := award.NewRegistry(nil)
	for _, a := range awards {
		require.NoError(t, reg.Upsert(context.Background(), a))
	}
	return reg
}

func retailAward() award.Award {
	return award.Award{
		Code: "MA000004",
		Classifications: []award.Classification{
			level1(),
			{ID: "R4", BaseRate: dec("28.50"), CasualLoading: dec("0.25")},
		},
	}
}

func hospitalityAward() award.Award {
	return award.Award{
		Code: "MA000009",
		Classifications: []award.Classification{
			{ID: "H2", BaseRate: dec("24.08"), CasualLoading: dec("0.25")},
			{ID: "H3", BaseRate: dec("25.12"), CasualLoading: dec("0.25")},
		},
	}
}

// =============================================================================
// SELECTION RULE
// =============================================================================

func TestSession_SelectAwardResetsClassification(t *testing.T) {
	s := pay.NewSession("s1")
	s.SelectAward(retailAward())
	require.NoError(t, s.SelectClassification(retailAward(), "R4"))

	// WHEN: switching to another award and back
	s.SelectAward(hospitalityAward())
	assert.Equal(t, "H2", s.ClassificationID)

	s.SelectAward(retailAward())
	assert.Equal(t, "R1", s.ClassificationID)
}

func TestSession_ClassificationMustBelongToActiveAward(t *testing.T) {
	s := pay.NewSession("s1")
	s.SelectAward(retailAward())

	err := s.SelectClassification(retailAward(), "H2")
	assert.ErrorIs(t, err, pay.ErrClassificationNotFound)
	assert.Equal(t, "R1", s.ClassificationID)

	err = s.SelectClassification(hospitalityAward(), "H2")
	assert.ErrorIs(t, err, pay.ErrNoAwardSelected, "not the active award")
}

func TestSession_EmptyAwardSelectsNothing(t *testing.T) {
	reg := newRegistry(t, award.Award{Code: "MA000777"})
	s := pay.NewSession("s1")
	a, _ := reg.Find("MA000777")
	s.SelectAward(a)

	assert.Equal(t, "", s.ClassificationID)
	_, err := s.Breakdown(reg)
	assert.ErrorIs(t, err, pay.ErrNoClassification)
}

func TestSession_SetShiftValidates(t *testing.T) {
	s := pay.NewSession("s1")
	err := s.SetShift(pay.Monday, pay.Shift{Hours: dec("-1")})

	var se *pay.ShiftError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, pay.Monday, se.Day)
	assert.True(t, s.Week[pay.Monday].Hours.IsZero(), "week unchanged")

	require.NoError(t, s.SetShift(pay.Monday, pay.Shift{Hours: dec("30")}), "above 24 accepted")
	assert.Equal(t, "shift-0", s.Week[pay.Monday].ID)
}

// =============================================================================
// SESSIONS TABLE
// =============================================================================

func TestSessions_CreateDefaultsToFirstAward(t *testing.T) {
	sessions := pay.NewSessions(newRegistry(t, retailAward(), hospitalityAward()))

	s, err := sessions.Create("")
	require.NoError(t, err)
	assert.Equal(t, "MA000004", s.AwardCode)
	assert.Equal(t, "R1", s.ClassificationID)
	assert.NotEmpty(t, s.ID)
}

func TestSessions_EmptyRegistrySignalsNoSelection(t *testing.T) {
	sessions := pay.NewSessions(award.NewRegistry(nil))
	s, err := sessions.Create("")
	require.NoError(t, err)

	_, err = sessions.Breakdown(s.ID)
	assert.ErrorIs(t, err, pay.ErrNoAwardSelected)
}

func TestSessions_RegistryUpsertRederivesClassification(t *testing.T) {
	// GIVEN: A session on MA000004 with R4 active
	reg := newRegistry(t, retailAward())
	sessions := pay.NewSessions(reg)
	s, err := sessions.Create("MA000004")
	require.NoError(t, err)
	_, err = sessions.SelectClassification(s.ID, "R4")
	require.NoError(t, err)

	// WHEN: MA000004 is re-ingested without R4
	replacement := award.Award{
		Code:            "MA000004",
		Classifications: []award.Classification{{ID: "NEW1", BaseRate: dec("30")}},
	}
	require.NoError(t, reg.Upsert(context.Background(), replacement))

	// THEN: The session points at the new first classification
	got, err := sessions.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "NEW1", got.ClassificationID)

	calc, err := sessions.Breakdown(s.ID)
	require.NoError(t, err)
	assert.True(t, calc.Breakdown.TotalGross.IsZero())
	assert.Equal(t, "NEW1", calc.Award.Classifications[0].ID, "breakdown reports the version it used")
}

func TestSessions_UpsertOfOtherAwardLeavesSelection(t *testing.T) {
	reg := newRegistry(t, retailAward())
	sessions := pay.NewSessions(reg)
	s, _ := sessions.Create("MA000004")
	_, err := sessions.SelectClassification(s.ID, "R4")
	require.NoError(t, err)

	require.NoError(t, reg.Upsert(context.Background(), hospitalityAward()))

	got, _ := sessions.Get(s.ID)
	assert.Equal(t, "R4", got.ClassificationID)
}

func TestSessions_SelectUnknownAward(t *testing.T) {
	sessions := pay.NewSessions(newRegistry(t, retailAward()))
	s, _ := sessions.Create("")

	_, err := sessions.SelectAward(s.ID, "MA000404")
	assert.True(t, award.IsNotFound(err))

	_, err = sessions.Get("missing")
	assert.ErrorIs(t, err, pay.ErrSessionNotFound)
}

func TestSessions_BreakdownUsesSelection(t *testing.T) {
	sessions := pay.NewSessions(newRegistry(t, retailAward()))
	s, _ := sessions.Create("MA000004")

	_, err := sessions.Update(s.ID, func(sess *pay.Session) error {
		return sess.SetShift(pay.Monday, pay.Shift{Hours: dec("8")})
	})
	require.NoError(t, err)

	calc, err := sessions.Breakdown(s.ID)
	require.NoError(t, err)
	assertDec(t, "202.16", calc.Breakdown.TotalGross, "gross")
	assert.Equal(t, s.ID, calc.Session.ID)
	assert.Equal(t, "MA000004", calc.Award.Code)
	assertDec(t, "25.27", calc.Award.Classifications[0].BaseRate, "award version used")
}

func TestParseDay(t *testing.T) {
	cases := map[string]pay.Day{
		"Monday": pay.Monday,
		"sun":    pay.Sunday,
		"5":      pay.Saturday,
		"FRIDAY": pay.Friday,
	}
	for in, want := range cases {
		got, err := pay.ParseDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := pay.ParseDay("7")
	assert.ErrorIs(t, err, pay.ErrInvalidShift)
	_, err = pay.ParseDay("someday")
	assert.ErrorIs(t, err, pay.ErrInvalidShift)
}
