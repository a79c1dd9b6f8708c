package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/pay"
	"github.com/fairpay/award-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAward_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, a := range catalog.SeedAwards() {
		require.NoError(t, s.SaveAward(ctx, a))
	}

	awards, err := s.ListAwards(ctx)
	require.NoError(t, err)
	require.Len(t, awards, 3)
	assert.Equal(t, "MA000004", awards[0].Code)
	assert.Equal(t, "MA000009", awards[1].Code)
	assert.Equal(t, "MA000010", awards[2].Code)
}

func TestSaveAward_ReplaceKeepsPositionAndBumpsVersion(t *testing.T) {
	// GIVEN: Three stored awards
	ctx := context.Background()
	s := newStore(t)
	for _, a := range catalog.SeedAwards() {
		require.NoError(t, s.SaveAward(ctx, a))
	}

	// WHEN: The hospitality award is replaced with an ingested version
	replacement := award.Award{
		Code:     "MA000009",
		Name:     "Hospitality Industry (General) Award 2020",
		Industry: "Hospitality",
		Classifications: []award.Classification{
			{ID: "H1", Title: "Introductory", BaseRate: decimal.RequireFromString("24.10"), CasualLoading: decimal.RequireFromString("0.25")},
		},
	}
	require.NoError(t, s.SaveAward(ctx, replacement))

	// THEN: It stays second, wholesale replaced, at version 2
	awards, err := s.ListAwards(ctx)
	require.NoError(t, err)
	require.Len(t, awards, 3)
	assert.Equal(t, "MA000009", awards[1].Code)
	assert.Equal(t, "Hospitality Industry (General) Award 2020", awards[1].Name)
	assert.Nil(t, awards[1].PenaltyRates)
	assert.Empty(t, awards[1].Allowances)

	version, err := s.AwardVersion(ctx, "MA000009")
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	version, err = s.AwardVersion(ctx, "MA999999")
	require.NoError(t, err)
	assert.Equal(t, 0, version)
}

func TestSaveAward_DecimalsRoundTripExactly(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveAward(ctx, catalog.RetailAward()))

	awards, err := s.ListAwards(ctx)
	require.NoError(t, err)
	require.Len(t, awards, 1)

	got := awards[0]
	assert.True(t, decimal.RequireFromString("25.27").Equal(got.Classifications[0].BaseRate))
	require.NotNil(t, got.PenaltyRates)
	assert.True(t, decimal.RequireFromString("1.3").Equal(got.PenaltyRates.NightShift))
	assert.True(t, decimal.RequireFromString("20.01").Equal(got.Allowances[1].Amount))
}

func TestSaveAward_EmptyCodeRejected(t *testing.T) {
	s := newStore(t)
	err := s.SaveAward(context.Background(), award.Award{Name: "nameless"})
	assert.ErrorIs(t, err, award.ErrEmptyCode)
}

func TestRegistry_LoadFromStore(t *testing.T) {
	// GIVEN: A registry writing through to SQLite
	ctx := context.Background()
	s := newStore(t)
	reg := award.NewRegistry(s)
	n, err := reg.Seed(ctx, catalog.SeedAwards())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// WHEN: A fresh registry loads from the same store
	restored := award.NewRegistry(s)
	require.NoError(t, restored.Load(ctx))

	// THEN: Same awards, same order
	assert.Equal(t, reg.Codes(), restored.Codes())
}

func TestCalculations_SaveAndList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	retail := catalog.RetailAward()
	week := pay.NewWeek()
	week.Set(pay.Monday, pay.Shift{Hours: decimal.NewFromInt(8)})
	b, err := pay.CalculateFor(&retail, "R1", week)
	require.NoError(t, err)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	first, err := s.SaveCalculation(ctx, sqlite.Calculation{
		AwardCode: "MA000004", ClassificationID: "R1", Week: week, Breakdown: b, CreatedAt: base,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := s.SaveCalculation(ctx, sqlite.Calculation{
		SessionID: "sess-1", AwardCode: "MA000004", ClassificationID: "R1", Week: week, Breakdown: b,
		CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	all, err := s.ListCalculations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, "sess-1", all[0].SessionID)
	assert.Empty(t, all[1].SessionID)
	assert.True(t, decimal.RequireFromString("202.16").Equal(all[1].Breakdown.TotalGross))
	assert.True(t, decimal.NewFromInt(8).Equal(all[1].Week[pay.Monday].Hours))

	limited, err := s.ListCalculations(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveAward(ctx, catalog.RetailAward()))

	require.NoError(t, s.Reset(ctx))

	awards, err := s.ListAwards(ctx)
	require.NoError(t, err)
	assert.Empty(t, awards)
}
