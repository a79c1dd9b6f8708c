package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/pay"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args,
		"--db", ":memory:",
		"--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestReadWeek_AcceptsNumbersAndStrings(t *testing.T) {
	week, err := readWeek(strings.NewReader(`[
		{"day": "Sat", "hours": "6", "isCasual": true, "penaltyType": "saturday"},
		{"day": "sunday", "hours": 8, "penaltyType": "sunday", "allowances": 10}
	]`))
	require.NoError(t, err)

	assert.True(t, week[pay.Saturday].Hours.Equal(decimal.NewFromInt(6)))
	assert.True(t, week[pay.Saturday].IsCasual)
	assert.Equal(t, award.PenaltySunday, week[pay.Sunday].PenaltyType)
	assert.True(t, week[pay.Sunday].Allowances.Equal(decimal.NewFromInt(10)))
	assert.True(t, week[pay.Monday].Hours.IsZero())
}

func TestReadWeek_RejectsBadInput(t *testing.T) {
	_, err := readWeek(strings.NewReader(`{"day": "Mon"}`))
	assert.Error(t, err)

	_, err = readWeek(strings.NewReader(`[{"day": "Funday", "hours": 1}]`))
	assert.ErrorIs(t, err, pay.ErrInvalidShift)

	_, err = readWeek(strings.NewReader(`[{"day": "Mon", "hours": -1}]`))
	assert.ErrorIs(t, err, pay.ErrInvalidShift)
}

func TestPickAward(t *testing.T) {
	reg := award.NewRegistry(nil)

	_, err := pickAward(reg, "")
	assert.ErrorIs(t, err, pay.ErrNoAwardSelected)

	_, err = reg.Seed(t.Context(), catalog.SeedAwards())
	require.NoError(t, err)

	a, err := pickAward(reg, "")
	require.NoError(t, err)
	assert.Equal(t, catalog.SeedAwards()[0].Code, a.Code)

	_, err = pickAward(reg, "MA999999")
	assert.True(t, award.IsNotFound(err))
}

func TestReadDocument_DetectsType(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(txt, []byte("Level 1 $25.27"), 0o644))
	pdf := filepath.Join(dir, "guide")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7\n..."), 0o644))

	doc, err := readDocument(txt)
	require.NoError(t, err)
	assert.Equal(t, "guide.txt", doc.Name)
	assert.Equal(t, "text/plain", doc.MIMEType)
	assert.True(t, doc.IsText())

	doc, err = readDocument(pdf)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MIMEType)
	assert.False(t, doc.IsText())

	_, err = readDocument(filepath.Join(dir, "nope.pdf"))
	assert.Error(t, err)
}

func TestCalcCommand_ScenarioJSON(t *testing.T) {
	// GIVEN: a fresh in-memory registry seeded with the built-in awards
	// WHEN: a full-time week is priced for Retail Level 1
	out := execute(t, "calc", "--award", "MA000004", "--classification", "R1", "--scenario", "full-time-week", "--json")

	// THEN: 38 ordinary hours at $25.27
	var b pay.Breakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.True(t, b.TotalHours.Equal(decimal.RequireFromString("38")), b.TotalHours.String())
	assert.True(t, b.TotalGross.Equal(decimal.RequireFromString("960.26")), b.TotalGross.String())
	assert.True(t, b.PenaltyPay.IsZero())
}

func TestAwardsCommand_ListsSeedAwards(t *testing.T) {
	out := execute(t, "awards")

	for _, a := range catalog.SeedAwards() {
		assert.Contains(t, out, a.Code)
	}
	assert.Contains(t, out, "x1.25")
}
