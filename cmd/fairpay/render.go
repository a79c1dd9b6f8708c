package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/fairpay/award-engine/api"
	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/pay"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
)

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// renderBreakdown prints the per-day table followed by the totals.
func renderBreakdown(w io.Writer, a award.Award, class award.Classification, b pay.Breakdown) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%s)", a.Name, a.Code)))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s, %s/hr", class.Title, money(class.BaseRate))))

	t := newTable("DAY", "HOURS", "PENALTY", "RATE", "BASE", "PENALTIES", "CASUAL", "ALLOWANCES", "TOTAL")
	for _, d := range b.Days {
		if d.Hours.IsZero() && d.Allowances.IsZero() {
			continue
		}
		t.Row(
			d.Day,
			d.Hours.String(),
			string(d.PenaltyType),
			"x"+d.Multiplier.String(),
			money(d.BasePay),
			money(d.PenaltyPay),
			money(d.CasualLoadingPay),
			money(d.Allowances),
			money(d.Total),
		)
	}
	fmt.Fprintln(w, t.Render())

	totals := newTable("", "")
	totals.Row("Total hours", b.TotalHours.String())
	for _, c := range b.Components() {
		totals.Row(c.Name, money(c.Value))
	}
	totals.Row("Gross", money(b.TotalGross))
	totals.Row("Superannuation (11.5%)", money(b.Superannuation))
	fmt.Fprintln(w, totals.Render())
	fmt.Fprintln(w, totalStyle.Render("Total package: "+money(b.TotalPackage())))

	if len(a.Allowances) > 0 {
		fmt.Fprintln(w, mutedStyle.Render("Award allowances for reference:"))
		for _, al := range a.Allowances {
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  %s %s", al.Name, money(al.Amount))))
		}
	}
}

func renderAwards(w io.Writer, awards []award.Award) {
	t := newTable("CODE", "NAME", "INDUSTRY", "CLASSIFICATIONS", "SAT", "SUN", "PH", "PENALTIES")
	for _, a := range awards {
		rates := a.EffectiveRates()
		source := "own"
		if a.PenaltyRates == nil {
			source = "standard"
		}
		t.Row(
			a.Code,
			a.Name,
			a.Industry,
			strconv.Itoa(len(a.Classifications)),
			"x"+rates.Saturday.String(),
			"x"+rates.Sunday.String(),
			"x"+rates.PublicHoliday.String(),
			source,
		)
	}
	fmt.Fprintln(w, t.Render())
}

func renderClassifications(w io.Writer, a award.Award) {
	t := newTable("ID", "TITLE", "BASE RATE", "CASUAL LOADING")
	for _, c := range a.Classifications {
		t.Row(c.ID, c.Title, money(c.BaseRate), c.CasualLoading.Shift(2).String()+"%")
	}
	fmt.Fprintln(w, t.Render())
}

func renderDocuments(w io.Writer, docs []catalog.Document) {
	t := newTable("CODE", "TITLE", "INDUSTRY", "URL")
	for _, d := range docs {
		t.Row(d.AwardCode, d.Title, d.Industry, d.URL)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d documents", len(docs))))
}

func renderScenarios(w io.Writer, scenarios []api.ScenarioDTO) {
	t := newTable("ID", "NAME", "SHIFTS", "DESCRIPTION")
	for _, s := range scenarios {
		t.Row(s.ID, s.Name, strconv.Itoa(len(s.Shifts)), s.Description)
	}
	fmt.Fprintln(w, t.Render())
}
