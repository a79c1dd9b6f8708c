package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/fairpay/award-engine/api"
	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/pay"
)

var (
	calcAward          string
	calcClassification string
	calcWeekFile       string
	calcScenario       string
	calcJSON           bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate one week's pay",
	Long: `Prices a week of shifts against an award classification.

The week comes from a JSON file (--week) holding a list of shifts, or
from a built-in sample week (--scenario). Unlisted days are empty.

Week file format:
  [
    {"day": "Saturday", "hours": "6", "isCasual": true, "penaltyType": "saturday"},
    {"day": "Sunday", "hours": 8, "penaltyType": "sunday", "allowances": "10"}
  ]

Without --award the first award in the registry is used; without
--classification the award's first classification is used.

Example:
  fairpay calc --award MA000004 --classification R4 --week week.json`,
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&calcAward, "award", "a", "", "Award code (default: first award)")
	calcCmd.Flags().StringVar(&calcClassification, "classification", "", "Classification id (default: first)")
	calcCmd.Flags().StringVarP(&calcWeekFile, "week", "w", "", "JSON file with the week's shifts")
	calcCmd.Flags().StringVarP(&calcScenario, "scenario", "s", "", "Sample week id (see 'fairpay scenarios')")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "Print the breakdown as JSON")
	calcCmd.MarkFlagsMutuallyExclusive("week", "scenario")
}

func runCalc(cmd *cobra.Command, args []string) error {
	week, err := loadWeek()
	if err != nil {
		return err
	}

	reg, store, err := openRegistry(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := pickAward(reg, calcAward)
	if err != nil {
		return err
	}
	class, err := pay.ResolveClassification(a, calcClassification)
	if err != nil {
		return err
	}
	b, err := pay.CalculateFor(&a, class.ID, week)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if calcJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}
	renderBreakdown(out, a, class, b)
	return nil
}

func loadWeek() (pay.Week, error) {
	switch {
	case calcScenario != "":
		sc, err := api.FindScenario(calcScenario)
		if err != nil {
			return pay.Week{}, err
		}
		return sc.Week()
	case calcWeekFile != "":
		f, err := os.Open(calcWeekFile)
		if err != nil {
			return pay.Week{}, fmt.Errorf("failed to open week file: %w", err)
		}
		defer f.Close()
		return readWeek(f)
	default:
		return pay.Week{}, errors.New("one of --week or --scenario is required")
	}
}

// readWeek decodes a JSON list of shifts.
func readWeek(r io.Reader) (pay.Week, error) {
	var shifts []api.ShiftInput
	if err := json.NewDecoder(r).Decode(&shifts); err != nil {
		return pay.Week{}, fmt.Errorf("invalid week file: %w", err)
	}
	return api.BuildWeek(shifts)
}

// pickAward returns the award with code, or the first award when code is
// empty.
func pickAward(reg *award.Registry, code string) (award.Award, error) {
	if code != "" {
		return reg.Get(code)
	}
	a, ok := reg.First()
	if !ok {
		return award.Award{}, pay.ErrNoAwardSelected
	}
	return a, nil
}
