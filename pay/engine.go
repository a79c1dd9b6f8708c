/*
engine.go - Weekly pay breakdown

ALGORITHM (per shift, Monday to Sunday):
 1. multiplier = rates.Multiplier(penaltyType)   (None = 1.0)
 2. basePay          += hours * baseRate
 3. penaltyPay       += hours * baseRate * (multiplier - 1)   only if multiplier > 1
 4. casualLoadingPay += hours * baseRate * casualLoading       only if casual
 5. allowances       += shift allowances                       flat

	totalGross     = basePay + penaltyPay + casualLoadingPay + allowances
	superannuation = totalGross * 0.115

POLICY NOTES:
  - Multipliers at or below 1.0 add nothing. A sub-1.0 multiplier never
    reduces pay.
  - Casual loading and penalties stack; neither suppresses the other.
  - The penalty table is resolved once per calculation. Awards without a
    table use award.StandardPenalties; partial tables are used as-is.
  - Superannuation is a statutory rate, not an award setting.

The engine is pure: no shared state, inputs never mutated.
*/
package pay

import (
	"github.com/shopspring/decimal"

	"github.com/fairpay/award-engine/award"
)

// SuperannuationRate is the superannuation guarantee percentage.
var SuperannuationRate = decimal.RequireFromString("0.115")

var one = decimal.NewFromInt(1)

// Calculate computes the breakdown for week at class's rates.
func Calculate(rates award.PenaltyRates, class award.Classification, week Week) Breakdown {
	b := Breakdown{Rates: rates}

	for i, s := range week {
		line := DayLine{
			Day:         Day(i).String(),
			Hours:       s.Hours,
			PenaltyType: s.PenaltyType,
			Multiplier:  rates.Multiplier(s.PenaltyType),
		}
		if line.PenaltyType == "" {
			line.PenaltyType = award.PenaltyNone
		}

		ordinary := s.Hours.Mul(class.BaseRate)
		line.BasePay = ordinary

		if line.Multiplier.GreaterThan(one) {
			line.PenaltyPay = ordinary.Mul(line.Multiplier.Sub(one))
		}
		if s.IsCasual {
			line.CasualLoadingPay = ordinary.Mul(class.CasualLoading)
		}
		line.Allowances = s.Allowances
		line.Total = line.BasePay.Add(line.PenaltyPay).Add(line.CasualLoadingPay).Add(line.Allowances)

		b.BasePay = b.BasePay.Add(line.BasePay)
		b.PenaltyPay = b.PenaltyPay.Add(line.PenaltyPay)
		b.CasualLoadingPay = b.CasualLoadingPay.Add(line.CasualLoadingPay)
		b.Allowances = b.Allowances.Add(line.Allowances)
		b.TotalHours = b.TotalHours.Add(s.Hours)
		b.Days[i] = line
	}

	b.TotalGross = b.BasePay.Add(b.PenaltyPay).Add(b.CasualLoadingPay).Add(b.Allowances)
	b.Superannuation = b.TotalGross.Mul(SuperannuationRate)
	return b
}

// CalculateFor resolves the classification within a and calculates.
// An empty classificationID selects the award's first classification.
func CalculateFor(a *award.Award, classificationID string, week Week) (Breakdown, error) {
	if a == nil {
		return Breakdown{}, ErrNoAwardSelected
	}
	class, err := ResolveClassification(*a, classificationID)
	if err != nil {
		return Breakdown{}, err
	}
	return Calculate(a.EffectiveRates(), class, week), nil
}

// ResolveClassification applies the defaulting rule: empty id means the
// first classification of the award.
func ResolveClassification(a award.Award, classificationID string) (award.Classification, error) {
	if len(a.Classifications) == 0 {
		return award.Classification{}, ErrNoClassification
	}
	if classificationID == "" {
		return a.Classifications[0], nil
	}
	class, ok := a.Classification(classificationID)
	if !ok {
		return award.Classification{}, &ClassificationNotFoundError{
			AwardCode:        a.Code,
			ClassificationID: classificationID,
		}
	}
	return class, nil
}
