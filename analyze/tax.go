package analyze

import (
	"fmt"

	"github.com/avestoai/avesto-go/core"
)

const (
	// Below this income the standard regime leaves little to optimize.
	taxMinIncome = 500_000
	// Section 80C deduction ceiling.
	taxDeductionCeiling = 150_000
)

// taxSaverKinds are the instrument kinds and categories that count toward
// the deduction ceiling.
var taxSaverKinds = map[string]bool{
	"ppf":       true,
	"elss":      true,
	"tax_saver": true,
}

// TaxAnalyzer finds unused tax-deduction headroom.
type TaxAnalyzer struct{}

func (a *TaxAnalyzer) Name() string { return "tax" }

func (a *TaxAnalyzer) Analyze(s *core.FinancialSnapshot) []core.Opportunity {
	income := annualIncome(s)
	if income <= taxMinIncome {
		return nil
	}

	var current float64
	for _, inv := range s.Investments {
		if taxSaverKinds[inv.Kind] || taxSaverKinds[inv.Category] {
			current += inv.CurrentValue
		}
	}
	if current >= taxDeductionCeiling {
		return nil
	}
	shortfall := taxDeductionCeiling - current
	saving := shortfall * marginalRate(income)

	return []core.Opportunity{{
		Type:                 core.TypeTaxOptimization,
		Priority:             core.PriorityMedium,
		Title:                fmt.Sprintf("Use ₹%.0f of unused tax deduction room", shortfall),
		Description:          fmt.Sprintf("You hold ₹%.0f in tax-saver instruments against a ₹%.0f ceiling. Filling the gap saves about ₹%.0f in tax this year.", current, float64(taxDeductionCeiling), saving),
		PotentialAnnualValue: saving,
		EffortLevel:          core.EffortLow,
		TimeToImplement:      "1 month",
		ConfidenceScore:      0.9,
		RiskLevel:            "low",
		Category:             "tax_planning",
		ActionSteps: []string{
			"Top up PPF or start an ELSS SIP",
			fmt.Sprintf("Invest ₹%.0f before the financial year ends", shortfall),
			"Keep the proofs for filing",
		},
	}}
}

// marginalRate approximates the effective marginal tax rate by income band.
func marginalRate(income float64) float64 {
	switch {
	case income > 1_000_000:
		return 0.30
	case income > 500_000:
		return 0.20
	default:
		return 0.05
	}
}
