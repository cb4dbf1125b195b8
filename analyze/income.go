package analyze

import (
	"fmt"

	"github.com/avestoai/avesto-go/core"
)

const (
	// Career moves pay off most before this age.
	incomeMaxAge = 40
	// Typical raise from a skill upgrade or switch.
	incomeUpliftShare = 0.15
)

// IncomeAnalyzer suggests career-stage income growth for younger earners.
type IncomeAnalyzer struct{}

func (a *IncomeAnalyzer) Name() string { return "income" }

func (a *IncomeAnalyzer) Analyze(s *core.FinancialSnapshot) []core.Opportunity {
	income := annualIncome(s)
	if s.Profile.Age <= 0 || s.Profile.Age >= incomeMaxAge || income <= 0 {
		return nil
	}
	uplift := income * incomeUpliftShare

	return []core.Opportunity{{
		Type:                 core.TypeIncomeEnhancement,
		Priority:             core.PriorityMedium,
		Title:                "Invest in skills to grow your income",
		Description:          fmt.Sprintf("At your career stage, upskilling or a strategic switch typically lifts income by %.0f%%, about ₹%.0f per year.", incomeUpliftShare*100, uplift),
		PotentialAnnualValue: uplift,
		EffortLevel:          core.EffortHigh,
		TimeToImplement:      "6-12 months",
		ConfidenceScore:      0.65,
		RiskLevel:            "low",
		Category:             "career_growth",
		ActionSteps: []string{
			"Identify the highest-leverage skill in your field",
			"Block weekly time for a structured course or certification",
			"Benchmark your compensation against the market",
		},
	}}
}
