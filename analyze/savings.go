package analyze

import (
	"fmt"

	"github.com/avestoai/avesto-go/core"
)

const (
	// Idle-cash detection: liquid balance above this is worth moving.
	highYieldMinLiquid = 50_000
	// Typical savings-account rate vs a high-yield alternative.
	baselineRate  = 0.035
	highYieldRate = 0.075
	// Gains below this are not worth surfacing.
	highYieldMinGain  = 5_000
	highYieldHighGain = 15_000

	emergencyTargetMonths = 6
	// Opportunity value of closing the emergency-fund gap, per year.
	emergencyValueRate = 0.10
)

// SavingsAnalyzer finds idle cash earning below-market interest and
// under-funded emergency reserves.
type SavingsAnalyzer struct{}

func (a *SavingsAnalyzer) Name() string { return "savings" }

func (a *SavingsAnalyzer) Analyze(s *core.FinancialSnapshot) []core.Opportunity {
	var opps []core.Opportunity
	if opp := a.highYield(s); opp != nil {
		opps = append(opps, *opp)
	}
	if opp := a.emergencyFund(s); opp != nil {
		opps = append(opps, *opp)
	}
	return opps
}

func (a *SavingsAnalyzer) highYield(s *core.FinancialSnapshot) *core.Opportunity {
	liquid := s.LiquidBalance()
	if liquid <= highYieldMinLiquid {
		return nil
	}
	gain := liquid * (highYieldRate - baselineRate)
	if gain <= highYieldMinGain {
		return nil
	}

	priority := core.PriorityMedium
	if gain > highYieldHighGain {
		priority = core.PriorityHigh
	}

	return &core.Opportunity{
		Type:                 core.TypeSavingsOptimization,
		Priority:             priority,
		Title:                "Move idle cash to a high-yield savings account",
		Description:          fmt.Sprintf("₹%.0f sitting in regular accounts earns roughly %.1f%%. A high-yield account at %.1f%% adds ₹%.0f per year without any lock-in.", liquid, baselineRate*100, highYieldRate*100, gain),
		PotentialAnnualValue: gain,
		EffortLevel:          core.EffortLow,
		TimeToImplement:      "1 day",
		ConfidenceScore:      0.95,
		RiskLevel:            "very_low",
		Category:             "immediate_gain",
		ActionSteps: []string{
			"Compare high-yield savings rates across banks",
			"Open the account online",
			"Transfer the idle balance, keeping one month of expenses accessible",
		},
	}
}

func (a *SavingsAnalyzer) emergencyFund(s *core.FinancialSnapshot) *core.Opportunity {
	savings := s.SavingsBalance()
	target := emergencyTargetMonths * s.Expenses.Monthly
	if target <= savings || savings <= 0 {
		return nil
	}
	shortfall := target - savings

	return &core.Opportunity{
		Type:                 core.TypeRiskMitigation,
		Priority:             core.PriorityMedium,
		Title:                "Build a full emergency fund",
		Description:          fmt.Sprintf("Your emergency reserve covers less than %d months of expenses. Closing the ₹%.0f gap protects against income shocks.", emergencyTargetMonths, shortfall),
		PotentialAnnualValue: shortfall * emergencyValueRate,
		EffortLevel:          core.EffortMedium,
		TimeToImplement:      "6-12 months",
		ConfidenceScore:      0.9,
		RiskLevel:            "low",
		Category:             "financial_security",
		ActionSteps: []string{
			"Set up an automatic monthly transfer to a separate savings account",
			"Park the fund in a liquid instrument, not equities",
			fmt.Sprintf("Target ₹%.0f (%d months of expenses)", target, emergencyTargetMonths),
		},
	}
}
