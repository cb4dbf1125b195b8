package analyze

import (
	"fmt"
	"math"

	"github.com/avestoai/avesto-go/core"
)

const (
	// Recommended SIP is 20% of annual income spread over 12 months,
	// capped at 50,000/month.
	sipIncomeShare = 0.20
	sipMonthlyCap  = 50_000
	// Only flag a gap when the recommendation beats the current monthly
	// contribution proxy by a meaningful margin.
	sipGapThreshold = 5_000
	// Assumed annual equity return for the first-year value figure.
	sipAnnualReturn = 0.12
	// 1% monthly over 10 years, for the annuity-due projection.
	sipMonthlyRate = 0.01
	sipHorizon     = 120

	// A liquid balance above half the portfolio value suggests under-deployment.
	rebalanceLiquidShare = 0.5
	rebalanceMinExcess   = 50_000
	rebalanceReturnGap   = 0.08
)

// InvestmentAnalyzer finds under-investment relative to income and cash
// sitting outside the portfolio.
type InvestmentAnalyzer struct{}

func (a *InvestmentAnalyzer) Name() string { return "investment" }

func (a *InvestmentAnalyzer) Analyze(s *core.FinancialSnapshot) []core.Opportunity {
	var opps []core.Opportunity
	if opp := a.sipGap(s); opp != nil {
		opps = append(opps, *opp)
	}
	if opp := a.rebalance(s); opp != nil {
		opps = append(opps, *opp)
	}
	return opps
}

func (a *InvestmentAnalyzer) sipGap(s *core.FinancialSnapshot) *core.Opportunity {
	income := annualIncome(s)
	recommended := math.Min(income*sipIncomeShare/12, sipMonthlyCap)

	// Proxy for the current monthly contribution: portfolio value spread
	// over a year.
	current := s.TotalInvestments / 12
	if recommended <= current+sipGapThreshold {
		return nil
	}
	additional := recommended - current

	// Annuity-due future value of the extra monthly contribution.
	futureValue := additional * ((math.Pow(1+sipMonthlyRate, sipHorizon) - 1) / sipMonthlyRate) * (1 + sipMonthlyRate)

	return &core.Opportunity{
		Type:                 core.TypeInvestmentGrowth,
		Priority:             core.PriorityHigh,
		Title:                fmt.Sprintf("Increase your SIP by ₹%.0f per month", additional),
		Description:          fmt.Sprintf("Investing 20%% of income suggests ₹%.0f/month against your current ₹%.0f. The extra ₹%.0f/month grows to roughly ₹%.0f over 10 years at 12%%.", recommended, current, additional, futureValue),
		PotentialAnnualValue: additional * 12 * sipAnnualReturn,
		EffortLevel:          core.EffortLow,
		TimeToImplement:      "1 week",
		ConfidenceScore:      0.8,
		RiskLevel:            "medium",
		Category:             "wealth_building",
		ActionSteps: []string{
			fmt.Sprintf("Raise your monthly SIP by ₹%.0f", additional),
			"Prefer diversified index funds for the increase",
			"Enable an annual step-up on the SIP",
		},
	}
}

func (a *InvestmentAnalyzer) rebalance(s *core.FinancialSnapshot) *core.Opportunity {
	liquid := s.LiquidBalance()
	if liquid <= rebalanceLiquidShare*s.TotalInvestments {
		return nil
	}
	excess := liquid - rebalanceLiquidShare*s.TotalInvestments
	if excess <= rebalanceMinExcess {
		return nil
	}

	return &core.Opportunity{
		Type:                 core.TypeInvestmentGrowth,
		Priority:             core.PriorityMedium,
		Title:                fmt.Sprintf("Deploy ₹%.0f of excess cash into investments", excess),
		Description:          fmt.Sprintf("Your liquid balance is large relative to your portfolio. Moving ₹%.0f into market instruments captures roughly ₹%.0f per year of additional return.", excess, excess*rebalanceReturnGap),
		PotentialAnnualValue: excess * rebalanceReturnGap,
		EffortLevel:          core.EffortMedium,
		TimeToImplement:      "2 weeks",
		ConfidenceScore:      0.75,
		RiskLevel:            "medium",
		Category:             "portfolio_optimization",
		ActionSteps: []string{
			"Keep your emergency reserve in cash",
			"Phase the excess into the market over a few tranches",
			"Match the allocation to your risk tolerance",
		},
	}
}
