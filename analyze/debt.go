package analyze

import (
	"fmt"
	"strings"

	"github.com/avestoai/avesto-go/core"
)

const (
	debtMinBalance = 10_000
	// Credit-card APR above this is always worth paying down first.
	debtHighRate = 20.0
)

// DebtAnalyzer flags expensive revolving debt.
type DebtAnalyzer struct{}

func (a *DebtAnalyzer) Name() string { return "debt" }

func (a *DebtAnalyzer) Analyze(s *core.FinancialSnapshot) []core.Opportunity {
	var opps []core.Opportunity
	for _, debt := range s.Debts {
		if debt.Balance <= debtMinBalance {
			continue
		}
		if !strings.Contains(debt.Kind, "credit_card") || debt.InterestRate <= debtHighRate {
			continue
		}
		annualInterest := debt.Balance * debt.InterestRate / 100

		opps = append(opps, core.Opportunity{
			Type:                 core.TypeDebtReduction,
			Priority:             core.PriorityHigh,
			Title:                fmt.Sprintf("Pay off your ₹%.0f credit card balance", debt.Balance),
			Description:          fmt.Sprintf("This balance accrues ₹%.0f of interest per year at %.1f%%. Clearing it is a guaranteed return no investment matches.", annualInterest, debt.InterestRate),
			PotentialAnnualValue: annualInterest,
			EffortLevel:          core.EffortHigh,
			TimeToImplement:      "3-6 months",
			ConfidenceScore:      0.95,
			RiskLevel:            "low",
			Category:             "debt_management",
			ActionSteps: []string{
				"Stop new spending on this card",
				"Pay more than the minimum due every cycle",
				"Consider a balance transfer to a lower-rate product",
			},
		})
	}
	return opps
}
