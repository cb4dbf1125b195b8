package aggregate

import "github.com/avestoai/avesto-go/core"

// runRateWindow is the number of trailing month buckets averaged for the
// annual income/expense run-rate.
const runRateWindow = 6

// deriveMetrics fills every derived field on a merged snapshot. Pure over
// the snapshot's own collections; guards every ratio against division by
// zero (defined as 0 when the denominator is 0).
func deriveMetrics(s *core.FinancialSnapshot) {
	s.TotalAssets = 0
	for _, acc := range s.Accounts {
		s.TotalAssets += acc.Balance
	}
	s.TotalInvestments = 0
	for _, inv := range s.Investments {
		s.TotalInvestments += inv.CurrentValue
	}
	s.TotalDebt = 0
	for _, debt := range s.Debts {
		s.TotalDebt += debt.Balance
	}
	s.NetWorth = s.TotalAssets + s.TotalInvestments - s.TotalDebt

	s.Income, s.Expenses = deriveRunRates(s.MonthBuckets)

	if s.Income.Monthly > 0 {
		s.DebtToIncomeRatio = s.TotalDebt / (s.Income.Monthly * 12)
	} else {
		s.DebtToIncomeRatio = 0
	}

	if s.Expenses.Monthly > 0 {
		s.EmergencyFundMonths = s.LiquidBalance() / s.Expenses.Monthly
	} else {
		s.EmergencyFundMonths = 0
	}

	s.InvestmentAllocation = deriveAllocation(s.Investments)
}

// deriveRunRates computes the monthly and annual income/expense figures from
// calendar-month buckets (oldest first). Monthly is the most recent
// populated bucket; annual is 12 × the mean over the last ≤6 populated
// buckets — fewer than 6 months uses however many exist.
func deriveRunRates(buckets []core.MonthBucket) (income, expenses core.CashFlow) {
	populated := make([]core.MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			populated = append(populated, b)
		}
	}
	if len(populated) == 0 {
		return income, expenses
	}

	latest := populated[len(populated)-1]
	income.Monthly = latest.Income
	expenses.Monthly = latest.Expenses

	window := populated
	if len(window) > runRateWindow {
		window = window[len(window)-runRateWindow:]
	}
	var incomeSum, expenseSum float64
	for _, b := range window {
		incomeSum += b.Income
		expenseSum += b.Expenses
	}
	months := float64(len(window))
	income.Annual = 12 * (incomeSum / months)
	expenses.Annual = 12 * (expenseSum / months)
	return income, expenses
}

// deriveAllocation returns the percentage of total investment value held in
// each category. Empty when there are no investments.
func deriveAllocation(investments []core.Investment) map[string]float64 {
	var total float64
	for _, inv := range investments {
		total += inv.CurrentValue
	}
	if total == 0 {
		return nil
	}

	allocation := make(map[string]float64)
	for _, inv := range investments {
		category := inv.Category
		if category == "" {
			category = "other"
		}
		allocation[category] += inv.CurrentValue / total * 100
	}
	return allocation
}

// Summary is the dashboard summary block derived from a snapshot.
type Summary struct {
	NetWorth            float64 `json:"net_worth"`
	LiquidAssets        float64 `json:"liquid_assets"`
	Investments         float64 `json:"investments"`
	Debt                float64 `json:"debt"`
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	EmergencyFundMonths float64 `json:"emergency_fund_months"`
}

// Summarize projects a snapshot into its summary block.
func Summarize(s *core.FinancialSnapshot) Summary {
	return Summary{
		NetWorth:            s.NetWorth,
		LiquidAssets:        s.LiquidBalance(),
		Investments:         s.TotalInvestments,
		Debt:                s.TotalDebt,
		MonthlyIncome:       s.Income.Monthly,
		MonthlyExpenses:     s.Expenses.Monthly,
		EmergencyFundMonths: s.EmergencyFundMonths,
	}
}
