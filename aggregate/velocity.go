package aggregate

import (
	"time"

	"github.com/avestoai/avesto-go/core"
)

// SpendingVelocity compares the last 7 days of spending against the 7 days
// before that.
type SpendingVelocity struct {
	Velocity         float64 `json:"velocity"` // percent change
	Trend            string  `json:"trend"`    // "increasing", "decreasing", "stable"
	LastWeekSpend    float64 `json:"last_week_spending"`
	PrevWeekSpend    float64 `json:"prev_week_spending"`
}

// DeriveVelocity computes the week-over-week spending trend. A ±10% band
// counts as stable; no prior-week spending counts as stable with velocity 0.
func DeriveVelocity(s *core.FinancialSnapshot, now time.Time) SpendingVelocity {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var lastWeek, prevWeek float64
	for _, txn := range s.Transactions {
		if txn.Amount >= 0 {
			continue
		}
		switch {
		case txn.Date.After(weekAgo):
			lastWeek += -txn.Amount
		case txn.Date.After(twoWeeksAgo):
			prevWeek += -txn.Amount
		}
	}

	result := SpendingVelocity{LastWeekSpend: lastWeek, PrevWeekSpend: prevWeek, Trend: "stable"}
	if prevWeek == 0 {
		return result
	}

	result.Velocity = (lastWeek - prevWeek) / prevWeek * 100
	if result.Velocity > 10 {
		result.Trend = "increasing"
	} else if result.Velocity < -10 {
		result.Trend = "decreasing"
	}
	return result
}

// ChatContext is the compact snapshot projection handed to the LLM
// collaborator: enough to ground a conversation, small enough to inline in
// a prompt.
type ChatContext struct {
	CurrentBalance     float64            `json:"current_balance"`
	MonthlyIncome      float64            `json:"monthly_income"`
	MonthlyExpenses    float64            `json:"monthly_expenses"`
	InvestmentValue    float64            `json:"investment_value"`
	DebtAmount         float64            `json:"debt_amount"`
	RiskProfile        string             `json:"risk_profile"`
	RecentTransactions []core.Transaction `json:"recent_transactions"` // at most 5
}

// ForChat projects a snapshot into its chat context.
func ForChat(s *core.FinancialSnapshot) ChatContext {
	recent := s.Transactions
	if len(recent) > 5 {
		recent = recent[:5]
	}

	risk := s.Profile.RiskTolerance
	if risk == "" {
		risk = "moderate"
	}

	return ChatContext{
		CurrentBalance:     s.LiquidBalance(),
		MonthlyIncome:      s.Income.Monthly,
		MonthlyExpenses:    s.Expenses.Monthly,
		InvestmentValue:    s.TotalInvestments,
		DebtAmount:         s.TotalDebt,
		RiskProfile:        risk,
		RecentTransactions: recent,
	}
}
