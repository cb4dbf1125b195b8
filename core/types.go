// Package core defines the shared domain types for the opportunity engine:
// the aggregated financial snapshot, candidate opportunities, and the final
// analysis result returned to callers.
package core

import "time"

// SourceKind identifies which upstream resource a record came from.
type SourceKind string

const (
	SourceBank       SourceKind = "bank"
	SourceMutualFund SourceKind = "mutual_fund"
	SourceEquity     SourceKind = "equity"
	SourceRetirement SourceKind = "retirement"
	SourceCredit     SourceKind = "credit"
)

// Category is a normalized transaction category derived from the narration.
type Category string

// Credit (positive amount) categories.
const (
	CategorySalary           Category = "salary"
	CategoryInterest         Category = "interest"
	CategoryInvestmentReturn Category = "investment_return"
	CategoryCredit           Category = "credit"
)

// Debit (negative amount) categories.
const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryUtilities     Category = "utilities"
	CategoryHealthcare    Category = "healthcare"
	CategoryEntertainment Category = "entertainment"
	CategoryLoanPayment   Category = "loan_payment"
	CategoryExpense       Category = "expense"
)

// CategoryInvestment marks fund and equity purchases. It is assigned by the
// source fetchers, never by the narration decoder, so that investment
// outflows are not mistaken for discretionary spending.
const CategoryInvestment Category = "investment"

// Account is a normalized bank account (savings or checking).
type Account struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"` // "savings", "checking"
	Bank    string  `json:"bank,omitempty"`
	Balance float64 `json:"balance"`
}

// Investment is a normalized investment holding.
type Investment struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"` // "mutual_fund", "stocks", "epf", "ppf", "elss", ...
	Name         string  `json:"name,omitempty"`
	CurrentValue float64 `json:"current_value"`
	Category     string  `json:"category"` // "equity", "debt", "retirement", "tax_saver", ...
}

// Debt is a normalized liability.
type Debt struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"` // "credit_card", "personal_loan", "home_loan", ...
	Balance      float64 `json:"balance"`
	InterestRate float64 `json:"interest_rate"` // percent per year
}

// Transaction is one normalized ledger entry. Amount is signed: expenses are
// negative, credits positive. The sign alone decides credit vs debit.
type Transaction struct {
	ID          string     `json:"id"`
	Date        time.Time  `json:"date"`
	Amount      float64    `json:"amount"`
	Category    Category   `json:"category"`
	Description string     `json:"description"`
	Source      SourceKind `json:"source_kind"`
}

// CashFlow holds a derived monthly/annual run-rate pair.
type CashFlow struct {
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// Profile is collaborator-owned user data merged into the snapshot.
type Profile struct {
	Age           int     `json:"age,omitempty"`
	AnnualIncome  float64 `json:"annual_income,omitempty"`
	RiskTolerance string  `json:"risk_tolerance,omitempty"` // "conservative", "moderate", "aggressive"
}

// MonthBucket aggregates one calendar month of bank activity.
type MonthBucket struct {
	Month    string  `json:"month"` // "2026-07"
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Count    int     `json:"count"`
}

// FinancialSnapshot is the aggregate root built once per analysis request.
// It is immutable after construction; analyzers only read it.
type FinancialSnapshot struct {
	UserID      string        `json:"user_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Accounts    []Account     `json:"accounts"`
	Investments []Investment  `json:"investments"`
	Debts       []Debt        `json:"debts"`
	CreditScore int           `json:"credit_score,omitempty"`

	// Transactions mixes bank, fund, and equity activity, newest first.
	Transactions []Transaction `json:"transactions"`
	MonthBuckets []MonthBucket `json:"month_buckets,omitempty"`

	Income   CashFlow `json:"income"`
	Expenses CashFlow `json:"expenses"`
	Profile  Profile  `json:"profile"`

	// Derived metrics, computed once during aggregation.
	NetWorth             float64            `json:"net_worth"`
	TotalAssets          float64            `json:"total_assets"`
	TotalInvestments     float64            `json:"total_investments"`
	TotalDebt            float64            `json:"total_debt"`
	DebtToIncomeRatio    float64            `json:"debt_to_income_ratio"`
	EmergencyFundMonths  float64            `json:"emergency_fund_months"`
	InvestmentAllocation map[string]float64 `json:"investment_allocation,omitempty"`

	// FallbackMode is true when demo data was substituted for live data.
	FallbackMode bool `json:"fallback_mode"`
	// DataSource is "live", "partial", or "demo".
	DataSource string `json:"data_source"`
	// SourceErrors records which fetchers failed, keyed by resource name.
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}

// LiquidBalance sums savings and checking account balances.
func (s *FinancialSnapshot) LiquidBalance() float64 {
	var total float64
	for _, acc := range s.Accounts {
		total += acc.Balance
	}
	return total
}

// SavingsBalance sums savings-account balances only.
func (s *FinancialSnapshot) SavingsBalance() float64 {
	var total float64
	for _, acc := range s.Accounts {
		if acc.Kind == "savings" {
			total += acc.Balance
		}
	}
	return total
}
