package provider

import (
	"time"

	"github.com/avestoai/avesto-go/core"
	"github.com/avestoai/avesto-go/normalize"
)

// Demo data used whenever live aggregation is impossible: provider auth
// failure, a fully failed fetch round, or an aggregation error. Everything
// here is deterministic for a given clock so demos and tests are repeatable.

// DemoSnapshot builds the fixed substitute snapshot. Collections are
// populated; derived metrics are left for the aggregator to compute the same
// way it computes them for live data.
func DemoSnapshot(userID string, now time.Time) *core.FinancialSnapshot {
	snapshot := &core.FinancialSnapshot{
		UserID:      userID,
		GeneratedAt: now,
		Accounts: []core.Account{
			{ID: "acc1", Kind: "savings", Bank: "Fi Money", Balance: 250000},
			{ID: "acc2", Kind: "checking", Bank: "HDFC", Balance: 45000},
		},
		Investments: []core.Investment{
			{ID: "inv1", Kind: "mutual_fund", Name: "Index Growth Fund", CurrentValue: 450000, Category: "equity"},
			{ID: "inv2", Kind: "stocks", Name: "Direct Equity", CurrentValue: 180000, Category: "equity"},
		},
		Debts: []core.Debt{
			{ID: "debt1", Kind: "credit_card", Balance: 35000, InterestRate: 24.0},
		},
		CreditScore:  746,
		Transactions: demoTransactions(now),
		MonthBuckets: demoBuckets(now),
		Profile: core.Profile{
			Age:           32,
			AnnualIncome:  1440000,
			RiskTolerance: "moderate",
		},
		FallbackMode: true,
		DataSource:   "demo",
	}
	return snapshot
}

// demoTransactions yields three months of fixed activity, newest first.
func demoTransactions(now time.Time) []core.Transaction {
	type entry struct {
		daysAgo     int
		amount      float64
		description string
	}
	entries := []entry{
		{2, -450, "SWIGGY ORDER 88213"},
		{3, -1800, "AMAZON PAY PURCHASE"},
		{4, -240, "UBER TRIP 4471"},
		{5, 120000, "MONTHLY SALARY CREDIT"},
		{7, -1450, "ELECTRICITY BILL BESCOM"},
		{9, -649, "NETFLIX SUBSCRIPTION"},
		{11, -3200, "BIGBASKET GROCERY"},
		{14, -25000, "HOME RENT TRANSFER"},
		{18, -630, "APOLLO PHARMACY"},
		{21, -900, "MISC POS 10021"},
		{25, -2400, "MYNTRA SHOPPING"},
		{33, -520, "ZOMATO ORDER 11320"},
		{35, 120000, "MONTHLY SALARY CREDIT"},
		{37, -1400, "ELECTRICITY BILL BESCOM"},
		{41, -5000, "IRCTC TICKETS"},
		{44, -25000, "HOME RENT TRANSFER"},
		{49, -1150, "DTH RECHARGE"},
		{55, -3600, "RESTAURANT DINNER"},
		{63, -780, "OLA CAB"},
		{65, 120000, "MONTHLY SALARY CREDIT"},
		{68, -25000, "HOME RENT TRANSFER"},
		{72, -2100, "FLIPKART ORDER"},
		{80, 412.5, "SB INTEREST"},
		{84, -990, "BOOKMYSHOW TICKETS"},
	}

	transactions := make([]core.Transaction, 0, len(entries))
	for i, e := range entries {
		date := now.AddDate(0, 0, -e.daysAgo)
		transactions = append(transactions, core.Transaction{
			ID:          demoTxnID(i),
			Date:        date,
			Amount:      e.amount,
			Category:    normalize.Categorize(e.description, e.amount),
			Description: e.description,
			Source:      core.SourceBank,
		})
	}
	return transactions
}

// demoBuckets mirrors the demo transactions at month granularity, oldest
// first, rounded to the original demo run-rate (120k income / 75k expenses).
func demoBuckets(now time.Time) []core.MonthBucket {
	buckets := make([]core.MonthBucket, 0, 3)
	for monthsAgo := 2; monthsAgo >= 0; monthsAgo-- {
		month := now.AddDate(0, -monthsAgo, 0).Format("2006-01")
		buckets = append(buckets, core.MonthBucket{
			Month:    month,
			Income:   120000,
			Expenses: 75000,
			Count:    8,
		})
	}
	return buckets
}

func demoTxnID(i int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz"
	return "demo_txn_" + string(chars[i%len(chars)]) + string(chars[(i*7)%len(chars)])
}
