package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avestoai/avesto-go/core"
	"github.com/avestoai/avesto-go/provider"
)

var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

// fakeSource returns canned partials and can be told to fail or panic per
// resource.
type fakeSource struct {
	failNetWorth bool
	failBank     bool
	panicCredit  bool
	failAll      bool
}

func (f *fakeSource) FetchNetWorth(ctx context.Context, userID string) (*provider.NetWorthPartial, error) {
	if f.failAll || f.failNetWorth {
		return nil, errors.New("net worth unavailable")
	}
	return &provider.NetWorthPartial{
		Accounts: []core.Account{
			{ID: "acc1", Kind: "savings", Balance: 250000},
			{ID: "acc2", Kind: "checking", Balance: 45000},
		},
	}, nil
}

func (f *fakeSource) FetchCreditReport(ctx context.Context, userID string) (*provider.CreditPartial, error) {
	if f.failAll {
		return nil, errors.New("credit unavailable")
	}
	if f.panicCredit {
		panic("bureau parser exploded")
	}
	return &provider.CreditPartial{
		Score: 746,
		Debts: []core.Debt{{ID: "cc1", Kind: "credit_card", Balance: 35000, InterestRate: 24.0}},
	}, nil
}

func (f *fakeSource) FetchRetirement(ctx context.Context, userID string) (*provider.RetirementPartial, error) {
	if f.failAll {
		return nil, errors.New("retirement unavailable")
	}
	return &provider.RetirementPartial{
		Investments: []core.Investment{{ID: "epf", Kind: "epf", CurrentValue: 400000, Category: "retirement"}},
	}, nil
}

func (f *fakeSource) FetchFundTransactions(ctx context.Context, userID string) (*provider.FundsPartial, error) {
	if f.failAll {
		return nil, errors.New("funds unavailable")
	}
	return &provider.FundsPartial{
		Holdings: []core.Investment{{ID: "mf1", Kind: "mutual_fund", CurrentValue: 450000, Category: "equity"}},
		Transactions: []core.Transaction{
			{ID: "mf-txn", Date: testNow.AddDate(0, 0, -10), Amount: -10000, Category: core.CategoryInvestment, Source: core.SourceMutualFund},
		},
	}, nil
}

func (f *fakeSource) FetchBankTransactions(ctx context.Context, userID string) (*provider.BankPartial, error) {
	if f.failAll || f.failBank {
		return nil, errors.New("bank unavailable")
	}
	return &provider.BankPartial{
		Transactions: []core.Transaction{
			{ID: "b1", Date: testNow.AddDate(0, 0, -1), Amount: 100000, Category: core.CategorySalary, Source: core.SourceBank},
			{ID: "b2", Date: testNow.AddDate(0, 0, -2), Amount: -450, Category: core.CategoryFood, Source: core.SourceBank},
		},
		Buckets: []core.MonthBucket{
			{Month: "2026-06", Income: 90000, Expenses: 60000, Count: 10},
			{Month: "2026-07", Income: 100000, Expenses: 70000, Count: 12},
			{Month: "2026-08", Income: 100000, Expenses: 50000, Count: 9},
		},
	}, nil
}

func (f *fakeSource) FetchEquityTransactions(ctx context.Context, userID string) (*provider.EquitiesPartial, error) {
	if f.failAll {
		return nil, errors.New("equities unavailable")
	}
	return &provider.EquitiesPartial{
		Holdings: []core.Investment{{ID: "eq1", Kind: "stocks", CurrentValue: 180000, Category: "equity"}},
	}, nil
}

func newTestAggregator(source Source) *Aggregator {
	return New(source, nil, Config{Clock: func() time.Time { return testNow }}, zerolog.Nop())
}

func TestSnapshotMergesAllSources(t *testing.T) {
	agg := newTestAggregator(&fakeSource{})
	s := agg.Snapshot(context.Background(), "user-1")

	assert.Equal(t, "live", s.DataSource)
	assert.False(t, s.FallbackMode)
	assert.Len(t, s.Accounts, 2)
	assert.Len(t, s.Investments, 3)
	require.Len(t, s.Debts, 1)
	assert.Equal(t, 746, s.CreditScore)

	// Derived metrics.
	assert.Equal(t, 295000.0, s.TotalAssets)
	assert.Equal(t, 1030000.0, s.TotalInvestments)
	assert.Equal(t, 35000.0, s.TotalDebt)
	assert.Equal(t, 295000.0+1030000.0-35000.0, s.NetWorth)

	// Monthly = latest populated bucket; annual = 12 × mean of the window.
	assert.Equal(t, 100000.0, s.Income.Monthly)
	assert.Equal(t, 50000.0, s.Expenses.Monthly)
	assert.InDelta(t, 12*(90000.0+100000.0+100000.0)/3, s.Income.Annual, 1e-9)
	assert.InDelta(t, 12*(60000.0+70000.0+50000.0)/3, s.Expenses.Annual, 1e-9)

	assert.InDelta(t, 35000.0/(100000.0*12), s.DebtToIncomeRatio, 1e-9)
	assert.InDelta(t, 295000.0/50000.0, s.EmergencyFundMonths, 1e-9)

	// Transactions sorted newest first across sources.
	require.Len(t, s.Transactions, 3)
	assert.Equal(t, "b1", s.Transactions[0].ID)
	assert.Equal(t, "mf-txn", s.Transactions[2].ID)
}

func TestOneFailingFetcherBlanksOnlyItsContribution(t *testing.T) {
	agg := newTestAggregator(&fakeSource{failBank: true})
	s := agg.Snapshot(context.Background(), "user-1")

	assert.Equal(t, "partial", s.DataSource)
	assert.Contains(t, s.SourceErrors, "bank_transactions")

	// Other resources are intact.
	assert.Len(t, s.Accounts, 2)
	assert.Len(t, s.Investments, 3)
	assert.Len(t, s.Debts, 1)

	// Only the bank contribution is blanked.
	assert.Empty(t, s.MonthBuckets)
	assert.Equal(t, 0.0, s.Income.Monthly)
}

func TestPanickingFetcherIsContained(t *testing.T) {
	agg := newTestAggregator(&fakeSource{panicCredit: true})
	s := agg.Snapshot(context.Background(), "user-1")

	assert.Equal(t, "partial", s.DataSource)
	assert.Contains(t, s.SourceErrors["credit_report"], "panic")
	assert.Len(t, s.Accounts, 2)
}

func TestAllFetchersFailingServesDemoSnapshot(t *testing.T) {
	agg := newTestAggregator(&fakeSource{failAll: true})
	s := agg.Snapshot(context.Background(), "user-1")

	assert.True(t, s.FallbackMode)
	assert.Equal(t, "demo", s.DataSource)
	assert.NotEmpty(t, s.Accounts)
	assert.Greater(t, s.NetWorth, 0.0)
	// Demo run-rate matches the fixed buckets.
	assert.Equal(t, 120000.0, s.Income.Monthly)
	assert.Equal(t, 75000.0, s.Expenses.Monthly)
}

func TestZeroIncomeAndExpenseGuards(t *testing.T) {
	s := &core.FinancialSnapshot{
		Accounts: []core.Account{{Kind: "savings", Balance: 1000}},
		Debts:    []core.Debt{{Balance: 5000}},
	}
	deriveMetrics(s)
	assert.Equal(t, 0.0, s.DebtToIncomeRatio)
	assert.Equal(t, 0.0, s.EmergencyFundMonths)
}

func TestRunRateUsesAtMostSixBuckets(t *testing.T) {
	buckets := make([]core.MonthBucket, 0, 9)
	for i := 0; i < 9; i++ {
		buckets = append(buckets, core.MonthBucket{Month: "m", Income: float64(i), Expenses: 1, Count: 1})
	}
	income, _ := deriveRunRates(buckets)
	// Last six buckets have incomes 3..8.
	assert.InDelta(t, 12*(3+4+5+6+7+8)/6.0, income.Annual, 1e-9)
	assert.Equal(t, 8.0, income.Monthly)
}

func TestDeriveVelocity(t *testing.T) {
	s := &core.FinancialSnapshot{
		Transactions: []core.Transaction{
			{Date: testNow.AddDate(0, 0, -1), Amount: -2000},
			{Date: testNow.AddDate(0, 0, -3), Amount: -1000},
			{Date: testNow.AddDate(0, 0, -9), Amount: -1000},
			{Date: testNow.AddDate(0, 0, -10), Amount: 5000}, // credit, ignored
		},
	}
	v := DeriveVelocity(s, testNow)
	assert.Equal(t, 3000.0, v.LastWeekSpend)
	assert.Equal(t, 1000.0, v.PrevWeekSpend)
	assert.Equal(t, "increasing", v.Trend)
	assert.InDelta(t, 200.0, v.Velocity, 1e-9)
}

func TestSnapshotCaching(t *testing.T) {
	source := &fakeSource{}
	agg := New(source, nil, Config{
		Clock:    func() time.Time { return testNow },
		CacheTTL: time.Minute,
	}, zerolog.Nop())

	first := agg.Snapshot(context.Background(), "user-1")
	// ristretto admits asynchronously; wait for the buffered set to land.
	time.Sleep(20 * time.Millisecond)

	source.failAll = true
	second := agg.Snapshot(context.Background(), "user-1")
	if second.FallbackMode {
		t.Skip("cache admission did not land in time")
	}
	assert.Equal(t, first.NetWorth, second.NetWorth)
}
