package analyze

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avestoai/avesto-go/core"
)

var analyzeNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func snapshotWithSavings(liquid, monthlyExpenses float64) *core.FinancialSnapshot {
	return &core.FinancialSnapshot{
		Accounts: []core.Account{{ID: "a1", Kind: "savings", Balance: liquid}},
		Expenses: core.CashFlow{Monthly: monthlyExpenses},
	}
}

func TestSavingsHighYield(t *testing.T) {
	a := &SavingsAnalyzer{}

	t.Run("liquid 300k yields a medium candidate worth 12k", func(t *testing.T) {
		opps := a.Analyze(snapshotWithSavings(300_000, 50_000))
		require.Len(t, opps, 1)
		assert.Equal(t, core.TypeSavingsOptimization, opps[0].Type)
		assert.Equal(t, core.PriorityMedium, opps[0].Priority)
		assert.InDelta(t, 12_000, opps[0].PotentialAnnualValue, 1e-9)
		assert.Equal(t, core.EffortLow, opps[0].EffortLevel)
		assert.Equal(t, 0.95, opps[0].ConfidenceScore)
	})

	t.Run("gain above 15k upgrades to high priority", func(t *testing.T) {
		opps := a.Analyze(snapshotWithSavings(400_000, 10_000))
		require.Len(t, opps, 1)
		assert.Equal(t, core.PriorityHigh, opps[0].Priority)
		assert.InDelta(t, 16_000, opps[0].PotentialAnnualValue, 1e-9)
	})

	t.Run("liquid at the 50k floor emits nothing", func(t *testing.T) {
		assert.Empty(t, a.Analyze(snapshotWithSavings(50_000, 5_000)))
	})

	t.Run("gain under the 5k floor emits nothing", func(t *testing.T) {
		// 120,000 × 0.04 = 4,800.
		assert.Empty(t, a.Analyze(snapshotWithSavings(120_000, 20_000)))
	})
}

func TestSavingsEmergencyFund(t *testing.T) {
	a := &SavingsAnalyzer{}

	t.Run("shortfall emits a risk mitigation candidate", func(t *testing.T) {
		// Target 6 × 50,000 = 300,000; savings 120,000; shortfall 180,000.
		// The high-yield gain (4,800) is under its own floor, so only the
		// emergency candidate survives.
		opps := a.Analyze(snapshotWithSavings(120_000, 50_000))
		require.Len(t, opps, 1)
		emergency := opps[0]
		assert.Equal(t, core.TypeRiskMitigation, emergency.Type)
		assert.InDelta(t, 18_000, emergency.PotentialAnnualValue, 1e-9)
		assert.Equal(t, 0.9, emergency.ConfidenceScore)
	})

	t.Run("fully funded reserve emits nothing", func(t *testing.T) {
		opps := a.Analyze(snapshotWithSavings(300_000, 50_000))
		for _, opp := range opps {
			assert.NotEqual(t, core.TypeRiskMitigation, opp.Type)
		}
	})

	t.Run("zero savings emits nothing", func(t *testing.T) {
		assert.Empty(t, a.Analyze(snapshotWithSavings(0, 50_000)))
	})
}

func TestInvestmentSIPGap(t *testing.T) {
	a := &InvestmentAnalyzer{}

	s := &core.FinancialSnapshot{
		Profile:          core.Profile{AnnualIncome: 1_200_000},
		TotalInvestments: 60_000,
	}
	opps := a.Analyze(s)
	require.NotEmpty(t, opps)

	// Recommended 20,000/month vs 5,000 proxy: an extra 15,000/month at 12%.
	sip := opps[0]
	assert.Equal(t, core.TypeInvestmentGrowth, sip.Type)
	assert.Equal(t, core.PriorityHigh, sip.Priority)
	assert.InDelta(t, 15_000*12*0.12, sip.PotentialAnnualValue, 1e-9)
	assert.Equal(t, 0.8, sip.ConfidenceScore)
}

func TestInvestmentSIPCapAndGapThreshold(t *testing.T) {
	a := &InvestmentAnalyzer{}

	t.Run("recommendation caps at 50k per month", func(t *testing.T) {
		s := &core.FinancialSnapshot{Profile: core.Profile{AnnualIncome: 6_000_000}}
		opps := a.Analyze(s)
		require.NotEmpty(t, opps)
		assert.InDelta(t, 50_000*12*0.12, opps[0].PotentialAnnualValue, 1e-9)
	})

	t.Run("small gap emits nothing", func(t *testing.T) {
		// Recommended 20,000 vs proxy 16,000: gap 4,000 is under the margin.
		s := &core.FinancialSnapshot{
			Profile:          core.Profile{AnnualIncome: 1_200_000},
			TotalInvestments: 192_000,
		}
		for _, opp := range a.Analyze(s) {
			assert.NotContains(t, opp.Title, "SIP")
		}
	})
}

func TestInvestmentRebalance(t *testing.T) {
	a := &InvestmentAnalyzer{}

	t.Run("liquid above half the portfolio flags the excess", func(t *testing.T) {
		s := &core.FinancialSnapshot{
			Accounts:         []core.Account{{Kind: "savings", Balance: 300_000}},
			TotalInvestments: 200_000,
		}
		opps := a.Analyze(s)
		require.Len(t, opps, 1)
		// Excess 300,000 − 100,000 = 200,000 at an 8% return gap.
		assert.InDelta(t, 200_000*0.08, opps[0].PotentialAnnualValue, 1e-9)
		assert.Equal(t, 0.75, opps[0].ConfidenceScore)
	})

	t.Run("excess at the 50k floor emits nothing", func(t *testing.T) {
		s := &core.FinancialSnapshot{
			Accounts:         []core.Account{{Kind: "savings", Balance: 150_000}},
			TotalInvestments: 200_000,
		}
		assert.Empty(t, a.Analyze(s))
	})
}

func TestSpendingAnalyzer(t *testing.T) {
	a := &SpendingAnalyzer{}

	s := &core.FinancialSnapshot{
		GeneratedAt: analyzeNow,
		Transactions: []core.Transaction{
			{Date: analyzeNow.AddDate(0, 0, -5), Amount: -12_000, Category: core.CategoryFood},
			{Date: analyzeNow.AddDate(0, 0, -10), Amount: -8_000, Category: core.CategoryFood},
			{Date: analyzeNow.AddDate(0, 0, -3), Amount: -9_000, Category: core.CategoryTransport},
			{Date: analyzeNow.AddDate(0, 0, -2), Amount: -30_000, Category: core.CategoryInvestment},
			{Date: analyzeNow.AddDate(0, 0, -40), Amount: -50_000, Category: core.CategoryShopping},
			{Date: analyzeNow.AddDate(0, 0, -1), Amount: 100_000, Category: core.CategorySalary},
		},
	}
	opps := a.Analyze(s)
	require.Len(t, opps, 1)

	// Food: 20,000 in-window spend, 25% recoverable.
	food := opps[0]
	assert.Equal(t, core.TypeExpenseReduction, food.Type)
	assert.InDelta(t, 20_000*0.25*12, food.PotentialAnnualValue, 1e-9)
	assert.Equal(t, 0.7, food.ConfidenceScore)
	assert.Equal(t, core.EffortMedium, food.EffortLevel)
}

func TestSpendingDefaultPlanAndFloor(t *testing.T) {
	a := &SpendingAnalyzer{}

	t.Run("unmapped category uses the default 15% plan", func(t *testing.T) {
		s := &core.FinancialSnapshot{
			GeneratedAt: analyzeNow,
			Transactions: []core.Transaction{
				{Date: analyzeNow.AddDate(0, 0, -5), Amount: -20_000, Category: core.CategoryUtilities},
			},
		}
		opps := a.Analyze(s)
		require.Len(t, opps, 1)
		assert.InDelta(t, 20_000*0.15*12, opps[0].PotentialAnnualValue, 1e-9)
	})

	t.Run("projected savings under 2k are dropped", func(t *testing.T) {
		// 12,000 × 0.15 = 1,800.
		s := &core.FinancialSnapshot{
			GeneratedAt: analyzeNow,
			Transactions: []core.Transaction{
				{Date: analyzeNow.AddDate(0, 0, -5), Amount: -12_000, Category: core.CategoryUtilities},
			},
		}
		assert.Empty(t, a.Analyze(s))
	})
}

func TestDebtAnalyzer(t *testing.T) {
	a := &DebtAnalyzer{}

	t.Run("expensive credit card is flagged high priority", func(t *testing.T) {
		s := &core.FinancialSnapshot{
			Debts: []core.Debt{{ID: "cc", Kind: "credit_card", Balance: 50_000, InterestRate: 24}},
		}
		opps := a.Analyze(s)
		require.Len(t, opps, 1)
		assert.Equal(t, core.TypeDebtReduction, opps[0].Type)
		assert.Equal(t, core.PriorityHigh, opps[0].Priority)
		assert.InDelta(t, 12_000, opps[0].PotentialAnnualValue, 1e-9)
	})

	t.Run("cheap or non-card debt is ignored", func(t *testing.T) {
		s := &core.FinancialSnapshot{
			Debts: []core.Debt{
				{Kind: "credit_card", Balance: 50_000, InterestRate: 18},
				{Kind: "personal_loan", Balance: 200_000, InterestRate: 24},
				{Kind: "credit_card", Balance: 10_000, InterestRate: 36},
			},
		}
		assert.Empty(t, a.Analyze(s))
	})
}

func TestTaxAnalyzer(t *testing.T) {
	a := &TaxAnalyzer{}

	t.Run("shortfall times the marginal rate", func(t *testing.T) {
		s := &core.FinancialSnapshot{
			Profile:     core.Profile{AnnualIncome: 1_200_000},
			Investments: []core.Investment{{Kind: "elss", CurrentValue: 50_000}},
		}
		opps := a.Analyze(s)
		require.Len(t, opps, 1)
		assert.InDelta(t, 100_000*0.30, opps[0].PotentialAnnualValue, 1e-9)
	})

	t.Run("mid band uses 20 percent", func(t *testing.T) {
		s := &core.FinancialSnapshot{Profile: core.Profile{AnnualIncome: 800_000}}
		opps := a.Analyze(s)
		require.Len(t, opps, 1)
		assert.InDelta(t, 150_000*0.20, opps[0].PotentialAnnualValue, 1e-9)
	})

	t.Run("tax saver category counts toward the ceiling", func(t *testing.T) {
		s := &core.FinancialSnapshot{
			Profile:     core.Profile{AnnualIncome: 1_200_000},
			Investments: []core.Investment{{Kind: "mutual_fund", Category: "tax_saver", CurrentValue: 150_000}},
		}
		assert.Empty(t, a.Analyze(s))
	})

	t.Run("income at the 5 lakh floor emits nothing", func(t *testing.T) {
		s := &core.FinancialSnapshot{Profile: core.Profile{AnnualIncome: 500_000}}
		assert.Empty(t, a.Analyze(s))
	})
}

func TestIncomeAnalyzer(t *testing.T) {
	a := &IncomeAnalyzer{}

	t.Run("young earner gets a 15 percent uplift candidate", func(t *testing.T) {
		s := &core.FinancialSnapshot{Profile: core.Profile{Age: 32, AnnualIncome: 1_200_000}}
		opps := a.Analyze(s)
		require.Len(t, opps, 1)
		assert.Equal(t, core.TypeIncomeEnhancement, opps[0].Type)
		assert.InDelta(t, 180_000, opps[0].PotentialAnnualValue, 1e-9)
		assert.Equal(t, 0.65, opps[0].ConfidenceScore)
	})

	t.Run("age 40 or unknown emits nothing", func(t *testing.T) {
		assert.Empty(t, a.Analyze(&core.FinancialSnapshot{Profile: core.Profile{Age: 40, AnnualIncome: 1_200_000}}))
		assert.Empty(t, a.Analyze(&core.FinancialSnapshot{Profile: core.Profile{AnnualIncome: 1_200_000}}))
	})
}

func TestAnnualIncomeFallsBackToRunRate(t *testing.T) {
	s := &core.FinancialSnapshot{Income: core.CashFlow{Annual: 900_000}}
	assert.Equal(t, 900_000.0, annualIncome(s))

	s.Profile.AnnualIncome = 1_000_000
	assert.Equal(t, 1_000_000.0, annualIncome(s))
}

type panicAnalyzer struct{}

func (panicAnalyzer) Name() string { return "boom" }
func (panicAnalyzer) Analyze(*core.FinancialSnapshot) []core.Opportunity {
	panic("heuristic bug")
}

func TestRegistryIsolatesPanics(t *testing.T) {
	r := NewRegistry(nil, zerolog.Nop())
	r.RegisterAll(panicAnalyzer{}, &DebtAnalyzer{})

	s := &core.FinancialSnapshot{
		Debts: []core.Debt{{Kind: "credit_card", Balance: 50_000, InterestRate: 24}},
	}
	opps := r.Run(s)
	require.Len(t, opps, 1)
	assert.Equal(t, core.TypeDebtReduction, opps[0].Type)
}

func TestRegistryAssignsIDs(t *testing.T) {
	var n int
	r := NewDefaultRegistry(func() string {
		n++
		return fmt.Sprintf("opp-%d", n)
	}, zerolog.Nop())

	s := snapshotWithSavings(300_000, 50_000)
	opps := r.Run(s)
	require.NotEmpty(t, opps)
	assert.Equal(t, "opp-1", opps[0].ID)
	for _, opp := range opps {
		assert.NotEmpty(t, opp.ID)
	}
}

func TestDefaultRegistryOrder(t *testing.T) {
	r := NewDefaultRegistry(nil, zerolog.Nop())
	assert.Equal(t, []string{"savings", "investment", "spending", "debt", "tax", "income"}, r.List())
}
