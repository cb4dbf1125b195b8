package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avestoai/avesto-go/core"
)

func TestCategorizeDebits(t *testing.T) {
	cases := []struct {
		narration string
		amount    float64
		want      core.Category
	}{
		{"SWIGGY ORDER", -450, core.CategoryFood},
		{"UPI-ZOMATO-PAYMENT", -320, core.CategoryFood},
		{"UBER TRIP 8821", -240, core.CategoryTransport},
		{"AMAZON PAY PURCHASE", -1800, core.CategoryShopping},
		{"ELECTRICITY BILL BESCOM", -1450, core.CategoryUtilities},
		{"APOLLO PHARMACY", -630, core.CategoryHealthcare},
		{"NETFLIX SUBSCRIPTION", -649, core.CategoryEntertainment},
		{"HOME LOAN EMI", -25000, core.CategoryLoanPayment},
		{"MISC POS 99182", -900, core.CategoryExpense},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.narration, tc.amount), tc.narration)
	}
}

func TestCategorizeCredits(t *testing.T) {
	assert.Equal(t, core.CategorySalary, Categorize("MONTHLY SALARY CREDIT", 100000))
	assert.Equal(t, core.CategoryInterest, Categorize("SB INTEREST", 412.5))
	assert.Equal(t, core.CategoryInvestmentReturn, Categorize("MUTUAL FUND REDEMPTION", 15000))
	assert.Equal(t, core.CategoryCredit, Categorize("NEFT FROM RAVI", 2000))
}

func TestCategorizeSignDecidesDirection(t *testing.T) {
	// A debit-looking narration with a positive amount must still map to a
	// credit category: the sign is checked before any keyword.
	assert.Equal(t, core.CategoryCredit, Categorize("SWIGGY REFUND", 450))
	assert.Equal(t, core.CategoryExpense, Categorize("SALARY ADVANCE REVERSAL", -5000))
}

func TestCategorizeIsTotal(t *testing.T) {
	assert.Equal(t, core.CategoryCredit, Categorize("", 0))
	assert.Equal(t, core.CategoryExpense, Categorize("", -0.01))
}
