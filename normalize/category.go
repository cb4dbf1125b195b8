package normalize

import (
	"strings"

	"github.com/avestoai/avesto-go/core"
)

// Keyword lists for narration matching. Order matters: the first list whose
// keyword appears in the narration wins.
var creditKeywords = []struct {
	category core.Category
	keywords []string
}{
	{core.CategorySalary, []string{"salary", "sal credit", "payroll", "wages"}},
	{core.CategoryInterest, []string{"interest", "int credit", "fd maturity"}},
	{core.CategoryInvestmentReturn, []string{"dividend", "redemption", "mutual fund", "capital gain"}},
}

var debitKeywords = []struct {
	category core.Category
	keywords []string
}{
	{core.CategoryFood, []string{"swiggy", "zomato", "restaurant", "food", "cafe", "dining", "grocery", "bigbasket", "blinkit"}},
	{core.CategoryTransport, []string{"uber", "ola", "metro", "fuel", "petrol", "irctc", "cab", "parking"}},
	{core.CategoryShopping, []string{"amazon", "flipkart", "myntra", "shopping", "mall", "store"}},
	{core.CategoryUtilities, []string{"electricity", "water bill", "broadband", "mobile recharge", "gas bill", "dth", "utility"}},
	{core.CategoryHealthcare, []string{"pharmacy", "hospital", "clinic", "apollo", "medical", "diagnostic"}},
	{core.CategoryEntertainment, []string{"netflix", "spotify", "bookmyshow", "prime video", "hotstar", "movie", "gaming"}},
	{core.CategoryLoanPayment, []string{"emi", "loan", "credit card payment", "cc payment"}},
}

// Categorize maps a transaction narration to a normalized category using a
// deterministic, case-insensitive substring match. The amount sign is checked
// first: positive amounts only ever map to credit categories, negative only
// to debit categories. Total by construction — unmatched narrations fall back
// to the sign's default category.
func Categorize(narration string, amount float64) core.Category {
	text := strings.ToLower(narration)

	if amount >= 0 {
		for _, entry := range creditKeywords {
			for _, kw := range entry.keywords {
				if strings.Contains(text, kw) {
					return entry.category
				}
			}
		}
		return core.CategoryCredit
	}

	for _, entry := range debitKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.category
			}
		}
	}
	return core.CategoryExpense
}
