package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avestoai/avesto-go/core"
)

// CreditPartial is the normalized output of the credit-report fetcher.
type CreditPartial struct {
	Score int
	Debts []core.Debt
}

type creditEnvelope struct {
	CreditReport *creditReport `json:"creditReport"`
}

type creditReport struct {
	Score          json.Number     `json:"score"`
	CreditAccounts []creditAccount `json:"creditAccounts"`
}

type creditAccount struct {
	AccountID      string  `json:"accountId"`
	AccountType    string  `json:"accountType"` // "CREDIT_CARD", "PERSONAL_LOAN", ...
	CurrentBalance Money   `json:"currentBalance"`
	InterestRate   float64 `json:"interestRate"` // percent per year
}

// FetchCreditReport retrieves and normalizes the credit bureau report.
func (c *Client) FetchCreditReport(ctx context.Context, userID string) (*CreditPartial, error) {
	body, err := c.get(ctx, endpointForResource("credit_report", userID))
	if err != nil {
		return nil, err
	}
	return c.parseCreditReport(body)
}

func (c *Client) parseCreditReport(body []byte) (*CreditPartial, error) {
	var envelope creditEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed credit report payload: %w", err)
	}
	if envelope.CreditReport == nil {
		return nil, fmt.Errorf("unknown credit report payload shape: missing creditReport")
	}

	partial := &CreditPartial{}
	if score, err := envelope.CreditReport.Score.Int64(); err == nil {
		partial.Score = int(score)
	}

	for _, acc := range envelope.CreditReport.CreditAccounts {
		balance := acc.CurrentBalance.Amount()
		if balance <= 0 {
			continue
		}
		partial.Debts = append(partial.Debts, core.Debt{
			ID:           acc.AccountID,
			Kind:         strings.ToLower(acc.AccountType),
			Balance:      balance,
			InterestRate: acc.InterestRate,
		})
	}

	return partial, nil
}
