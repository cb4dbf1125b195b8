package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avestoai/avesto-go/core"
)

// NetWorthPartial is the normalized output of the net-worth fetcher: bank
// accounts plus liabilities that only the net-worth statement knows about
// (loans carry no interest rate here; the credit report fills those in).
type NetWorthPartial struct {
	Accounts []core.Account
	Debts    []core.Debt
}

type netWorthEnvelope struct {
	NetWorthResponse *netWorthResponse `json:"netWorthResponse"`
}

type netWorthResponse struct {
	AccountDetails     []netWorthAccount   `json:"accountDetails"`
	LiabilityValues    []netWorthAttribute `json:"liabilityValues"`
	TotalNetWorthValue Money               `json:"totalNetWorthValue"`
}

type netWorthAccount struct {
	AccountID   string `json:"accountId"`
	AccountType string `json:"accountType"` // "SAVINGS", "CURRENT"
	Bank        string `json:"bank"`
	Balance     Money  `json:"balance"`
}

type netWorthAttribute struct {
	Attribute string `json:"netWorthAttribute"` // e.g. "LIABILITY_TYPE_HOME_LOAN"
	Value     Money  `json:"value"`
}

// FetchNetWorth retrieves and normalizes the net-worth statement.
func (c *Client) FetchNetWorth(ctx context.Context, userID string) (*NetWorthPartial, error) {
	body, err := c.get(ctx, endpointForResource("net_worth", userID))
	if err != nil {
		return nil, err
	}
	return c.parseNetWorth(body)
}

func (c *Client) parseNetWorth(body []byte) (*NetWorthPartial, error) {
	var envelope netWorthEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed net worth payload: %w", err)
	}
	if envelope.NetWorthResponse == nil {
		return nil, fmt.Errorf("unknown net worth payload shape: missing netWorthResponse")
	}

	partial := &NetWorthPartial{}
	for _, acc := range envelope.NetWorthResponse.AccountDetails {
		kind, ok := accountKind(acc.AccountType)
		if !ok {
			c.log.Warn().Str("account_type", acc.AccountType).Msg("skipping unknown account type")
			continue
		}
		balance := acc.Balance.Amount()
		if balance < 0 {
			balance = 0
		}
		partial.Accounts = append(partial.Accounts, core.Account{
			ID:      acc.AccountID,
			Kind:    kind,
			Bank:    acc.Bank,
			Balance: balance,
		})
	}

	for _, liability := range envelope.NetWorthResponse.LiabilityValues {
		balance := liability.Value.Amount()
		if balance <= 0 {
			continue
		}
		partial.Debts = append(partial.Debts, core.Debt{
			ID:      strings.ToLower(liability.Attribute),
			Kind:    liabilityKind(liability.Attribute),
			Balance: balance,
		})
	}

	return partial, nil
}

func accountKind(accountType string) (string, bool) {
	switch strings.ToUpper(accountType) {
	case "SAVINGS", "DEPOSIT_ACCOUNT_TYPE_SAVINGS":
		return "savings", true
	case "CURRENT", "CHECKING", "DEPOSIT_ACCOUNT_TYPE_CURRENT":
		return "checking", true
	default:
		return "", false
	}
}

// liabilityKind strips the LIABILITY_TYPE_ prefix and lowercases the rest.
func liabilityKind(attribute string) string {
	kind := strings.TrimPrefix(strings.ToUpper(attribute), "LIABILITY_TYPE_")
	return strings.ToLower(kind)
}
