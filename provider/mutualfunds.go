package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avestoai/avesto-go/core"
)

// FundsPartial is the normalized output of the mutual-fund fetcher: one
// holding per scheme plus the flattened transaction ledger.
type FundsPartial struct {
	Holdings     []core.Investment
	Transactions []core.Transaction
}

type mfEnvelope struct {
	MFTransactions []mfScheme `json:"mfTransactions"`
}

type mfScheme struct {
	ISIN           string  `json:"isin"`
	FolioID        string  `json:"folioId"`
	SchemeName     string  `json:"schemeName"`
	SchemeCategory string  `json:"schemeCategory"` // "equity", "debt", "elss", "hybrid"
	CurrentValue   Money   `json:"currentValue"`
	Txns           []mfTxn `json:"txns"`
}

type mfTxn struct {
	OrderType         string `json:"orderType"` // "BUY", "SELL"
	TransactionDate   string `json:"transactionDate"`
	TransactionAmount Money  `json:"transactionAmount"`
}

// FetchFundTransactions retrieves the scheme-level mutual-fund ledgers and
// flattens them into a transaction + holding view.
func (c *Client) FetchFundTransactions(ctx context.Context, userID string) (*FundsPartial, error) {
	body, err := c.get(ctx, endpointForResource("fund_transactions", userID))
	if err != nil {
		return nil, err
	}
	return c.parseFundTransactions(body)
}

func (c *Client) parseFundTransactions(body []byte) (*FundsPartial, error) {
	var envelope mfEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed fund transactions payload: %w", err)
	}
	if envelope.MFTransactions == nil {
		return nil, fmt.Errorf("unknown fund transactions payload shape: missing mfTransactions")
	}

	partial := &FundsPartial{}
	for _, scheme := range envelope.MFTransactions {
		value := scheme.CurrentValue.Amount()
		if value < 0 {
			value = 0
		}
		if value > 0 {
			partial.Holdings = append(partial.Holdings, core.Investment{
				ID:           holdingID(scheme.ISIN, scheme.FolioID),
				Kind:         "mutual_fund",
				Name:         scheme.SchemeName,
				CurrentValue: value,
				Category:     fundCategory(scheme.SchemeCategory),
			})
		}

		for i, txn := range scheme.Txns {
			date, err := parseDate(txn.TransactionDate)
			if err != nil {
				c.log.Warn().Str("scheme", scheme.SchemeName).Str("date", txn.TransactionDate).Msg("skipping fund txn with bad date")
				continue
			}
			amount := txn.TransactionAmount.Amount()
			category := core.CategoryInvestment
			switch strings.ToUpper(txn.OrderType) {
			case "BUY":
				amount = -amount
			case "SELL":
				category = core.CategoryInvestmentReturn
			default:
				c.log.Warn().Str("order_type", txn.OrderType).Msg("skipping fund txn with unknown order type")
				continue
			}
			partial.Transactions = append(partial.Transactions, core.Transaction{
				ID:          fmt.Sprintf("%s-%d", holdingID(scheme.ISIN, scheme.FolioID), i),
				Date:        date,
				Amount:      amount,
				Category:    category,
				Description: fmt.Sprintf("%s %s", scheme.SchemeName, strings.ToUpper(txn.OrderType)),
				Source:      core.SourceMutualFund,
			})
		}
	}

	return partial, nil
}

// fundCategory normalizes scheme categories; ELSS schemes count toward the
// tax-saver bucket used by the tax analyzer.
func fundCategory(schemeCategory string) string {
	category := strings.ToLower(schemeCategory)
	switch category {
	case "elss", "tax_saver":
		return "tax_saver"
	case "":
		return "equity"
	default:
		return category
	}
}

func holdingID(isin, folio string) string {
	if folio != "" {
		return isin + "-" + folio
	}
	return isin
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
