package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avestoai/avesto-go/core"
)

// EquitiesPartial is the normalized output of the equity fetcher: one holding
// per ISIN reconstructed from the trade log, plus the flattened trades.
type EquitiesPartial struct {
	Holdings     []core.Investment
	Transactions []core.Transaction
}

type equityEnvelope struct {
	Equities []equityLog `json:"equities"`
}

type equityLog struct {
	ISIN            string      `json:"isin"`
	Symbol          string      `json:"symbol"`
	LastTradedPrice Money       `json:"lastTradedPrice"`
	Txns            []equityTxn `json:"txns"`
}

type equityTxn struct {
	Type     string      `json:"type"` // "BUY", "SELL"
	Quantity json.Number `json:"quantity"`
	Price    Money       `json:"price"`
	Date     string      `json:"date"`
}

// FetchEquityTransactions retrieves per-ISIN equity trade logs and flattens
// them into holdings (net quantity × last traded price) and transactions.
func (c *Client) FetchEquityTransactions(ctx context.Context, userID string) (*EquitiesPartial, error) {
	body, err := c.get(ctx, endpointForResource("equity_transactions", userID))
	if err != nil {
		return nil, err
	}
	return c.parseEquityTransactions(body)
}

func (c *Client) parseEquityTransactions(body []byte) (*EquitiesPartial, error) {
	var envelope equityEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed equity transactions payload: %w", err)
	}
	if envelope.Equities == nil {
		return nil, fmt.Errorf("unknown equity transactions payload shape: missing equities")
	}

	partial := &EquitiesPartial{}
	for _, holding := range envelope.Equities {
		var netQuantity float64

		for i, txn := range holding.Txns {
			date, err := parseDate(txn.Date)
			if err != nil {
				c.log.Warn().Str("symbol", holding.Symbol).Str("date", txn.Date).Msg("skipping equity txn with bad date")
				continue
			}
			quantity, err := txn.Quantity.Float64()
			if err != nil || quantity <= 0 {
				c.log.Warn().Str("symbol", holding.Symbol).Msg("skipping equity txn with bad quantity")
				continue
			}

			amount := quantity * txn.Price.Amount()
			category := core.CategoryInvestment
			switch strings.ToUpper(txn.Type) {
			case "BUY":
				netQuantity += quantity
				amount = -amount
			case "SELL":
				netQuantity -= quantity
				category = core.CategoryInvestmentReturn
			default:
				c.log.Warn().Str("type", txn.Type).Msg("skipping equity txn with unknown type")
				continue
			}

			partial.Transactions = append(partial.Transactions, core.Transaction{
				ID:          fmt.Sprintf("%s-%d", holding.ISIN, i),
				Date:        date,
				Amount:      amount,
				Category:    category,
				Description: fmt.Sprintf("%s %s x%g", holding.Symbol, strings.ToUpper(txn.Type), quantity),
				Source:      core.SourceEquity,
			})
		}

		if netQuantity > 0 {
			partial.Holdings = append(partial.Holdings, core.Investment{
				ID:           holding.ISIN,
				Kind:         "stocks",
				Name:         holding.Symbol,
				CurrentValue: netQuantity * holding.LastTradedPrice.Amount(),
				Category:     "equity",
			})
		}
	}

	return partial, nil
}
