package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/avestoai/avesto-go/core"
	"github.com/avestoai/avesto-go/normalize"
)

// BankPartial is the normalized output of the bank-transaction fetcher:
// categorized transactions plus calendar-month income/expense buckets for
// the run-rate derivation.
type BankPartial struct {
	Transactions []core.Transaction
	Buckets      []core.MonthBucket
}

type bankEnvelope struct {
	BankTransactions []bankAccountLedger `json:"bankTransactions"`
}

type bankAccountLedger struct {
	Bank      string    `json:"bank"`
	AccountID string    `json:"accountId"`
	Txns      []bankTxn `json:"txns"`
}

type bankTxn struct {
	TransactionAmount Money  `json:"transactionAmount"`
	Narration         string `json:"narration"`
	TransactionDate   string `json:"transactionDate"`
	Type              string `json:"type"` // "CREDIT", "DEBIT"
}

// FetchBankTransactions retrieves bank ledgers, signs and categorizes every
// entry, and buckets them into calendar months.
func (c *Client) FetchBankTransactions(ctx context.Context, userID string) (*BankPartial, error) {
	body, err := c.get(ctx, endpointForResource("bank_transactions", userID))
	if err != nil {
		return nil, err
	}
	return c.parseBankTransactions(body)
}

func (c *Client) parseBankTransactions(body []byte) (*BankPartial, error) {
	var envelope bankEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed bank transactions payload: %w", err)
	}
	if envelope.BankTransactions == nil {
		return nil, fmt.Errorf("unknown bank transactions payload shape: missing bankTransactions")
	}

	partial := &BankPartial{}
	buckets := make(map[string]*core.MonthBucket)

	for _, ledger := range envelope.BankTransactions {
		for i, txn := range ledger.Txns {
			date, err := parseDate(txn.TransactionDate)
			if err != nil {
				c.log.Warn().Str("bank", ledger.Bank).Str("date", txn.TransactionDate).Msg("skipping bank txn with bad date")
				continue
			}

			amount := txn.TransactionAmount.Amount()
			switch strings.ToUpper(txn.Type) {
			case "CREDIT":
				// provider reports magnitudes; credits stay positive
			case "DEBIT":
				amount = -amount
			default:
				c.log.Warn().Str("type", txn.Type).Msg("skipping bank txn with unknown type")
				continue
			}

			partial.Transactions = append(partial.Transactions, core.Transaction{
				ID:          fmt.Sprintf("%s-%s-%d", ledger.Bank, ledger.AccountID, i),
				Date:        date,
				Amount:      amount,
				Category:    normalize.Categorize(txn.Narration, amount),
				Description: txn.Narration,
				Source:      core.SourceBank,
			})

			month := date.Format("2006-01")
			bucket, ok := buckets[month]
			if !ok {
				bucket = &core.MonthBucket{Month: month}
				buckets[month] = bucket
			}
			if amount >= 0 {
				bucket.Income += amount
			} else {
				bucket.Expenses += -amount
			}
			bucket.Count++
		}
	}

	for _, bucket := range buckets {
		partial.Buckets = append(partial.Buckets, *bucket)
	}
	// Oldest first; the aggregator reads the tail for the run-rate window.
	sort.Slice(partial.Buckets, func(i, j int) bool {
		return partial.Buckets[i].Month < partial.Buckets[j].Month
	})

	return partial, nil
}
