package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avestoai/avesto-go/core"
)

// RetirementPartial is the normalized output of the retirement-fund fetcher.
type RetirementPartial struct {
	Investments []core.Investment
}

type retirementEnvelope struct {
	EPFDetails *epfDetails `json:"epfDetails"`
}

type epfDetails struct {
	MemberID       string `json:"memberId"`
	EmployeeShare  Money  `json:"employeeShare"`
	EmployerShare  Money  `json:"employerShare"`
	PensionBalance Money  `json:"pensionBalance"`
	CurrentBalance Money  `json:"currentBalance"`
}

// FetchRetirement retrieves the retirement-fund statement. The statement
// either carries a consolidated current balance or the three component
// shares; the components are summed when the consolidated figure is absent.
func (c *Client) FetchRetirement(ctx context.Context, userID string) (*RetirementPartial, error) {
	body, err := c.get(ctx, endpointForResource("retirement", userID))
	if err != nil {
		return nil, err
	}
	return c.parseRetirement(body)
}

func (c *Client) parseRetirement(body []byte) (*RetirementPartial, error) {
	var envelope retirementEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed retirement payload: %w", err)
	}
	if envelope.EPFDetails == nil {
		return nil, fmt.Errorf("unknown retirement payload shape: missing epfDetails")
	}

	details := envelope.EPFDetails
	balance := details.CurrentBalance.Amount()
	if balance == 0 {
		balance = details.EmployeeShare.Amount() + details.EmployerShare.Amount() + details.PensionBalance.Amount()
	}
	if balance < 0 {
		balance = 0
	}

	partial := &RetirementPartial{}
	if balance > 0 {
		id := details.MemberID
		if id == "" {
			id = "epf"
		}
		partial.Investments = append(partial.Investments, core.Investment{
			ID:           id,
			Kind:         "epf",
			Name:         "Employee Provident Fund",
			CurrentValue: balance,
			Category:     "retirement",
		})
	}

	return partial, nil
}
