package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/intelliwealth/advisor/pkg/envelope"
	"github.com/intelliwealth/advisor/pkg/query"
	"github.com/intelliwealth/advisor/pkg/render"
)

// holdingsQuery joins the customer profile with deposit accounts on the
// shared customer identifier. Transactions hang off the same key and are
// summarized separately when the request asks for activity.
const holdingsQuery = `
SELECT p.customer_name, d.product_type, d.balance_amount, d.interest_rate, d.maturity_date
FROM customer_profile p
JOIN deposit_account d ON d.customer_id = p.customer_id
WHERE p.customer_id = @customer_id
ORDER BY d.balance_amount DESC`

var customerIDPattern = regexp.MustCompile(`\b(\d{1,12})\b`)

// Portfolio answers client portfolio, balance and exposure questions from
// the structured store.
type Portfolio struct {
	adapter *query.Adapter
}

func NewPortfolio(adapter *query.Adapter) *Portfolio {
	return &Portfolio{adapter: adapter}
}

func (p *Portfolio) Name() string { return "portfolio" }

func (p *Portfolio) Handle(ctx context.Context, req *Request) Outcome {
	customerID, ok := extractCustomerID(req.Text)
	if !ok {
		return Outcome{
			Provider:   p.Name(),
			AnswerText: "I can pull up portfolio details once I know which client you mean. Which customer ID should I look at?",
		}
	}

	result := p.adapter.Execute(ctx, query.Spec{
		Text:   holdingsQuery,
		Params: map[string]any{"customer_id": customerID},
	})

	switch {
	case result.IsFailure():
		// No internal detail; suggest the alternative paths.
		return Outcome{
			Provider: p.Name(),
			AnswerText: "Sorry, portfolio data is temporarily unavailable. " +
				"Would you like a market summary or insights from recent strategist content instead?",
			Escalate: true,
		}

	case result.IsEmpty():
		return Outcome{
			Provider: p.Name(),
			AnswerText: fmt.Sprintf("I couldn't find any holdings for customer %s. "+
				"Would you like to refine the request, check a different customer ID, or escalate?", customerID),
			Escalate: true,
		}
	}

	// Every returned holding is enumerated; nothing is silently truncated.
	if req.Exchange != nil {
		req.Exchange.Rows = result.Records
		req.Exchange.Columns = result.Columns
		req.Exchange.Allocation = allocationFromHoldings(result.Records)
		req.Exchange.AddCitations("internal portfolio database")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Customer %s holds %d product(s):\n\n", customerID, len(result.Records))
	b.WriteString(render.Table(result.Columns, result.Records))
	b.WriteString("\n\nA visualization of this breakdown is available if you'd like one.")

	return Outcome{
		Provider:   p.Name(),
		AnswerText: b.String(),
		Citations:  []string{"internal portfolio database"},
	}
}

// extractCustomerID pulls the first plausible numeric identifier out of the
// request text.
func extractCustomerID(text string) (string, bool) {
	m := customerIDPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// allocationFromHoldings reduces holdings rows to a product-type allocation
// for the breakdown renderer, preserving row order.
func allocationFromHoldings(rows []envelope.Record) []render.AllocationEntry {
	var entries []render.AllocationEntry
	index := make(map[string]int)

	for _, row := range rows {
		label, _ := row["product_type"].(string)
		if label == "" {
			continue
		}
		value, ok := toFloat(row["balance_amount"])
		if !ok {
			continue
		}
		if i, seen := index[label]; seen {
			entries[i].Value = entries[i].Value.(float64) + value
			continue
		}
		index[label] = len(entries)
		entries = append(entries, render.AllocationEntry{Label: label, Value: value})
	}
	return entries
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}
