package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/intelliwealth/advisor/pkg/render"
)

// Visualization presents data accumulated in the exchange as a breakdown
// card or a markdown table. When a renderer degrades to its soft-failure
// message, this provider replaces it with a natural-language summary of the
// underlying data. The renderer's fallback text is never the final answer.
type Visualization struct{}

func NewVisualization() *Visualization { return &Visualization{} }

func (v *Visualization) Name() string { return "visualization" }

func (v *Visualization) Handle(ctx context.Context, req *Request) Outcome {
	ex := req.Exchange
	if ex == nil || (len(ex.Allocation) == 0 && len(ex.Rows) == 0) {
		return Outcome{
			Provider: v.Name(),
			AnswerText: "There's nothing to visualize yet. " +
				"Ask for portfolio or market data first and I'll chart it for you.",
			Escalate: true,
		}
	}

	// Prefer the breakdown card; the table is the fallback view so the
	// same rows aren't rendered twice when both are available upstream.
	var answer string
	switch {
	case len(ex.Allocation) > 0:
		answer = render.Breakdown(ex.Allocation)
		if isRenderFallback(answer) {
			answer = textSummaryOfAllocation(ex.Allocation)
		}
	default:
		answer = render.Table(ex.Columns, ex.Rows)
		if isRenderFallback(answer) {
			answer = fmt.Sprintf("The data set has %d record(s); a table view wasn't possible, "+
				"but I can list the entries individually on request.", len(ex.Rows))
		}
	}

	return Outcome{
		Provider:   v.Name(),
		AnswerText: answer,
		Citations:  ex.Citations,
	}
}

func isRenderFallback(out string) bool {
	switch out {
	case render.MsgNoAllocationData,
		render.MsgNoValidData,
		render.MsgNoTableData,
		render.MsgNoTableHeaders,
		render.MsgEmptyTable:
		return true
	}
	return false
}

// textSummaryOfAllocation describes the allocation in prose when the bar
// card can't be drawn (for example all values non-numeric).
func textSummaryOfAllocation(entries []render.AllocationEntry) string {
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.Label)
	}
	return fmt.Sprintf("Sorry, a chart wasn't possible for this data, but here's what it contains: "+
		"%d categories (%s). Ask me for the raw figures if useful.",
		len(entries), strings.Join(labels, ", "))
}
