package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/intelliwealth/advisor/pkg/llms"
	"github.com/intelliwealth/advisor/pkg/websearch"
)

// Recommendation synthesizes actionable next steps from whatever upstream
// context accumulated in the exchange (portfolio rows, market and research
// citations), optionally enriched with a live search for recency. Every
// recommendation carries a rationale referencing at least one cited source;
// with nothing to ground on, the provider says so explicitly and escalates.
type Recommendation struct {
	search    websearch.Client // optional
	completer llms.Completer   // optional
}

func NewRecommendation(search websearch.Client, completer llms.Completer) *Recommendation {
	return &Recommendation{search: search, completer: completer}
}

func (r *Recommendation) Name() string { return "recommendation" }

func (r *Recommendation) Handle(ctx context.Context, req *Request) Outcome {
	ex := req.Exchange
	if ex == nil {
		ex = &Exchange{}
	}

	// Pull in fresh external context when nothing upstream provided any.
	if len(ex.Citations) == 0 && r.search != nil {
		if results, err := r.search.Search(ctx, req.Text); err == nil {
			for _, res := range results {
				ex.AddCitations(res.URL)
			}
		} else {
			slog.Warn("recommendation search failed", "request_id", req.ID, "error", err)
		}
	}

	if len(ex.Citations) == 0 && len(ex.Allocation) == 0 {
		return Outcome{
			Provider: r.Name(),
			AnswerText: "I don't have enough grounded information for a holistic recommendation yet. " +
				"I can look at the portfolio, recent market coverage, or strategist research first, or escalate this to an advisor.",
			Escalate: true,
		}
	}

	draft := r.draft(ex)

	if r.completer != nil {
		polished, err := r.completer.Complete(ctx,
			"You are a private banking strategy advisor. Rewrite the draft recommendations in clear, client-appropriate language. Keep every citation.",
			draft)
		if err != nil {
			slog.Warn("recommendation polish failed, using draft", "request_id", req.ID, "error", err)
		} else if strings.TrimSpace(polished) != "" {
			draft = polished
		}
	}

	return Outcome{
		Provider:   r.Name(),
		AnswerText: draft,
		Citations:  ex.Citations,
	}
}

// draft builds the deterministic recommendation text from the exchange.
func (r *Recommendation) draft(ex *Exchange) string {
	var b strings.Builder
	b.WriteString("Recommendations:\n\n")

	if top, pct, ok := dominantAllocation(ex); ok {
		fmt.Fprintf(&b,
			"- Review the concentration in %s (%d%% of the visible holdings). "+
				"Rebalancing toward under-represented categories would reduce single-category risk. "+
				"Rationale: portfolio composition above (internal portfolio database).\n",
			top, pct)
	}

	for i, citation := range ex.Citations {
		if citation == "internal portfolio database" {
			continue
		}
		fmt.Fprintf(&b,
			"- Factor the cited research into the next portfolio review. Rationale: see %s.\n",
			citation)
		if i >= 2 {
			break
		}
	}

	b.WriteString("\nEach point above is grounded in the cited sources; happy to go deeper on any of them.")
	return b.String()
}

// dominantAllocation finds the largest allocation category and its share.
func dominantAllocation(ex *Exchange) (string, int, bool) {
	if len(ex.Allocation) == 0 {
		return "", 0, false
	}

	type share struct {
		label string
		value float64
	}
	var shares []share
	var total float64
	for _, e := range ex.Allocation {
		v, ok := toFloat(e.Value)
		if !ok {
			continue
		}
		shares = append(shares, share{e.Label, v})
		total += v
	}
	if len(shares) == 0 || total <= 0 {
		return "", 0, false
	}

	sort.SliceStable(shares, func(i, j int) bool { return shares[i].value > shares[j].value })
	return shares[0].label, int(100*shares[0].value/total + 0.5), true
}
