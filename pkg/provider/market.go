package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/intelliwealth/advisor/pkg/websearch"
)

// Market fetches live market context from the external search collaborator.
// Every claim in its answer carries the source URL.
type Market struct {
	search websearch.Client
}

func NewMarket(search websearch.Client) *Market {
	return &Market{search: search}
}

func (m *Market) Name() string { return "market" }

func (m *Market) Handle(ctx context.Context, req *Request) Outcome {
	if m.search == nil {
		return Outcome{
			Provider:   m.Name(),
			AnswerText: "Live market search isn't configured on this deployment. I can check internal strategist research instead.",
			Escalate:   true,
		}
	}

	results, err := m.search.Search(ctx, req.Text)
	if err != nil {
		slog.Warn("live search failed", "request_id", req.ID, "error", err)
		return Outcome{
			Provider:   m.Name(),
			AnswerText: "Sorry, live market data is unavailable right now. I can check internal strategist research instead if that helps.",
			Escalate:   true,
		}
	}

	if len(results) == 0 {
		return Outcome{
			Provider:   m.Name(),
			AnswerText: "I didn't find any relevant live market coverage for that topic.",
			Escalate:   true,
		}
	}

	var b strings.Builder
	b.WriteString("Here's the latest market context:\n\n")

	citations := make([]string, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(&b, "- **%s**: %s ([source](%s))\n", r.Title, r.Snippet, r.URL)
		citations = append(citations, r.URL)
	}

	if req.Exchange != nil {
		req.Exchange.AddCitations(citations...)
	}

	return Outcome{
		Provider:   m.Name(),
		AnswerText: strings.TrimRight(b.String(), "\n"),
		Citations:  citations,
	}
}
