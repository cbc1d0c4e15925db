package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/intelliwealth/advisor/pkg/docsearch"
)

// Fixed content-provider texts. These are user-facing and deliberately
// contain no internal detail.
const (
	contentNoResultsMsg = "No relevant strategist content was found for this topic. " +
		"Would you like to refine your request or escalate for a broader search?"
	contentFailureMsg = "Sorry, there was an issue searching internal strategist files. " +
		"Please try again, or I can escalate for help."
)

// Content retrieves and summarizes internal strategist research through the
// document retrieval engine. Every summary is cited with its source
// locator, and the provider never returns a blank answer.
type Content struct {
	engine *docsearch.Engine
}

func NewContent(engine *docsearch.Engine) *Content {
	return &Content{engine: engine}
}

func (c *Content) Name() string { return "content" }

func (c *Content) Handle(ctx context.Context, req *Request) Outcome {
	result := c.engine.Search(ctx, req.Text)

	switch {
	case result.IsFailure():
		return Outcome{Provider: c.Name(), AnswerText: contentFailureMsg, Escalate: true}
	case result.IsEmpty():
		return Outcome{Provider: c.Name(), AnswerText: contentNoResultsMsg, Escalate: true}
	}

	var b strings.Builder
	b.WriteString("From internal strategist research:\n\n")

	var citations []string
	var advisory string

	for _, rec := range result.Records {
		summary, _ := rec["summary"].(string)
		source, _ := rec["source"].(string)
		if source == "error" {
			// Advisory record about unreadable files, not a finding.
			advisory = summary
			continue
		}
		fmt.Fprintf(&b, "- %s (source: %s)\n", summary, source)
		citations = append(citations, source)
	}

	if advisory != "" {
		b.WriteString("\n" + advisory)
	}

	if req.Exchange != nil {
		req.Exchange.AddCitations(citations...)
	}

	return Outcome{
		Provider:   c.Name(),
		AnswerText: strings.TrimRight(b.String(), "\n"),
		Citations:  citations,
	}
}
