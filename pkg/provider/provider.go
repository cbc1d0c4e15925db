// Package provider implements the five capability providers. Each one wraps
// a tool behind a natural-language contract: interpret the request, call the
// tool, turn the Result Envelope into a polite answer with citations, and
// decide locally whether the router should escalate to another path. A
// provider never returns an error and never returns a blank answer.
package provider

import (
	"context"

	"github.com/intelliwealth/advisor/pkg/envelope"
	"github.com/intelliwealth/advisor/pkg/render"
)

// Request is one user question flowing through the pipeline.
type Request struct {
	ID   string
	Text string

	// Exchange carries data between sequential provider calls within this
	// request. Nothing in it outlives the request.
	Exchange *Exchange
}

// NewRequest builds a request with a fresh exchange.
func NewRequest(id, text string) *Request {
	return &Request{ID: id, Text: text, Exchange: &Exchange{}}
}

// Exchange accumulates structured data and citations as providers run, so a
// later provider (visualization, recommendations) can build on an earlier
// one's tool output.
type Exchange struct {
	Rows       []envelope.Record
	Columns    []string
	Allocation []render.AllocationEntry
	Citations  []string
}

// AddCitations appends citations, dropping duplicates.
func (e *Exchange) AddCitations(citations ...string) {
	for _, c := range citations {
		seen := false
		for _, existing := range e.Citations {
			if existing == c {
				seen = true
				break
			}
		}
		if !seen {
			e.Citations = append(e.Citations, c)
		}
	}
}

// Outcome is what a provider hands back to the router.
type Outcome struct {
	Provider   string
	AnswerText string
	Citations  []string

	// Escalate asks the router to try another provider or the generic
	// fallback path instead of (or in addition to) this answer.
	Escalate bool
}

// Provider is one specialized capability.
type Provider interface {
	Name() string
	Handle(ctx context.Context, req *Request) Outcome
}
