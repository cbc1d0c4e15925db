// Package router is the top-level dispatcher: it classifies a request's
// intent, runs the candidate providers in order, and merges their answers
// into one response. The router is the last line of defense: whatever the
// providers do, the delivered response is never blank and never contains a
// raw error.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/intelliwealth/advisor/pkg/provider"
	"github.com/intelliwealth/advisor/pkg/registry"
)

// State tracks one request through the pipeline. States exist for logging
// and tests; nothing persists across requests.
type State string

const (
	StateReceived   State = "received"
	StateClassified State = "classified"
	StateDispatched State = "dispatched"
	StateMerged     State = "merged"
	StateDelivered  State = "delivered"
)

const (
	clarifyingQuestion = "I want to make sure I help with the right thing. Are you asking about " +
		"a client portfolio, live market news, internal research, recommendations, or a visualization?"

	genericApology = "I'm sorry, I couldn't find a confident answer to that with the data available."

	defaultNextStep = "Next step: would you like me to refine the search, pull a different data set, or escalate this to an advisor?"
)

// fallbackChain is the generic path tried when every candidate escalates:
// internal research first, then live search, per the escalation policy.
var fallbackChain = []string{"content", "market"}

// Response is the merged, user-facing result of one request.
type Response struct {
	RequestID string   `json:"request_id"`
	Answer    string   `json:"answer"`
	Citations []string `json:"citations,omitempty"`

	// Clarification marks a response that is a question back to the user
	// rather than an answer.
	Clarification bool `json:"clarification,omitempty"`
}

// Router dispatches requests to registered providers.
type Router struct {
	providers *registry.Registry[provider.Provider]
	rules     []intentRule
}

func New() *Router {
	return &Router{
		providers: registry.New[provider.Provider](),
		rules:     defaultRules(),
	}
}

// Register adds a provider. Registration happens once at startup; the
// registry is read-only afterwards.
func (r *Router) Register(p provider.Provider) error {
	return r.providers.Register(p.Name(), p)
}

// Handle runs one request through the full pipeline.
func (r *Router) Handle(ctx context.Context, req *provider.Request) Response {
	requestsTotal.Inc()
	logStep(req.ID, StateReceived, "text_len", len(req.Text))

	c := classify(req.Text, r.rules)
	logStep(req.ID, StateClassified, "intents", strings.Join(c.intents, ","), "ambiguous", c.ambiguous)

	if c.ambiguous {
		clarificationsTotal.Inc()
		return r.deliver(req.ID, Response{
			RequestID:     req.ID,
			Answer:        clarifyingQuestion,
			Clarification: true,
		})
	}

	candidates := c.candidates
	usedFallback := false
	if len(candidates) == 0 {
		candidates = fallbackChain
		usedFallback = true
		fallbacksTotal.Inc()
	}

	answered, lastResort, tried, cancelled := r.dispatch(ctx, req, candidates)
	logStep(req.ID, StateDispatched, "candidates", len(candidates), "answered", len(answered), "cancelled", cancelled)

	// Every candidate escalated: fall back to the generic chain before
	// giving up, skipping providers already tried.
	if len(answered) == 0 && !usedFallback && !cancelled {
		var remaining []string
		for _, name := range fallbackChain {
			if !tried[name] {
				remaining = append(remaining, name)
			}
		}
		if len(remaining) > 0 {
			fallbacksTotal.Inc()
			var fbLast provider.Outcome
			answered, fbLast, _, cancelled = r.dispatchParallel(ctx, req, remaining)
			if fbLast.AnswerText != "" {
				lastResort = fbLast
			}
		}
	}

	resp := r.merge(req, answered, lastResort, cancelled)
	logStep(req.ID, StateMerged, "answer_len", len(resp.Answer))
	return r.deliver(req.ID, resp)
}

// dispatch invokes candidates in order. A provider that escalates (or
// answers with empty text, which must not happen but is guarded anyway)
// does not stop the sequence; its text is retained as a last resort so an
// all-escalation request still surfaces the most relevant polite message.
func (r *Router) dispatch(ctx context.Context, req *provider.Request, candidates []string) (answered []provider.Outcome, lastResort provider.Outcome, tried map[string]bool, cancelled bool) {
	tried = make(map[string]bool)

	for _, name := range candidates {
		if ctx.Err() != nil {
			cancelled = true
			return
		}

		p, ok := r.providers.Get(name)
		if !ok {
			slog.Warn("candidate provider not registered", "request_id", req.ID, "provider", name)
			continue
		}
		tried[name] = true

		outcome := p.Handle(ctx, req)
		if outcome.Escalate || strings.TrimSpace(outcome.AnswerText) == "" {
			providerEscalationsTotal.WithLabelValues(name).Inc()
			if lastResort.AnswerText == "" && strings.TrimSpace(outcome.AnswerText) != "" {
				lastResort = outcome
			}
			continue
		}
		answered = append(answered, outcome)
	}
	return
}

// merge concatenates provider answers with attribution, deduplicates
// citations into a sources block, and always closes with a next step.
func (r *Router) merge(req *provider.Request, answered []provider.Outcome, lastResort provider.Outcome, cancelled bool) Response {
	var b strings.Builder
	var citations []string
	seen := make(map[string]bool)

	addCitations := func(cs []string) {
		for _, c := range cs {
			if !seen[c] {
				seen[c] = true
				citations = append(citations, c)
			}
		}
	}

	switch {
	case len(answered) > 0:
		for i, outcome := range answered {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "**%s**\n\n%s", sectionTitle(outcome.Provider), outcome.AnswerText)
			addCitations(outcome.Citations)
		}
		if cancelled {
			b.WriteString("\n\n_I had to stop early, so this is a partial answer._")
		}

	case lastResort.AnswerText != "":
		b.WriteString(genericApology)
		b.WriteString("\n\n")
		b.WriteString(lastResort.AnswerText)
		addCitations(lastResort.Citations)

	default:
		b.WriteString(genericApology)
	}

	if len(citations) > 0 {
		b.WriteString("\n\n**Sources**\n")
		for i, c := range citations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c)
		}
	}

	b.WriteString("\n")
	b.WriteString(nextStep(answered))

	return Response{
		RequestID: req.ID,
		Answer:    strings.TrimSpace(b.String()),
		Citations: citations,
	}
}

func (r *Router) deliver(requestID string, resp Response) Response {
	logStep(requestID, StateDelivered, "clarification", resp.Clarification)
	return resp
}

// nextStep picks the closing action line. There is always exactly one.
func nextStep(answered []provider.Outcome) string {
	byProvider := make(map[string]bool)
	for _, o := range answered {
		byProvider[o.Provider] = true
	}

	switch {
	case byProvider["portfolio"] && !byProvider["visualization"]:
		return "Next step: ask me to chart this breakdown, or request tailored recommendations."
	case byProvider["portfolio"] || byProvider["visualization"]:
		return "Next step: want tailored recommendations based on this picture?"
	case byProvider["market"] || byProvider["content"]:
		return "Next step: I can connect these findings to a specific client portfolio if you give me a customer ID."
	case byProvider["recommendation"]:
		return "Next step: shall I set up a deeper review of any of these recommendations?"
	default:
		return defaultNextStep
	}
}

func sectionTitle(providerName string) string {
	switch providerName {
	case "portfolio":
		return "Portfolio"
	case "market":
		return "Market Intelligence"
	case "content":
		return "Strategist Research"
	case "recommendation":
		return "Recommendations"
	case "visualization":
		return "Visualization"
	default:
		return providerName
	}
}

func logStep(requestID string, state State, attrs ...any) {
	args := append([]any{"request_id", requestID, "state", string(state)}, attrs...)
	slog.Debug("request pipeline", args...)
}
