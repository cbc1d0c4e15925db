package router

import (
	"sort"
	"strings"
)

// intentRule maps trigger keywords to an ordered provider sequence. The
// sequence order matters: portfolio questions flow into visualization so
// the chart provider can reuse the rows the portfolio provider fetched.
type intentRule struct {
	intent    string
	keywords  []string
	providers []string
}

func defaultRules() []intentRule {
	return []intentRule{
		{
			intent: "portfolio",
			keywords: []string{
				"portfolio", "holding", "account", "balance", "exposure",
				"asset", "customer", "client", "concentration", "net worth",
			},
			providers: []string{"portfolio", "visualization"},
		},
		{
			intent: "visualization",
			keywords: []string{
				"chart", "graph", "visuali", "breakdown", "plot", "table",
			},
			providers: []string{"visualization"},
		},
		{
			intent: "market",
			keywords: []string{
				"market", "price", "quote", "news", "stock", "rate",
				"economy", "fed", "trend", "live", "today",
			},
			providers: []string{"market"},
		},
		{
			intent: "content",
			keywords: []string{
				"research", "strategist", "thought", "insight", "internal",
				"whitepaper", "outlook", "view", "theme",
			},
			providers: []string{"content"},
		},
		{
			intent: "recommendation",
			keywords: []string{
				"recommend", "suggest", "advice", "advise", "should",
				"strategy", "idea", "action",
			},
			providers: []string{"recommendation"},
		},
	}
}

// classification is the outcome of mapping free text to providers.
type classification struct {
	intents    []string
	candidates []string
	ambiguous  bool
}

// classify scores each intent rule by keyword hits and returns the merged
// candidate provider sequence, highest-scoring intent first. Text the rules
// cannot interpret at all is ambiguous when it is too short to fall back on,
// otherwise it flows to the generic fallback chain.
func classify(text string, rules []intentRule) classification {
	lowered := strings.ToLower(text)
	trimmed := strings.TrimSpace(lowered)

	if trimmed == "" {
		return classification{ambiguous: true}
	}

	type scored struct {
		rule  intentRule
		score int
		pos   int
	}
	var hits []scored
	for i, rule := range rules {
		score := 0
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{rule: rule, score: score, pos: i})
		}
	}

	if len(hits) == 0 {
		// A bare word or two gives the fallback providers nothing to work
		// with either; ask instead of guessing.
		if len(strings.Fields(trimmed)) < 3 {
			return classification{ambiguous: true}
		}
		return classification{}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	var c classification
	seen := make(map[string]bool)
	for _, h := range hits {
		c.intents = append(c.intents, h.rule.intent)
		for _, p := range h.rule.providers {
			if !seen[p] {
				seen[p] = true
				c.candidates = append(c.candidates, p)
			}
		}
	}
	return c
}
