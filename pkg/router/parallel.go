package router

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/intelliwealth/advisor/pkg/provider"
)

// dispatchParallel fans independent candidates out concurrently. It is only
// used for the generic fallback chain, whose providers read the request but
// never feed each other, so each call gets its own exchange and the merged
// citations are folded back afterwards. Outcome order follows candidate
// order regardless of completion order.
func (r *Router) dispatchParallel(ctx context.Context, req *provider.Request, candidates []string) (answered []provider.Outcome, lastResort provider.Outcome, tried map[string]bool, cancelled bool) {
	tried = make(map[string]bool)
	outcomes := make([]*provider.Outcome, len(candidates))
	exchanges := make([]*provider.Exchange, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range candidates {
		p, ok := r.providers.Get(name)
		if !ok {
			continue
		}
		tried[name] = true
		exchanges[i] = &provider.Exchange{}

		shadow := &provider.Request{ID: req.ID, Text: req.Text, Exchange: exchanges[i]}
		g.Go(func() error {
			out := p.Handle(gctx, shadow)
			outcomes[i] = &out
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		cancelled = true
	}

	for i, out := range outcomes {
		if out == nil {
			continue
		}
		if req.Exchange != nil && exchanges[i] != nil {
			req.Exchange.AddCitations(exchanges[i].Citations...)
		}
		if out.Escalate || strings.TrimSpace(out.AnswerText) == "" {
			providerEscalationsTotal.WithLabelValues(out.Provider).Inc()
			if lastResort.AnswerText == "" && strings.TrimSpace(out.AnswerText) != "" {
				lastResort = *out
			}
			continue
		}
		answered = append(answered, *out)
	}
	return
}
