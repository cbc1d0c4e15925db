package router

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliwealth/advisor/pkg/docsearch"
	"github.com/intelliwealth/advisor/pkg/provider"
	"github.com/intelliwealth/advisor/pkg/query"
	"github.com/intelliwealth/advisor/pkg/testutils"
	"github.com/intelliwealth/advisor/pkg/websearch"
)

// buildRouter wires a full stack against in-memory collaborators: a seeded
// sqlite store, an in-memory blob store, and a stub live search.
func buildRouter(t *testing.T, store *testutils.MemStore, search websearch.Client) *Router {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE customer_profile (customer_id INTEGER, customer_name TEXT);
		CREATE TABLE deposit_account (
			customer_id INTEGER, product_type TEXT,
			balance_amount REAL, interest_rate REAL, maturity_date TIMESTAMP
		);
		INSERT INTO customer_profile VALUES (123, 'Ada Lovelace');
		INSERT INTO deposit_account VALUES
			(123, 'Savings', 2500.0, 0.04, '2027-01-15 00:00:00'),
			(123, 'CD', 10000.0, 0.05, '2026-06-30 00:00:00'),
			(123, 'Checking', 1200.0, 0.0, NULL);
	`)
	require.NoError(t, err)

	adapter := query.NewAdapter(db)
	engine := docsearch.NewEngine(store, "thoughts")

	r := New()
	require.NoError(t, r.Register(provider.NewPortfolio(adapter)))
	require.NoError(t, r.Register(provider.NewMarket(search)))
	require.NoError(t, r.Register(provider.NewContent(engine)))
	require.NoError(t, r.Register(provider.NewRecommendation(search, nil)))
	require.NoError(t, r.Register(provider.NewVisualization()))
	return r
}

func TestHoldingsRequestEndToEnd(t *testing.T) {
	store := testutils.NewMemStore()
	r := buildRouter(t, store, &testutils.StubSearch{})

	resp := r.Handle(context.Background(), provider.NewRequest("r1", "show me customer 123's holdings"))

	assert.False(t, resp.Clarification)

	// The rendered table lists all three holdings.
	var dataLines int
	for _, line := range strings.Split(resp.Answer, "\n") {
		for _, product := range []string{"Savings", "CD", "Checking"} {
			if strings.HasPrefix(line, product+" | ") || strings.Contains(line, "| "+product+" |") {
				dataLines++
				break
			}
		}
	}
	assert.Equal(t, 3, dataLines, "all three holdings must appear as table rows:\n%s", resp.Answer)

	assert.Contains(t, resp.Answer, "Next step:")
	assert.Contains(t, resp.Citations, "internal portfolio database")

	// The visualization candidate ran on the portfolio rows.
	assert.Contains(t, resp.Answer, "Portfolio Allocation")
}

func TestUnknownTopicEndToEnd(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/macro.md", []byte("inflation outlook only"))

	// Nothing in the documents and nothing from live search.
	r := buildRouter(t, store, &testutils.StubSearch{})

	resp := r.Handle(context.Background(), provider.NewRequest("r1", "tell me about quantum yield farming overseas"))

	assert.False(t, resp.Clarification)
	assert.NotEmpty(t, resp.Answer)
	assert.Contains(t, resp.Answer, "sorry", "response should apologize (case-insensitively): %s", strings.ToLower(resp.Answer))
	lower := strings.ToLower(resp.Answer)
	assert.True(t, strings.Contains(lower, "refine") || strings.Contains(lower, "escalate"),
		"response should suggest refining or escalating:\n%s", resp.Answer)
	assert.Contains(t, resp.Answer, "Next step:")
}

func TestAmbiguousRequestAsksClarifyingQuestion(t *testing.T) {
	r := buildRouter(t, testutils.NewMemStore(), &testutils.StubSearch{})

	resp := r.Handle(context.Background(), provider.NewRequest("r1", "help"))

	assert.True(t, resp.Clarification)
	assert.Contains(t, resp.Answer, "?")
}

func TestPortfolioFailureFallsBackToOtherProviders(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/research.md", []byte("our holdings research covers customer strategies broadly"))

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// No schema: every portfolio query fails.

	r := New()
	require.NoError(t, r.Register(provider.NewPortfolio(query.NewAdapter(db))))
	require.NoError(t, r.Register(provider.NewContent(docsearch.NewEngine(store, "thoughts"))))
	require.NoError(t, r.Register(provider.NewMarket(&testutils.StubSearch{})))
	require.NoError(t, r.Register(provider.NewVisualization()))

	resp := r.Handle(context.Background(), provider.NewRequest("r1", "show customer 123 holdings"))

	// The content fallback found something relevant.
	assert.NotEmpty(t, resp.Answer)
	assert.Contains(t, resp.Answer, "blob://thoughts/research.md")
	assert.Contains(t, resp.Answer, "Next step:")
}

func TestCancelledRequestStillDelivers(t *testing.T) {
	r := buildRouter(t, testutils.NewMemStore(), &testutils.StubSearch{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := r.Handle(ctx, provider.NewRequest("r1", "show me customer 123's holdings"))

	assert.NotEmpty(t, resp.Answer)
	assert.Contains(t, resp.Answer, "Next step:")
}

func TestMergeAttributesMultipleProviders(t *testing.T) {
	r := buildRouter(t, testutils.NewMemStore(), &testutils.StubSearch{
		Results: []websearch.WebResult{{Title: "Fed news", Snippet: "s", URL: "https://example.com/fed"}},
	})

	resp := r.Handle(context.Background(), provider.NewRequest("r1", "market news for customer 123 account exposure"))

	assert.Contains(t, resp.Answer, "**Market Intelligence**")
	assert.Contains(t, resp.Answer, "**Portfolio**")
	assert.Contains(t, resp.Answer, "**Sources**")
	assert.Contains(t, resp.Citations, "https://example.com/fed")
	assert.Contains(t, resp.Citations, "internal portfolio database")
}

func TestRegisterRejectsDuplicateProviders(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(provider.NewVisualization()))
	assert.Error(t, r.Register(provider.NewVisualization()))
}

func TestResponseNeverBlank(t *testing.T) {
	// No providers registered at all: the router still apologizes.
	r := New()
	resp := r.Handle(context.Background(), provider.NewRequest("r1", "show me customer 123's holdings"))

	assert.NotEmpty(t, resp.Answer)
	assert.Contains(t, resp.Answer, "Next step:")
}
