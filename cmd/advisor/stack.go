package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/intelliwealth/advisor/pkg/blobstore"
	"github.com/intelliwealth/advisor/pkg/config"
	"github.com/intelliwealth/advisor/pkg/docsearch"
	"github.com/intelliwealth/advisor/pkg/llms"
	"github.com/intelliwealth/advisor/pkg/provider"
	"github.com/intelliwealth/advisor/pkg/query"
	"github.com/intelliwealth/advisor/pkg/router"
	"github.com/intelliwealth/advisor/pkg/websearch"
)

// buildRouter wires the full provider stack from config. The returned close
// function releases the database pool.
func buildRouter(cfg *config.Config) (*router.Router, func() error, error) {
	db, err := sql.Open(cfg.Database.DriverName(), cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdle)

	adapter := query.NewAdapter(db)
	engine := docsearch.NewEngine(blobstore.NewFSStore(cfg.Documents.Root), cfg.Documents.Prefix)

	var search websearch.Client
	if cfg.Search.Enabled() {
		search = websearch.NewHTTPClient(cfg.Search.BaseURL,
			websearch.WithAPIKey(cfg.Search.APIKey),
			websearch.WithMaxResults(cfg.Search.MaxResults),
			websearch.WithTimeout(cfg.Search.Timeout),
		)
	} else {
		slog.Info("live search disabled: no base_url configured")
	}

	var completer llms.Completer
	if cfg.Completion.Enabled() {
		opts := []llms.OpenAIOption{
			llms.WithTemperature(cfg.Completion.Temperature),
			llms.WithMaxTokens(cfg.Completion.MaxTokens),
		}
		if cfg.Completion.BaseURL != "" {
			opts = append(opts, llms.WithBaseURL(cfg.Completion.BaseURL))
		}
		completer = llms.NewOpenAIProvider(cfg.Completion.APIKey, cfg.Completion.Model, opts...)
	}

	r := router.New()
	for _, p := range []provider.Provider{
		provider.NewPortfolio(adapter),
		provider.NewMarket(search),
		provider.NewContent(engine),
		provider.NewRecommendation(search, completer),
		provider.NewVisualization(),
	} {
		if err := r.Register(p); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to register provider %s: %w", p.Name(), err)
		}
	}

	return r, db.Close, nil
}
