// Package docsearch implements the document retrieval engine: enumerate the
// stored documents under a fixed prefix, extract text per format, and scan
// for case-insensitive substring matches. There is no durable index; every
// search is a full pass over the store, and extracted text lives only for
// the duration of one search.
package docsearch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/intelliwealth/advisor/pkg/blobstore"
	"github.com/intelliwealth/advisor/pkg/envelope"
)

// contextWindow is the number of characters kept on each side of a match.
const contextWindow = 60

// Engine scans stored documents for substring matches.
type Engine struct {
	store      blobstore.Store
	prefix     string
	extractors map[blobstore.Format]extractor
}

func NewEngine(store blobstore.Store, prefix string) *Engine {
	return &Engine{
		store:      store,
		prefix:     prefix,
		extractors: builtinExtractors(),
	}
}

// Search returns Success records shaped {summary, source}, one per matching
// document. Extraction failures are isolated: the failing document is noted
// and the scan continues. Only a failure of the listing call itself yields
// a Failure envelope.
func (e *Engine) Search(ctx context.Context, query string) envelope.Result {
	objects, err := e.store.List(ctx, e.prefix)
	if err != nil {
		slog.Error("document listing failed", "prefix", e.prefix, "error", err)
		return envelope.Fail(
			"Sorry, the document search failed due to an internal error.",
			err.Error(),
		)
	}

	var records []envelope.Record
	var unreadable []string

	for _, obj := range objects {
		if ctx.Err() != nil {
			break
		}

		extract, ok := e.extractors[obj.Format]
		if !ok {
			// Unsupported formats are skipped, not counted as errors.
			continue
		}

		data, err := e.store.Read(ctx, obj.Locator)
		if err != nil {
			slog.Warn("document read failed", "locator", obj.Locator, "error", err)
			unreadable = append(unreadable, fmt.Sprintf("%s: %v", obj.Locator, err))
			continue
		}

		text, err := extract(data)
		if err != nil {
			slog.Warn("document extraction failed", "locator", obj.Locator, "error", err)
			unreadable = append(unreadable, fmt.Sprintf("%s: %v", obj.Locator, err))
			continue
		}

		if summary, found := snippet(text, query); found {
			records = append(records, envelope.Record{
				"summary": summary,
				"source":  obj.Locator,
			})
		}
	}

	if len(records) == 0 {
		msg := fmt.Sprintf("No relevant document found for '%s'.", query)
		if len(unreadable) > 0 {
			msg += " (Some files could not be read: " + strings.Join(unreadable, "; ") + ")"
		}
		return envelope.NoData(msg)
	}

	if len(unreadable) > 0 {
		records = append(records, envelope.Record{
			"summary": fmt.Sprintf("Note: %d file(s) could not be read. %s",
				len(unreadable), strings.Join(unreadable, ", ")),
			"source": "error",
		})
	}

	return envelope.Ok(records, "summary", "source")
}

// snippet finds the first case-insensitive occurrence of query in text and
// returns a bounded context window around it, newlines collapsed to spaces.
// An empty query matches at the start of any non-empty text.
func snippet(text, query string) (string, bool) {
	runes := []rune(text)
	q := []rune(query)

	idx := indexFold(runes, q)
	if idx < 0 {
		return "", false
	}

	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	end := idx + len(q) + contextWindow
	if end > len(runes) {
		end = len(runes)
	}

	window := string(runes[start:end])
	window = strings.NewReplacer("\r", " ", "\n", " ").Replace(window)
	return strings.TrimSpace(window), true
}

// indexFold is a case-insensitive substring search over runes. The corpus
// scan is already linear in total document size, so the simple comparison
// loop is not the bottleneck.
func indexFold(text, query []rune) int {
	if len(query) == 0 {
		if len(text) == 0 {
			return -1
		}
		return 0
	}
	if len(query) > len(text) {
		return -1
	}

	for i := 0; i+len(query) <= len(text); i++ {
		match := true
		for j := range query {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(query[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
