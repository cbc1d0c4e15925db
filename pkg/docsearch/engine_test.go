package docsearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliwealth/advisor/pkg/testutils"
)

func TestSearchFindsMatchesAcrossDocuments(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/macro.md", []byte("Our house view: inflation is cooling and rate cuts are likely in Q3."))
	store.Put("thoughts/equities.txt", []byte("Equity strategy note. Overweight technology, underweight energy."))
	store.Put("thoughts/photo.png", []byte{0x89, 0x50}) // unsupported, silently skipped

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "rate cuts")

	require.True(t, result.IsSuccess())
	require.Len(t, result.Records, 1)
	assert.Equal(t, "blob://thoughts/macro.md", result.Records[0]["source"])
	assert.Contains(t, result.Records[0]["summary"], "rate cuts")
}

func TestSearchEmptyNamesQueryVerbatim(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/macro.md", []byte("nothing relevant here"))

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "quantum yield farming")

	require.True(t, result.IsEmpty())
	assert.Contains(t, result.Message, "quantum yield farming")
}

func TestSearchIsolatesExtractionFailures(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/broken.pdf", []byte("definitely not a pdf"))
	store.Put("thoughts/good.txt", []byte("the topic of interest appears here"))

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "topic of interest")

	// Matches from the healthy document survive, plus one advisory record.
	require.True(t, result.IsSuccess())
	require.Len(t, result.Records, 2)
	assert.Equal(t, "blob://thoughts/good.txt", result.Records[0]["source"])

	advisory := result.Records[1]
	assert.Equal(t, "error", advisory["source"])
	assert.Contains(t, advisory["summary"], "1 file(s) could not be read")
	assert.Contains(t, advisory["summary"], "broken.pdf")
}

func TestSearchEmptyReportsUnreadableFiles(t *testing.T) {
	store := testutils.NewMemStore()
	loc := store.Put("thoughts/flaky.txt", []byte("irrelevant"))
	store.ReadErrs[loc] = errors.New("permission denied")

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "missing topic")

	require.True(t, result.IsEmpty())
	assert.Contains(t, result.Message, "missing topic")
	assert.Contains(t, result.Message, "flaky.txt")
	assert.Contains(t, result.Message, "permission denied")
}

func TestSearchListingFailureIsFailure(t *testing.T) {
	store := testutils.NewMemStore()
	store.ListErr = errors.New("store unreachable")

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "anything")

	require.True(t, result.IsFailure())
	assert.Contains(t, result.Cause, "store unreachable")
	assert.NotContains(t, result.Message, "store unreachable")
}

func TestSearchEmptyQueryMatchesEverything(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/a.txt", []byte("alpha"))
	store.Put("thoughts/b.txt", []byte("beta"))

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "")

	require.True(t, result.IsSuccess())
	assert.Len(t, result.Records, 2)
}

func TestSearchOneMatchPerDocument(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/a.txt", []byte("bonds here, bonds there, bonds everywhere"))

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "bonds")

	require.True(t, result.IsSuccess())
	assert.Len(t, result.Records, 1)
}

func TestSnippetWindow(t *testing.T) {
	long := strings.Repeat("x", 200) + "NEEDLE" + strings.Repeat("y", 200)

	summary, found := snippet(long, "needle")
	require.True(t, found)

	// 60 context runes either side of the 6-rune match.
	assert.Len(t, summary, 60+6+60)
	assert.Contains(t, summary, "NEEDLE")
}

func TestSnippetCollapsesNewlines(t *testing.T) {
	summary, found := snippet("first line\nsecond line with target\nthird", "target")
	require.True(t, found)
	assert.NotContains(t, summary, "\n")
	assert.Contains(t, summary, "second line with target")
}

func TestRecordShape(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/a.txt", []byte("something notable"))

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "notable")

	require.True(t, result.IsSuccess())
	assert.Equal(t, []string{"summary", "source"}, result.FieldOrder())
	for _, rec := range result.Records {
		_, ok := rec["summary"].(string)
		assert.True(t, ok)
		_, ok = rec["source"].(string)
		assert.True(t, ok)
	}
}

func TestSearchRespectsListingOrder(t *testing.T) {
	store := testutils.NewMemStore()
	store.Put("thoughts/z.txt", []byte("shared term first by listing order"))
	store.Put("thoughts/a.txt", []byte("shared term second by listing order"))

	engine := NewEngine(store, "thoughts")
	result := engine.Search(context.Background(), "shared term")

	require.True(t, result.IsSuccess())
	require.Len(t, result.Records, 2)
	assert.Equal(t, "blob://thoughts/z.txt", result.Records[0]["source"])
	assert.Equal(t, "blob://thoughts/a.txt", result.Records[1]["source"])
}
