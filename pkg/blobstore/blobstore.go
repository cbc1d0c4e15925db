// Package blobstore abstracts the document store behind the retrieval
// engine: a listing call plus a byte reader. The engine never touches a
// storage SDK directly, which keeps the scan logic testable against an
// in-memory fake.
package blobstore

import (
	"context"
	"path"
	"strings"
)

// Format tags a stored document with its extraction strategy.
type Format string

const (
	FormatText        Format = "text"
	FormatMarkdown    Format = "markdown"
	FormatPDF         Format = "pdf"
	FormatWord        Format = "word"
	FormatSpreadsheet Format = "spreadsheet"
	FormatUnknown     Format = "unknown"
)

// FormatFromLocator infers the document format from the locator extension.
func FormatFromLocator(locator string) Format {
	switch strings.ToLower(path.Ext(locator)) {
	case ".txt":
		return FormatText
	case ".md":
		return FormatMarkdown
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatWord
	case ".xlsx", ".xls":
		return FormatSpreadsheet
	default:
		return FormatUnknown
	}
}

// ObjectInfo identifies one stored document.
type ObjectInfo struct {
	Locator string
	Format  Format
}

// Store is the blob collaborator: list objects under a prefix in the
// store's stable order, and read one object's raw bytes.
type Store interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Read(ctx context.Context, locator string) ([]byte, error)
}
