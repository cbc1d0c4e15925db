package docsearch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"

	"github.com/intelliwealth/advisor/pkg/blobstore"
)

// extractor turns one document's raw bytes into searchable text.
type extractor func(data []byte) (string, error)

func builtinExtractors() map[blobstore.Format]extractor {
	return map[blobstore.Format]extractor{
		blobstore.FormatText:        extractPlain,
		blobstore.FormatMarkdown:    extractPlain,
		blobstore.FormatPDF:         extractPDF,
		blobstore.FormatWord:        extractWord,
		blobstore.FormatSpreadsheet: extractSpreadsheet,
	}
}

func extractPlain(data []byte) (string, error) {
	return string(data), nil
}

// extractPDF concatenates the plain text of every page. A page that fails
// to decode is skipped; the document as a whole still contributes text.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	var parts []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// extractWord pulls the text runs out of the document body and joins
// paragraphs with newlines.
func extractWord(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse Word document: %w", err)
	}
	defer doc.Close()

	return wordText(doc.Editable().GetContent()), nil
}

// wordText flattens WordprocessingML into plain text: <w:t> runs are kept,
// paragraph ends become newlines, everything else is dropped.
func wordText(content string) string {
	var b strings.Builder
	for i := 0; i < len(content); {
		if content[i] != '<' {
			i++
			continue
		}
		end := strings.IndexByte(content[i:], '>')
		if end < 0 {
			break
		}
		tag := content[i+1 : i+end]
		i += end + 1

		switch {
		case tag == "w:t" || strings.HasPrefix(tag, "w:t "):
			close := strings.Index(content[i:], "</w:t>")
			if close < 0 {
				break
			}
			b.WriteString(content[i : i+close])
			i += close + len("</w:t>")
		case tag == "/w:p":
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String())
}

// extractSpreadsheet walks every sheet, joining cells with " | " and rows
// with newlines, one block per sheet.
func extractSpreadsheet(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse spreadsheet: %w", err)
	}
	defer f.Close()

	var parts []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var sheetText strings.Builder
		for _, row := range rows {
			sheetText.WriteString(strings.Join(row, " | "))
			sheetText.WriteByte('\n')
		}
		if text := strings.TrimSpace(sheetText.String()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
