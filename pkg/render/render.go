// Package render turns tabular and keyed-numeric data into markdown text.
// Both renderers degrade to a short fixed message on any bad input; they
// never return an error and never panic across the package boundary,
// because a broken visualization must not block the surrounding answer.
package render

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/intelliwealth/advisor/pkg/envelope"
)

// barWidth is the character width of a full allocation bar.
const barWidth = 20

// Fixed soft-failure messages.
const (
	MsgNoAllocationData = "**No allocation data available.**"
	MsgNoValidData      = "**No valid nonzero allocation data to display.**"
	MsgNoTableData      = "**No valid table data to display.**"
	MsgNoTableHeaders   = "**No table headers found.**"
	MsgEmptyTable       = "**Table is empty. No data to show.**"
)

// AllocationEntry is one category of an allocation map. A slice preserves
// the caller's ordering, which a Go map cannot.
type AllocationEntry struct {
	Label string
	Value any
}

// Breakdown renders an allocation as a heading plus one bar line per entry.
// Percentages are rounded independently per entry (they may not sum to
// exactly 100), and any strictly positive value gets at least one filled
// bar cell so it never renders as empty.
func Breakdown(entries []AllocationEntry) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("breakdown renderer panicked", "panic", r)
			out = MsgNoValidData
		}
	}()

	if len(entries) == 0 {
		return MsgNoAllocationData
	}

	type cleaned struct {
		label string
		value float64
	}
	var kept []cleaned
	var total float64
	for _, e := range entries {
		v, ok := coerce(e.Value)
		if !ok {
			continue
		}
		kept = append(kept, cleaned{label: e.Label, value: v})
		total += v
	}
	if len(kept) == 0 || total == 0 {
		return MsgNoValidData
	}

	var lines []string
	for _, e := range kept {
		pct := int(math.Round(100 * e.value / total))
		barLen := 0
		if e.value > 0 {
			barLen = int(math.Round(barWidth * e.value / total))
			if barLen < 1 {
				barLen = 1
			}
			if barLen > barWidth {
				barLen = barWidth
			}
		}
		bar := strings.Repeat("█", barLen) + strings.Repeat("-", barWidth-barLen)
		lines = append(lines, fmt.Sprintf("- **%s**: $%s  (%d%% | %s)",
			e.label, groupThousands(e.value), pct, bar))
	}

	return "### Portfolio Allocation\n" + strings.Join(lines, "\n")
}

// BreakdownMap renders an unordered allocation map. Keys are ordered
// lexically so the output is deterministic.
func BreakdownMap(m map[string]any) string {
	if m == nil {
		return MsgNoAllocationData
	}
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	entries := make([]AllocationEntry, 0, len(labels))
	for _, label := range labels {
		entries = append(entries, AllocationEntry{Label: label, Value: m[label]})
	}
	return Breakdown(entries)
}

// Table renders rows as a markdown table. columns sets the header order;
// when empty, the sorted keys of the first row are used. Rows missing a
// field render a blank cell.
func Table(columns []string, rows []envelope.Record) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("table renderer panicked", "panic", r)
			out = MsgNoTableData
		}
	}()

	if len(rows) == 0 {
		return MsgNoTableData
	}
	for _, row := range rows {
		if row == nil {
			return MsgNoTableData
		}
	}

	headers := columns
	if len(headers) == 0 {
		headers = envelope.Ok(rows).FieldOrder()
	}
	if len(headers) == 0 {
		return MsgNoTableHeaders
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, strings.Join(headers, " | "))

	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	lines = append(lines, strings.Join(separators, " | "))

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := row[h]; ok && v != nil {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		lines = append(lines, strings.Join(cells, " | "))
	}

	if len(lines) <= 2 {
		return MsgEmptyTable
	}
	return strings.Join(lines, "\n")
}

// coerce converts numeric-ish values to float64. Nil, booleans and
// non-numeric strings are dropped.
func coerce(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// groupThousands formats the value with comma separators and no decimals.
func groupThousands(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String()
}
