// Package query adapts the structured data store behind the Result Envelope
// contract. Parameters are bound as typed scalars, rows come back as records
// in column order, and temporal values are serialized to RFC 3339 strings
// before they leave this package; nothing downstream handles a time.Time.
package query

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"time"

	"github.com/intelliwealth/advisor/pkg/envelope"
)

// Fixed user-facing messages. Cause carries the diagnostic instead.
const (
	msgNoData      = "no data found for the given parameters"
	msgQueryFailed = "query failed"
)

// Spec is one parameterized query. Values are bound by name (never
// interpolated into Text), so Text uses @name placeholders.
type Spec struct {
	Text   string
	Params map[string]any
}

// Adapter executes Specs against a database/sql store.
type Adapter struct {
	db *sql.DB
}

func NewAdapter(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Execute runs the spec and normalizes the outcome: rows become Success
// records, zero rows become Empty with a fixed advisory, and any error
// becomes Failure. Raw errors never escape this method, and there are no
// retries at this layer.
func (a *Adapter) Execute(ctx context.Context, spec Spec) envelope.Result {
	rows, err := a.db.QueryContext(ctx, spec.Text, namedArgs(spec.Params)...)
	if err != nil {
		slog.Error("structured query failed", "error", err)
		return envelope.Fail(msgQueryFailed, err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		slog.Error("structured query failed", "error", err)
		return envelope.Fail(msgQueryFailed, err.Error())
	}

	var records []envelope.Record
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			slog.Error("structured query scan failed", "error", err)
			return envelope.Fail(msgQueryFailed, err.Error())
		}

		record := make(envelope.Record, len(columns))
		for i, col := range columns {
			record[col] = normalize(values[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		slog.Error("structured query iteration failed", "error", err)
		return envelope.Fail(msgQueryFailed, err.Error())
	}

	if len(records) == 0 {
		return envelope.NoData(msgNoData)
	}
	return envelope.Ok(records, columns...)
}

// namedArgs converts the parameter map into sql.Named bindings in a
// deterministic order.
func namedArgs(params map[string]any) []any {
	if len(params) == 0 {
		return nil
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, sql.Named(name, params[name]))
	}
	return args
}

// normalize converts driver values to envelope scalars: temporal values to
// RFC 3339 strings, byte slices to strings.
func normalize(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	default:
		return v
	}
}
