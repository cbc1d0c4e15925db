// Package envelope defines the uniform result contract returned by every
// tool in the system. A tool call either succeeded with records, succeeded
// with no matching data, or failed; callers branch on Status and never see
// a raw error value cross the tool boundary.
package envelope

import "sort"

// Status classifies the outcome of a tool call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailure Status = "failure"
)

// Record is a single row of tool output, field name to scalar value.
type Record map[string]any

// Result is the envelope every tool returns.
//
// Exactly one of the three shapes holds: Success with at least one record,
// Empty with a user-facing message, or Failure with a message and a cause.
// Cause carries internal diagnostic detail and must never be included in
// user-facing text; it is logged and dropped.
type Result struct {
	Status  Status   `json:"status"`
	Records []Record `json:"records,omitempty"`

	// Columns preserves the field order of the source (SQL column order,
	// renderer header order). Optional; consumers fall back to the sorted
	// keys of the first record when absent.
	Columns []string `json:"columns,omitempty"`

	Message string `json:"message,omitempty"`
	Cause   string `json:"-"`
}

// Ok builds a Success result. Columns may be empty.
func Ok(records []Record, columns ...string) Result {
	return Result{Status: StatusSuccess, Records: records, Columns: columns}
}

// NoData builds an Empty result with a user-facing message.
func NoData(message string) Result {
	return Result{Status: StatusEmpty, Message: message}
}

// Fail builds a Failure result. message is safe to show to a user;
// cause is the underlying diagnostic and stays internal.
func Fail(message, cause string) Result {
	return Result{Status: StatusFailure, Message: message, Cause: cause}
}

// IsSuccess reports whether the result carries records.
func (r Result) IsSuccess() bool { return r.Status == StatusSuccess }

// IsEmpty reports whether the operation succeeded but matched nothing.
func (r Result) IsEmpty() bool { return r.Status == StatusEmpty }

// IsFailure reports whether the operation could not complete.
func (r Result) IsFailure() bool { return r.Status == StatusFailure }

// FieldOrder returns the column order for rendering: the explicit Columns
// when set, otherwise the sorted keys of the first record.
func (r Result) FieldOrder() []string {
	if len(r.Columns) > 0 {
		return r.Columns
	}
	if len(r.Records) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.Records[0]))
	for k := range r.Records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
