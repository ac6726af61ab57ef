package model

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for server generated
// timestamps.  It matches the millisecond UTC form most clients emit so
// server and client values sort together.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Observation represents one handwashing observation.  It corresponds to a
// row in the observation table (`handwash` by default).  Rows are created
// once by a submit request and never updated or deleted.
//
// Fields:
//  ID         – primary key assigned by the database on insert.
//  Status     – observed compliance status (required).
//  Moment     – moment of hand hygiene, e.g. before-meal (required).
//  Activity   – optional activity description.
//  Method     – washing method, e.g. soap or alcohol (required).
//  Quality    – quality of the wash (required).
//  Evaluator  – who recorded the observation (required).
//  Suggestion – optional free text advice.
//  Timestamp  – ISO-8601 string, stored exactly as received.
type Observation struct {
	ID         int64  `json:"id"`         // handwash.id
	Status     string `json:"status"`     // handwash.status
	Moment     string `json:"moment"`     // handwash.moment
	Activity   string `json:"activity"`   // handwash.activity
	Method     string `json:"method"`     // handwash.method
	Quality    string `json:"quality"`    // handwash.quality
	Evaluator  string `json:"evaluator"`  // handwash.evaluator
	Suggestion string `json:"suggestion"` // handwash.suggestion
	Timestamp  string `json:"timestamp"`  // handwash.timestamp
}

// SubmitInput is the body accepted by POST /api/submit, either as JSON or
// as a url-encoded form.  Optional fields
// default to the empty string and Timestamp defaults to the server clock.
type SubmitInput struct {
	Status     string `json:"status" form:"status"`
	Moment     string `json:"moment" form:"moment"`
	Activity   string `json:"activity" form:"activity"`
	Method     string `json:"method" form:"method"`
	Quality    string `json:"quality" form:"quality"`
	Evaluator  string `json:"evaluator" form:"evaluator"`
	Suggestion string `json:"suggestion" form:"suggestion"`
	Timestamp  string `json:"timestamp" form:"timestamp"`
}

// Validate reports every required field that is missing or empty.
func (in SubmitInput) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"status", in.Status},
		{"moment", in.Moment},
		{"method", in.Method},
		{"quality", in.Quality},
		{"evaluator", in.Evaluator},
	}
	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Observation builds the row to persist.  A non-empty client timestamp is
// kept verbatim; otherwise now is formatted in UTC.
func (in SubmitInput) Observation(now time.Time) Observation {
	ts := in.Timestamp
	if ts == "" {
		ts = FormatTimestamp(now)
	}
	return Observation{
		Status:     in.Status,
		Moment:     in.Moment,
		Activity:   in.Activity,
		Method:     in.Method,
		Quality:    in.Quality,
		Evaluator:  in.Evaluator,
		Suggestion: in.Suggestion,
		Timestamp:  ts,
	}
}

// FormatTimestamp renders t the way the server stores generated timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ValidationError lists the required fields absent from a submit body.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
