// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/iliyamo/handwash-service/internal/model"

// ObservationRecordedEvent is published after an observation is stored.  It
// carries the full row so consumers never need to query the database.
type ObservationRecordedEvent struct {
	ObservationID int64  `json:"observation_id"`
	Status        string `json:"status"`
	Moment        string `json:"moment"`
	Activity      string `json:"activity"`
	Method        string `json:"method"`
	Quality       string `json:"quality"`
	Evaluator     string `json:"evaluator"`
	Suggestion    string `json:"suggestion"`
	Timestamp     string `json:"timestamp"`
	RecordedAt    string `json:"recorded_at"`
}

// NewObservationRecordedEvent builds the event for o.  recordedAt is the
// server time of the insert, which may differ from a client timestamp.
func NewObservationRecordedEvent(o model.Observation, recordedAt string) ObservationRecordedEvent {
	return ObservationRecordedEvent{
		ObservationID: o.ID,
		Status:        o.Status,
		Moment:        o.Moment,
		Activity:      o.Activity,
		Method:        o.Method,
		Quality:       o.Quality,
		Evaluator:     o.Evaluator,
		Suggestion:    o.Suggestion,
		Timestamp:     o.Timestamp,
		RecordedAt:    recordedAt,
	}
}
