// Package history stores feedback reports as check events and reads them
// back.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/derivacheck/internal/checker"
	"github.com/abhisek/derivacheck/internal/store"
)

// Event builds the stored form of a feedback report.
func Event(rep *checker.FeedbackReport) (store.CheckEventData, error) {
	b, err := json.Marshal(rep)
	if err != nil {
		return store.CheckEventData{}, fmt.Errorf("marshal report: %w", err)
	}
	return store.CheckEventData{
		CheckID:  rep.ID,
		Mode:     string(rep.Mode),
		Function: rep.Problem,
		Steps:    len(rep.Verdicts),
		Correct:  rep.Summary.Correct,
		Passed:   rep.Summary.Passed,
		Report:   b,
	}, nil
}

// Save appends rep to the event log. It outlives cancellation of ctx so
// a finished check is not lost to a closed request.
func Save(ctx context.Context, events *store.EventLog, rep *checker.FeedbackReport) (*store.CheckRecord, error) {
	data, err := Event(rep)
	if err != nil {
		return nil, err
	}
	return events.AppendCheck(context.WithoutCancel(ctx), data)
}

// Decode reads the feedback report stored in rec.
func Decode(rec *store.CheckRecord) (*checker.FeedbackReport, error) {
	var rep checker.FeedbackReport
	if err := json.Unmarshal(rec.Report, &rep); err != nil {
		return nil, fmt.Errorf("decode report of check %d: %w", rec.ID, err)
	}
	return &rep, nil
}
