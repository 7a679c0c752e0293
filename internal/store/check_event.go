package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// CheckEventData is one completed check. Report is the serialized
// feedback report; the store does not interpret it.
type CheckEventData struct {
	CheckID  string
	Mode     string
	Function string
	Steps    int
	Correct  int
	Passed   bool
	Report   json.RawMessage
}

// CheckRecord is a stored check.
type CheckRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	CheckEventData
}

var checkEventColumns = []string{
	"id", "sequence", "timestamp", "check_id", "mode", "function",
	"steps", "correct", "passed", "report",
}

// AppendCheck stores a check and returns its record.
func (l *EventLog) AppendCheck(ctx context.Context, data CheckEventData) (*CheckRecord, error) {
	id, seq, err := l.insert(ctx, checkEventsTable, checkEventColumns[3:], []any{
		data.CheckID, data.Mode, data.Function,
		data.Steps, data.Correct, data.Passed, string(data.Report),
	})
	if err != nil {
		return nil, fmt.Errorf("save check event: %w", err)
	}
	return &CheckRecord{ID: id, Sequence: seq, CheckEventData: data}, nil
}

// QueryChecks lists checks, newest first.
func (l *EventLog) QueryChecks(ctx context.Context, opts QueryOpts) ([]CheckRecord, error) {
	query, args := opts.apply(builder.Select(checkEventColumns...).From(builder.Table(checkEventsTable))).Query()
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var out []CheckRecord
	for rows.Next() {
		r, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetCheck finds a check by numeric id or by check ID prefix. It returns
// nil when nothing matches.
func (l *EventLog) GetCheck(ctx context.Context, ref string) (*CheckRecord, error) {
	if ref == "" {
		return nil, nil
	}
	where := entsql.HasPrefix("check_id", ref)
	if id, err := strconv.Atoi(ref); err == nil {
		where = entsql.Or(entsql.EQ("id", id), where)
	}
	query, args := builder.Select(checkEventColumns...).
		From(builder.Table(checkEventsTable)).
		Where(where).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()
	r, err := scanCheck(l.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// PruneChecks deletes all but the keep most recent checks and returns how
// many were removed.
func (l *EventLog) PruneChecks(ctx context.Context, keep int) (int, error) {
	recent := builder.Select("id").
		From(builder.Table(checkEventsTable)).
		OrderBy(entsql.Desc("sequence")).
		Limit(keep)
	query, args := builder.Delete(checkEventsTable).
		Where(entsql.NotIn("id", recent)).
		Query()
	res, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune checks: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanCheck(s scanner) (*CheckRecord, error) {
	var (
		r      CheckRecord
		report string
	)
	err := s.Scan(&r.ID, &r.Sequence, &r.Timestamp,
		&r.CheckID, &r.Mode, &r.Function,
		&r.Steps, &r.Correct, &r.Passed, &report)
	if err != nil {
		return nil, err
	}
	r.Report = json.RawMessage(report)
	return &r, nil
}
