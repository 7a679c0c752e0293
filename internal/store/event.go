package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// builder renders ent SQL builders for SQLite.
var builder = entsql.Dialect(dialect.SQLite)

// EventRepo is what the LLM logging middleware needs from the store.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// QueryOpts filters and limits event queries. Zero values disable a
// filter. Results come newest first.
type QueryOpts struct {
	Limit  int
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

func (o QueryOpts) apply(s *entsql.Selector) *entsql.Selector {
	var ps []*entsql.Predicate
	if o.After > 0 {
		ps = append(ps, entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		ps = append(ps, entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		ps = append(ps, entsql.GTE("timestamp", o.From))
	}
	if !o.To.IsZero() {
		ps = append(ps, entsql.LTE("timestamp", o.To))
	}
	if len(ps) > 0 {
		s.Where(entsql.And(ps...))
	}
	s.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		s.Limit(o.Limit)
	}
	return s
}

// EventLog appends and queries events. Every append takes the next value
// of one sequence shared by all event tables, so events of different
// kinds can be ordered against each other.
type EventLog struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (l *EventLog) insert(ctx context.Context, table string, cols []string, vals []any) (int, int64, error) {
	seq, err := l.seq.Next(ctx)
	if err != nil {
		return 0, 0, err
	}
	query, args := builder.Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seq, time.Now().UTC()}, vals...)...).
		Query()
	res, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	return int(id), seq, nil
}

// sequenceCounter hands out the global sequence. The mutex serializes
// callers in this process and UPDATE ... RETURNING makes each increment
// atomic in the database.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	query, args := builder.Insert(globalSequenceTable).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the current value and advances the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
