package store

import (
	"context"
	"database/sql"
	"time"

	"review-service/internal/metrics"

	"github.com/uptrace/bun"
)

// Entity is implemented by every model embedding model.Base.
type Entity interface {
	GetID() int
	IsNew() bool
	MarkCreated(now time.Time)
	MarkUpdated(now time.Time)
	LastUpdated() time.Time
	Audit() (createdAt, updatedAt time.Time)
}

// Gateway is the single write path to the database. It stamps the audit
// columns before every insert and update so no write can skip them.
type Gateway struct {
	now     func() time.Time
	metrics *metrics.DatabaseMetrics
}

type GatewayOption func(*Gateway)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.now = now
	}
}

func NewGateway(m *metrics.Metrics, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		now:     time.Now,
		metrics: m.Database,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WriteOptions narrows an update to rows matching Filters and keeps
// Immutable columns out of the SET list.
type WriteOptions struct {
	Filters   []Filter
	Immutable []string
}

func (g *Gateway) Save(ctx context.Context, db bun.IDB, table string, e Entity, opts WriteOptions) error {
	if e.IsNew() {
		return g.Insert(ctx, db, table, e)
	}
	return g.Update(ctx, db, table, e, opts)
}

// Insert puts the previous stamps back when the statement fails.
func (g *Gateway) Insert(ctx context.Context, db bun.IDB, table string, e Entity) error {
	prevCreated, prevUpdated := e.Audit()
	e.MarkCreated(g.clock())

	start := time.Now()
	_, err := db.NewInsert().Model(e).Returning("*").Exec(ctx)

	g.metrics.RecordQuery(ctx, "insert", table, time.Since(start), err)

	if err != nil {
		e.MarkCreated(prevCreated)
		e.MarkUpdated(prevUpdated)
		return Classify("insert", table, err)
	}
	return nil
}

// Update refreshes updated_at only. created_at is excluded from the SET list
// and read back from the row.
func (g *Gateway) Update(ctx context.Context, db bun.IDB, table string, e Entity, opts WriteOptions) error {
	prev := e.LastUpdated()
	e.MarkUpdated(g.next(prev))

	q := db.NewUpdate().
		Model(e).
		WherePK().
		ExcludeColumn(append([]string{"id", "created_at"}, opts.Immutable...)...).
		Returning("*")
	for _, f := range opts.Filters {
		q = q.Where(f.Query, f.Args...)
	}

	start := time.Now()
	res, err := q.Exec(ctx)

	g.metrics.RecordQuery(ctx, "update", table, time.Since(start), err)

	if err != nil {
		e.MarkUpdated(prev)
		return Classify("update", table, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		e.MarkUpdated(prev)
		return Classify("update", table, err)
	}
	if rowsAffected == 0 {
		e.MarkUpdated(prev)
		return &Error{Op: "update", Table: table, Kind: ErrNotFound, Err: sql.ErrNoRows}
	}
	return nil
}

// Postgres keeps microseconds, so stamps are truncated to match what is
// read back.
func (g *Gateway) clock() time.Time {
	return g.now().UTC().Truncate(time.Microsecond)
}

// next returns a stamp strictly after prev.
func (g *Gateway) next(prev time.Time) time.Time {
	now := g.clock()
	if !now.After(prev) {
		now = prev.UTC().Add(time.Microsecond)
	}
	return now
}
