package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"review-service/internal/metrics"

	"github.com/uptrace/bun"
)

// CRUD is the storage contract shared by every entity type.
type CRUD[PT any] interface {
	Save(ctx context.Context, entity PT) (PT, error)
	FindByID(ctx context.Context, id int) (PT, error)
	FindAll(ctx context.Context) ([]PT, error)
	DeleteByID(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// Filter is a WHERE fragment applied to every query of a Repository, used to
// project one variant out of a shared table.
type Filter struct {
	Query string
	Args  []interface{}
}

type Option func(*options)

type options struct {
	filters   []Filter
	immutable []string
	relations []string
}

func WithFilter(query string, args ...interface{}) Option {
	return func(o *options) {
		o.filters = append(o.filters, Filter{Query: query, Args: args})
	}
}

// WithImmutableColumns keeps columns out of updates issued by this repository.
func WithImmutableColumns(columns ...string) Option {
	return func(o *options) {
		o.immutable = append(o.immutable, columns...)
	}
}

// WithRelations eagerly loads relations on FindByID and FindAll.
func WithRelations(relations ...string) Option {
	return func(o *options) {
		o.relations = append(o.relations, relations...)
	}
}

// Repository implements CRUD for one model type on top of the Gateway.
// Lookups that match nothing return nil without an error.
type Repository[T any, PT interface {
	*T
	Entity
}] struct {
	db      bun.IDB
	gateway *Gateway
	metrics *metrics.DatabaseMetrics
	table   string
	opts    options
}

func NewRepository[T any, PT interface {
	*T
	Entity
}](db bun.IDB, gateway *Gateway, table string, opts ...Option) *Repository[T, PT] {
	r := &Repository[T, PT]{
		db:      db,
		gateway: gateway,
		metrics: gateway.metrics,
		table:   table,
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// WithDB returns a copy bound to db, typically a bun.Tx.
func (r *Repository[T, PT]) WithDB(db bun.IDB) *Repository[T, PT] {
	cp := *r
	cp.db = db
	return &cp
}

func (r *Repository[T, PT]) DB() bun.IDB {
	return r.db
}

func (r *Repository[T, PT]) Gateway() *Gateway {
	return r.gateway
}

func (r *Repository[T, PT]) Table() string {
	return r.table
}

// Record reports a query issued outside the generic methods.
func (r *Repository[T, PT]) Record(ctx context.Context, operation string, start time.Time, err error) {
	r.metrics.RecordQuery(ctx, operation, r.table, time.Since(start), err)
}

func (r *Repository[T, PT]) Save(ctx context.Context, entity PT) (PT, error) {
	err := r.gateway.Save(ctx, r.db, r.table, entity, WriteOptions{
		Filters:   r.opts.filters,
		Immutable: r.opts.immutable,
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *Repository[T, PT]) FindByID(ctx context.Context, id int) (PT, error) {
	start := time.Now()
	entity := PT(new(T))
	q := r.selectQuery(entity).Where("?TableAlias.id = ?", id)
	err := q.Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", r.table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, Classify("select", r.table, err)
	}
	return entity, nil
}

func (r *Repository[T, PT]) FindAll(ctx context.Context) ([]PT, error) {
	start := time.Now()
	entities := make([]PT, 0)
	err := r.selectQuery(&entities).OrderExpr("?TableAlias.id ASC").Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", r.table, time.Since(start), err)

	if err != nil {
		return nil, Classify("select", r.table, err)
	}
	return entities, nil
}

// FindWhere returns every row matching query, with the repository filters
// and relations applied.
func (r *Repository[T, PT]) FindWhere(ctx context.Context, query string, args ...interface{}) ([]PT, error) {
	start := time.Now()
	entities := make([]PT, 0)
	err := r.selectQuery(&entities).Where(query, args...).OrderExpr("?TableAlias.id ASC").Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", r.table, time.Since(start), err)

	if err != nil {
		return nil, Classify("select", r.table, err)
	}
	return entities, nil
}

// FindOneWhere is FindWhere for at most one row.
func (r *Repository[T, PT]) FindOneWhere(ctx context.Context, query string, args ...interface{}) (PT, error) {
	start := time.Now()
	entity := PT(new(T))
	err := r.selectQuery(entity).Where(query, args...).Limit(1).Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", r.table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, Classify("select", r.table, err)
	}
	return entity, nil
}

func (r *Repository[T, PT]) DeleteByID(ctx context.Context, id int) error {
	start := time.Now()
	q := r.db.NewDelete().Model((*T)(nil)).Where("?TableAlias.id = ?", id)
	for _, f := range r.opts.filters {
		q = q.Where(f.Query, f.Args...)
	}
	result, err := q.Exec(ctx)

	r.metrics.RecordQuery(ctx, "delete", r.table, time.Since(start), err)

	if err != nil {
		return Classify("delete", r.table, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return Classify("delete", r.table, err)
	}
	if rowsAffected == 0 {
		return &Error{Op: "delete", Table: r.table, Kind: ErrNotFound, Err: sql.ErrNoRows}
	}
	return nil
}

func (r *Repository[T, PT]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	q := r.db.NewSelect().Model((*T)(nil))
	for _, f := range r.opts.filters {
		q = q.Where(f.Query, f.Args...)
	}
	count, err := q.Count(ctx)

	r.metrics.RecordQuery(ctx, "count", r.table, time.Since(start), err)

	if err != nil {
		return 0, Classify("count", r.table, err)
	}
	return count, nil
}

func (r *Repository[T, PT]) selectQuery(model interface{}) *bun.SelectQuery {
	q := r.db.NewSelect().Model(model)
	for _, rel := range r.opts.relations {
		q = q.Relation(rel)
	}
	for _, f := range r.opts.filters {
		q = q.Where(f.Query, f.Args...)
	}
	return q
}
