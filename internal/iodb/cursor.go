package iodb

import (
	"context"
	"database/sql"

	"github.com/dscurate/dscurate/pkg/dataset"
)

// Cursor streams the rows of a dataset query in fixed-size batches,
// so only one batch is held in memory at a time. It is single-pass
// and must be used from one goroutine.
type Cursor struct {
	rows *sql.Rows
	size int
	done bool
}

// NewCursor executes q and returns a cursor over its rows.
func NewCursor(
	ctx context.Context,
	sdb *sql.DB,
	q dataset.Query,
	size int,
) (*Cursor, error) {
	if sdb == nil {
		return nil, NotConnectedError()
	}
	if size <= 0 {
		size = 1
	}

	rows, err := sdb.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, QueryError(err)
	}
	return &Cursor{rows: rows, size: size}, nil
}

// Next returns up to the batch size of records. An empty batch means the
// result set is exhausted.
func (c *Cursor) Next(ctx context.Context) ([]dataset.Record, error) {
	if c.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, CancelledError(err)
	}

	batch := make([]dataset.Record, 0, c.size)
	for len(batch) < c.size && c.rows.Next() {
		var rec dataset.Record
		var ident, ext, tags sql.NullString
		if err := c.rows.Scan(&rec.ID, &ident, &ext, &tags); err != nil {
			return nil, ScanError(err)
		}
		rec.Identifier = ident.String
		rec.Extension = ext.String
		rec.Tags = tags.String
		batch = append(batch, rec)
	}

	if len(batch) < c.size {
		c.done = true
		if err := c.rows.Err(); err != nil {
			if ctx.Err() != nil {
				return nil, CancelledError(ctx.Err())
			}
			return nil, IterationError(err)
		}
	}
	return batch, nil
}

// Close releases the underlying rows.
func (c *Cursor) Close() error {
	c.done = true
	return c.rows.Close()
}

// Scan runs q and calls fn once per batch, strictly in sequence: the
// next batch is fetched only after fn returns. Returns the number of
// records delivered.
func Scan(
	ctx context.Context,
	sdb *sql.DB,
	q dataset.Query,
	size int,
	fn func(batch []dataset.Record) error,
) (int, error) {
	cur, err := NewCursor(ctx, sdb, q, size)
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	var total int
	for {
		batch, err := cur.Next(ctx)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}
		total += len(batch)
		if err = fn(batch); err != nil {
			return total, err
		}
	}
}

// Count runs a COUNT query and returns its single value.
func Count(ctx context.Context, sdb *sql.DB, q dataset.Query) (int, error) {
	if sdb == nil {
		return 0, NotConnectedError()
	}
	var res int
	if err := sdb.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&res); err != nil {
		return 0, QueryError(err)
	}
	return res, nil
}
