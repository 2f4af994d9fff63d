package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/upb/blog-api/repositories"
	"go.uber.org/zap"
)

// Scanner is satisfied by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Schema describes how a resource maps onto a table. The id column is always
// named "id" and generated by the database; Columns lists the writable columns
// in the order returned by Values and expected by Scan (after id).
type Schema[T any, I any] struct {
	Table   string
	Columns []string
	Scan    func(row Scanner) (*T, error)
	Values  func(input *I) []interface{}
}

// Table implements repositories.Store for a single table described by a Schema
type Table[T any, I any] struct {
	db     *DB
	schema Schema[T, I]
	logger *zap.Logger

	listQuery   string
	getQuery    string
	insertQuery string
	updateQuery string
	deleteQuery string
}

// NewTable creates a table repository and prepares its SQL statements
func NewTable[T any, I any](db *DB, schema Schema[T, I], logger *zap.Logger) *Table[T, I] {
	returning := "id, " + strings.Join(schema.Columns, ", ")

	placeholders := make([]string, len(schema.Columns))
	assignments := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	return &Table[T, I]{
		db:     db,
		schema: schema,
		logger: logger,

		listQuery: fmt.Sprintf("SELECT %s FROM %s ORDER BY id", returning, schema.Table),
		getQuery:  fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", returning, schema.Table),
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			schema.Table, strings.Join(schema.Columns, ", "), strings.Join(placeholders, ", "), returning),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
			schema.Table, strings.Join(assignments, ", "), len(schema.Columns)+1, returning),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE id = $1", schema.Table),
	}
}

// List retrieves all rows ordered by id
func (t *Table[T, I]) List(ctx context.Context) ([]*T, error) {
	rows, err := t.db.QueryContext(ctx, t.listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.schema.Table, err)
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := t.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.schema.Table, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.schema.Table, err)
	}

	return items, nil
}

// Get retrieves a row by id
func (t *Table[T, I]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := t.schema.Scan(t.db.QueryRowContext(ctx, t.getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", t.schema.Table, id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s row: %w", t.schema.Table, err)
	}

	return item, nil
}

// Create inserts a row and returns it with its generated id
func (t *Table[T, I]) Create(ctx context.Context, input *I) (*T, error) {
	item, err := t.schema.Scan(t.db.QueryRowContext(ctx, t.insertQuery, t.schema.Values(input)...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", t.schema.Table, err)
	}

	t.logger.Debug("row inserted", zap.String("table", t.schema.Table))
	return item, nil
}

// Update replaces the writable columns of a row
func (t *Table[T, I]) Update(ctx context.Context, id int64, input *I) (*T, error) {
	args := append(t.schema.Values(input), id)

	item, err := t.schema.Scan(t.db.QueryRowContext(ctx, t.updateQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", t.schema.Table, id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update %s row: %w", t.schema.Table, err)
	}

	t.logger.Debug("row updated", zap.String("table", t.schema.Table), zap.Int64("id", id))
	return item, nil
}

// Delete removes a row
func (t *Table[T, I]) Delete(ctx context.Context, id int64) error {
	result, err := t.db.ExecContext(ctx, t.deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s row: %w", t.schema.Table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", t.schema.Table, id, repositories.ErrNotFound)
	}

	t.logger.Debug("row deleted", zap.String("table", t.schema.Table), zap.Int64("id", id))
	return nil
}

var _ repositories.Store[struct{}, struct{}] = (*Table[struct{}, struct{}])(nil)
