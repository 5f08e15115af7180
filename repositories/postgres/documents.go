package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/repositories"
	"github.com/baresto/baresto-api/services/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// documentTable runs the operations shared by every document collection
type documentTable struct {
	db         *DB
	collection models.Collection
	logger     *zap.Logger
}

func (t *documentTable) table() string {
	return t.collection.TableName()
}

func (t *documentTable) count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.table())

	var n int64
	if err := t.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.collection, err)
	}
	return n, nil
}

func (t *documentTable) insert(ctx context.Context, doc *models.Document) error {
	fields := doc.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", t.collection, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc, created_at)
		VALUES ($1, $2::jsonb, $3)
	`, t.table())

	if _, err := t.db.ExecContext(ctx, query, doc.ID, string(data), doc.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert %s document: %w", t.collection, err)
	}

	t.logger.Debug("document inserted",
		zap.String("collection", string(t.collection)),
		zap.String("id", doc.ID.String()))
	return nil
}

func (t *documentTable) getByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, doc, created_at
		FROM %s
		WHERE id = $1
	`, t.table())

	doc, err := scanDocument(t.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", t.collection, id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s document: %w", t.collection, err)
	}
	return doc, nil
}

func (t *documentTable) findByOwner(ctx context.Context, owner string) ([]*models.Document, error) {
	var (
		query strings.Builder
		args  []interface{}
	)
	fmt.Fprintf(&query, `SELECT id, doc, created_at FROM %s`, t.table())
	if owner != "" {
		query.WriteString(` WHERE doc->>'email' = $1`)
		args = append(args, owner)
	}
	query.WriteString(` ORDER BY seq ASC`)

	return t.queryDocuments(ctx, query.String(), args...)
}

func (t *documentTable) list(ctx context.Context, q *catalog.ListQuery) ([]*models.Document, error) {
	query, args := buildListQuery(t.table(), q)
	return t.queryDocuments(ctx, query, args...)
}

func (t *documentTable) delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table())

	result, err := t.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s document: %w", t.collection, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	t.logger.Debug("document deleted",
		zap.String("collection", string(t.collection)),
		zap.String("id", id.String()),
		zap.Int64("deleted", n))
	return n, nil
}

func (t *documentTable) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]*models.Document, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.collection, err)
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", t.collection, err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", t.collection, err)
	}

	return docs, nil
}

// buildListQuery renders the filter, sort and page of q as SQL. No request
// text is interpolated. Sorting on a bound key cannot use an expression
// index, so sorted pages scan the matching rows.
func buildListQuery(table string, q *catalog.ListQuery) (string, []interface{}) {
	var (
		b    strings.Builder
		args []interface{}
	)
	bind := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	fmt.Fprintf(&b, `SELECT id, doc, created_at FROM %s`, table)
	if q.HasCategory() {
		fmt.Fprintf(&b, ` WHERE doc->>'category' = %s`, bind(q.Category))
	}

	b.WriteString(` ORDER BY `)
	if q.Sort != nil {
		dir := "ASC"
		if q.Sort.Direction == catalog.SortDescending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, `doc -> %s::text %s, `, bind(q.Sort.Field), dir)
	}
	b.WriteString(`seq ASC`)

	fmt.Fprintf(&b, ` LIMIT %s OFFSET %s`, bind(q.Limit), bind(q.Skip()))
	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc models.Document
		raw []byte
	)
	if err := row.Scan(&doc.ID, &raw, &doc.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
	}
	if doc.Fields == nil {
		doc.Fields = map[string]interface{}{}
	}
	return &doc, nil
}
