package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresBackend stores documents in the JSONB documents table.
type postgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend builds a Backend over an existing pgx pool. The pool
// remains owned by the caller.
func NewPostgresBackend(pool *pgxpool.Pool) Backend {
	return &postgresBackend{pool: pool}
}

func (b *postgresBackend) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `
        SELECT id, data FROM documents
        WHERE collection = $1
        ORDER BY data->>'name', id`
	rows, err := b.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

func (b *postgresBackend) Get(ctx context.Context, collection, id string) (Document, error) {
	const query = `SELECT id, data FROM documents WHERE collection = $1 AND id = $2`
	var doc Document
	if err := b.pool.QueryRow(ctx, query, collection, id).Scan(&doc.ID, &doc.Data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (b *postgresBackend) Insert(ctx context.Context, collection, id string, data []byte) error {
	const query = `
        INSERT INTO documents (collection, id, data)
        VALUES ($1, $2, $3)
        ON CONFLICT (collection, id)
        DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	_, err := b.pool.Exec(ctx, query, collection, id, data)
	return err
}

func (b *postgresBackend) Merge(ctx context.Context, collection, id string, patch []byte) error {
	const query = `
        UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
        WHERE collection = $1 AND id = $2`
	cmd, err := b.pool.Exec(ctx, query, collection, id, patch)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *postgresBackend) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	_, err := b.pool.Exec(ctx, query, collection, id)
	return err
}

func (b *postgresBackend) DeleteMany(ctx context.Context, collection string, ids []string) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	for _, id := range ids {
		cmd, err := tx.Exec(ctx, query, collection, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
		}
	}
	return tx.Commit(ctx)
}

func (b *postgresBackend) Close() {}
