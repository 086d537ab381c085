package sheetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores each logical sheet as a registry entry plus JSON-encoded
// rows, preserving the rotation-unit semantics on a real database.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres { return &Postgres{pool: pool} }

// Migrate creates the backing tables. Idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS sheets (
    name       text PRIMARY KEY,
    header     jsonb NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS sheet_rows (
    sheet_name text NOT NULL REFERENCES sheets(name),
    row_index  int  NOT NULL,
    cells      jsonb NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (sheet_name, row_index)
);
`)
	return err
}

func (p *Postgres) Create(ctx context.Context, name string, header []string) error {
	b, err := json.Marshal(header)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO sheets (name, header) VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING`, name, b)
	return err
}

func (p *Postgres) Append(ctx context.Context, name string, row []string) (int, error) {
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sheets WHERE name = $1)`, name).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrSheetNotFound
	}

	b, err := json.Marshal(row)
	if err != nil {
		return 0, err
	}
	// The header occupies row 1; data rows start at 2.
	var rowIndex int
	err = p.pool.QueryRow(ctx, `
		INSERT INTO sheet_rows (sheet_name, row_index, cells)
		VALUES ($1, (SELECT COALESCE(MAX(row_index), 1) + 1 FROM sheet_rows WHERE sheet_name = $1), $2)
		RETURNING row_index`, name, b).Scan(&rowIndex)
	if err != nil {
		return 0, fmt.Errorf("append to sheet %s: %w", name, err)
	}
	return rowIndex, nil
}

func (p *Postgres) Read(ctx context.Context, name string) ([][]string, error) {
	var headerRaw []byte
	err := p.pool.QueryRow(ctx, `SELECT header FROM sheets WHERE name = $1`, name).Scan(&headerRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSheetNotFound
	}
	if err != nil {
		return nil, err
	}
	var header []string
	if err := json.Unmarshal(headerRaw, &header); err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, `
		SELECT cells FROM sheet_rows WHERE sheet_name = $1 ORDER BY row_index`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := [][]string{header}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, err
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

func (p *Postgres) LastRow(ctx context.Context, name string) (int, error) {
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sheets WHERE name = $1)`, name).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrSheetNotFound
	}
	var last int
	err := p.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(row_index), 1) FROM sheet_rows WHERE sheet_name = $1`, name).Scan(&last)
	return last, err
}

func (p *Postgres) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT name FROM sheets WHERE name LIKE $1 || '%' ORDER BY created_at`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
