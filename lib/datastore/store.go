// Package datastore mirrors finished datasets into a sql database, one table
// per dataset holding every column as text.
package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"ssl-dataset/lib/telemetry"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("ssl-dataset.lib.datastore")

const runsSchema = `create table if not exists dataset_runs (
	name text not null,
	row_count integer not null,
	written_at integer not null
)`

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func (s Store) String() string {
	return "datastore"
}

// TableName turns a dataset name like "final-score" into "final_score".
func TableName(dataset string) string {
	return strings.ReplaceAll(dataset, "-", "_")
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

// Write replaces the contents of the dataset's table with `rows`.
func (s Store) Write(ctx context.Context, name string, columns []string, rows [][]string) error {
	ctx, span := tracer.Start(ctx, "datastore:Write")
	defer span.End()
	span.SetAttributes(attribute.String("dataset", name), attribute.Int("rows", len(rows)))

	err := s.write(ctx, name, columns, rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write dataset")
		return err
	}
	slog.InfoContext(ctx, "mirrored dataset", "dataset", name, "rows", len(rows))
	return nil
}

func (s Store) write(ctx context.Context, name string, columns []string, rows [][]string) error {
	if len(columns) == 0 {
		return fmt.Errorf("dataset %s has no columns", name)
	}

	table := quote(TableName(name))
	definitions := make([]string, len(columns))
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
		definitions[i] = quoted[i] + " text"
		placeholders[i] = "?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// the column set of a dataset may change between versions
	_, err = tx.ExecContext(ctx, fmt.Sprintf("drop table if exists %s", table))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		"create table %s (%s)",
		table, strings.Join(definitions, ", "),
	))
	if err != nil {
		return err
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"insert into %s (%s) values (%s)",
		table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "),
	))
	if err != nil {
		return err
	}
	defer insert.Close()

	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
		args := make([]any, len(row))
		for j, v := range row {
			args[j] = v
		}
		_, err = insert.ExecContext(ctx, args...)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, runsSchema)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(
		ctx,
		"insert into dataset_runs (name, row_count, written_at) values (?, ?, ?)",
		name, len(rows), time.Now().Unix(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Read returns every row of a mirrored dataset in insertion order.
func (s Store) Read(ctx context.Context, name string, columns []string) ([][]string, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"select %s from %s order by rowid",
		strings.Join(quoted, ", "), quote(TableName(name)),
	))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		values := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		err := rows.Scan(dest...)
		if err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

type Run struct {
	Name      string
	Rows      int
	WrittenAt time.Time
}

// Runs lists every write of the given datasets, oldest first. Without names
// the writes of every dataset are listed.
func (s Store) Runs(ctx context.Context, names ...string) ([]Run, error) {
	_, err := s.db.ExecContext(ctx, runsSchema)
	if err != nil {
		return nil, err
	}

	query := "select name, row_count, written_at from dataset_runs"
	args := make([]any, len(names))
	if len(names) > 0 {
		placeholders := make([]string, len(names))
		for i, name := range names {
			placeholders[i] = "?"
			args[i] = name
		}
		query += fmt.Sprintf(" where name in (%s)", strings.Join(placeholders, ", "))
	}
	query += " order by rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var writtenAt int64
		err := rows.Scan(&run.Name, &run.Rows, &writtenAt)
		if err != nil {
			return nil, err
		}
		run.WrittenAt = time.Unix(writtenAt, 0)
		out = append(out, run)
	}
	return out, rows.Err()
}
