package project

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"timetracker/internal/store"

	_ "modernc.org/sqlite"
)

// Repository mirrors store changes into an in-memory SQLite database so
// per-project totals can be answered with SQL. Nothing touches disk.
type Repository struct {
	db *sql.DB
}

func NewRepository(ctx context.Context) (*Repository, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening summary database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging summary database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating summary schema: %w", err)
	}

	return repo, nil
}

func (r *Repository) init(ctx context.Context) error {
	entriesQuery := `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		day TEXT NOT NULL,
		project TEXT NOT NULL,
		description TEXT NOT NULL,
		minutes INTEGER NOT NULL
	)
	`
	if _, err := r.db.ExecContext(ctx, entriesQuery); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_entries_project ON entries(project)`)
	return err
}

// Apply folds one store change into the summary tables.
func (r *Repository) Apply(ctx context.Context, c store.Change) error {
	switch c.Kind {
	case store.Added:
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO entries (id, day, project, description, minutes) VALUES (?, ?, ?, ?, ?)",
			c.Entry.ID.String(),
			c.Day.Format("2006-01-02"),
			c.Entry.Project,
			c.Entry.Description,
			c.Entry.DurationMinutes,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %s: %w", c.Entry.ID, err)
		}
	case store.Updated:
		_, err := r.db.ExecContext(ctx,
			"UPDATE entries SET project = ?, description = ?, minutes = ? WHERE id = ?",
			c.Entry.Project, c.Entry.Description, c.Entry.DurationMinutes, c.Entry.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("updating entry %s: %w", c.Entry.ID, err)
		}
	case store.Deleted:
		if _, err := r.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", c.Entry.ID.String()); err != nil {
			return fmt.Errorf("deleting entry %s: %w", c.Entry.ID, err)
		}
	default:
		return fmt.Errorf("unknown change kind %d", c.Kind)
	}
	return nil
}

// Totals returns one summary per project, largest first.
func (r *Repository) Totals(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project, SUM(minutes), COUNT(*), COUNT(DISTINCT day)
		 FROM entries
		 GROUP BY project
		 ORDER BY SUM(minutes) DESC, project ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying project totals: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Project, &s.Minutes, &s.Entries, &s.Days); err != nil {
			return nil, fmt.Errorf("scanning project total: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Count returns the number of mirrored entries.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Observer adapts the repository to store.Observer. Failures are logged;
// the store itself never fails.
func (r *Repository) Observer(logger *slog.Logger) store.Observer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return store.ObserverFunc(func(c store.Change) {
		if err := r.Apply(context.Background(), c); err != nil {
			logger.Error("summary_apply_failed", "kind", c.Kind.String(), "entry_id", c.Entry.ID.String(), "error", err.Error())
		}
	})
}

func (r *Repository) Close() error {
	return r.db.Close()
}
