package ledger

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// SQLiteLedger implements Ledger using modernc.org/sqlite.
type SQLiteLedger struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database inside the working directory
// and configures WAL mode.
func Open(workdir string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", filepath.Join(workdir, DBName))
	if err != nil {
		return nil, eris.Wrap(err, "ledger: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "ledger: exec %s", pragma)
		}
	}
	return &SQLiteLedger{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	client      TEXT NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME,
	photos      INTEGER NOT NULL DEFAULT 0,
	tagged      INTEGER NOT NULL DEFAULT 0,
	unmatched   INTEGER NOT NULL DEFAULT 0,
	unlocatable INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS assignments (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES runs(id),
	original_name TEXT NOT NULL,
	final_name    TEXT NOT NULL,
	route         TEXT NOT NULL,
	lat           REAL NOT NULL,
	lon           REAL NOT NULL,
	captured_at   DATETIME
);

CREATE INDEX IF NOT EXISTS idx_assignments_run_id ON assignments(run_id);
CREATE INDEX IF NOT EXISTS idx_assignments_final_name ON assignments(final_name);
`

func (l *SQLiteLedger) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "ledger: migrate")
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

func (l *SQLiteLedger) BeginRun(ctx context.Context, client string) (string, error) {
	id := uuid.New().String()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, client, started_at) VALUES (?, ?, ?)`,
		id, client, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "ledger: insert run")
	}
	return id, nil
}

func (l *SQLiteLedger) FinishRun(ctx context.Context, runID string, summary model.RunSummary) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, photos = ?, tagged = ?, unmatched = ?, unlocatable = ?, failed = ?
		 WHERE id = ?`,
		time.Now().UTC(), summary.Photos, summary.Tagged, summary.Unmatched,
		summary.Unlocatable, summary.Failed, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "ledger: finish run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "ledger: rows affected")
	}
	if n == 0 {
		return eris.Errorf("ledger: run %s not found", runID)
	}
	return nil
}

func (l *SQLiteLedger) RecordAssignment(ctx context.Context, runID string, a model.Assignment) error {
	var capturedAt any
	if a.CapturedAt != nil {
		capturedAt = a.CapturedAt.UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO assignments (id, run_id, original_name, final_name, route, lat, lon, captured_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), runID, a.OriginalName, a.FinalName, a.Route,
		a.Location.Lat, a.Location.Lon, capturedAt,
	)
	return eris.Wrapf(err, "ledger: insert assignment %s", a.FinalName)
}

func (l *SQLiteLedger) WasTagged(ctx context.Context, finalName string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM assignments WHERE final_name = ?`, finalName,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrapf(err, "ledger: lookup %s", finalName)
	}
	return n > 0, nil
}

func (l *SQLiteLedger) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, client, started_at, finished_at, photos, tagged, unmatched, unlocatable, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Client, &r.StartedAt, &finished,
			&r.Summary.Photos, &r.Summary.Tagged, &r.Summary.Unmatched,
			&r.Summary.Unlocatable, &r.Summary.Failed); err != nil {
			return nil, eris.Wrap(err, "ledger: scan run")
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		r.Summary.ID = r.ID
		r.Summary.Client = r.Client
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "ledger: iterate runs")
}

func (l *SQLiteLedger) ListAssignments(ctx context.Context, runID string) ([]model.Assignment, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT original_name, final_name, route, lat, lon, captured_at
		 FROM assignments WHERE run_id = ? ORDER BY final_name`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "ledger: list assignments %s", runID)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		var captured sql.NullTime
		if err := rows.Scan(&a.OriginalName, &a.FinalName, &a.Route,
			&a.Location.Lat, &a.Location.Lon, &captured); err != nil {
			return nil, eris.Wrap(err, "ledger: scan assignment")
		}
		if captured.Valid {
			t := captured.Time
			a.CapturedAt = &t
		}
		assignments = append(assignments, a)
	}
	return assignments, eris.Wrap(rows.Err(), "ledger: iterate assignments")
}
