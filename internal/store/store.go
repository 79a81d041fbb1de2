package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tsawler/tabgrid"
	"github.com/tsawler/tabgrid/detect"
	"github.com/tsawler/tabgrid/model"
)

// FileName is the database file created inside the data directory
const FileName = "tabgrid.db"

// ErrRunNotFound is returned by Load for an unknown run id
var ErrRunNotFound = errors.New("run not found")

// DB stores reconstruction runs
type DB struct {
	db   *sql.DB
	path string
}

// Run summarises a stored run
type Run struct {
	ID      int64
	Source  string
	Created time.Time
	Pages   int
	Tables  int
}

// Open opens or creates the database in dir
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	path := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &DB{db: db, path: path}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path
func (s *DB) Path() string { return s.path }

// Close closes the database connection
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) createTables(ctx context.Context) error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		created INTEGER NOT NULL,
		pages INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tables (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		page INTEGER NOT NULL,
		position INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		source TEXT NOT NULL,
		confidence REAL NOT NULL,
		class TEXT,
		class_score REAL,
		n_rows INTEGER NOT NULL,
		n_cols INTEGER NOT NULL,
		x REAL, y REAL, w REAL, h REAL
	);

	CREATE INDEX IF NOT EXISTS idx_tables_run ON tables(run_id, page, position);

	CREATE TABLE IF NOT EXISTS cells (
		table_id INTEGER NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
		row_index INTEGER NOT NULL,
		col_index INTEGER NOT NULL,
		row_span INTEGER NOT NULL,
		col_span INTEGER NOT NULL,
		text TEXT NOT NULL,
		x REAL, y REAL, w REAL, h REAL
	);

	CREATE INDEX IF NOT EXISTS idx_cells_table ON cells(table_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save stores the results of one run and returns its id
func (s *DB) Save(ctx context.Context, source string, results []tabgrid.PageResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, created, pages) VALUES (?, ?, ?)`,
		source, time.Now().Unix(), len(results))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, r := range results {
		for i, t := range r.Tables {
			var class detect.Classification
			if i < len(r.Classes) {
				class = r.Classes[i]
			}
			if err := saveTable(ctx, tx, runID, r.Page, i, class, t); err != nil {
				return 0, fmt.Errorf("page %d table %d: %w", r.Page, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

func saveTable(ctx context.Context, tx *sql.Tx, runID int64, pageNum, pos int, class detect.Classification, t *model.Table) error {
	b := t.Bounds
	res, err := tx.ExecContext(ctx, `
	INSERT INTO tables (run_id, page, position, kind, source, confidence, class, class_score, n_rows, n_cols, x, y, w, h)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, pageNum, pos, int(t.Kind), string(t.Source), t.Confidence, class.Type, class.Score,
		t.RowCount(), t.ColCount(), b.Left, b.Top, b.Width, b.Height)
	if err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}
	tableID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cells (table_id, row_index, col_index, row_span, col_span, text, x, y, w, h)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range t.Cells() {
		cb := c.Bounds
		if _, err := stmt.ExecContext(ctx, tableID, c.Row, c.Col, c.RowSpan, c.ColSpan, c.Text,
			cb.Left, cb.Top, cb.Width, cb.Height); err != nil {
			return fmt.Errorf("failed to insert cell (%d,%d): %w", c.Row, c.Col, err)
		}
	}
	return nil
}

// Runs lists stored runs, newest first
func (s *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT r.id, r.source, r.created, r.pages, COUNT(t.id)
	FROM runs r LEFT JOIN tables t ON t.run_id = r.id
	GROUP BY r.id
	ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Source, &created, &r.Pages, &r.Tables); err != nil {
			return nil, err
		}
		r.Created = time.Unix(created, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// storedTable is a tables row before its cells are attached
type storedTable struct {
	id    int64
	page  int
	class detect.Classification
	table *model.Table
}

// Load rebuilds the results of a run. Pages without tables are not
// recorded and do not appear.
func (s *DB) Load(ctx context.Context, runID int64) ([]tabgrid.PageResult, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}

	stored, err := s.tables(ctx, runID)
	if err != nil {
		return nil, err
	}

	var results []tabgrid.PageResult
	for _, st := range stored {
		if err := s.cells(ctx, st); err != nil {
			return nil, fmt.Errorf("table %d: %w", st.id, err)
		}
		if len(results) == 0 || results[len(results)-1].Page != st.page {
			results = append(results, tabgrid.PageResult{Page: st.page})
		}
		r := &results[len(results)-1]
		r.Tables = append(r.Tables, st.table)
		r.Classes = append(r.Classes, st.class)
	}

	// Classes stay nil for pages processed without a classifier
	for i := range results {
		labelled := false
		for _, c := range results[i].Classes {
			if c.Type != "" {
				labelled = true
			}
		}
		if !labelled {
			results[i].Classes = nil
		}
	}
	return results, nil
}

func (s *DB) tables(ctx context.Context, runID int64) ([]storedTable, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, page, kind, source, confidence, COALESCE(class, ''), COALESCE(class_score, 0),
		n_rows, n_cols, x, y, w, h
	FROM tables WHERE run_id = ? ORDER BY page, position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var out []storedTable
	for rows.Next() {
		var (
			st         storedTable
			kind       int
			source     string
			confidence float64
			nRows      int
			nCols      int
			b          model.Rect
		)
		if err := rows.Scan(&st.id, &st.page, &kind, &source, &confidence, &st.class.Type, &st.class.Score,
			&nRows, &nCols, &b.Left, &b.Top, &b.Width, &b.Height); err != nil {
			return nil, err
		}
		st.table = model.NewTable(nRows, nCols)
		st.table.Kind = model.TableKind(kind)
		st.table.Source = model.Source(source)
		st.table.Confidence = confidence
		st.table.Bounds = b
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *DB) cells(ctx context.Context, st storedTable) error {
	rows, err := s.db.QueryContext(ctx, `
	SELECT row_index, col_index, row_span, col_span, text, x, y, w, h
	FROM cells WHERE table_id = ? ORDER BY rowid`, st.id)
	if err != nil {
		return fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Cell
		if err := rows.Scan(&c.Row, &c.Col, &c.RowSpan, &c.ColSpan, &c.Text,
			&c.Bounds.Left, &c.Bounds.Top, &c.Bounds.Width, &c.Bounds.Height); err != nil {
			return err
		}
		if _, err := st.table.AddCell(c); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return st.table.Validate()
}
