package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/budget"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the snapshot in a SQLite database, one table per kind of
// record. Record order is kept in a position column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and migrates its
// schema.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseDate reads a date column, "" being the zero date.
func parseDate(s string) (budget.Date, error) {
	if s == "" {
		return budget.Date{}, nil
	}
	return budget.ParseDate(s)
}

// Load reads the snapshot. An empty database is an empty snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (*budget.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	snapshot := &budget.Snapshot{}
	err = tx.QueryRowContext(ctx, `SELECT currency, pool FROM book WHERE id = 1`).Scan(&snapshot.Currency, &snapshot.Pool)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read book: %w", err)
	}

	if snapshot.Incomes, err = loadIncomes(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.Expenses, err = loadExpenses(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.Goals, err = loadGoals(ctx, tx); err != nil {
		return nil, err
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot in database: %w", err)
	}
	return snapshot, nil
}

func loadIncomes(ctx context.Context, tx *sql.Tx) ([]budget.IncomeRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, source, amount, date, notes FROM incomes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var out []budget.IncomeRecord
	for rows.Next() {
		var r budget.IncomeRecord
		var date string
		if err := rows.Scan(&r.ID, &r.Source, &r.Amount, &date, &r.Notes); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if r.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("income %q: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func loadExpenses(ctx context.Context, tx *sql.Tx) ([]budget.ExpenseRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, category, description, amount, date, notes FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []budget.ExpenseRecord
	for rows.Next() {
		var r budget.ExpenseRecord
		var date string
		if err := rows.Scan(&r.ID, &r.Category, &r.Description, &r.Amount, &date, &r.Notes); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if r.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("expense %q: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func loadGoals(ctx context.Context, tx *sql.Tx) ([]budget.Goal, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, type, target, saved, deadline, description FROM goals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var out []budget.Goal
	for rows.Next() {
		var g budget.Goal
		var typ, deadline string
		if err := rows.Scan(&g.ID, &g.Name, &typ, &g.Target, &g.Saved, &deadline, &g.Description); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.Type, err = budget.ParseGoalType(typ); err != nil {
			return nil, fmt.Errorf("goal %q: %w", g.ID, err)
		}
		if g.Deadline, err = parseDate(deadline); err != nil {
			return nil, fmt.Errorf("goal %q: %w", g.ID, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Save replaces the content of the database with the snapshot, in a single
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, snapshot *budget.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"book", "incomes", "expenses", "goals"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO book (id, currency, pool) VALUES (1, ?, ?)`,
		snapshot.Currency, snapshot.Pool); err != nil {
		return fmt.Errorf("write book: %w", err)
	}
	for i, r := range snapshot.Incomes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO incomes (position, id, source, amount, date, notes) VALUES (?, ?, ?, ?, ?, ?)`,
			i, r.ID, r.Source, r.Amount, r.Date.String(), r.Notes); err != nil {
			return fmt.Errorf("write income %q: %w", r.ID, err)
		}
	}
	for i, r := range snapshot.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (position, id, category, description, amount, date, notes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, r.ID, string(r.Category), r.Description, r.Amount, r.Date.String(), r.Notes); err != nil {
			return fmt.Errorf("write expense %q: %w", r.ID, err)
		}
	}
	for i, g := range snapshot.Goals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goals (position, id, name, type, target, saved, deadline, description) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, g.ID, g.Name, g.Type.String(), g.Target, g.Saved, g.Deadline.String(), g.Description); err != nil {
			return fmt.Errorf("write goal %q: %w", g.ID, err)
		}
	}
	return tx.Commit()
}
