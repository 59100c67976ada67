// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
)

const planColumns = `
	id, user_id, title, description, category, duration_minutes, status,
	scheduled_date, scheduled_time, related_mood_id, created_at, updated_at
`

// SQLite implements plan.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ plan.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreatePlan adds a new plan and assigns it a UUID.
// Overlaps are not rejected here; callers run the conflict checks first.
func (s *SQLite) CreatePlan(ctx context.Context, p *plan.Plan) error {
	return insertPlan(ctx, s.db, p)
}

// CreatePlans adds multiple plans in a single transaction.
func (s *SQLite) CreatePlans(ctx context.Context, plans []*plan.Plan) error {
	if len(plans) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range plans {
		if err := insertPlan(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPlan(ctx context.Context, db execer, p *plan.Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = plan.StatusPending
	}

	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Description,
		p.Category,
		p.DurationMinutes,
		p.Status,
		dateutil.Format(p.ScheduledDate),
		nullString(p.ScheduledTime),
		nullString(p.RelatedMoodID),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan %q: %w", p.Title, err)
	}
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *SQLite) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`

	p, err := scanPlan(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}
	return p, nil
}

// ListPlans returns the plans matching f ordered by date, then start time.
// Unscheduled plans sort after scheduled ones on the same day.
func (s *SQLite) ListPlans(ctx context.Context, f plan.Filter) ([]*plan.Plan, error) {
	var (
		where []string
		args  []any
	)
	if f.Date != nil {
		where = append(where, "scheduled_date = ?")
		args = append(args, dateutil.Format(*f.Date))
	}
	if f.Category != nil {
		where = append(where, "category = ?")
		args = append(args, *f.Category)
	}
	if f.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *f.Status)
	}

	query := `SELECT ` + planColumns + ` FROM plans`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY scheduled_date, scheduled_time IS NULL, scheduled_time, created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var plans []*plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}

	return plans, nil
}

// UpdatePlan applies the set fields of u and bumps updated_at.
func (s *SQLite) UpdatePlan(ctx context.Context, id string, u plan.Update) (*plan.Plan, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	p, err := scanPlan(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}

	u.Apply(p)
	p.UpdatedAt = time.Now()

	update := `
		UPDATE plans
		SET title = ?, description = ?, category = ?, duration_minutes = ?,
		    status = ?, scheduled_time = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, update,
		p.Title,
		p.Description,
		p.Category,
		p.DurationMinutes,
		p.Status,
		nullString(p.ScheduledTime),
		p.UpdatedAt.Format(time.RFC3339),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return p, nil
}

// DeletePlan removes a plan.
func (s *SQLite) DeletePlan(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", plan.ErrPlanNotFound, id)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*plan.Plan, error) {
	var (
		p             plan.Plan
		scheduledDate string
		scheduledTime sql.NullString
		relatedMood   sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.DurationMinutes,
		&p.Status,
		&scheduledDate,
		&scheduledTime,
		&relatedMood,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ScheduledDate, err = parseDate(scheduledDate)
	if err != nil {
		return nil, fmt.Errorf("parsing scheduled date: %w", err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	p.ScheduledTime = scheduledTime.String
	p.RelatedMoodID = relatedMood.String

	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// parseDate parses a date string in the formats SQLite might return.
// Date-only values are parsed as local midnight to match dateutil.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateutil.Layout, s, time.Local); err == nil {
		return t, nil
	}

	// DATE columns can come back as "2006-01-02T00:00:00Z".
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation(dateutil.Layout, s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
