package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ncobase/screener/data"
	"github.com/ncobase/screener/logging/logger"
)

// Formula is a stored screening formula
type Formula struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Expression  string    `json:"expression"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FormulaRepository defines the interface for formula data operations.
type FormulaRepository interface {
	Create(ctx context.Context, f *Formula) error
	Get(ctx context.Context, id string) (*Formula, error)
	List(ctx context.Context, offset, limit int) ([]*Formula, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, f *Formula) error
	Delete(ctx context.Context, id string) error
}

type formulaRepository struct {
	data *data.Data
	sb   sq.StatementBuilderType
}

// NewFormulaRepository creates a new formula repository instance.
func NewFormulaRepository(d *data.Data) FormulaRepository {
	return &formulaRepository{data: d, sb: builder(d.Dialect)}
}

var formulaColumns = []string{"id", "name", "description", "expression", "created_at", "updated_at"}

// Create inserts a new formula.
func (r *formulaRepository) Create(ctx context.Context, f *Formula) error {
	query, args, err := r.sb.Insert("formulas").
		Columns(formulaColumns...).
		Values(f.ID, f.Name, nullString(f.Description), f.Expression, toMillis(f.CreatedAt), toMillis(f.UpdatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build formula insert: %w", err)
	}

	if _, err := r.data.Conn(ctx).ExecContext(ctx, query, args...); err != nil {
		logger.Errorf(ctx, "failed to create formula %s: %v", f.ID, err)
		return fmt.Errorf("failed to create formula: %w", err)
	}
	return nil
}

// Get retrieves a formula by ID.
func (r *formulaRepository) Get(ctx context.Context, id string) (*Formula, error) {
	query, args, err := r.sb.Select(formulaColumns...).
		From("formulas").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build formula query: %w", err)
	}

	f, err := scanFormula(r.data.Conn(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Errorf(ctx, "failed to get formula %s: %v", id, err)
		return nil, fmt.Errorf("failed to get formula: %w", err)
	}
	return f, nil
}

// List returns formulas newest first.
func (r *formulaRepository) List(ctx context.Context, offset, limit int) ([]*Formula, error) {
	b := r.sb.Select(formulaColumns...).
		From("formulas").
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit)).Offset(uint64(max(offset, 0)))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build formula list: %w", err)
	}

	rows, err := r.data.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		logger.Errorf(ctx, "failed to list formulas: %v", err)
		return nil, fmt.Errorf("failed to list formulas: %w", err)
	}
	defer rows.Close()

	formulas := make([]*Formula, 0)
	for rows.Next() {
		f, err := scanFormula(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan formula: %w", err)
		}
		formulas = append(formulas, f)
	}
	return formulas, rows.Err()
}

// Count returns the total number of formulas.
func (r *formulaRepository) Count(ctx context.Context) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("formulas").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build formula count: %w", err)
	}

	var n int
	if err := r.data.Conn(ctx).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.Errorf(ctx, "failed to count formulas: %v", err)
		return 0, fmt.Errorf("failed to count formulas: %w", err)
	}
	return n, nil
}

// Update overwrites name, description, expression and updated_at.
func (r *formulaRepository) Update(ctx context.Context, f *Formula) error {
	query, args, err := r.sb.Update("formulas").
		Set("name", f.Name).
		Set("description", nullString(f.Description)).
		Set("expression", f.Expression).
		Set("updated_at", toMillis(f.UpdatedAt)).
		Where(sq.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build formula update: %w", err)
	}

	res, err := r.data.Conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		logger.Errorf(ctx, "failed to update formula %s: %v", f.ID, err)
		return fmt.Errorf("failed to update formula: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a formula and, by cascade, its screening results.
func (r *formulaRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("formulas").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build formula delete: %w", err)
	}

	res, err := r.data.Conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		logger.Errorf(ctx, "failed to delete formula %s: %v", id, err)
		return fmt.Errorf("failed to delete formula: %w", err)
	}
	return expectAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFormula(s scanner) (*Formula, error) {
	var (
		f                    Formula
		description          sql.NullString
		createdAt, updatedAt int64
	)
	if err := s.Scan(&f.ID, &f.Name, &description, &f.Expression, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	f.Description = description.String
	f.CreatedAt = fromMillis(createdAt)
	f.UpdatedAt = fromMillis(updatedAt)
	return &f, nil
}

// expectAffected maps a statement that touched no row to ErrNotFound.
// MySQL reports unchanged rows as unaffected, so callers check existence
// first when an update may be a no-op.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
