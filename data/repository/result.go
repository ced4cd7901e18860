package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ncobase/screener/data"
	"github.com/ncobase/screener/logging/logger"
)

// ScreeningResult is a persisted screening snapshot. Data holds the
// matched bonds as a JSON array.
type ScreeningResult struct {
	ID          string          `json:"id"`
	FormulaID   string          `json:"formula_id"`
	Expression  string          `json:"expression"`
	ResultCount int             `json:"result_count"`
	TotalCount  int             `json:"total_count"`
	Data        json.RawMessage `json:"result_data"`
	ExecutedAt  time.Time       `json:"executed_at"`
}

// HistoryEntry is a screening result summary joined with its formula name
type HistoryEntry struct {
	ID          string    `json:"id"`
	FormulaID   string    `json:"formula_id"`
	FormulaName string    `json:"formula_name"`
	Expression  string    `json:"expression"`
	ResultCount int       `json:"result_count"`
	TotalCount  int       `json:"total_count"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// ResultRepository defines the interface for screening result operations.
type ResultRepository interface {
	Create(ctx context.Context, r *ScreeningResult) error
	Get(ctx context.Context, id string) (*ScreeningResult, error)
	// List returns results newest first; an empty formulaID lists all
	List(ctx context.Context, formulaID string, offset, limit int) ([]*ScreeningResult, error)
	Count(ctx context.Context, formulaID string) (int, error)
	History(ctx context.Context, offset, limit int) ([]*HistoryEntry, error)
}

type resultRepository struct {
	data *data.Data
	sb   sq.StatementBuilderType
}

// NewResultRepository creates a new screening result repository instance.
func NewResultRepository(d *data.Data) ResultRepository {
	return &resultRepository{data: d, sb: builder(d.Dialect)}
}

var resultColumns = []string{"id", "formula_id", "expression", "result_count", "total_count", "result_data", "executed_at"}

// Create inserts a screening result.
func (r *resultRepository) Create(ctx context.Context, res *ScreeningResult) error {
	payload := res.Data
	if len(payload) == 0 {
		payload = json.RawMessage("[]")
	}

	query, args, err := r.sb.Insert("screening_results").
		Columns(resultColumns...).
		Values(res.ID, res.FormulaID, res.Expression, res.ResultCount, res.TotalCount, string(payload), toMillis(res.ExecutedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build result insert: %w", err)
	}

	if _, err := r.data.Conn(ctx).ExecContext(ctx, query, args...); err != nil {
		logger.Errorf(ctx, "failed to create screening result %s: %v", res.ID, err)
		return fmt.Errorf("failed to create screening result: %w", err)
	}
	return nil
}

// Get retrieves a screening result by ID.
func (r *resultRepository) Get(ctx context.Context, id string) (*ScreeningResult, error) {
	query, args, err := r.sb.Select(resultColumns...).
		From("screening_results").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build result query: %w", err)
	}

	res, err := scanResult(r.data.Conn(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Errorf(ctx, "failed to get screening result %s: %v", id, err)
		return nil, fmt.Errorf("failed to get screening result: %w", err)
	}
	return res, nil
}

// List returns screening results newest first.
func (r *resultRepository) List(ctx context.Context, formulaID string, offset, limit int) ([]*ScreeningResult, error) {
	b := r.sb.Select(resultColumns...).
		From("screening_results").
		OrderBy("executed_at DESC", "id DESC")
	if formulaID != "" {
		b = b.Where(sq.Eq{"formula_id": formulaID})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit)).Offset(uint64(max(offset, 0)))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build result list: %w", err)
	}

	rows, err := r.data.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		logger.Errorf(ctx, "failed to list screening results: %v", err)
		return nil, fmt.Errorf("failed to list screening results: %w", err)
	}
	defer rows.Close()

	results := make([]*ScreeningResult, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan screening result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Count returns the number of screening results, optionally of one formula.
func (r *resultRepository) Count(ctx context.Context, formulaID string) (int, error) {
	b := r.sb.Select("COUNT(*)").From("screening_results")
	if formulaID != "" {
		b = b.Where(sq.Eq{"formula_id": formulaID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build result count: %w", err)
	}

	var n int
	if err := r.data.Conn(ctx).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.Errorf(ctx, "failed to count screening results: %v", err)
		return 0, fmt.Errorf("failed to count screening results: %w", err)
	}
	return n, nil
}

// History returns result summaries joined with formula names, newest first.
func (r *resultRepository) History(ctx context.Context, offset, limit int) ([]*HistoryEntry, error) {
	b := r.sb.Select(
		"r.id", "r.formula_id", "f.name", "r.expression",
		"r.result_count", "r.total_count", "r.executed_at",
	).
		From("screening_results r").
		Join("formulas f ON f.id = r.formula_id").
		OrderBy("r.executed_at DESC", "r.id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit)).Offset(uint64(max(offset, 0)))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	rows, err := r.data.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		logger.Errorf(ctx, "failed to query screening history: %v", err)
		return nil, fmt.Errorf("failed to query screening history: %w", err)
	}
	defer rows.Close()

	entries := make([]*HistoryEntry, 0)
	for rows.Next() {
		var (
			e          HistoryEntry
			executedAt int64
		)
		if err := rows.Scan(&e.ID, &e.FormulaID, &e.FormulaName, &e.Expression,
			&e.ResultCount, &e.TotalCount, &executedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.ExecutedAt = fromMillis(executedAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func scanResult(s scanner) (*ScreeningResult, error) {
	var (
		res        ScreeningResult
		payload    string
		executedAt int64
	)
	if err := s.Scan(&res.ID, &res.FormulaID, &res.Expression, &res.ResultCount,
		&res.TotalCount, &payload, &executedAt); err != nil {
		return nil, err
	}
	res.Data = json.RawMessage(payload)
	res.ExecutedAt = fromMillis(executedAt)
	return &res, nil
}
