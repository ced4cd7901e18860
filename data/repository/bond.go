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

// BondSnapshot is one bond of the persisted market snapshot, stored as JSON
type BondSnapshot struct {
	Code      string
	Data      []byte
	UpdatedAt time.Time
}

// BondRepository keeps the last known bond data for provider outages.
type BondRepository interface {
	// Replace swaps the whole snapshot in one transaction
	Replace(ctx context.Context, bonds []*BondSnapshot) error
	Upsert(ctx context.Context, bond *BondSnapshot) error
	Get(ctx context.Context, code string) (*BondSnapshot, error)
	List(ctx context.Context) ([]*BondSnapshot, error)
}

type bondRepository struct {
	data *data.Data
	sb   sq.StatementBuilderType
}

// NewBondRepository creates a new bond cache repository instance.
func NewBondRepository(d *data.Data) BondRepository {
	return &bondRepository{data: d, sb: builder(d.Dialect)}
}

// Replace deletes the previous snapshot and stores bonds.
func (r *bondRepository) Replace(ctx context.Context, bonds []*BondSnapshot) error {
	return r.data.WithTx(ctx, func(ctx context.Context) error {
		query, args, err := r.sb.Delete("bond_cache").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build bond cache delete: %w", err)
		}
		if _, err := r.data.Conn(ctx).ExecContext(ctx, query, args...); err != nil {
			logger.Errorf(ctx, "failed to clear bond cache: %v", err)
			return fmt.Errorf("failed to clear bond cache: %w", err)
		}

		for _, b := range bonds {
			if err := r.Upsert(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert inserts a bond or replaces the stored one with the same code.
func (r *bondRepository) Upsert(ctx context.Context, bond *BondSnapshot) error {
	b := r.sb.Insert("bond_cache").
		Columns("code", "data", "updated_at").
		Values(bond.Code, string(bond.Data), toMillis(bond.UpdatedAt))
	if r.data.Dialect == "mysql" {
		b = b.Suffix("ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)")
	} else {
		b = b.Suffix("ON CONFLICT (code) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build bond cache upsert: %w", err)
	}
	if _, err := r.data.Conn(ctx).ExecContext(ctx, query, args...); err != nil {
		logger.Errorf(ctx, "failed to upsert bond %s: %v", bond.Code, err)
		return fmt.Errorf("failed to upsert bond: %w", err)
	}
	return nil
}

// Get returns the stored bond with code.
func (r *bondRepository) Get(ctx context.Context, code string) (*BondSnapshot, error) {
	query, args, err := r.sb.Select("code", "data", "updated_at").
		From("bond_cache").
		Where(sq.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build bond cache query: %w", err)
	}

	b, err := scanBond(r.data.Conn(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Errorf(ctx, "failed to get bond %s: %v", code, err)
		return nil, fmt.Errorf("failed to get bond: %w", err)
	}
	return b, nil
}

// List returns the stored snapshot ordered by code.
func (r *bondRepository) List(ctx context.Context) ([]*BondSnapshot, error) {
	query, args, err := r.sb.Select("code", "data", "updated_at").
		From("bond_cache").
		OrderBy("code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build bond cache list: %w", err)
	}

	rows, err := r.data.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		logger.Errorf(ctx, "failed to list bond cache: %v", err)
		return nil, fmt.Errorf("failed to list bond cache: %w", err)
	}
	defer rows.Close()

	bonds := make([]*BondSnapshot, 0)
	for rows.Next() {
		b, err := scanBond(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bond: %w", err)
		}
		bonds = append(bonds, b)
	}
	return bonds, rows.Err()
}

func scanBond(s scanner) (*BondSnapshot, error) {
	var (
		b         BondSnapshot
		payload   string
		updatedAt int64
	)
	if err := s.Scan(&b.Code, &payload, &updatedAt); err != nil {
		return nil, err
	}
	b.Data = []byte(payload)
	b.UpdatedAt = fromMillis(updatedAt)
	return &b, nil
}
