package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/market"
)

// Export is a rendered screening result file
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Export renders a stored result. Only csv is supported.
func (s *ScreeningService) Export(ctx context.Context, id, format string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	res, err := s.Result(ctx, id)
	if err != nil {
		return nil, err
	}

	title := "screening"
	if f, err := s.formulas.Get(ctx, res.FormulaID); err == nil {
		title = f.Name
	} else if !errors.Is(err, ErrFormulaNotFound) {
		logger.Warnf(ctx, "failed to load formula %s for export: %v", res.FormulaID, err)
	}

	data, err := renderCSV(res.Bonds)
	if err != nil {
		return nil, err
	}

	name := slug.Make(title + " " + res.ExecutedAt.Format("20060102-150405"))
	if name == "" {
		name = res.ID
	}
	return &Export{
		FileName:    name + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

func renderCSV(bonds []*market.Bond) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	cols := market.Columns()
	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(cols))
	for _, b := range bonds {
		for i, col := range cols {
			if v, ok := b.StringField(col); ok {
				row[i] = v
				continue
			}
			v, _ := b.NumberField(col)
			row[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
