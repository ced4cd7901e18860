package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data/messaging"
	"github.com/ncobase/screener/data/repository"
	"github.com/ncobase/screener/ecode"
	"github.com/ncobase/screener/expression"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/logging/observes"
	"github.com/ncobase/screener/market"
	"github.com/ncobase/screener/paging"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultSortField orders screening output when no sort field is given
const DefaultSortField = "double_low"

// ExecuteRequest describes a screening run. Exactly one of FormulaID and
// Expression selects the formula; FormulaID wins when both are set.
type ExecuteRequest struct {
	FormulaID  string `json:"formula_id"`
	Expression string `json:"expression"`
	SortBy     string `json:"sort_by"`
	SortOrder  string `json:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page       int    `json:"page" binding:"omitempty,min=1"`
	PageSize   int    `json:"page_size" binding:"omitempty,min=1"`
	// Save persists the full match set; it requires FormulaID
	Save bool `json:"save"`
}

// ExecuteResult is one page of a screening run
type ExecuteResult struct {
	ID          string         `json:"id,omitempty"`
	FormulaID   string         `json:"formula_id,omitempty"`
	Expression  string         `json:"expression"`
	ExecutedAt  time.Time      `json:"executed_at"`
	ResultCount int            `json:"result_count"`
	TotalCount  int            `json:"total_count"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	Bonds       []*market.Bond `json:"bonds"`
}

// SaveRequest persists a screening result snapshot
type SaveRequest struct {
	FormulaID  string         `json:"formula_id" binding:"required"`
	Bonds      []*market.Bond `json:"bonds"`
	TotalCount int            `json:"total_count" binding:"omitempty,min=0"`
}

// ResultDetail is a stored result with its bonds decoded
type ResultDetail struct {
	ID          string         `json:"id"`
	FormulaID   string         `json:"formula_id"`
	Expression  string         `json:"expression"`
	ResultCount int            `json:"result_count"`
	TotalCount  int            `json:"total_count"`
	ExecutedAt  time.Time      `json:"executed_at"`
	Bonds       []*market.Bond `json:"bonds"`
}

// CompareResult lists bonds by membership in two results. Added bonds are
// only in the second result, removed ones only in the first.
type CompareResult struct {
	Added     []*market.Bond `json:"added"`
	Removed   []*market.Bond `json:"removed"`
	Unchanged []*market.Bond `json:"unchanged"`
}

// CompletedEvent is the payload of a screening.completed event
type CompletedEvent struct {
	ResultID    string    `json:"result_id"`
	FormulaID   string    `json:"formula_id"`
	Expression  string    `json:"expression"`
	ResultCount int       `json:"result_count"`
	TotalCount  int       `json:"total_count"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// ScreeningService runs formulas against the market snapshot and keeps
// the history of saved results.
type ScreeningService struct {
	formulas  *FormulaService
	results   repository.ResultRepository
	compiler  *expression.Compiler
	market    *market.Service
	publisher messaging.Publisher
	topic     string
	config    *config.Screening
	now       func() time.Time
}

// NewScreeningService creates a new screening service.
// Without repositories only Match is usable.
func NewScreeningService(deps *Dependencies, formulas *FormulaService) *ScreeningService {
	var results repository.ResultRepository
	if deps.Repositories != nil {
		results = deps.Repositories.Result
	}
	return &ScreeningService{
		formulas:  formulas,
		results:   results,
		compiler:  deps.Compiler,
		market:    deps.Market,
		publisher: deps.Publisher,
		topic:     deps.EventTopic,
		config:    deps.Config,
		now:       time.Now,
	}
}

// Match returns the bonds satisfying expr, sorted, and the number of bonds screened
func (s *ScreeningService) Match(ctx context.Context, expr, sortBy, sortOrder string) (matched []*market.Bond, total int, err error) {
	if sortBy == "" {
		sortBy = DefaultSortField
	}
	if !market.IsSortable(sortBy) {
		return nil, 0, invalidRequest("cannot sort by %q", sortBy)
	}
	desc := strings.EqualFold(sortOrder, "desc")
	if sortOrder != "" && !desc && !strings.EqualFold(sortOrder, "asc") {
		return nil, 0, invalidRequest("sort_order must be asc or desc")
	}

	compiled, err := s.compiler.Compile(expr)
	if err != nil {
		return nil, 0, formulaError(err)
	}

	bonds, err := s.market.Bonds(ctx, false)
	if err != nil {
		return nil, 0, err
	}

	matched = make([]*market.Bond, 0)
	for _, b := range bonds {
		ok, err := s.compiler.Match(compiled, b)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to evaluate bond %s: %w", b.Code, err)
		}
		if ok {
			matched = append(matched, b)
		}
	}

	sortBonds(matched, sortBy, desc)
	return matched, len(bonds), nil
}

// Execute screens the market with a stored formula or an ad hoc expression
func (s *ScreeningService) Execute(ctx context.Context, req *ExecuteRequest) (res *ExecuteResult, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "screening.execute",
		attribute.String("formula.id", req.FormulaID))
	defer func() { observes.EndSpan(span, err) }()

	expr := req.Expression
	if req.FormulaID != "" {
		f, err := s.formulas.Get(ctx, req.FormulaID)
		if err != nil {
			return nil, err
		}
		expr = f.Expression
	} else if req.Save {
		return nil, invalidRequest("formula_id is required to save a result")
	}
	if strings.TrimSpace(expr) == "" {
		return nil, invalidRequest("%s", ecode.FieldIsRequired("formula_id or expression"))
	}

	matched, total, err := s.Match(ctx, expr, req.SortBy, req.SortOrder)
	if err != nil {
		return nil, err
	}

	params := paging.Params{Page: req.Page, PageSize: req.PageSize}.
		Normalize(s.config.DefaultPageSize, s.config.MaxPageSize)
	page := paging.Slice(matched, params)

	res = &ExecuteResult{
		FormulaID:   req.FormulaID,
		Expression:  expr,
		ExecutedAt:  s.now().UTC(),
		ResultCount: len(matched),
		TotalCount:  total,
		Page:        page.Page,
		PageSize:    page.PageSize,
		Bonds:       page.Items,
	}

	if req.Save {
		saved, err := s.save(ctx, req.FormulaID, expr, matched, total, res.ExecutedAt)
		if err != nil {
			return nil, err
		}
		res.ID = saved.ID
	}

	logger.Infof(ctx, "screening matched %d of %d bonds", res.ResultCount, res.TotalCount)
	return res, nil
}

// SaveResult persists a result snapshot of a stored formula
func (s *ScreeningService) SaveResult(ctx context.Context, req *SaveRequest) (*ResultDetail, error) {
	f, err := s.formulas.Get(ctx, req.FormulaID)
	if err != nil {
		return nil, err
	}

	bonds := req.Bonds
	if bonds == nil {
		bonds = make([]*market.Bond, 0)
	}
	total := req.TotalCount
	if total < len(bonds) {
		total = len(bonds)
	}

	saved, err := s.save(ctx, f.ID, f.Expression, bonds, total, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return &ResultDetail{
		ID:          saved.ID,
		FormulaID:   saved.FormulaID,
		Expression:  saved.Expression,
		ResultCount: saved.ResultCount,
		TotalCount:  saved.TotalCount,
		ExecutedAt:  saved.ExecutedAt,
		Bonds:       bonds,
	}, nil
}

func (s *ScreeningService) save(ctx context.Context, formulaID, expr string, bonds []*market.Bond, total int, at time.Time) (*repository.ScreeningResult, error) {
	payload, err := json.Marshal(bonds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bonds: %w", err)
	}

	res := &repository.ScreeningResult{
		ID:          uuid.New().String(),
		FormulaID:   formulaID,
		Expression:  expr,
		ResultCount: len(bonds),
		TotalCount:  total,
		Data:        payload,
		ExecutedAt:  at,
	}
	if err := s.results.Create(ctx, res); err != nil {
		return nil, err
	}

	event := CompletedEvent{
		ResultID:    res.ID,
		FormulaID:   res.FormulaID,
		Expression:  res.Expression,
		ResultCount: res.ResultCount,
		TotalCount:  res.TotalCount,
		ExecutedAt:  res.ExecutedAt,
	}
	if err := messaging.PublishEvent(ctx, s.publisher, s.topic, res.ID, "screening.completed", event); err != nil {
		logger.Warnf(ctx, "failed to publish screening result %s: %v", res.ID, err)
	}

	logger.Infof(ctx, "screening result %s saved for formula %s", res.ID, formulaID)
	return res, nil
}

// Results lists stored results newest first, optionally of one formula
func (s *ScreeningService) Results(ctx context.Context, formulaID string, params paging.Params) (*paging.Result[*ResultDetail], error) {
	params = params.Normalize(s.config.DefaultPageSize, s.config.MaxPageSize)
	return paging.Paginate(params, func(offset, limit int) ([]*ResultDetail, int, error) {
		total, err := s.results.Count(ctx, formulaID)
		if err != nil {
			return nil, 0, err
		}
		rows, err := s.results.List(ctx, formulaID, offset, limit)
		if err != nil {
			return nil, 0, err
		}

		items := make([]*ResultDetail, 0, len(rows))
		for _, row := range rows {
			d, err := toDetail(row)
			if err != nil {
				return nil, 0, err
			}
			items = append(items, d)
		}
		return items, total, nil
	})
}

// Result returns a stored result with its bonds
func (s *ScreeningService) Result(ctx context.Context, id string) (*ResultDetail, error) {
	row, err := s.results.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDetail(row)
}

// History lists result summaries with formula names, newest first
func (s *ScreeningService) History(ctx context.Context, params paging.Params) (*paging.Result[*repository.HistoryEntry], error) {
	params = params.Normalize(s.config.DefaultPageSize, s.config.MaxPageSize)
	return paging.Paginate(params, func(offset, limit int) ([]*repository.HistoryEntry, int, error) {
		total, err := s.results.Count(ctx, "")
		if err != nil {
			return nil, 0, err
		}
		items, err := s.results.History(ctx, offset, limit)
		return items, total, err
	})
}

// Compare diffs two stored results by bond code
func (s *ScreeningService) Compare(ctx context.Context, firstID, secondID string) (*CompareResult, error) {
	first, err := s.Result(ctx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := s.Result(ctx, secondID)
	if err != nil {
		return nil, err
	}

	inFirst := make(map[string]bool, len(first.Bonds))
	for _, b := range first.Bonds {
		inFirst[b.Code] = true
	}
	inSecond := make(map[string]bool, len(second.Bonds))
	for _, b := range second.Bonds {
		inSecond[b.Code] = true
	}

	out := &CompareResult{
		Added:     make([]*market.Bond, 0),
		Removed:   make([]*market.Bond, 0),
		Unchanged: make([]*market.Bond, 0),
	}
	for _, b := range second.Bonds {
		if inFirst[b.Code] {
			out.Unchanged = append(out.Unchanged, b)
		} else {
			out.Added = append(out.Added, b)
		}
	}
	for _, b := range first.Bonds {
		if !inSecond[b.Code] {
			out.Removed = append(out.Removed, b)
		}
	}
	return out, nil
}

func toDetail(row *repository.ScreeningResult) (*ResultDetail, error) {
	bonds := make([]*market.Bond, 0)
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &bonds); err != nil {
			return nil, fmt.Errorf("failed to decode result %s: %w", row.ID, err)
		}
	}
	return &ResultDetail{
		ID:          row.ID,
		FormulaID:   row.FormulaID,
		Expression:  row.Expression,
		ResultCount: row.ResultCount,
		TotalCount:  row.TotalCount,
		ExecutedAt:  row.ExecutedAt,
		Bonds:       bonds,
	}, nil
}

// sortBonds orders bonds by field; ties keep their input order
func sortBonds(bonds []*market.Bond, field string, desc bool) {
	var probe market.Bond
	if _, numeric := probe.NumberField(field); numeric {
		sort.SliceStable(bonds, func(i, j int) bool {
			a, _ := bonds[i].NumberField(field)
			b, _ := bonds[j].NumberField(field)
			if desc {
				return a > b
			}
			return a < b
		})
		return
	}

	sort.SliceStable(bonds, func(i, j int) bool {
		a, _ := bonds[i].StringField(field)
		b, _ := bonds[j].StringField(field)
		if desc {
			return a > b
		}
		return a < b
	})
}
