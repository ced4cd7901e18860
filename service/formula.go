package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data/repository"
	"github.com/ncobase/screener/ecode"
	"github.com/ncobase/screener/expression"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/logging/observes"
	"github.com/ncobase/screener/paging"
	engine "github.com/ncobase/screener/validation/expression"
	"go.opentelemetry.io/otel/attribute"
)

// CreateFormulaRequest represents the request to create a formula.
type CreateFormulaRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=4096"`
	Expression  string `json:"expression" binding:"required,min=1"`
}

// UpdateFormulaRequest represents a partial formula update; nil fields are kept.
type UpdateFormulaRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=4096"`
	Expression  *string `json:"expression" binding:"omitempty,min=1"`
}

// FormulaService handles formula-related business logic. Every write
// validates the expression first.
type FormulaService struct {
	repo     repository.FormulaRepository
	compiler *expression.Compiler
	config   *config.Screening
	now      func() time.Time
}

// NewFormulaService creates a new formula service.
func NewFormulaService(repo repository.FormulaRepository, compiler *expression.Compiler, cfg *config.Screening) *FormulaService {
	return &FormulaService{
		repo:     repo,
		compiler: compiler,
		config:   cfg,
		now:      time.Now,
	}
}

func (s *FormulaService) engine() *engine.Engine {
	return s.compiler.Engine()
}

// Validate reports whether text is a valid formula
func (s *FormulaService) Validate(text string) engine.Verdict {
	return s.engine().ValidateFormula(text)
}

// Normalize returns the canonical form of a valid formula
func (s *FormulaService) Normalize(text string) (string, error) {
	if err := verdictError(s.Validate(text)); err != nil {
		return "", err
	}
	canonical, err := s.engine().Normalize(text)
	if err != nil {
		return "", formulaError(err)
	}
	return canonical, nil
}

// prepare validates text and returns the expression to store
func (s *FormulaService) prepare(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &FormulaError{Message: "Expression is required", Errors: []string{"Expression is required"}}
	}
	if limit, n := s.config.MaxFormulaLength, utf8.RuneCountInString(text); limit > 0 && n > limit {
		return "", formulaError(&expression.LimitError{Limit: "length", Actual: n, Max: limit})
	}
	if err := verdictError(s.Validate(text)); err != nil {
		return "", err
	}
	compiled, err := s.compiler.Compile(text)
	if err != nil {
		return "", formulaError(err)
	}
	if !s.config.NormalizeOnSave {
		return text, nil
	}
	return compiled.Canonical, nil
}

// Create validates and stores a new formula.
func (s *FormulaService) Create(ctx context.Context, req *CreateFormulaRequest) (f *repository.Formula, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "formula.create")
	defer func() { observes.EndSpan(span, err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidRequest("%s", ecode.FieldIsRequired("name"))
	}

	expr, err := s.prepare(req.Expression)
	if err != nil {
		logger.Warnf(ctx, "rejected formula %q: %v", name, err)
		return nil, err
	}

	now := s.now().UTC()
	f = &repository.Formula{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Expression:  expr,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	logger.Infof(ctx, "formula %s created", f.ID)
	return f, nil
}

// Get retrieves a formula by ID.
func (s *FormulaService) Get(ctx context.Context, id string) (*repository.Formula, error) {
	f, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFormulaNotFound
	}
	return f, err
}

// List retrieves a page of formulas, newest first.
func (s *FormulaService) List(ctx context.Context, params paging.Params) (*paging.Result[*repository.Formula], error) {
	params = params.Normalize(s.config.DefaultPageSize, s.config.MaxPageSize)
	return paging.Paginate(params, func(offset, limit int) ([]*repository.Formula, int, error) {
		total, err := s.repo.Count(ctx)
		if err != nil {
			return nil, 0, err
		}
		items, err := s.repo.List(ctx, offset, limit)
		return items, total, err
	})
}

// Update applies a partial update, validating a new expression before writing.
func (s *FormulaService) Update(ctx context.Context, id string, req *UpdateFormulaRequest) (f *repository.Formula, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "formula.update", attribute.String("formula.id", id))
	defer func() { observes.EndSpan(span, err) }()

	f, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalidRequest("%s", ecode.FieldIsInvalid("name"))
		}
		f.Name = name
	}
	if req.Description != nil {
		f.Description = strings.TrimSpace(*req.Description)
	}
	if req.Expression != nil {
		expr, err := s.prepare(*req.Expression)
		if err != nil {
			logger.Warnf(ctx, "rejected expression for formula %s: %v", id, err)
			return nil, err
		}
		f.Expression = expr
	}

	f.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormulaNotFound
		}
		return nil, err
	}

	logger.Infof(ctx, "formula %s updated", id)
	return f, nil
}

// Delete removes a formula together with its screening results.
func (s *FormulaService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFormulaNotFound
	}
	if err != nil {
		return err
	}
	logger.Infof(ctx, "formula %s deleted", id)
	return nil
}
