package service

import (
	"errors"
	"fmt"

	"github.com/ncobase/screener/expression"
	engine "github.com/ncobase/screener/validation/expression"
)

var (
	// ErrFormulaNotFound is returned for unknown formula ids
	ErrFormulaNotFound = errors.New("formula not found")
	// ErrResultNotFound is returned for unknown screening result ids
	ErrResultNotFound = errors.New("screening result not found")
	// ErrUnsupportedFormat is returned by Export for formats other than csv
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrInvalidRequest wraps request level validation failures
	ErrInvalidRequest = errors.New("invalid request")
)

// FormulaError reports an expression rejected by the engine. Position is
// set for syntax errors, Errors for semantic ones.
type FormulaError struct {
	Message  string
	Position *int
	Errors   []string
}

func (e *FormulaError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("%s (position %d)", e.Message, *e.Position)
	}
	return e.Message
}

// IsSyntax reports whether the error carries a position
func (e *FormulaError) IsSyntax() bool {
	return e.Position != nil
}

// formulaError converts engine and compiler errors into a *FormulaError.
// Other errors are returned unchanged.
func formulaError(err error) error {
	if err == nil {
		return nil
	}

	if pos, ok := engine.ErrorPosition(err); ok {
		return &FormulaError{Message: engine.ErrorMessage(err), Position: &pos}
	}

	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		return &FormulaError{Message: verr.Error(), Errors: append([]string(nil), verr.Errors...)}
	}

	var lerr *expression.LimitError
	if errors.As(err, &lerr) {
		return &FormulaError{Message: lerr.Error()}
	}
	return err
}

// verdictError converts a failed verdict into a *FormulaError
func verdictError(v engine.Verdict) error {
	if v.Valid {
		return nil
	}
	fe := &FormulaError{Message: v.Error, Position: v.Position}
	if v.Position == nil {
		fe.Errors = append([]string(nil), v.Errors...)
	}
	return fe
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
