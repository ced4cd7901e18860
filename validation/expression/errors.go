package expression

import (
	"errors"
	"fmt"
	"strings"
)

// LexError is returned when the input text cannot be split into tokens.
type LexError struct {
	Message  string
	Lexeme   string
	Position int
}

// Error returns the error message
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at position %d: %s", e.Position, e.Message)
}

// ParseError is returned when the token sequence violates the grammar.
type ParseError struct {
	Message  string
	Position int
}

// Error returns the error message
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

// ValidationError aggregates every semantic violation found in one pass.
type ValidationError struct {
	Errors []string
}

// Error returns all violations joined by "; "
func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

// ErrorPosition returns the position carried by a lex or parse error.
func ErrorPosition(err error) (int, bool) {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Position, true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Position, true
	}
	return 0, false
}

// ErrorMessage returns the user facing message of an engine error
func ErrorMessage(err error) string {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Message
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
