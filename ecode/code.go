package ecode

import (
	"net/http"
	"sync"
)

// Common codes
const (
	OK = 0

	Unauthorized = -101

	RequestErr       = -400
	ParamErr         = -422
	AccessDenied     = -403
	NothingFound     = -404
	MethodNotAllowed = -405
	Conflict         = -409
	TooManyRequests  = -429

	ServerErr          = -500
	BadGateway         = -502
	ServiceUnavailable = -503
	Deadline           = -504
)

// Formula and screening codes
const (
	FormulaSyntaxErr  = -1001 // lex or parse failure, carries a position
	FormulaInvalid    = -1002 // semantic validation failure
	FormulaNotFound   = -1003
	ResultNotFound    = -1004
	DataFetchErr      = -1005 // upstream market data unavailable
	ExportUnsupported = -1006
	BondNotFound      = -1007
)

var (
	mu    sync.RWMutex
	texts = map[int]string{
		OK:                 "ok",
		Unauthorized:       "Unauthorized",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		AccessDenied:       "Access denied",
		NothingFound:       "Resource not found",
		MethodNotAllowed:   "Method not allowed",
		Conflict:           "Resource conflict",
		TooManyRequests:    "Too many requests",
		ServerErr:          "Internal server error",
		BadGateway:         "Upstream service error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
		FormulaSyntaxErr:   "Formula syntax error",
		FormulaInvalid:     "Formula validation failed",
		FormulaNotFound:    "Formula not found",
		ResultNotFound:     "Screening result not found",
		DataFetchErr:       "Failed to fetch bond data",
		ExportUnsupported:  "Export format not supported",
		BondNotFound:       "Bond not found",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		Unauthorized:       http.StatusUnauthorized,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusUnprocessableEntity,
		AccessDenied:       http.StatusForbidden,
		NothingFound:       http.StatusNotFound,
		MethodNotAllowed:   http.StatusMethodNotAllowed,
		Conflict:           http.StatusConflict,
		TooManyRequests:    http.StatusTooManyRequests,
		ServerErr:          http.StatusInternalServerError,
		BadGateway:         http.StatusBadGateway,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
		FormulaSyntaxErr:   http.StatusBadRequest,
		FormulaInvalid:     http.StatusBadRequest,
		FormulaNotFound:    http.StatusNotFound,
		ResultNotFound:     http.StatusNotFound,
		DataFetchErr:       http.StatusBadGateway,
		ExportUnsupported:  http.StatusBadRequest,
		BondNotFound:       http.StatusNotFound,
	}
)

// Text returns the message of a code, or "Unknown error" if unregistered
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	if msg, ok := texts[code]; ok {
		return msg
	}
	return "Unknown error"
}

// Register adds or replaces a code with its message and HTTP status
func Register(code int, message string, status ...int) {
	mu.Lock()
	defer mu.Unlock()
	texts[code] = message
	if len(status) > 0 {
		statuses[code] = status[0]
	}
}

// ToHTTPStatus maps a code to an HTTP status. Unmapped codes map to 500.
func ToHTTPStatus(code int) int {
	mu.RLock()
	defer mu.RUnlock()
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
