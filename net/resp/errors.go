package resp

import (
	"net/http"

	"github.com/ncobase/screener/ecode"
)

// Code builds an exception from a business code, using its registered
// message and HTTP status unless a message is given.
func Code(code int, message ...string) *Exception {
	msg := ecode.Text(code)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return newResponse(ecode.ToHTTPStatus(code), code, msg)
}

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// BadGateway indicates an upstream failure.
func BadGateway(message string, data ...any) *Exception {
	return newResponse(http.StatusBadGateway, ecode.BadGateway, message, data...)
}

// TooManyRequests indicates the client exceeded its rate limit.
func TooManyRequests(message string, data ...any) *Exception {
	return newResponse(http.StatusTooManyRequests, ecode.TooManyRequests, message, data...)
}

// FormulaSyntax reports a lex or parse failure at a character position.
func FormulaSyntax(message string, position int) *Exception {
	return newResponse(http.StatusBadRequest, ecode.FormulaSyntaxErr, message, map[string]any{"position": position})
}

// FormulaInvalid reports semantic validation failures.
func FormulaInvalid(message string, errors []string) *Exception {
	return newResponse(http.StatusBadRequest, ecode.FormulaInvalid, message, map[string]any{"errors": errors})
}
