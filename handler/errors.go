package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/ecode"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/market"
	"github.com/ncobase/screener/net/resp"
	"github.com/ncobase/screener/service"
	"github.com/ncobase/screener/validation/validator"
)

// fail writes the response for a service error
func fail(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()
	_ = c.Error(err)

	var fe *service.FormulaError
	var fetch *market.FetchError
	switch {
	case errors.As(err, &fe):
		if fe.IsSyntax() {
			resp.Fail(c.Writer, resp.FormulaSyntax(fe.Message, *fe.Position))
			return
		}
		errs := fe.Errors
		if len(errs) == 0 {
			errs = []string{fe.Message}
		}
		resp.Fail(c.Writer, resp.FormulaInvalid(fe.Message, errs))
	case errors.Is(err, service.ErrFormulaNotFound):
		resp.Fail(c.Writer, resp.Code(ecode.FormulaNotFound))
	case errors.Is(err, service.ErrResultNotFound):
		resp.Fail(c.Writer, resp.Code(ecode.ResultNotFound))
	case errors.Is(err, market.ErrBondNotFound):
		resp.Fail(c.Writer, resp.Code(ecode.BondNotFound))
	case errors.Is(err, service.ErrUnsupportedFormat):
		resp.Fail(c.Writer, resp.Code(ecode.ExportUnsupported, err.Error()))
	case errors.Is(err, service.ErrInvalidRequest):
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
	case errors.As(err, &fetch):
		logger.Errorf(ctx, "failed to %s: %v", action, err)
		resp.Fail(c.Writer, resp.Code(ecode.DataFetchErr, fetch.Error()))
	default:
		logger.Errorf(ctx, "failed to %s: %v", action, err)
		resp.Fail(c.Writer, resp.InternalServer("failed to "+action))
	}
}

// badBinding writes a 400 for a request body or query that failed to bind
func badBinding(c *gin.Context, err error) {
	logger.Warnf(c.Request.Context(), "invalid request: %v", err)
	if fields := validator.Translate(err, lang(c)); fields != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid parameters", fields))
		return
	}
	resp.Fail(c.Writer, resp.BadRequest(err.Error()))
}

// lang picks the message language from Accept-Language
func lang(c *gin.Context) string {
	if strings.HasPrefix(strings.ToLower(c.GetHeader("Accept-Language")), "zh") {
		return "zh"
	}
	return "en"
}
