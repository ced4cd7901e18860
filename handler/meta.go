package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/expression"
	"github.com/ncobase/screener/market"
	"github.com/ncobase/screener/net/resp"
	"github.com/ncobase/screener/version"
)

// MetaHandler serves service information.
type MetaHandler struct {
	name     string
	market   *market.Service
	compiler *expression.Compiler
}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler(name string, m *market.Service, compiler *expression.Compiler) *MetaHandler {
	if name == "" {
		name = "screener"
	}
	if compiler == nil {
		compiler = expression.NewCompiler(nil, nil)
	}
	return &MetaHandler{name: name, market: m, compiler: compiler}
}

// FieldsResponse lists the fields a formula may reference
type FieldsResponse struct {
	Numeric []string `json:"numeric"`
	String  []string `json:"string"`
}

// Root returns the service name and version.
//
// GET /
func (h *MetaHandler) Root(c *gin.Context) {
	resp.Success(c.Writer, map[string]string{
		"name":    h.name,
		"version": version.GetVersionInfo().Version,
	})
}

// Health reports liveness and the age of the market snapshot.
//
// GET /health
func (h *MetaHandler) Health(c *gin.Context) {
	body := map[string]any{"status": "healthy"}
	if h.market != nil {
		if at, ok := h.market.LastUpdated(); ok {
			body["market_updated_at"] = at.UTC().Format(time.RFC3339)
		}
	}
	resp.Success(c.Writer, body)
}

// Fields lists the field registry.
//
// GET /api/fields
func (h *MetaHandler) Fields(c *gin.Context) {
	reg := h.compiler.Engine().Registry()
	resp.Success(c.Writer, &FieldsResponse{
		Numeric: reg.Numeric(),
		String:  reg.Strings(),
	})
}
