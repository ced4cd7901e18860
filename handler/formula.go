package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/net/resp"
	"github.com/ncobase/screener/paging"
	"github.com/ncobase/screener/service"
)

// FormulaHandler handles HTTP requests for formulas.
type FormulaHandler struct {
	svc *service.FormulaService
}

// NewFormulaHandler creates a new formula handler.
func NewFormulaHandler(svc *service.FormulaService) *FormulaHandler {
	return &FormulaHandler{svc: svc}
}

// ExpressionRequest carries a bare expression
type ExpressionRequest struct {
	Expression string `json:"expression"`
}

// List handles formula listing.
//
// GET /api/formulas?page=1&page_size=20
func (h *FormulaHandler) List(c *gin.Context) {
	var params paging.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		badBinding(c, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		fail(c, err, "list formulas")
		return
	}
	resp.Success(c.Writer, page)
}

// Create handles formula creation.
//
// POST /api/formulas
func (h *FormulaHandler) Create(c *gin.Context) {
	var req service.CreateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	f, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err, "create formula")
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, f)
}

// Get handles formula retrieval.
//
// GET /api/formulas/:id
func (h *FormulaHandler) Get(c *gin.Context) {
	f, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "get formula")
		return
	}
	resp.Success(c.Writer, f)
}

// Update handles partial formula updates.
//
// PUT /api/formulas/:id
func (h *FormulaHandler) Update(c *gin.Context) {
	var req service.UpdateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	f, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, err, "update formula")
		return
	}
	resp.Success(c.Writer, f)
}

// Delete handles formula deletion.
//
// DELETE /api/formulas/:id
func (h *FormulaHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err, "delete formula")
		return
	}
	resp.NoContent(c.Writer)
}

// Validate reports whether an expression is well formed. An invalid
// expression is a successful response with valid=false.
//
// POST /api/formulas/validate
func (h *FormulaHandler) Validate(c *gin.Context) {
	var req ExpressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}
	resp.Success(c.Writer, h.svc.Validate(req.Expression))
}

// Normalize returns the canonical form of an expression.
//
// POST /api/formulas/normalize
func (h *FormulaHandler) Normalize(c *gin.Context) {
	var req ExpressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	normalized, err := h.svc.Normalize(req.Expression)
	if err != nil {
		fail(c, err, "normalize formula")
		return
	}
	resp.Success(c.Writer, map[string]string{
		"original":   req.Expression,
		"normalized": normalized,
	})
}
