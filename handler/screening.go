package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/net/resp"
	"github.com/ncobase/screener/paging"
	"github.com/ncobase/screener/service"
)

// ScreeningHandler handles HTTP requests for screening runs and results.
type ScreeningHandler struct {
	svc *service.ScreeningService
}

// NewScreeningHandler creates a new screening handler.
func NewScreeningHandler(svc *service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{svc: svc}
}

// ResultsQuery filters the stored results listing
type ResultsQuery struct {
	paging.Params
	FormulaID string `form:"formula_id"`
}

// CompareRequest names the two results to diff
type CompareRequest struct {
	First  string `json:"result_id_1" binding:"required"`
	Second string `json:"result_id_2" binding:"required"`
}

// ExportRequest selects a result and an output format
type ExportRequest struct {
	ResultID string `json:"result_id" binding:"required"`
	Format   string `json:"format"`
}

// Execute runs a formula against the market.
//
// POST /api/screening/execute
func (h *ScreeningHandler) Execute(c *gin.Context) {
	var req service.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	res, err := h.svc.Execute(c.Request.Context(), &req)
	if err != nil {
		fail(c, err, "execute screening")
		return
	}
	resp.Success(c.Writer, res)
}

// Save stores a result snapshot.
//
// POST /api/screening/results
func (h *ScreeningHandler) Save(c *gin.Context) {
	var req service.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	res, err := h.svc.SaveResult(c.Request.Context(), &req)
	if err != nil {
		fail(c, err, "save screening result")
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, res)
}

// Results lists stored results.
//
// GET /api/screening/results?formula_id=&page=&page_size=
func (h *ScreeningHandler) Results(c *gin.Context) {
	var q ResultsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badBinding(c, err)
		return
	}

	page, err := h.svc.Results(c.Request.Context(), q.FormulaID, q.Params)
	if err != nil {
		fail(c, err, "list screening results")
		return
	}
	resp.Success(c.Writer, page)
}

// Result returns one stored result.
//
// GET /api/screening/results/:id
func (h *ScreeningHandler) Result(c *gin.Context) {
	res, err := h.svc.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "get screening result")
		return
	}
	resp.Success(c.Writer, res)
}

// History lists result summaries with formula names.
//
// GET /api/screening/history?page=&page_size=
func (h *ScreeningHandler) History(c *gin.Context) {
	var params paging.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		badBinding(c, err)
		return
	}

	page, err := h.svc.History(c.Request.Context(), params)
	if err != nil {
		fail(c, err, "list screening history")
		return
	}
	resp.Success(c.Writer, page)
}

// Compare diffs two stored results.
//
// POST /api/screening/compare
func (h *ScreeningHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	res, err := h.svc.Compare(c.Request.Context(), req.First, req.Second)
	if err != nil {
		fail(c, err, "compare screening results")
		return
	}
	resp.Success(c.Writer, res)
}

// Export downloads a stored result as a file.
//
// POST /api/screening/export
func (h *ScreeningHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	file, err := h.svc.Export(c.Request.Context(), req.ResultID, req.Format)
	if err != nil {
		fail(c, err, "export screening result")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
