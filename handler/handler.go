// Package handler exposes the screener services over HTTP.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/expression"
	"github.com/ncobase/screener/market"
	"github.com/ncobase/screener/service"
	"github.com/ncobase/screener/validation/validator"
)

// Dependencies holds what the handlers are built from
type Dependencies struct {
	AppName  string
	Service  *service.Service
	Market   *market.Service
	Compiler *expression.Compiler
}

// Handler aggregates all HTTP handlers.
type Handler struct {
	Formula   *FormulaHandler
	Screening *ScreeningHandler
	Data      *DataHandler
	Meta      *MetaHandler
}

// New creates a new handler instance with all sub-handlers initialized.
func New(deps *Dependencies) *Handler {
	validator.RegisterGin()
	return &Handler{
		Formula:   NewFormulaHandler(deps.Service.Formula),
		Screening: NewScreeningHandler(deps.Service.Screening),
		Data:      NewDataHandler(deps.Market),
		Meta:      NewMetaHandler(deps.AppName, deps.Market, deps.Compiler),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Meta.Root)
	r.GET("/health", h.Meta.Health)

	api := r.Group("/api")
	api.GET("/fields", h.Meta.Fields)

	formulas := api.Group("/formulas")
	{
		formulas.GET("", h.Formula.List)
		formulas.POST("", h.Formula.Create)
		formulas.POST("/validate", h.Formula.Validate)
		formulas.POST("/normalize", h.Formula.Normalize)
		formulas.GET("/:id", h.Formula.Get)
		formulas.PUT("/:id", h.Formula.Update)
		formulas.DELETE("/:id", h.Formula.Delete)
	}

	screening := api.Group("/screening")
	{
		screening.POST("/execute", h.Screening.Execute)
		screening.GET("/results", h.Screening.Results)
		screening.POST("/results", h.Screening.Save)
		screening.GET("/results/:id", h.Screening.Result)
		screening.GET("/history", h.Screening.History)
		screening.POST("/compare", h.Screening.Compare)
		screening.POST("/export", h.Screening.Export)
	}

	data := api.Group("/data")
	{
		data.GET("/bonds", h.Data.Bonds)
		data.GET("/bonds/:code", h.Data.Bond)
		data.GET("/refresh", h.Data.Refresh)
		data.POST("/refresh", h.Data.Refresh)
	}
}
