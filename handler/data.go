package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/market"
	"github.com/ncobase/screener/net/resp"
)

// DataHandler serves market data.
type DataHandler struct {
	market *market.Service
}

// NewDataHandler creates a new data handler.
func NewDataHandler(m *market.Service) *DataHandler {
	return &DataHandler{market: m}
}

// BondsQuery controls the bond listing
type BondsQuery struct {
	Force bool `form:"force"`
}

// BondsResponse is the market snapshot
type BondsResponse struct {
	Bonds     []*market.Bond `json:"bonds"`
	Total     int            `json:"total"`
	Source    string         `json:"source"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// RefreshResponse reports a forced refresh
type RefreshResponse struct {
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bonds lists every bond of the current snapshot.
//
// GET /api/data/bonds?force=true
func (h *DataHandler) Bonds(c *gin.Context) {
	var q BondsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badBinding(c, err)
		return
	}

	snap, err := h.market.Snapshot(c.Request.Context(), q.Force)
	if err != nil {
		fail(c, err, "fetch bonds")
		return
	}
	resp.Success(c.Writer, &BondsResponse{
		Bonds:     snap.Bonds,
		Total:     len(snap.Bonds),
		Source:    snap.Source,
		UpdatedAt: snap.FetchedAt,
	})
}

// Bond returns a single bond by code.
//
// GET /api/data/bonds/:code
func (h *DataHandler) Bond(c *gin.Context) {
	b, err := h.market.Bond(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err, "fetch bond")
		return
	}
	resp.Success(c.Writer, b)
}

// Refresh forces a fetch from the provider.
//
// GET|POST /api/data/refresh
func (h *DataHandler) Refresh(c *gin.Context) {
	n, err := h.market.Refresh(c.Request.Context())
	if err != nil {
		fail(c, err, "refresh bonds")
		return
	}
	updated, _ := h.market.LastUpdated()
	resp.Success(c.Writer, &RefreshResponse{Count: n, UpdatedAt: updated})
}
