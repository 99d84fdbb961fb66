package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/cellbench/internal/models"
	"github.com/langchou/cellbench/internal/service"
)

// addCellsRequest 添加电芯请求，custom_voltage 为 false 时忽略三个电压字段
type addCellsRequest struct {
	CellType      string  `json:"cell_type" binding:"required"`
	Count         int     `json:"count"`
	CustomVoltage bool    `json:"custom_voltage"`
	Voltage       float64 `json:"voltage" binding:"gte=0"`
	MinVoltage    float64 `json:"min_voltage" binding:"gte=0"`
	MaxVoltage    float64 `json:"max_voltage" binding:"gte=0"`
	Current       float64 `json:"current" binding:"gte=0"`
}

// AddCells 添加电芯
// POST /api/sessions/:sid/cells
func (h *Handler) AddCells(c *gin.Context) {
	var req addCellsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": err.Error()})
		return
	}

	chemistry, err := models.ParseChemistry(req.CellType)
	if err != nil {
		validationFailed(c, fieldDetail{Field: "cell_type", Kind: "unknown_cell_type", Message: err.Error()})
		return
	}

	in := service.AddCellsInput{
		Chemistry: chemistry,
		Count:     req.Count,
		Current:   req.Current,
	}
	if req.CustomVoltage {
		in.Override = &service.VoltageOverride{
			Voltage:    req.Voltage,
			MinVoltage: req.MinVoltage,
			MaxVoltage: req.MaxVoltage,
		}
	}

	added, err := h.sessionService.AddCells(c.Param("sid"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": keyedCells(added)})
}

// ListCells 获取电芯列表，按插入顺序
func (h *Handler) ListCells(c *gin.Context) {
	cells, err := h.sessionService.ListCells(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": keyedCells(cells)})
}

// ResetCells 清空电芯
func (h *Handler) ResetCells(c *gin.Context) {
	if err := h.sessionService.ResetCells(c.Param("sid")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AggregateCells 电芯汇总，无电芯时 data 为 null
func (h *Handler) AggregateCells(c *gin.Context) {
	agg, err := h.sessionService.AggregateCells(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": agg})
}

// cellItem 列表项，带上键名
type cellItem struct {
	Key string `json:"cell_id"`
	models.CellRecord
}

func keyedCells(cells []models.CellRecord) []cellItem {
	out := make([]cellItem, len(cells))
	for i, rec := range cells {
		out[i] = cellItem{Key: rec.Key, CellRecord: rec}
	}
	return out
}
