package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/langchou/cellbench/internal/cell"
	"github.com/langchou/cellbench/internal/task"
)

// GetPreset 获取化学体系默认电压
// GET /api/presets/:chemistry
// 未知体系返回通用预设
func (h *Handler) GetPreset(c *gin.Context) {
	chemistry := strings.ToUpper(c.Param("chemistry"))

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"chemistry": chemistry,
			"preset":    cell.GetPreset(chemistry),
		},
	})
}

type validateCCCPRequest struct {
	Value string `json:"value"`
}

// ValidateCCCP 校验 CC/CP 输入
// POST /api/validate/cc-cp
func (h *Handler) ValidateCCCP(c *gin.Context) {
	var req validateCCCPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	parsed, err := task.ValidateCCCP(req.Value)
	if err != nil {
		kind := task.ErrorKind(err)
		h.metrics.RecordValidationFailure(kind)
		validationFailed(c, fieldDetail{Field: "cc_cp", Kind: kind, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"value":      parsed.Value,
			"unit":       parsed.Unit,
			"normalized": parsed.String(),
		},
	})
}
