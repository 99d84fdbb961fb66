package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/cellbench/internal/service"
)

// ExportJSON 下载电芯和任务 JSON
// GET /api/sessions/:sid/export/json
func (h *Handler) ExportJSON(c *gin.Context) {
	out, err := h.sessionService.ExportJSON(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	sendAttachment(c, out)
}

// ExportCSV 下载电芯 CSV
// GET /api/sessions/:sid/export/csv
func (h *Handler) ExportCSV(c *gin.Context) {
	out, err := h.sessionService.ExportCSV(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	sendAttachment(c, out)
}

func sendAttachment(c *gin.Context, out *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
