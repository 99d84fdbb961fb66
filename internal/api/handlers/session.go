package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateSession 创建会话
// POST /api/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	overview, err := h.sessionService.Create()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": overview})
}

// GetSession 获取会话概览
func (h *Handler) GetSession(c *gin.Context) {
	overview, err := h.sessionService.Overview(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// CloseSession 关闭会话并丢弃数据
func (h *Handler) CloseSession(c *gin.Context) {
	if err := h.sessionService.Close(c.Param("sid")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResetSession 清空电芯和任务
// POST /api/sessions/:sid/reset
func (h *Handler) ResetSession(c *gin.Context) {
	overview, err := h.sessionService.ResetAll(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// SubmitSession 提交全部数据
// POST /api/sessions/:sid/submit
// 空会话返回 409，已提交的会话重复提交直接返回概览
func (h *Handler) SubmitSession(c *gin.Context) {
	sid := c.Param("sid")
	overview, err := h.sessionService.Submit(sid)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Session submitted via API", zap.String("session_id", sid))
	c.JSON(http.StatusOK, gin.H{"data": overview})
}
