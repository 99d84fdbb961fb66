package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/cellbench/internal/cell"
	"github.com/langchou/cellbench/internal/service"
	"github.com/langchou/cellbench/internal/task"
	"github.com/langchou/cellbench/pkg/metrics"
	"github.com/langchou/cellbench/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger         *zap.Logger
	sessionService *service.SessionService
	metrics        *metrics.Collector
	wsHub          *ws.Hub
	upgrader       websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	sessionService *service.SessionService,
	collector *metrics.Collector,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:         logger,
		sessionService: sessionService,
		metrics:        collector,
		wsHub:          wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
	}
}

// fieldDetail 单个字段的校验失败信息
type fieldDetail struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// validationFailed 422 响应
func validationFailed(c *gin.Context, details ...fieldDetail) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "Validation failed",
		"details": details,
	})
}

// respondError 将服务层错误映射为 HTTP 响应
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *task.ValidationError

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.As(err, &verr):
		details := make([]fieldDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = fieldDetail{Field: f.Field, Kind: task.ErrorKind(f.Err), Message: f.Err.Error()}
		}
		validationFailed(c, details...)
	case errors.Is(err, cell.ErrInvalidCount), errors.Is(err, service.ErrCellLimit):
		validationFailed(c, fieldDetail{Field: "count", Kind: "invalid_count", Message: err.Error()})
	case errors.Is(err, service.ErrTooManySessions):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNothingToSubmit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// HandleWebSocket WebSocket 处理
// GET /ws?session=<id>
func (h *Handler) HandleWebSocket(c *gin.Context) {
	sessionID := c.Query("session")
	if !h.sessionService.Exists(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn, sessionID)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
		"sessions":   h.sessionService.Count(),
	})
}
