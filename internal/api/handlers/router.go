package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 预设与输入校验
		api.GET("/presets/:chemistry", h.GetPreset)
		api.POST("/validate/cc-cp", h.ValidateCCCP)

		// 会话
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:sid", h.GetSession)
		api.DELETE("/sessions/:sid", h.CloseSession)
		api.POST("/sessions/:sid/reset", h.ResetSession)   // 清空电芯和任务
		api.POST("/sessions/:sid/submit", h.SubmitSession) // 提交全部数据

		// 电芯
		api.POST("/sessions/:sid/cells", h.AddCells)
		api.GET("/sessions/:sid/cells", h.ListCells)
		api.DELETE("/sessions/:sid/cells", h.ResetCells)
		api.GET("/sessions/:sid/cells/aggregate", h.AggregateCells)

		// 任务
		api.POST("/sessions/:sid/tasks", h.AddTask)
		api.GET("/sessions/:sid/tasks", h.ListTasks)
		api.DELETE("/sessions/:sid/tasks", h.ResetTasks)
		api.GET("/sessions/:sid/tasks/summary", h.GetTaskSummary)
		api.DELETE("/sessions/:sid/tasks/:id", h.DeleteTask)
		api.GET("/sessions/:sid/timeline", h.GetTimeline)

		// 导出
		api.GET("/sessions/:sid/export/json", h.ExportJSON)
		api.GET("/sessions/:sid/export/csv", h.ExportCSV)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}
