package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/langchou/cellbench/internal/models"
	"github.com/langchou/cellbench/internal/timeline"
)

// addTaskRequest 添加任务请求，只读取 task_type 对应的字段
type addTaskRequest struct {
	TaskType    string  `json:"task_type"`
	TimeSeconds int     `json:"time_seconds"`
	CCCP        string  `json:"cc_cp"`
	CVVoltage   float64 `json:"cv_voltage"`
	Current     float64 `json:"current"`
	Voltage     float64 `json:"voltage"`
	Capacity    float64 `json:"capacity"`
}

// spec 构造任务参数，task_type 为空时返回 nil 交由服务层校验
func (r addTaskRequest) spec() (models.TaskSpec, error) {
	if strings.TrimSpace(r.TaskType) == "" {
		return nil, nil
	}

	taskType, err := models.ParseTaskType(r.TaskType)
	if err != nil {
		return nil, err
	}

	switch taskType {
	case models.TaskCCCV:
		return models.CCCV{CCCP: r.CCCP, CVVoltage: r.CVVoltage, Current: r.Current, Capacity: r.Capacity}, nil
	case models.TaskCCCD:
		return models.CCCD{CCCP: r.CCCP, Voltage: r.Voltage, Capacity: r.Capacity}, nil
	default:
		return models.Idle{}, nil
	}
}

// taskItem 列表项
type taskItem struct {
	ID   int               `json:"task_id"`
	Key  string            `json:"key"`
	Task models.TaskRecord `json:"task"`
}

func newTaskItem(rec models.TaskRecord) taskItem {
	return taskItem{ID: rec.ID, Key: rec.Key(), Task: rec}
}

// AddTask 添加任务
// POST /api/sessions/:sid/tasks
// 校验失败返回 422 及所有字段错误
func (h *Handler) AddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": err.Error()})
		return
	}

	sid := c.Param("sid")
	spec, err := req.spec()
	if err != nil {
		h.respondError(c, h.sessionService.RejectUnknownTask(sid, req.TimeSeconds, req.TaskType))
		return
	}

	rec, err := h.sessionService.AddTask(sid, req.TimeSeconds, spec)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": newTaskItem(rec)})
}

// ListTasks 获取任务列表，按插入顺序
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.sessionService.ListTasks(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]taskItem, len(tasks))
	for i, rec := range tasks {
		items[i] = newTaskItem(rec)
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// ResetTasks 清空任务，ID 从 1 重新开始
func (h *Handler) ResetTasks(c *gin.Context) {
	if err := h.sessionService.ResetTasks(c.Param("sid")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteTask 删除任务
// DELETE /api/sessions/:sid/tasks/:id
// 任务不存在时同样返回 204
func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.sessionService.DeleteTask(c.Param("sid"), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTaskSummary 任务汇总
func (h *Handler) GetTaskSummary(c *gin.Context) {
	summary, err := h.sessionService.TaskSummary(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// GetTimeline 任务时间线
func (h *Handler) GetTimeline(c *gin.Context) {
	entries, err := h.sessionService.Timeline(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"total": timeline.Total(entries),
	})
}
