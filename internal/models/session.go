package models

import "time"

// SessionOverview 会话概览，用于 API 响应和 WebSocket 推送
type SessionOverview struct {
	ID          string      `json:"id"`
	Phase       string      `json:"phase"`
	Since       time.Time   `json:"since"`
	CreatedAt   time.Time   `json:"created_at"`
	TotalCells  int         `json:"total_cells"`
	TotalTasks  int         `json:"total_tasks"`
	Cells       *Aggregate  `json:"cells"`
	Tasks       TaskSummary `json:"tasks"`
	OutOfBounds []string    `json:"out_of_bounds,omitempty"` // 电压超出上下限的电芯
}
