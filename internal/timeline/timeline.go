// Package timeline 将有序任务列表展开为首尾相接的时间线
package timeline

import "github.com/langchou/cellbench/internal/models"

// Build 按任务顺序计算起止时间
// 第一个任务从 0 开始，之后每个任务的开始时间等于上一个任务的结束时间
func Build(tasks []models.TaskRecord) []models.TimelineEntry {
	entries := make([]models.TimelineEntry, 0, len(tasks))
	cursor := 0
	for _, t := range tasks {
		finish := cursor + t.DurationSeconds
		entries = append(entries, models.TimelineEntry{
			TaskID:   t.ID,
			Task:     t.Key(),
			Start:    cursor,
			Finish:   finish,
			TaskType: t.Type(),
		})
		cursor = finish
	}
	return entries
}

// Total 时间线总时长，即最后一个任务的结束时间
func Total(entries []models.TimelineEntry) int {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].Finish
}
