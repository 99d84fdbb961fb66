package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/langchou/cellbench/internal/models"
)

func tasksWithDurations(durations ...int) []models.TaskRecord {
	out := make([]models.TaskRecord, len(durations))
	for i, d := range durations {
		out[i] = models.TaskRecord{ID: i + 1, DurationSeconds: d, Spec: models.Idle{}}
	}
	return out
}

func TestBuild_Sequential(t *testing.T) {
	entries := Build(tasksWithDurations(60, 30, 90))

	starts := make([]int, len(entries))
	finishes := make([]int, len(entries))
	for i, e := range entries {
		starts[i] = e.Start
		finishes[i] = e.Finish
	}

	assert.Equal(t, []int{0, 60, 90}, starts)
	assert.Equal(t, []int{60, 90, 180}, finishes)
	assert.Equal(t, 180, Total(entries))
}

func TestBuild_CarriesTaskIdentity(t *testing.T) {
	tasks := []models.TaskRecord{
		{ID: 4, DurationSeconds: 10, Spec: models.CCCV{CCCP: "5A"}},
		{ID: 9, DurationSeconds: 5, Spec: models.CCCD{CCCP: "2W"}},
	}

	entries := Build(tasks)

	assert.Equal(t, []models.TimelineEntry{
		{TaskID: 4, Task: "task_4", Start: 0, Finish: 10, TaskType: models.TaskCCCV},
		{TaskID: 9, Task: "task_9", Start: 10, Finish: 15, TaskType: models.TaskCCCD},
	}, entries)
}

func TestBuild_Empty(t *testing.T) {
	entries := Build(nil)
	assert.Empty(t, entries)
	assert.Equal(t, 0, Total(entries))
}

func TestBuild_Idempotent(t *testing.T) {
	tasks := tasksWithDurations(1, 2, 3, 4)
	assert.Equal(t, Build(tasks), Build(tasks))
}
