package task

import (
	"fmt"
	"strings"

	"github.com/langchou/cellbench/internal/models"
)

// Store 任务存储
// 保持插入顺序，ID 单调递增且删除后不复用，Reset 后从 1 重新开始
type Store struct {
	counter int
	tasks   []models.TaskRecord
}

// NewStore 创建任务存储
func NewStore() *Store {
	return &Store{}
}

// Validate 校验任务字段，收集所有错误后一次性返回
func Validate(durationSeconds int, spec models.TaskSpec) error {
	verr := &ValidationError{}
	verr.checkDuration(durationSeconds)

	switch s := spec.(type) {
	case models.CCCV:
		if _, err := ValidateCCCP(s.CCCP); err != nil {
			verr.add("cc_cp", err)
		}
	case models.CCCD:
		if _, err := ValidateCCCP(s.CCCP); err != nil {
			verr.add("cc_cp", err)
		}
	case models.Idle:
	case nil:
		verr.add("task_type", ErrMissingSpec)
	}

	return verr.orNil()
}

// ValidateUnknownType 任务类型无法识别时使用，时长错误一并报告
func ValidateUnknownType(durationSeconds int, tag string) error {
	verr := &ValidationError{}
	verr.checkDuration(durationSeconds)
	verr.add("task_type", fmt.Errorf("%q: %w", tag, ErrUnknownType))
	return verr
}

// Add 校验并追加任务，校验失败时不修改任何状态
func (s *Store) Add(durationSeconds int, spec models.TaskSpec) (models.TaskRecord, error) {
	if err := Validate(durationSeconds, spec); err != nil {
		return models.TaskRecord{}, err
	}

	s.counter++
	rec := models.TaskRecord{
		ID:              s.counter,
		DurationSeconds: durationSeconds,
		Spec:            normalize(spec),
	}
	s.tasks = append(s.tasks, rec)
	return rec, nil
}

// normalize 去掉 CC/CP 输入两端空白
func normalize(spec models.TaskSpec) models.TaskSpec {
	switch s := spec.(type) {
	case models.CCCV:
		s.CCCP = strings.TrimSpace(s.CCCP)
		return s
	case models.CCCD:
		s.CCCP = strings.TrimSpace(s.CCCP)
		return s
	default:
		return spec
	}
}

// Delete 删除任务，不存在时忽略
func (s *Store) Delete(id int) bool {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Get 按 ID 获取任务
func (s *Store) Get(id int) (models.TaskRecord, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.TaskRecord{}, false
}

// Reset 清空并重置计数器
func (s *Store) Reset() {
	s.tasks = nil
	s.counter = 0
}

// List 按插入顺序返回所有任务（副本）
func (s *Store) List() []models.TaskRecord {
	out := make([]models.TaskRecord, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len 任务数量
func (s *Store) Len() int {
	return len(s.tasks)
}

// Summary 汇总总时长和最常见的任务类型
// 次数相同时取最先出现的类型
func (s *Store) Summary() models.TaskSummary {
	sum := models.TaskSummary{
		TotalTasks:     len(s.tasks),
		MostCommonType: models.NoTaskType,
	}

	counts := make(map[models.TaskType]int)
	var order []models.TaskType
	for _, t := range s.tasks {
		sum.TotalDurationSeconds += t.DurationSeconds
		if counts[t.Type()] == 0 {
			order = append(order, t.Type())
		}
		counts[t.Type()]++
	}

	best := 0
	for _, tt := range order {
		if counts[tt] > best {
			best = counts[tt]
			sum.MostCommonType = tt
		}
	}
	return sum
}
