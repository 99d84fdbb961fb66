package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TaskType 任务类型
type TaskType string

const (
	TaskCCCV TaskType = "CC_CV" // 恒流恒压
	TaskIdle TaskType = "IDLE"  // 静置
	TaskCCCD TaskType = "CC_CD" // 恒流放电
)

// TaskTypes 可选任务类型
var TaskTypes = []TaskType{TaskCCCV, TaskIdle, TaskCCCD}

// ParseTaskType 解析任务类型（不区分大小写）
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range TaskTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

// TaskSpec 任务参数，每种任务类型只携带自己的字段
type TaskSpec interface {
	Type() TaskType
	isTaskSpec()
}

// CCCV 恒流恒压参数
type CCCV struct {
	CCCP      string
	CVVoltage float64
	Current   float64
	Capacity  float64
}

// Idle 静置，无额外参数
type Idle struct{}

// CCCD 恒流放电参数
type CCCD struct {
	CCCP     string
	Voltage  float64
	Capacity float64
}

func (CCCV) Type() TaskType { return TaskCCCV }
func (Idle) Type() TaskType { return TaskIdle }
func (CCCD) Type() TaskType { return TaskCCCD }

func (CCCV) isTaskSpec() {}
func (Idle) isTaskSpec() {}
func (CCCD) isTaskSpec() {}

// TaskRecord 任务记录
type TaskRecord struct {
	ID              int
	DurationSeconds int
	Spec            TaskSpec
}

// Key 任务主键，如 task_3
func (t TaskRecord) Key() string {
	return TaskKey(t.ID)
}

// Type 任务类型
func (t TaskRecord) Type() TaskType {
	if t.Spec == nil {
		return ""
	}
	return t.Spec.Type()
}

// TaskKey 生成任务主键
func TaskKey(id int) string {
	return fmt.Sprintf("task_%d", id)
}

// taskJSON 扁平化的任务 JSON 结构
type taskJSON struct {
	TaskType    TaskType `json:"task_type"`
	TimeSeconds int      `json:"time_seconds"`
	CCCP        *string  `json:"cc_cp,omitempty"`
	CVVoltage   *float64 `json:"cv_voltage,omitempty"`
	Current     *float64 `json:"current,omitempty"`
	Voltage     *float64 `json:"voltage,omitempty"`
	Capacity    *float64 `json:"capacity,omitempty"`
}

// MarshalJSON 将任务类型与参数平铺到同一层
func (t TaskRecord) MarshalJSON() ([]byte, error) {
	out := taskJSON{
		TaskType:    t.Type(),
		TimeSeconds: t.DurationSeconds,
	}

	switch s := t.Spec.(type) {
	case CCCV:
		out.CCCP = &s.CCCP
		out.CVVoltage = &s.CVVoltage
		out.Current = &s.Current
		out.Capacity = &s.Capacity
	case CCCD:
		out.CCCP = &s.CCCP
		out.Voltage = &s.Voltage
		out.Capacity = &s.Capacity
	case Idle, nil:
	default:
		return nil, fmt.Errorf("unsupported task spec %T", t.Spec)
	}

	return json.Marshal(out)
}

// UnmarshalJSON 解析平铺格式，ID 由外层的 task_<id> 键决定
func (t *TaskRecord) UnmarshalJSON(data []byte) error {
	var in taskJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	taskType, err := ParseTaskType(string(in.TaskType))
	if err != nil {
		return err
	}

	t.DurationSeconds = in.TimeSeconds
	switch taskType {
	case TaskCCCV:
		t.Spec = CCCV{
			CCCP:      deref(in.CCCP),
			CVVoltage: deref(in.CVVoltage),
			Current:   deref(in.Current),
			Capacity:  deref(in.Capacity),
		}
	case TaskCCCD:
		t.Spec = CCCD{
			CCCP:     deref(in.CCCP),
			Voltage:  deref(in.Voltage),
			Capacity: deref(in.Capacity),
		}
	case TaskIdle:
		t.Spec = Idle{}
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// TaskSummary 任务汇总
type TaskSummary struct {
	TotalTasks           int      `json:"total_tasks"`
	TotalDurationSeconds int      `json:"total_duration_seconds"`
	MostCommonType       TaskType `json:"most_common_type"`
}

// NoTaskType 没有任务时 MostCommonType 的取值
const NoTaskType TaskType = "None"

// TimelineEntry 时间线条目 (单位: 秒，相对序列开始)
type TimelineEntry struct {
	TaskID   int      `json:"task_id"`
	Task     string   `json:"task"`
	Start    int      `json:"start"`
	Finish   int      `json:"finish"`
	TaskType TaskType `json:"task_type"`
}
