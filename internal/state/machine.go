package state

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
)

// 会话阶段常量
const (
	PhaseEmpty     = "empty"
	PhaseActive    = "active"
	PhaseSubmitted = "submitted"
)

// 事件常量
const (
	EventPopulate = "populate"
	EventSubmit   = "submit"
	EventEdit     = "edit"
	EventReset    = "reset"
)

// Machine 会话阶段状态机
// 只标注会话所处阶段，不约束存储操作。调用方负责串行访问
type Machine struct {
	fsm           *fsm.FSM
	since         time.Time
	now           func() time.Time
	onPhaseChange func(from, to string)
}

// NewMachine 创建状态机，初始为 empty
func NewMachine(now func() time.Time, onPhaseChange func(from, to string)) *Machine {
	if now == nil {
		now = time.Now
	}

	m := &Machine{
		now:           now,
		since:         now(),
		onPhaseChange: onPhaseChange,
	}

	m.fsm = fsm.NewFSM(
		PhaseEmpty,
		fsm.Events{
			// 首次添加电芯或任务
			{Name: EventPopulate, Src: []string{PhaseEmpty}, Dst: PhaseActive},

			// 提交全部数据
			{Name: EventSubmit, Src: []string{PhaseActive}, Dst: PhaseSubmitted},

			// 提交后继续修改
			{Name: EventEdit, Src: []string{PhaseSubmitted}, Dst: PhaseActive},

			// 清空
			{Name: EventReset, Src: []string{PhaseActive, PhaseSubmitted}, Dst: PhaseEmpty},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onPhaseChange != nil && e.Src != e.Dst {
					m.onPhaseChange(e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// Phase 当前阶段
func (m *Machine) Phase() string {
	return m.fsm.Current()
}

// Since 进入当前阶段的时间
func (m *Machine) Since() time.Time {
	return m.since
}

// Trigger 触发事件
func (m *Machine) Trigger(event string) error {
	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	m.since = m.now()
	return nil
}

// Can 检查事件在当前阶段是否可用
func (m *Machine) Can(event string) bool {
	return m.fsm.Can(event)
}

// Touch 数据发生变化后调用：empty 转 active，submitted 转回 active
func (m *Machine) Touch() error {
	switch m.Phase() {
	case PhaseEmpty:
		return m.Trigger(EventPopulate)
	case PhaseSubmitted:
		return m.Trigger(EventEdit)
	default:
		return nil
	}
}

// Clear 数据被清空后调用，已是 empty 时忽略
func (m *Machine) Clear() error {
	if m.Phase() == PhaseEmpty {
		return nil
	}
	return m.Trigger(EventReset)
}
