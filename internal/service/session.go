package service

import (
	"sync"
	"time"

	"github.com/langchou/cellbench/internal/cell"
	"github.com/langchou/cellbench/internal/models"
	"github.com/langchou/cellbench/internal/state"
	"github.com/langchou/cellbench/internal/task"
)

// Session 单个仪表盘会话，独占自己的电芯和任务存储
type Session struct {
	mu        sync.Mutex // 串行化同一会话上的操作
	id        string
	createdAt time.Time
	cells     *cell.Store
	tasks     *task.Store
	machine   *state.Machine
}

func newSession(id string, now func() time.Time, rng cell.Sampler, onPhaseChange func(from, to string)) *Session {
	return &Session{
		id:        id,
		createdAt: now(),
		cells:     cell.NewStore(rng),
		tasks:     task.NewStore(),
		machine:   state.NewMachine(now, onPhaseChange),
	}
}

// ID 会话 ID
func (s *Session) ID() string {
	return s.id
}

// overview 生成会话概览，调用方需持有 mu
func (s *Session) overview() *models.SessionOverview {
	return &models.SessionOverview{
		ID:          s.id,
		Phase:       s.machine.Phase(),
		Since:       s.machine.Since(),
		CreatedAt:   s.createdAt,
		TotalCells:  s.cells.Len(),
		TotalTasks:  s.tasks.Len(),
		Cells:       s.cells.Aggregate(),
		Tasks:       s.tasks.Summary(),
		OutOfBounds: s.cells.OutOfBounds(),
	}
}

// syncPhase 数据变化后同步会话阶段
func (s *Session) syncPhase() error {
	if s.cells.Len() == 0 && s.tasks.Len() == 0 {
		return s.machine.Clear()
	}
	return s.machine.Touch()
}
