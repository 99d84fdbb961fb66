package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchou/cellbench/internal/cell"
	"github.com/langchou/cellbench/internal/config"
	"github.com/langchou/cellbench/internal/export"
	"github.com/langchou/cellbench/internal/models"
	"github.com/langchou/cellbench/internal/state"
	"github.com/langchou/cellbench/internal/task"
	"github.com/langchou/cellbench/internal/timeline"
	"github.com/langchou/cellbench/pkg/metrics"
	"github.com/langchou/cellbench/pkg/ws"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many open sessions")
	ErrCellLimit       = errors.New("too many cells in one request")
	ErrNothingToSubmit = errors.New("nothing to submit")
)

// Notifier 会话变化通知，*ws.Hub 即满足
type Notifier interface {
	BroadcastToSession(sessionID, msgType string, data interface{})
	CloseSession(sessionID string)
}

// VoltageOverride 自定义电压
type VoltageOverride struct {
	Voltage    float64
	MinVoltage float64
	MaxVoltage float64
}

// AddCellsInput 添加电芯参数，Override 为空时使用化学体系预设
type AddCellsInput struct {
	Chemistry models.Chemistry
	Count     int
	Current   float64
	Override  *VoltageOverride
}

// Export 导出结果
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SessionService 会话服务
type SessionService struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Collector
	notifier Notifier
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	seeds    *rand.Rand // 为每个会话生成独立的随机源
}

// NewSessionService 创建会话服务
func NewSessionService(
	cfg *config.Config,
	logger *zap.Logger,
	collector *metrics.Collector,
	notifier Notifier,
) *SessionService {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &SessionService{
		cfg:      cfg,
		logger:   logger,
		metrics:  collector,
		notifier: notifier,
		now:      time.Now,
		sessions: make(map[string]*Session),
		seeds:    rand.New(rand.NewSource(seed)),
	}
}

// SetClock 替换时间来源（测试用）
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// Create 创建会话
func (s *SessionService) Create() (*models.SessionOverview, error) {
	s.mu.Lock()
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return nil, ErrTooManySessions
	}
	id := uuid.NewString()
	sess := newSession(id, s.now, rand.New(rand.NewSource(s.seeds.Int63())), func(from, to string) {
		s.logger.Debug("Session phase changed",
			zap.String("session_id", id),
			zap.String("from", from),
			zap.String("to", to))
	})
	s.sessions[sess.id] = sess
	total := len(s.sessions)
	s.mu.Unlock()

	s.metrics.ActiveSessions.Inc()
	s.logger.Info("Session created", zap.String("session_id", sess.id), zap.Int("total_sessions", total))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.overview(), nil
}

// Close 关闭会话并丢弃其数据
func (s *SessionService) Close(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.metrics.ActiveSessions.Dec()
	s.notifier.CloseSession(id)
	s.logger.Info("Session closed", zap.String("session_id", id))
	return nil
}

// Count 当前会话数
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Exists 会话是否存在
func (s *SessionService) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// withSession 在会话锁内执行 fn
func (s *SessionService) withSession(id string, fn func(sess *Session) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// changed 同步阶段并推送概览
func (s *SessionService) changed(sess *Session, msgType string) error {
	if err := sess.syncPhase(); err != nil {
		return fmt.Errorf("sync phase: %w", err)
	}
	s.notifier.BroadcastToSession(sess.id, msgType, sess.overview())
	return nil
}

// Overview 会话概览
func (s *SessionService) Overview(id string) (*models.SessionOverview, error) {
	var out *models.SessionOverview
	err := s.withSession(id, func(sess *Session) error {
		out = sess.overview()
		return nil
	})
	return out, err
}

// AddCells 添加电芯
func (s *SessionService) AddCells(id string, in AddCellsInput) ([]models.CellRecord, error) {
	if s.cfg.MaxCellsPerAdd > 0 && in.Count > s.cfg.MaxCellsPerAdd {
		return nil, fmt.Errorf("add %d cells (max %d): %w", in.Count, s.cfg.MaxCellsPerAdd, ErrCellLimit)
	}

	var added []models.CellRecord
	err := s.withSession(id, func(sess *Session) error {
		var err error
		if in.Override != nil {
			added, err = sess.cells.Add(cell.AddRequest{
				Chemistry:  in.Chemistry,
				Count:      in.Count,
				Voltage:    in.Override.Voltage,
				Current:    in.Current,
				MinVoltage: in.Override.MinVoltage,
				MaxVoltage: in.Override.MaxVoltage,
			})
		} else {
			added, err = sess.cells.AddFromPreset(in.Chemistry, in.Count, in.Current)
		}
		if err != nil {
			return err
		}

		if len(added) > 0 && !added[0].WithinBounds() {
			s.logger.Warn("Custom voltage outside min/max range",
				zap.String("session_id", id),
				zap.String("cell_type", string(in.Chemistry)),
				zap.Float64("voltage", added[0].Voltage),
				zap.Float64("min_voltage", added[0].MinVoltage),
				zap.Float64("max_voltage", added[0].MaxVoltage))
		}

		return s.changed(sess, ws.MsgTypeCellsUpdated)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCellsAdded(string(in.Chemistry), len(added))
	s.logger.Info("Cells added",
		zap.String("session_id", id),
		zap.String("cell_type", string(in.Chemistry)),
		zap.Int("count", len(added)))
	return added, nil
}

// ListCells 电芯列表
func (s *SessionService) ListCells(id string) ([]models.CellRecord, error) {
	var out []models.CellRecord
	err := s.withSession(id, func(sess *Session) error {
		out = sess.cells.List()
		return nil
	})
	return out, err
}

// AggregateCells 电芯汇总，空存储返回 nil
func (s *SessionService) AggregateCells(id string) (*models.Aggregate, error) {
	var out *models.Aggregate
	err := s.withSession(id, func(sess *Session) error {
		out = sess.cells.Aggregate()
		return nil
	})
	return out, err
}

// ResetCells 清空电芯
func (s *SessionService) ResetCells(id string) error {
	err := s.withSession(id, func(sess *Session) error {
		sess.cells.Reset()
		return s.changed(sess, ws.MsgTypeCellsUpdated)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordReset("cells")
	s.logger.Info("Cells reset", zap.String("session_id", id))
	return nil
}

// AddTask 添加任务，校验失败返回 *task.ValidationError
func (s *SessionService) AddTask(id string, durationSeconds int, spec models.TaskSpec) (models.TaskRecord, error) {
	var rec models.TaskRecord
	err := s.withSession(id, func(sess *Session) error {
		var err error
		rec, err = sess.tasks.Add(durationSeconds, spec)
		if err != nil {
			return err
		}
		return s.changed(sess, ws.MsgTypeTasksUpdated)
	})

	if err != nil {
		return models.TaskRecord{}, s.rejected(id, err)
	}

	s.metrics.RecordTaskAdded(string(rec.Type()))
	s.logger.Info("Task added",
		zap.String("session_id", id),
		zap.Int("task_id", rec.ID),
		zap.String("task_type", string(rec.Type())),
		zap.Int("time_seconds", rec.DurationSeconds))
	return rec, nil
}

// RejectUnknownTask 任务类型无法识别时调用，返回包含全部字段错误的 *task.ValidationError
func (s *SessionService) RejectUnknownTask(id string, durationSeconds int, tag string) error {
	if !s.Exists(id) {
		return ErrSessionNotFound
	}
	return s.rejected(id, task.ValidateUnknownType(durationSeconds, tag))
}

// rejected 记录任务校验失败，其他错误原样返回
func (s *SessionService) rejected(id string, err error) error {
	var verr *task.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	for _, f := range verr.Fields {
		s.metrics.RecordValidationFailure(task.ErrorKind(f.Err))
	}
	s.logger.Warn("Task rejected", zap.String("session_id", id), zap.Error(err))
	return err
}

// DeleteTask 删除任务，不存在时忽略
func (s *SessionService) DeleteTask(id string, taskID int) error {
	var removed bool
	err := s.withSession(id, func(sess *Session) error {
		removed = sess.tasks.Delete(taskID)
		if !removed {
			return nil
		}
		return s.changed(sess, ws.MsgTypeTasksUpdated)
	})
	if err != nil {
		return err
	}

	if removed {
		s.metrics.TasksDeletedTotal.Inc()
		s.logger.Info("Task deleted", zap.String("session_id", id), zap.Int("task_id", taskID))
	} else {
		s.logger.Debug("Task not found, nothing deleted", zap.String("session_id", id), zap.Int("task_id", taskID))
	}
	return nil
}

// ListTasks 任务列表
func (s *SessionService) ListTasks(id string) ([]models.TaskRecord, error) {
	var out []models.TaskRecord
	err := s.withSession(id, func(sess *Session) error {
		out = sess.tasks.List()
		return nil
	})
	return out, err
}

// TaskSummary 任务汇总
func (s *SessionService) TaskSummary(id string) (models.TaskSummary, error) {
	var out models.TaskSummary
	err := s.withSession(id, func(sess *Session) error {
		out = sess.tasks.Summary()
		return nil
	})
	return out, err
}

// ResetTasks 清空任务并重置计数器
func (s *SessionService) ResetTasks(id string) error {
	err := s.withSession(id, func(sess *Session) error {
		sess.tasks.Reset()
		return s.changed(sess, ws.MsgTypeTasksUpdated)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordReset("tasks")
	s.logger.Info("Tasks reset", zap.String("session_id", id))
	return nil
}

// Timeline 任务时间线
func (s *SessionService) Timeline(id string) ([]models.TimelineEntry, error) {
	var out []models.TimelineEntry
	err := s.withSession(id, func(sess *Session) error {
		out = timeline.Build(sess.tasks.List())
		return nil
	})
	return out, err
}

// ResetAll 清空电芯和任务
func (s *SessionService) ResetAll(id string) (*models.SessionOverview, error) {
	var out *models.SessionOverview
	err := s.withSession(id, func(sess *Session) error {
		sess.cells.Reset()
		sess.tasks.Reset()
		if err := s.changed(sess, ws.MsgTypeSessionReset); err != nil {
			return err
		}
		out = sess.overview()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReset("all")
	s.logger.Info("All data has been reset", zap.String("session_id", id))
	return out, nil
}

// Submit 提交全部数据，重复提交无副作用
func (s *SessionService) Submit(id string) (*models.SessionOverview, error) {
	var out *models.SessionOverview
	err := s.withSession(id, func(sess *Session) error {
		switch sess.machine.Phase() {
		case state.PhaseEmpty:
			return ErrNothingToSubmit
		case state.PhaseActive:
			if err := sess.machine.Trigger(state.EventSubmit); err != nil {
				return err
			}
			s.notifier.BroadcastToSession(sess.id, ws.MsgTypeSessionSubmitted, sess.overview())
		}
		out = sess.overview()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session submitted",
		zap.String("session_id", id),
		zap.Int("total_cells", out.TotalCells),
		zap.Int("total_tasks", out.TotalTasks))
	return out, nil
}

// ExportJSON 导出会话数据为 JSON
func (s *SessionService) ExportJSON(id string) (*Export, error) {
	var out *Export
	err := s.withSession(id, func(sess *Session) error {
		now := s.now()
		data, err := export.ToJSON(now, sess.cells.List(), sess.tasks.List())
		if err != nil {
			return err
		}
		out = &Export{
			FileName:    export.FileName("battery_data", "json", now),
			ContentType: "application/json",
			Data:        data,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordExport("json")
	return out, nil
}

// ExportCSV 导出电芯为 CSV
func (s *SessionService) ExportCSV(id string) (*Export, error) {
	var out *Export
	err := s.withSession(id, func(sess *Session) error {
		data, err := export.ToCSV(sess.cells.List())
		if err != nil {
			return err
		}
		out = &Export{
			FileName:    export.FileName("cells_data", "csv", s.now()),
			ContentType: "text/csv",
			Data:        data,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordExport("csv")
	return out, nil
}

// InitData 供 WebSocket Hub 获取初始数据，会话不存在时返回 nil
func (s *SessionService) InitData(id string) interface{} {
	ov, err := s.Overview(id)
	if err != nil {
		return nil
	}
	return ov
}
