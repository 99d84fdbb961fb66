package cell

import (
	"errors"
	"fmt"

	"github.com/langchou/cellbench/internal/models"
)

// 电芯创建时随机采样的温度区间 (°C)
const (
	MinTemperature = 25.0
	MaxTemperature = 40.0
)

// ErrInvalidCount 添加数量小于 1
var ErrInvalidCount = errors.New("cell count must be at least 1")

// Sampler 随机数来源，*rand.Rand 即满足
type Sampler interface {
	Float64() float64
}

// AddRequest 添加电芯参数
type AddRequest struct {
	Chemistry  models.Chemistry
	Count      int
	Voltage    float64
	Current    float64
	MinVoltage float64
	MaxVoltage float64
}

// Store 电芯存储
// 仅由所属会话访问，不做并发保护
type Store struct {
	rng   Sampler
	cells []models.CellRecord
}

// NewStore 创建电芯存储
func NewStore(rng Sampler) *Store {
	return &Store{rng: rng}
}

// Add 追加 Count 个电芯，每个电芯独立采样温度
func (s *Store) Add(req AddRequest) ([]models.CellRecord, error) {
	if req.Count < 1 {
		return nil, fmt.Errorf("add %d cells: %w", req.Count, ErrInvalidCount)
	}

	capacity := Capacity(req.Voltage, req.Current)
	added := make([]models.CellRecord, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		rec := models.CellRecord{
			Key:         models.CellKey(len(s.cells)+1, req.Chemistry),
			CellType:    req.Chemistry,
			Voltage:     req.Voltage,
			Current:     req.Current,
			Temperature: s.sampleTemperature(),
			Capacity:    capacity,
			MinVoltage:  req.MinVoltage,
			MaxVoltage:  req.MaxVoltage,
		}
		s.cells = append(s.cells, rec)
		added = append(added, rec)
	}

	return added, nil
}

// AddFromPreset 使用化学体系预设电压添加电芯
func (s *Store) AddFromPreset(chemistry models.Chemistry, count int, current float64) ([]models.CellRecord, error) {
	p := GetPreset(string(chemistry))
	return s.Add(AddRequest{
		Chemistry:  chemistry,
		Count:      count,
		Voltage:    p.Voltage,
		Current:    current,
		MinVoltage: p.MinVoltage,
		MaxVoltage: p.MaxVoltage,
	})
}

func (s *Store) sampleTemperature() float64 {
	t := MinTemperature + s.rng.Float64()*(MaxTemperature-MinTemperature)
	return round(t, 1)
}

// Reset 清空
func (s *Store) Reset() {
	s.cells = nil
}

// List 按插入顺序返回所有电芯（副本）
func (s *Store) List() []models.CellRecord {
	out := make([]models.CellRecord, len(s.cells))
	copy(out, s.cells)
	return out
}

// Len 电芯数量
func (s *Store) Len() int {
	return len(s.cells)
}

// Aggregate 汇总容量、平均温度和平均电压，空存储返回 nil
func (s *Store) Aggregate() *models.Aggregate {
	if len(s.cells) == 0 {
		return nil
	}

	agg := &models.Aggregate{
		TotalCells:      len(s.cells),
		ChemistryCounts: make(map[models.Chemistry]int),
	}
	var tempSum, voltSum float64
	for _, c := range s.cells {
		agg.TotalCapacity += c.Capacity
		tempSum += c.Temperature
		voltSum += c.Voltage
		agg.ChemistryCounts[c.CellType]++
	}

	n := float64(len(s.cells))
	agg.MeanTemperature = tempSum / n
	agg.MeanVoltage = voltSum / n
	return agg
}

// OutOfBounds 返回电压不在 [min, max] 内的电芯主键
func (s *Store) OutOfBounds() []string {
	var keys []string
	for _, c := range s.cells {
		if !c.WithinBounds() {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
