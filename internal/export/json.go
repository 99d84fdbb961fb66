package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/langchou/cellbench/internal/models"
)

// Snapshot 导出文件结构
type Snapshot struct {
	Timestamp time.Time                    `json:"timestamp"`
	Cells     map[string]models.CellRecord `json:"cells"`
	Tasks     map[string]models.TaskRecord `json:"tasks"`
}

// document 导出时使用有序映射，保证键按插入顺序输出
type document struct {
	Timestamp string                        `json:"timestamp"`
	Cells     orderedMap[models.CellRecord] `json:"cells"`
	Tasks     orderedMap[models.TaskRecord] `json:"tasks"`
}

type orderedMap[V any] struct {
	keys   []string
	values []V
}

func (m *orderedMap[V]) set(key string, v V) {
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

func (m orderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[i])
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON 导出全部电芯和任务
func ToJSON(now time.Time, cells []models.CellRecord, tasks []models.TaskRecord) ([]byte, error) {
	doc := document{Timestamp: now.Format(time.RFC3339)}
	for _, c := range cells {
		doc.Cells.set(c.Key, c)
	}
	for _, t := range tasks {
		doc.Tasks.set(t.Key(), t)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// ParseJSON 解析 ToJSON 的输出
func ParseJSON(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	for key, c := range snap.Cells {
		c.Key = key
		snap.Cells[key] = c
	}
	for key, t := range snap.Tasks {
		if _, err := fmt.Sscanf(key, "task_%d", &t.ID); err != nil {
			return nil, fmt.Errorf("parse task key %q: %w", key, err)
		}
		snap.Tasks[key] = t
	}
	return &snap, nil
}

// FileName 下载文件名，如 battery_data_20240102_150405.json
func FileName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), ext)
}
