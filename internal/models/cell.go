package models

import (
	"fmt"
	"strings"
)

// Chemistry 电芯化学体系
type Chemistry string

const (
	ChemistryLFP Chemistry = "LFP"
	ChemistryNMC Chemistry = "NMC"
	ChemistryLTO Chemistry = "LTO"
	ChemistryLCO Chemistry = "LCO"
)

// Chemistries 可选的化学体系，顺序与表单下拉框一致
var Chemistries = []Chemistry{ChemistryLFP, ChemistryNMC, ChemistryLTO, ChemistryLCO}

// ParseChemistry 解析化学体系标签（不区分大小写）
func ParseChemistry(tag string) (Chemistry, error) {
	c := Chemistry(strings.ToUpper(strings.TrimSpace(tag)))
	for _, known := range Chemistries {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown cell type %q", tag)
}

// CellRecord 电芯记录
type CellRecord struct {
	Key         string    `json:"-"`
	CellType    Chemistry `json:"cell_type"`
	Voltage     float64   `json:"voltage"`     // V
	Current     float64   `json:"current"`     // A
	Temperature float64   `json:"temperature"` // °C
	Capacity    float64   `json:"capacity"`
	MinVoltage  float64   `json:"min_voltage"` // V
	MaxVoltage  float64   `json:"max_voltage"` // V
}

// WithinBounds 电压是否落在 [min, max] 区间内
// 自定义电压不会在写入时校验，这里用于事后标记
func (c CellRecord) WithinBounds() bool {
	return c.MinVoltage <= c.Voltage && c.Voltage <= c.MaxVoltage
}

// CellKey 生成电芯主键，如 cell_3_lfp
func CellKey(n int, chemistry Chemistry) string {
	return fmt.Sprintf("cell_%d_%s", n, strings.ToLower(string(chemistry)))
}

// Aggregate 电芯汇总
type Aggregate struct {
	TotalCells      int               `json:"total_cells"`
	TotalCapacity   float64           `json:"total_capacity"`
	MeanTemperature float64           `json:"mean_temperature"`
	MeanVoltage     float64           `json:"mean_voltage"`
	ChemistryCounts map[Chemistry]int `json:"chemistry_counts"`
}
