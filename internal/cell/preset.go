package cell

import (
	"strings"

	"github.com/langchou/cellbench/internal/models"
)

// Preset 化学体系默认电压参数 (V)
type Preset struct {
	Voltage    float64 `json:"voltage"`
	MinVoltage float64 `json:"min_voltage"`
	MaxVoltage float64 `json:"max_voltage"`
}

var (
	lfpPreset = Preset{Voltage: 3.2, MinVoltage: 2.8, MaxVoltage: 3.6}

	// genericPreset NMC 及其他所有体系共用，LTO/LCO 暂无独立预设
	genericPreset = Preset{Voltage: 3.6, MinVoltage: 3.2, MaxVoltage: 4.0}
)

// GetPreset 根据化学体系标签返回默认电压参数，不区分大小写
// 未知标签同样返回通用预设
func GetPreset(tag string) Preset {
	switch models.Chemistry(strings.ToUpper(strings.TrimSpace(tag))) {
	case models.ChemistryLFP:
		return lfpPreset
	default:
		return genericPreset
	}
}
