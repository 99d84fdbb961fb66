package cell

import "strconv"

// Capacity 容量 = 电压 × 电流，保留两位小数
func Capacity(voltage, current float64) float64 {
	return round(voltage*current, 2)
}

// round 按二进制精确值四舍六入五成双
func round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
