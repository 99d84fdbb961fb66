package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/langchou/cellbench/internal/models"
)

// CSVHeader 电芯 CSV 表头，首列为索引
var CSVHeader = []string{
	"cell_id",
	"cell_type",
	"voltage",
	"current",
	"temperature",
	"capacity",
	"min_voltage",
	"max_voltage",
}

// ToCSV 每个电芯一行，空存储只输出表头
func ToCSV(cells []models.CellRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range cells {
		row := []string{
			c.Key,
			string(c.CellType),
			formatFloat(c.Voltage),
			formatFloat(c.Current),
			formatFloat(c.Temperature),
			formatFloat(c.Capacity),
			formatFloat(c.MinVoltage),
			formatFloat(c.MaxVoltage),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", c.Key, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
