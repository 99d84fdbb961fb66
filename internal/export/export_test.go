package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langchou/cellbench/internal/models"
)

var exportTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func sampleCells() []models.CellRecord {
	return []models.CellRecord{
		{Key: "cell_1_lfp", CellType: models.ChemistryLFP, Voltage: 3.2, Current: 2, Temperature: 31.4, Capacity: 6.4, MinVoltage: 2.8, MaxVoltage: 3.6},
		{Key: "cell_2_nmc", CellType: models.ChemistryNMC, Voltage: 3.6, Current: 0, Temperature: 25, Capacity: 0, MinVoltage: 3.2, MaxVoltage: 4},
	}
}

func sampleTasks() []models.TaskRecord {
	tasks := []models.TaskRecord{
		{ID: 2, DurationSeconds: 60, Spec: models.CCCV{CCCP: "5A", CVVoltage: 3.6, Current: 1, Capacity: 1}},
		{ID: 10, DurationSeconds: 30, Spec: models.Idle{}},
		{ID: 11, DurationSeconds: 90, Spec: models.CCCD{CCCP: "10W", Voltage: 3.2, Capacity: 2}},
	}
	return tasks
}

func TestToJSON_RoundTripCounts(t *testing.T) {
	cells, tasks := sampleCells(), sampleTasks()

	data, err := ToJSON(exportTime, cells, tasks)
	require.NoError(t, err)

	snap, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Len(t, snap.Cells, len(cells))
	assert.Len(t, snap.Tasks, len(tasks))
	assert.True(t, exportTime.Equal(snap.Timestamp))
	assert.Equal(t, cells[0], snap.Cells["cell_1_lfp"])
	assert.Equal(t, tasks[0], snap.Tasks["task_2"])
	assert.Equal(t, tasks[1], snap.Tasks["task_10"])
	assert.Equal(t, tasks[2], snap.Tasks["task_11"])
}

func TestToJSON_TopLevelShape(t *testing.T) {
	data, err := ToJSON(exportTime, sampleCells(), sampleTasks())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Len(t, raw, 3)
	assert.JSONEq(t, `"2024-03-09T14:05:07Z"`, string(raw["timestamp"]))
	assert.JSONEq(t, `{
		"task_type": "CC_CV", "time_seconds": 60, "cc_cp": "5A",
		"cv_voltage": 3.6, "current": 1, "capacity": 1
	}`, extract(t, raw["tasks"], "task_2"))
	assert.JSONEq(t, `{"task_type": "IDLE", "time_seconds": 30}`, extract(t, raw["tasks"], "task_10"))
	assert.JSONEq(t, `{
		"cell_type": "NMC", "voltage": 3.6, "current": 0, "temperature": 25,
		"capacity": 0, "min_voltage": 3.2, "max_voltage": 4
	}`, extract(t, raw["cells"], "cell_2_nmc"))
}

func extract(t *testing.T, obj json.RawMessage, key string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(obj, &m))
	v, ok := m[key]
	require.True(t, ok, "missing key %s", key)
	return string(v)
}

func TestToJSON_KeepsInsertionOrder(t *testing.T) {
	data, err := ToJSON(exportTime, nil, sampleTasks())
	require.NoError(t, err)

	s := string(data)
	i2 := strings.Index(s, `"task_2"`)
	i10 := strings.Index(s, `"task_10"`)
	i11 := strings.Index(s, `"task_11"`)
	require.True(t, i2 >= 0 && i10 >= 0 && i11 >= 0)
	assert.Less(t, i2, i10)
	assert.Less(t, i10, i11)
}

func TestToJSON_EmptyStores(t *testing.T) {
	data, err := ToJSON(exportTime, nil, nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"timestamp": "2024-03-09T14:05:07Z", "cells": {}, "tasks": {}}`, string(data))
}

func TestToCSV(t *testing.T) {
	cells := sampleCells()

	data, err := ToCSV(cells)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(cells)+1)

	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"cell_1_lfp", "LFP", "3.2", "2", "31.4", "6.4", "2.8", "3.6"}, rows[1])
	assert.Equal(t, []string{"cell_2_nmc", "NMC", "3.6", "0", "25", "0", "3.2", "4"}, rows[2])
}

func TestToCSV_EmptyWritesHeaderOnly(t *testing.T) {
	data, err := ToCSV(nil)
	require.NoError(t, err)

	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", string(data))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "battery_data_20240309_140507.json", FileName("battery_data", "json", exportTime))
	assert.Equal(t, "cells_data_20240309_140507.csv", FileName("cells_data", "csv", exportTime))
}
