package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 应用指标收集器
type Collector struct {
	// API 指标
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// 业务指标
	CellsAddedTotal         *prometheus.CounterVec
	TasksAddedTotal         *prometheus.CounterVec
	TasksDeletedTotal       prometheus.Counter
	ValidationFailuresTotal *prometheus.CounterVec
	ExportsTotal            *prometheus.CounterVec

	// 会话指标
	ActiveSessions prometheus.Gauge
	ResetsTotal    *prometheus.CounterVec
}

// NewCollector 创建指标收集器并注册到 reg
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of API requests by method, path, and status",
			},
			[]string{"method", "path", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"method", "path"},
		),

		CellsAddedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cells_added_total",
				Help:      "Total number of cells added by chemistry",
			},
			[]string{"chemistry"},
		),

		TasksAddedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_added_total",
				Help:      "Total number of tasks added by task type",
			},
			[]string{"task_type"},
		),

		TasksDeletedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_deleted_total",
				Help:      "Total number of tasks deleted",
			},
		),

		ValidationFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of rejected field values by error kind",
			},
			[]string{"kind"},
		),

		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Total number of exports by format",
			},
			[]string{"format"}, // "json", "csv"
		),

		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of open dashboard sessions",
			},
		),

		ResetsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resets_total",
				Help:      "Total number of store resets by scope",
			},
			[]string{"scope"}, // "cells", "tasks", "all"
		),
	}
}

// RecordAPIRequest 记录一次 API 请求及耗时
func (c *Collector) RecordAPIRequest(method, path, status string, seconds float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordCellsAdded 记录新增电芯数量
func (c *Collector) RecordCellsAdded(chemistry string, n int) {
	c.CellsAddedTotal.WithLabelValues(chemistry).Add(float64(n))
}

// RecordTaskAdded 记录新增任务
func (c *Collector) RecordTaskAdded(taskType string) {
	c.TasksAddedTotal.WithLabelValues(taskType).Inc()
}

// RecordValidationFailure 记录校验失败
func (c *Collector) RecordValidationFailure(kind string) {
	c.ValidationFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordExport 记录导出
func (c *Collector) RecordExport(format string) {
	c.ExportsTotal.WithLabelValues(format).Inc()
}

// RecordReset 记录清空操作
func (c *Collector) RecordReset(scope string) {
	c.ResetsTotal.WithLabelValues(scope).Inc()
}
