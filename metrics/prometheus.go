// Package metrics 封装基于 Prometheus 的指标注册表以及线段树引擎的标准指标。
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 封装了独立的 Prometheus 注册表及预定义指标。
type Metrics struct {
	registry *prometheus.Registry // 内部独立的 Prometheus 注册中心

	BuildInfo *prometheus.GaugeVec
	Engine    *EngineMetrics
}

// Option 定义配置选项。
type Option func(*options)

type options struct {
	runtime bool
}

// WithRuntimeCollectors 额外注册 Go 运行时与进程指标。
func WithRuntimeCollectors() Option {
	return func(o *options) {
		o.runtime = true
	}
}

// NewMetrics 初始化并返回一个新的指标采集器，引擎指标总是被注册。
func NewMetrics(serviceName string, opts ...Option) *Metrics {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	reg := prometheus.NewRegistry()
	if o.runtime {
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	m := &Metrics{registry: reg}
	m.Engine = newEngineMetrics(m)

	slog.Info("unified metrics registry initialized", "service", serviceName)
	return m
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Gatherer 返回底层注册表，供调用方导出或在测试中读取。
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler 返回暴露指标的 HTTP 处理器，由宿主进程决定挂载位置。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
