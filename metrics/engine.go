package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wyfcoding/lazyseg/algorithm/segtree"
)

// EngineMetrics 记录线段树任务的执行情况。
// 树本身在热路径上只维护普通计数器，任务结束时由调用方一次性上报。
type EngineMetrics struct {
	JobsTotal     *prometheus.CounterVec   // 任务数 (维度: pool, status)
	JobDuration   *prometheus.HistogramVec // 任务耗时 (维度: pool)
	Operations    *prometheus.CounterVec   // 树操作次数 (维度: policy, op)
	LocateVisits  *prometheus.HistogramVec // 每次下降查找平均访问的节点数 (维度: policy)
	ActiveWorkers *prometheus.GaugeVec     // 正在执行的任务数 (维度: pool)
}

func newEngineMetrics(m *Metrics) *EngineMetrics {
	return &EngineMetrics{
		JobsTotal: m.NewCounterVec(prometheus.CounterOpts{
			Name: "segtree_jobs_total",
			Help: "Total number of segment tree jobs",
		}, []string{"pool", "status"}),
		JobDuration: m.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "segtree_job_duration_seconds",
			Help:    "Segment tree job latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"pool"}),
		Operations: m.NewCounterVec(prometheus.CounterOpts{
			Name: "segtree_operations_total",
			Help: "Range updates, queries and locates issued against segment trees",
		}, []string{"policy", "op"}),
		LocateVisits: m.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "segtree_locate_visited_nodes",
			Help:    "Average number of nodes visited per locate call",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"policy"}),
		ActiveWorkers: m.NewGaugeVec(prometheus.GaugeOpts{
			Name: "segtree_active_jobs",
			Help: "Number of segment tree jobs currently running",
		}, []string{"pool"}),
	}
}

// ObserveTree 上报一棵树在其生命周期内的操作统计。
func (e *EngineMetrics) ObserveTree(s segtree.Stats) {
	if e == nil {
		return
	}
	policy := s.Kind.String()
	e.Operations.WithLabelValues(policy, "update").Add(float64(s.Updates))
	e.Operations.WithLabelValues(policy, "query").Add(float64(s.Queries))
	e.Operations.WithLabelValues(policy, "locate").Add(float64(s.Locates))
	if s.Locates > 0 {
		e.LocateVisits.WithLabelValues(policy).Observe(float64(s.Visited) / float64(s.Locates))
	}
}

// ObserveJob 上报一次任务的结果与耗时。
func (e *EngineMetrics) ObserveJob(pool string, err error, elapsed time.Duration) {
	if e == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.JobsTotal.WithLabelValues(pool, status).Inc()
	e.JobDuration.WithLabelValues(pool).Observe(elapsed.Seconds())
}
