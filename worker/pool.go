// Package worker 并行执行互相独立的线段树任务.
// 单棵树不是并发安全的，每个任务独占自己构建的树，池只负责调度、限流与观测.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	concpool "github.com/sourcegraph/conc/pool"

	"github.com/wyfcoding/lazyseg/algorithm/segtree"
	"github.com/wyfcoding/lazyseg/config"
	"github.com/wyfcoding/lazyseg/logging"
	"github.com/wyfcoding/lazyseg/metrics"
	"github.com/wyfcoding/lazyseg/tracing"
	"github.com/wyfcoding/lazyseg/xerrors"
)

// Job 是一个独立的线段树任务，Run 返回它构建并操作过的树.
type Job struct {
	Name string
	Run  func(ctx context.Context) (*segtree.Tree, error)
}

// Result 是单个任务的执行结果，顺序与提交的任务一致.
type Result struct {
	Name    string
	Stats   segtree.Stats
	Err     error
	Elapsed time.Duration
}

type poolOptions struct {
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
	Name     string
	Size     int
	Timeout  time.Duration
	Validate bool
	FailFast bool
}

// Option 定义配置选项。
type Option func(*poolOptions)

// WithName 设置池名称。
func WithName(name string) Option {
	return func(o *poolOptions) {
		o.Name = name
	}
}

// WithSize 设置最大并发数，非正数表示使用 GOMAXPROCS。
func WithSize(size int) Option {
	return func(o *poolOptions) {
		o.Size = size
	}
}

// WithTimeout 设置单批任务的超时。
func WithTimeout(d time.Duration) Option {
	return func(o *poolOptions) {
		o.Timeout = d
	}
}

// WithLogger 注入日志记录器。
func WithLogger(l *logging.Logger) Option {
	return func(o *poolOptions) {
		o.Logger = l
	}
}

// WithMetrics 注入指标采集器.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *poolOptions) {
		o.Metrics = m
	}
}

// WithValidate 任务成功后校验树的不变量，校验失败记为任务错误。
func WithValidate(enabled bool) Option {
	return func(o *poolOptions) {
		o.Validate = enabled
	}
}

// WithFailFast 任一任务失败即取消同批其余任务的 context。
func WithFailFast() Option {
	return func(o *poolOptions) {
		o.FailFast = true
	}
}

// FromConfig 把配置段转换为选项。
func FromConfig(w config.WorkerConfig, e config.EngineConfig) []Option {
	opts := []Option{WithSize(w.Size), WithTimeout(w.Timeout), WithValidate(e.Validate)}
	if w.Name != "" {
		opts = append(opts, WithName(w.Name))
	}
	return opts
}

// Pool 以受限并发执行任务批次。
type Pool struct {
	options *poolOptions
	logger  *logging.Logger

	mu      sync.Mutex
	closed  bool
	running sync.WaitGroup
}

// NewPool 创建一个新的任务池。
func NewPool(opts ...Option) *Pool {
	options := &poolOptions{
		Name: "default-pool",
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Size <= 0 {
		options.Size = runtime.GOMAXPROCS(0)
	}
	if options.Logger == nil {
		options.Logger = logging.Default()
	}

	p := &Pool{
		options: options,
		logger:  options.Logger.Named("worker"),
	}
	p.logger.Info("worker pool created", "name", options.Name, "size", options.Size)
	return p
}

// Size 返回最大并发数。
func (p *Pool) Size() int { return p.options.Size }

func (p *Pool) engineMetrics() *metrics.EngineMetrics {
	if p.options.Metrics == nil {
		return nil
	}
	return p.options.Metrics.Engine
}

// Run 执行一批任务并等待全部结束。
// 返回的切片与 jobs 一一对应，error 为所有失败任务错误的合并。
// 池已关闭时返回 ErrPoolClosed。
func (p *Pool) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, xerrors.ErrPoolClosed.With("pool", p.options.Name)
	}
	p.running.Add(1)
	p.mu.Unlock()
	defer p.running.Done()

	if p.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.options.Timeout)
		defer cancel()
	}

	ctx, span := tracing.StartSpan(ctx, "worker.run")
	defer span.End()
	tracing.AddTag(ctx, "pool", p.options.Name)
	tracing.AddTag(ctx, "jobs", len(jobs))

	results := make([]Result, len(jobs))
	cp := concpool.New().WithContext(ctx).WithMaxGoroutines(p.options.Size)
	if p.options.FailFast {
		cp = cp.WithCancelOnError()
	}
	for i, job := range jobs {
		cp.Go(func(ctx context.Context) error {
			results[i] = p.execute(ctx, job)
			return results[i].Err
		})
	}
	err := cp.Wait()
	tracing.SetError(ctx, err)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.InfoContext(ctx, "worker batch finished", "name", p.options.Name, "jobs", len(jobs), "failed", failed)
	return results, err
}

func (p *Pool) execute(ctx context.Context, job Job) (res Result) {
	res.Name = job.Name
	start := time.Now()
	em := p.engineMetrics()
	if em != nil {
		em.ActiveWorkers.WithLabelValues(p.options.Name).Inc()
		defer em.ActiveWorkers.WithLabelValues(p.options.Name).Dec()
	}

	ctx, span := tracing.StartSpan(ctx, "worker.job")
	defer span.End()
	tracing.AddTag(ctx, "job", job.Name)

	defer func() {
		if r := recover(); r != nil {
			res.Err = xerrors.Internal(fmt.Sprintf("job %s panicked: %v", job.Name, r), nil).WithContext("stack", string(debug.Stack()))
		}
		res.Elapsed = time.Since(start)
		tracing.SetError(ctx, res.Err)
		em.ObserveJob(p.options.Name, res.Err, res.Elapsed)
		if res.Err != nil {
			p.logger.ErrorContext(ctx, "job failed", "job", job.Name, "error", res.Err)
		} else {
			p.logger.DebugContext(ctx, "job finished", "job", job.Name, "elapsed", res.Elapsed)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("job %s not started: %w", job.Name, err)
		return res
	}
	if job.Run == nil {
		res.Err = xerrors.ErrInvalidInput.With("job", job.Name)
		return res
	}

	tree, err := job.Run(ctx)
	if err != nil {
		res.Err = fmt.Errorf("job %s: %w", job.Name, err)
		return res
	}
	if tree == nil {
		return res
	}
	if p.options.Validate {
		if err := tree.Validate(); err != nil {
			res.Err = fmt.Errorf("job %s: %w", job.Name, err)
			return res
		}
	}
	res.Stats = tree.Stats()
	span.SetAttributes(tracing.TreeAttributes(res.Stats)...)
	em.ObserveTree(res.Stats)
	return res
}

// Stop 关闭任务池并等待正在执行的批次结束，之后的 Run 返回 ErrPoolClosed。
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.running.Wait()
	p.logger.Info("worker pool stopped", "name", p.options.Name)
}
