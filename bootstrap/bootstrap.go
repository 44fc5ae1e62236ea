// Package bootstrap 按配置装配日志、指标、追踪与任务池.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wyfcoding/lazyseg/config"
	"github.com/wyfcoding/lazyseg/logging"
	"github.com/wyfcoding/lazyseg/metrics"
	"github.com/wyfcoding/lazyseg/tracing"
	"github.com/wyfcoding/lazyseg/worker"
)

// Runtime 是装配完成的运行环境.
type Runtime struct {
	Config  config.Config
	Logger  *logging.Logger
	Metrics *metrics.Metrics // 未启用指标时为 nil
	Pool    *worker.Pool

	loader   *config.Loader
	cleanups []func(context.Context) error
}

// Bootstrapper 处理通用基础设施的初始化
type Bootstrapper struct {
	ServiceName string
	Version     string
	Watch       bool // 是否监听配置文件变化
}

// New 创建一个新的引导器实例
func New(serviceName, version string) *Bootstrapper {
	return &Bootstrapper{
		ServiceName: serviceName,
		Version:     version,
	}
}

// Initialize 加载配置文件并依次初始化日志、指标、追踪与任务池.
func (b *Bootstrapper) Initialize(ctx context.Context, configPath string) (*Runtime, error) {
	defer logging.LogDuration(ctx, "bootstrap", "service", b.ServiceName)()

	loader := config.NewLoader()
	cfg, err := loader.Load(configPath)
	if err != nil {
		logging.Error(ctx, "failed to load config", "path", configPath, "error", err)
		return nil, err
	}

	rt := &Runtime{Config: cfg, loader: loader}
	rt.Logger = b.initLogger(cfg.Log)
	slog.SetDefault(rt.Logger.Logger)
	config.PrintWithMask(cfg)

	if cfg.Metrics.Enabled {
		var opts []metrics.Option
		if cfg.Metrics.Runtime {
			opts = append(opts, metrics.WithRuntimeCollectors())
		}
		rt.Metrics = metrics.NewMetrics(b.ServiceName, opts...)
		rt.Metrics.RegisterBuildInfo(b.ServiceName, b.Version)
	}

	tracingCfg := cfg.Tracing
	if tracingCfg.ServiceName == "" {
		tracingCfg.ServiceName = b.ServiceName
	}
	shutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		rt.Logger.Error("failed to initialize tracer", "error", err)
		return nil, err
	}
	rt.cleanups = append(rt.cleanups, shutdown)

	opts := worker.FromConfig(cfg.Worker, cfg.Engine)
	opts = append(opts, worker.WithLogger(rt.Logger), worker.WithMetrics(rt.Metrics))
	rt.Pool = worker.NewPool(opts...)
	rt.cleanups = append(rt.cleanups, func(context.Context) error {
		rt.Pool.Stop()
		return nil
	})

	if b.Watch {
		loader.OnReload(func(c config.Config) {
			rt.Logger.Info("config reloaded", "version", c.Version, "level", c.Log.Level)
		})
		loader.Watch()
	}

	rt.Logger.Info("runtime initialized", "version", b.Version, "pool_size", rt.Pool.Size(),
		"metrics", cfg.Metrics.Enabled, "tracing", cfg.Tracing.Enabled)
	return rt, nil
}

func (b *Bootstrapper) initLogger(cfg config.LogConfig) *logging.Logger {
	service := cfg.Service
	if service == "" {
		service = b.ServiceName
	}
	return logging.NewFromConfig(logging.Config{
		Service:    service,
		Module:     "bootstrap",
		Level:      cfg.Level,
		Format:     cfg.Format,
		File:       cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
}

// CurrentConfig 返回最近一次生效的配置.
func (r *Runtime) CurrentConfig() config.Config {
	return r.loader.Current()
}

// Shutdown 逆序执行清理函数.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		if err := r.cleanups[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.cleanups = nil
	return errors.Join(errs...)
}
