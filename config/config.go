// Package config 提供了统一的配置加载与热更新能力.
// 配置文件为 TOML，环境变量以 APP_ 为前缀覆盖同名键（层级以下划线连接）。
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/wyfcoding/lazyseg/logging"
)

// Config 全局顶级配置结构.
type Config struct {
	Version string        `mapstructure:"version" toml:"version"`
	Log     LogConfig     `mapstructure:"log"     toml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" toml:"tracing"`
	Worker  WorkerConfig  `mapstructure:"worker"  toml:"worker"`
	Engine  EngineConfig  `mapstructure:"engine"  toml:"engine"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Service    string `mapstructure:"service"     toml:"service"`
	Level      string `mapstructure:"level"       toml:"level"       validate:"omitempty,oneof=debug info warn error"` // 日志级别。
	Format     string `mapstructure:"format"      toml:"format"      validate:"omitempty,oneof=json text"`             // 日志格式（json/text）。
	File       string `mapstructure:"file"        toml:"file"`                                                         // 日志文件路径。
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"    validate:"gte=0"`                                 // 单个文件最大大小 (MB)。
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" validate:"gte=0"`                                 // 最大备份数。
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"     validate:"gte=0"`                                 // 最大保留天数。
	Compress   bool   `mapstructure:"compress"    toml:"compress"`                                                     // 是否启用压缩。
}

// MetricsConfig 定义指标采集参数.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
	Runtime bool `mapstructure:"runtime" toml:"runtime"` // 是否注册 Go 运行时指标
}

// TracingConfig 定义链路追踪参数.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"       toml:"enabled"`
	ServiceName  string  `mapstructure:"service_name"  toml:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" toml:"otlp_endpoint" validate:"required_if=Enabled true"`
	SampleRatio  float64 `mapstructure:"sample_ratio"  toml:"sample_ratio"  validate:"gte=0,lte=1"`
}

// WorkerConfig 定义并行处理独立线段树任务的参数.
type WorkerConfig struct {
	Name    string        `mapstructure:"name"    toml:"name"`
	Size    int           `mapstructure:"size"    toml:"size"    validate:"gte=0,lte=1024"` // 0 表示使用 GOMAXPROCS
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout" validate:"gte=0"`          // 单批任务超时，0 表示不限
}

// EngineConfig 定义引擎层面的开关.
type EngineConfig struct {
	Validate bool `mapstructure:"validate" toml:"validate"` // 任务结束后校验树的不变量
}

// Default 返回各字段的默认值.
func Default() Config {
	return Config{
		Version: "dev",
		Log:     LogConfig{Service: "lazyseg", Level: "info", Format: "json"},
		Tracing: TracingConfig{ServiceName: "lazyseg", SampleRatio: 1},
		Worker:  WorkerConfig{Name: "segtree"},
	}
}

// Loader 负责读取、校验与热更新配置.
type Loader struct {
	v        *viper.Viper
	validate *validator.Validate

	mu       sync.RWMutex
	current  Config
	onReload []func(Config)
}

// NewLoader 创建配置加载器.
func NewLoader() *Loader {
	return &Loader{
		v:        viper.New(),
		validate: validator.New(),
	}
}

// OnReload 注册配置热更新回调.
func (l *Loader) OnReload(hook func(Config)) {
	if hook == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onReload = append(l.onReload, hook)
}

// Load 读取 path 指向的 TOML 文件，叠加环境变量并校验.
func (l *Loader) Load(path string) (Config, error) {
	l.v.SetConfigFile(path)
	l.v.SetConfigType("toml")

	l.v.SetEnvPrefix("APP")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if err := l.v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	cfg, err := l.decode()
	if err != nil {
		return Config{}, err
	}

	l.mu.Lock()
	l.current = cfg
	l.mu.Unlock()
	return cfg, nil
}

func (l *Loader) decode() (Config, error) {
	cfg := Default()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config error: %w", err)
	}
	if err := l.validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Current 返回最近一次成功加载的配置.
func (l *Loader) Current() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Watch 监听配置文件变化，校验通过后更新日志级别并依次调用回调.
// 校验失败的修改会被丢弃，保留上一份有效配置.
func (l *Loader) Watch() {
	l.v.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name, "op", event.Op.String())
		l.reload()
	})
	l.v.WatchConfig()
}

func (l *Loader) reload() {
	if err := l.v.ReadInConfig(); err != nil {
		slog.Error("reload config read failed", "error", err)
		return
	}
	cfg, err := l.decode()
	if err != nil {
		slog.Error("reload config rejected", "error", err)
		return
	}

	l.mu.Lock()
	l.current = cfg
	hooks := append([]func(Config){}, l.onReload...)
	l.mu.Unlock()

	logging.SetLevel(cfg.Log.Level)
	for _, hook := range hooks {
		hook(cfg)
	}
	slog.Info("config hot-reloaded and validated successfully")
}

// PrintWithMask 脱敏打印配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)
		return
	}

	var configMap map[string]any
	if err := json.Unmarshal(data, &configMap); err != nil {
		slog.Error("failed to unmarshal config for masking", "error", err)
		return
	}

	mask(configMap)

	maskedJSON, err := json.MarshalIndent(configMap, "  ", "  ")
	if err != nil {
		slog.Error("failed to marshal masked config", "error", err)
		return
	}

	slog.Info("Current effective configuration", "config", string(maskedJSON))
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "token", "endpoint"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)
			continue
		}
		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"
				break
			}
		}
	}
}
