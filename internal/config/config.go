// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Prompt        PromptConfig        `yaml:"prompt" mapstructure:"prompt"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
	Features      FeaturesConfig      `yaml:"features" mapstructure:"features"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// MaxBodyBytes 请求体上限
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LLMConfig 生成后端配置
type LLMConfig struct {
	// DefaultBackend 未本地加载的模型回退使用的后端
	DefaultBackend string                   `yaml:"default_backend" mapstructure:"default_backend"`
	Backends       map[string]BackendConfig `yaml:"backends" mapstructure:"backends"`
}

// BackendConfig 单个本地生成后端配置
type BackendConfig struct {
	// Provider 可选 tgi / openai / echo
	Provider string        `yaml:"provider" mapstructure:"provider"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxConcurrency 同时在途的调用数，默认 1（串行）
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// PromptConfig 提示词模板配置
type PromptConfig struct {
	Prefixes map[string]string `yaml:"prefixes" mapstructure:"prefixes"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// AccessLog 是否输出 HTTP 访问日志
	AccessLog bool `yaml:"access_log" mapstructure:"access_log"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CORS CORSConfig `yaml:"cors" mapstructure:"cors"`
	// FreeTierKeys 免费模型 -> 唯一可用的共享 key
	FreeTierKeys map[string]string `yaml:"free_tier_keys" mapstructure:"free_tier_keys"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// FeaturesConfig 功能开关配置
type FeaturesConfig struct {
	// StrictContentType 未知内容类型直接拒绝，而不是使用空前缀
	StrictContentType bool `yaml:"strict_content_type" mapstructure:"strict_content_type"`
	// SimulateGatedModels 需要 API key 的模型使用默认后端模拟生成
	SimulateGatedModels bool `yaml:"simulate_gated_models" mapstructure:"simulate_gated_models"`
}

// Validate 校验配置的一致性
func (c *Config) Validate() error {
	if c.Server.HTTP.Port <= 0 || c.Server.HTTP.Port > 65535 {
		return fmt.Errorf("server.http.port out of range: %d", c.Server.HTTP.Port)
	}
	if len(c.LLM.Backends) == 0 {
		return fmt.Errorf("llm.backends: at least one backend is required")
	}
	def := strings.TrimSpace(c.LLM.DefaultBackend)
	if def == "" {
		return fmt.Errorf("llm.default_backend not specified")
	}
	if _, ok := c.LLM.Backends[def]; !ok {
		return fmt.Errorf("llm.default_backend %q is not a configured backend", def)
	}
	for id, b := range c.LLM.Backends {
		if b.MaxConcurrency < 0 {
			return fmt.Errorf("llm.backends.%s.max_concurrency must not be negative", id)
		}
		switch strings.ToLower(b.Provider) {
		case "tgi", "openai":
			if strings.TrimSpace(b.BaseURL) == "" {
				return fmt.Errorf("llm.backends.%s.base_url is required for provider %s", id, b.Provider)
			}
		case "echo":
		default:
			return fmt.Errorf("llm.backends.%s: unknown provider %q", id, b.Provider)
		}
	}
	return nil
}
