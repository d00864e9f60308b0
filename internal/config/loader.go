// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	apperrors "story-weaver-api/pkg/errors"
)

const (
	// DefaultConfigDir 默认配置目录
	DefaultConfigDir = "configs"

	// DefaultModel 默认生成模型
	DefaultModel = "gemini-1.5-flash"
	// DefaultBaseURL Gemini 的 OpenAI 兼容端点
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

var envPlaceholder = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 加载配置文件
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigDir)
}

// LoadFrom 从指定目录加载配置
// 不做启动校验，服务端入口需要显式调用 Validate
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置
	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), false); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// 凭证同时接受 LLM_API_KEY 与历史上的 API_KEY
	if err := v.BindEnv("llm.api_key", "LLM_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind llm.api_key env: %w", err)
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Defaults 返回仅由默认值和环境变量构成的配置，供没有配置文件的客户端使用
func Defaults() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY", "API_KEY")
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return &Config{}
	}
	return &cfg
}

// Validate 校验启动必需配置，缺失凭证属于致命错误
func (c *Config) Validate() error {
	key := strings.TrimSpace(c.LLM.APIKey)
	if key == "" || envPlaceholder.MatchString(key) {
		return apperrors.ErrCredentialMissing.WithDetail("set API_KEY (or LLM_API_KEY) before starting the server")
	}

	switch strings.ToLower(strings.TrimSpace(c.LLM.Driver)) {
	case "", "eino", "openai":
	default:
		return apperrors.ErrConfigInvalid.WithDetail(fmt.Sprintf("unsupported llm driver: %s", c.LLM.Driver))
	}

	if strings.TrimSpace(c.LLM.Model) == "" {
		return apperrors.ErrConfigInvalid.WithDetail("llm.model is required")
	}
	if c.LLM.Timeout < 0 {
		return apperrors.ErrConfigInvalid.WithDetail("llm.timeout must not be negative")
	}
	if c.Security.RateLimit.Enabled && !c.Cache.Redis.Enabled {
		return apperrors.ErrConfigInvalid.WithDetail("security.rate_limit requires cache.redis.enabled")
	}
	return nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnv(string(content))

	reader := strings.NewReader(expanded)
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，后续文件走 MergeConfig
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
// 未定义且无默认值的变量原样保留，由 Validate 识别
func expandEnv(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPlaceholder.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match
	})
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "story-weaver-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "90s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")

	// 生成服务默认值
	v.SetDefault("llm.driver", "eino")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.base_url", DefaultBaseURL)
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.timeout", "60s")

	// Redis 默认值
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output", "stdout")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.exporter", "otlp")
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.requests_per_window", 10)
	v.SetDefault("security.rate_limit.window", "1m")
	v.SetDefault("security.rate_limit.key_prefix", "ratelimit")

	// 客户端默认值
	v.SetDefault("client.endpoint", "http://localhost:8080/api/generate")
	v.SetDefault("client.timeout", "90s")
	v.SetDefault("client.copy_indicator", "2s")
}
