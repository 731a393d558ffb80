package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀，例如 WXHOOK_WEIXIN_TOKEN
const EnvPrefix = "WXHOOK"

// ErrNoConfigFile 没有找到可监听的配置文件
var ErrNoConfigFile = errors.New("no config file")

// newViper 创建 viper 实例并设置搜索路径、环境变量与默认值
func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(ExpandUserPath(configPath))
	} else {
		home, err := ResolveUserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// 1) 当前工作目录下 .wxhook/config.*
		v.AddConfigPath(filepath.Join(".", ".wxhook"))
		// 2) 当前工作目录 ./config.*
		v.AddConfigPath(".")
		// 3) 用户目录 ~/.wxhook/config.*
		v.AddConfigPath(filepath.Join(home, ".wxhook"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v, nil
}

// Load 加载配置文件。配置文件不存在时使用默认值和环境变量。
func Load(configPath string) (*Config, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := resolveSecrets(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 没有默认值的键不会被 AutomaticEnv 覆盖，因此 token 也需要登记
	v.SetDefault("weixin.token", "")
	v.SetDefault("weixin.path", "/wx")
	v.SetDefault("weixin.max_body_bytes", 1<<20)

	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	// Use time.Duration defaults; plain integers would become nanoseconds when unmarshaled.
	v.SetDefault("gateway.read_timeout", 5*time.Second)
	v.SetDefault("gateway.write_timeout", 5*time.Second)
	v.SetDefault("gateway.shutdown_timeout", 5*time.Second)

	v.SetDefault("responder.mode", "echo")
	v.SetDefault("responder.link_pic_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.development", false)
}

// Save 保存配置到文件，.yaml/.yml 写 YAML，其余写 JSON
func Save(cfg *Config, path string) error {
	path = ExpandUserPath(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// token 可能是明文，按私有文件写入
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate 验证配置
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateWeixin(cfg); err != nil {
		return fmt.Errorf("weixin config invalid: %w", err)
	}
	if err := validateGateway(cfg); err != nil {
		return fmt.Errorf("gateway config invalid: %w", err)
	}
	if err := validateResponder(cfg); err != nil {
		return fmt.Errorf("responder config invalid: %w", err)
	}
	if err := validateLog(cfg); err != nil {
		return fmt.Errorf("log config invalid: %w", err)
	}
	return nil
}

func validateWeixin(cfg *Config) error {
	if strings.TrimSpace(cfg.Weixin.Token) == "" {
		return fmt.Errorf("token is required")
	}
	if strings.TrimSpace(cfg.Weixin.Token) != cfg.Weixin.Token {
		return fmt.Errorf("token must not contain leading/trailing whitespace")
	}
	if !strings.HasPrefix(cfg.Weixin.Path, "/") {
		return fmt.Errorf("path must start with '/'")
	}
	if cfg.Weixin.Path == "/health" {
		return fmt.Errorf("path /health is reserved")
	}
	if cfg.Weixin.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}

func validateGateway(cfg *Config) error {
	if cfg.Gateway.Port <= 0 || cfg.Gateway.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.Gateway.ReadTimeout <= 0 || cfg.Gateway.WriteTimeout <= 0 {
		return fmt.Errorf("read_timeout and write_timeout must be positive")
	}
	if cfg.Gateway.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must be non-negative")
	}
	return nil
}

func validateResponder(cfg *Config) error {
	switch cfg.Responder.Mode {
	case "echo", "silent":
		return nil
	default:
		return fmt.Errorf("mode must be echo or silent, got %q", cfg.Responder.Mode)
	}
}

func validateLog(cfg *Config) error {
	switch cfg.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("format must be console or json, got %q", cfg.Log.Format)
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	return nil
}
