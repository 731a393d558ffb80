package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/smallnest/wxhook/internal/logger"
)

// Watch 监听配置文件变化，重新加载并通过 Validate 后回调 onChange。
// ctx 结束后不再回调。没有配置文件时返回 ErrNoConfigFile。
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	v, err := newViper(configPath)
	if err != nil {
		return err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return ErrNoConfigFile
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			logger.Warn("Failed to reload config", zap.String("file", e.Name), zap.Error(err))
			return
		}
		if err := Validate(cfg); err != nil {
			logger.Warn("Ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Info("Config reloaded", zap.String("file", e.Name))
		onChange(cfg)
	})
	v.WatchConfig()

	logger.Debug("Watching config file", zap.String("file", v.ConfigFileUsed()))
	return nil
}
