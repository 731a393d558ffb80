package config

import (
	"time"
)

// Config 是主配置结构
type Config struct {
	Weixin    WeixinConfig    `mapstructure:"weixin" json:"weixin" yaml:"weixin"`
	Gateway   GatewayConfig   `mapstructure:"gateway" json:"gateway" yaml:"gateway"`
	Responder ResponderConfig `mapstructure:"responder" json:"responder" yaml:"responder"`
	Log       LogConfig       `mapstructure:"log" json:"log" yaml:"log"`
}

// WeixinConfig 公众号回调配置
type WeixinConfig struct {
	// Token 与公众平台约定的令牌，支持 "keyring:<name>" 引用系统钥匙串
	Token        string `mapstructure:"token" json:"token" yaml:"token"`
	Path         string `mapstructure:"path" json:"path" yaml:"path"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`
}

// GatewayConfig 网关配置
type GatewayConfig struct {
	Host            string        `mapstructure:"host" json:"host" yaml:"host"`
	Port            int           `mapstructure:"port" json:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ResponderConfig 被动回复策略
type ResponderConfig struct {
	Mode       string `mapstructure:"mode" json:"mode" yaml:"mode"` // echo 或 silent
	LinkPicURL string `mapstructure:"link_pic_url" json:"link_pic_url" yaml:"link_pic_url"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	Format      string `mapstructure:"format" json:"format" yaml:"format"`
	Development bool   `mapstructure:"development" json:"development" yaml:"development"`
}
