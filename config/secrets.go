package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService 系统钥匙串中的服务名
	KeyringService = "wxhook"
	// KeyringPrefix 配置中引用钥匙串的前缀
	KeyringPrefix = "keyring:"
)

// ResolveSecret 解析 "keyring:<name>" 形式的引用，其他取值原样返回
func ResolveSecret(value string) (string, error) {
	name, ok := strings.CutPrefix(strings.TrimSpace(value), KeyringPrefix)
	if !ok {
		return value, nil
	}
	if name == "" {
		return "", fmt.Errorf("empty keyring reference")
	}

	secret, err := keyring.Get(KeyringService, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("keyring secret %q not found", name)
		}
		return "", fmt.Errorf("failed to read keyring secret %q: %w", name, err)
	}
	return secret, nil
}

// StoreSecret 将密钥写入系统钥匙串，返回可写入配置文件的引用
func StoreSecret(name, secret string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("secret name is required")
	}
	if err := keyring.Set(KeyringService, name, secret); err != nil {
		return "", fmt.Errorf("failed to write keyring secret %q: %w", name, err)
	}
	return KeyringPrefix + name, nil
}

// MaskSecret 只保留末尾 4 位
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

func resolveSecrets(cfg *Config) error {
	token, err := ResolveSecret(cfg.Weixin.Token)
	if err != nil {
		return fmt.Errorf("weixin.token: %w", err)
	}
	cfg.Weixin.Token = token
	return nil
}
