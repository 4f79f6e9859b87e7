package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// ParseConfig 在默认配置之上解析 json,未出现的字段保持默认值
func ParseConfig(byteConfig []byte) (*Config, error) {
	cfg := Default()
	if len(byteConfig) > 0 {
		if err := json.Unmarshal(byteConfig, cfg); err != nil {
			return nil, fmt.Errorf("解析配置失败: %w", err)
		}
	}
	if cfg.Browser.UserDataDir != "" {
		absPath, err := filepath.Abs(cfg.Browser.UserDataDir)
		if err != nil {
			return nil, err
		}
		cfg.Browser.UserDataDir = absPath
	}
	return cfg, nil
}

// Load 解析配置、应用环境变量并校验
func Load(byteConfig []byte) (*Config, error) {
	cfg, err := ParseConfig(byteConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
