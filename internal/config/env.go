package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Env 容器环境下的变量,以及对配置文件的少量覆盖
type Env struct {
	RunningInDocker bool   `envconfig:"RUNNING_IN_DOCKER"`
	ChromeBin       string `envconfig:"CHROME_BIN"`
	// CDP 引擎直接与 Chrome 通信,不需要 driver;保留该变量只为兼容已有的部署清单
	ChromeDriver string `envconfig:"CHROMEDRIVER"`

	Headless *bool   `envconfig:"DAAD_HEADLESS"`
	Engine   *string `envconfig:"DAAD_ENGINE"`
	Output   *string `envconfig:"DAAD_OUTPUT"`
	LogLevel *string `envconfig:"DAAD_LOG_LEVEL"`
	EsAddr   *string `envconfig:"DAAD_ES_ADDRESS"`
}

// LoadEnv 读取环境变量并覆盖配置中的对应项
func (cfg *Config) LoadEnv() error {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("读取环境变量失败: %w", err)
	}
	cfg.Env = env

	if env.Headless != nil {
		cfg.Browser.Headless = *env.Headless
	}
	if env.Engine != nil {
		cfg.Browser.Engine = strings.ToLower(strings.TrimSpace(*env.Engine))
	}
	if env.Output != nil {
		cfg.Output.JSONPath = *env.Output
	}
	if env.LogLevel != nil {
		cfg.Log.Level = *env.LogLevel
	}
	if env.EsAddr != nil {
		cfg.Elasticsearch.Address = *env.EsAddr
	}
	if env.ChromeBin != "" {
		cfg.Browser.Bin = env.ChromeBin
	}
	return nil
}

func (env Env) validate() error {
	if !env.RunningInDocker {
		return nil
	}
	var missing []string
	if strings.TrimSpace(env.ChromeBin) == "" {
		missing = append(missing, "CHROME_BIN")
	}
	if strings.TrimSpace(env.ChromeDriver) == "" {
		missing = append(missing, "CHROMEDRIVER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("RUNNING_IN_DOCKER=true 时缺少环境变量: %s", strings.Join(missing, ", "))
	}
	return nil
}
