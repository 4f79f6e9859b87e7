package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/LouYuanbo1/daadcrawler/param"
)

const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
	EngineStatic   = "static"
)

type Config struct {
	Site *param.Site `json:"site"`

	Browser struct {
		Engine               string `json:"engine"`
		Headless             bool   `json:"headless"`
		Bin                  string `json:"bin"`
		UserDataDir          string `json:"user_data_dir"`
		UserAgent            string `json:"user_agent"`
		WindowWidth          int    `json:"window_width"`
		WindowHeight         int    `json:"window_height"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		DisableImages        bool   `json:"disable_images"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		Leakless             bool   `json:"leakless"`
		// 仅 rod 引擎: 复用本机浏览器的用户模式
		UserMode bool `json:"user_mode"`
		// 浏览器进程的最长存活时间(秒),0 表示不限制
		LifeTime int `json:"life_time"`
	} `json:"browser"`

	// 以下时间单位均为秒
	Crawl struct {
		MaxPages       int `json:"max_pages"`
		Workers        int `json:"workers"`
		LoadAttempts   int `json:"load_attempts"`
		ListingTimeout int `json:"listing_timeout"`
		DetailTimeout  int `json:"detail_timeout"`
		SettleDelay    int `json:"settle_delay"`
		EntryDelay     int `json:"entry_delay"`
		PageDelay      int `json:"page_delay"`
		RetryDelay     int `json:"retry_delay"`
	} `json:"crawl"`

	Interaction struct {
		ConsentTimeout int `json:"consent_timeout"`
		ConsentSettle  int `json:"consent_settle"`
		TabTimeout     int `json:"tab_timeout"`
		FormTimeout    int `json:"form_timeout"`
		SelectSettle   int `json:"select_settle"`
		SubmitSettle   int `json:"submit_settle"`
	} `json:"interaction"`

	Log struct {
		Level     string `json:"level"`
		Formatter string `json:"formatter"`
	} `json:"log"`

	Output struct {
		JSONPath string `json:"json_path"`
	} `json:"output"`

	Elasticsearch struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Address  string `json:"address"`
		Index    string `json:"index"`
	} `json:"elasticsearch"`

	Embedder struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Model     string `json:"model"`
		BatchSize int    `json:"batch_size"`
	} `json:"embedder"`

	// 只从环境变量读取,见 env.go
	Env Env `json:"-"`
}

// Default 返回与原有爬虫行为一致的默认配置
func Default() *Config {
	cfg := &Config{Site: param.DefaultSite()}

	cfg.Browser.Engine = EngineChromedp
	cfg.Browser.Headless = true
	cfg.Browser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	cfg.Browser.WindowWidth = 1920
	cfg.Browser.WindowHeight = 1080
	cfg.Browser.DisableBlinkFeatures = "AutomationControlled"
	cfg.Browser.DisableImages = true
	cfg.Browser.DisableDevShmUsage = true
	cfg.Browser.NoSandbox = true
	cfg.Browser.Leakless = true

	crawl := param.DefaultCrawl()
	cfg.Crawl.MaxPages = crawl.MaxPages
	cfg.Crawl.Workers = crawl.Workers
	cfg.Crawl.LoadAttempts = crawl.LoadAttempts
	cfg.Crawl.ListingTimeout = seconds(crawl.ListingTimeout)
	cfg.Crawl.DetailTimeout = seconds(crawl.DetailTimeout)
	cfg.Crawl.SettleDelay = seconds(crawl.SettleDelay)
	cfg.Crawl.EntryDelay = seconds(crawl.EntryDelay)
	cfg.Crawl.PageDelay = seconds(crawl.PageDelay)
	cfg.Crawl.RetryDelay = seconds(crawl.RetryDelay)

	interaction := param.DefaultInteraction()
	cfg.Interaction.ConsentTimeout = seconds(interaction.ConsentTimeout)
	cfg.Interaction.ConsentSettle = seconds(interaction.ConsentSettle)
	cfg.Interaction.TabTimeout = seconds(interaction.TabTimeout)
	cfg.Interaction.FormTimeout = seconds(interaction.FormTimeout)
	cfg.Interaction.SelectSettle = seconds(interaction.SelectSettle)
	cfg.Interaction.SubmitSettle = seconds(interaction.SubmitSettle)

	cfg.Log.Level = "info"
	cfg.Log.Formatter = "text"
	cfg.Output.JSONPath = "daad_scholarships.json"
	cfg.Elasticsearch.Index = "daad_scholarships"
	cfg.Embedder.BatchSize = 16
	return cfg
}

func (cfg *Config) Validate() error {
	switch cfg.Browser.Engine {
	case EngineChromedp, EngineRod, EngineStatic:
	default:
		return fmt.Errorf("未知的浏览器引擎: %q", cfg.Browser.Engine)
	}
	if cfg.Crawl.MaxPages < 1 {
		return fmt.Errorf("crawl.max_pages 必须 >= 1, 当前: %d", cfg.Crawl.MaxPages)
	}
	if cfg.Crawl.Workers < 1 {
		return fmt.Errorf("crawl.workers 必须 >= 1, 当前: %d", cfg.Crawl.Workers)
	}
	if cfg.Crawl.LoadAttempts < 1 {
		return fmt.Errorf("crawl.load_attempts 必须 >= 1, 当前: %d", cfg.Crawl.LoadAttempts)
	}
	if cfg.Site == nil || cfg.Site.SearchURL == "" || cfg.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url 与 site.search_url 不能为空")
	}
	return cfg.Env.validate()
}

// CrawlParam 把配置中的秒数转换成爬取参数
func (cfg *Config) CrawlParam() *param.Crawl {
	return &param.Crawl{
		MaxPages:       cfg.Crawl.MaxPages,
		Workers:        cfg.Crawl.Workers,
		LoadAttempts:   cfg.Crawl.LoadAttempts,
		ListingTimeout: duration(cfg.Crawl.ListingTimeout),
		DetailTimeout:  duration(cfg.Crawl.DetailTimeout),
		SettleDelay:    duration(cfg.Crawl.SettleDelay),
		EntryDelay:     duration(cfg.Crawl.EntryDelay),
		PageDelay:      duration(cfg.Crawl.PageDelay),
		RetryDelay:     duration(cfg.Crawl.RetryDelay),
	}
}

func (cfg *Config) InteractionParam() *param.Interaction {
	return &param.Interaction{
		ConsentTimeout: duration(cfg.Interaction.ConsentTimeout),
		ConsentSettle:  duration(cfg.Interaction.ConsentSettle),
		TabTimeout:     duration(cfg.Interaction.TabTimeout),
		FormTimeout:    duration(cfg.Interaction.FormTimeout),
		SelectSettle:   duration(cfg.Interaction.SelectSettle),
		SubmitSettle:   duration(cfg.Interaction.SubmitSettle),
	}
}

// IndexEnabled 只有配置了 es 地址才写入 Elasticsearch
func (cfg *Config) IndexEnabled() bool {
	return strings.TrimSpace(cfg.Elasticsearch.Address) != ""
}

// EmbedderEnabled 只有配置了模型才做向量化
func (cfg *Config) EmbedderEnabled() bool {
	return cfg.Embedder.Host != "" && cfg.Embedder.Model != ""
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

func duration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
