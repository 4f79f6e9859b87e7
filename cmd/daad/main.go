package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/logger"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

//go:embed appconfig/appconfig.json
var appConfig []byte

// 命令行参数,只有显式传入的才覆盖配置
type options struct {
	configPath string
	headless   bool
	engine     string
	output     string
	maxPages   int
	workers    int
	index      bool
	trace      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "daad",
		Short:        "爬取 DAAD 奖学金数据库并保存为 JSON",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.shutdown()
			return a.crawl(cmd.Context())
		},
	}

	bindFlags(root, opts)
	root.AddCommand(&cobra.Command{
		Use:   "tool",
		Short: "以工具方式运行一次爬取,结果打印到标准输出",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.shutdown()
			return a.tool(cmd.Context(), cmd.OutOrStdout())
		},
	})
	return root
}

func bindFlags(cmd *cobra.Command, opts *options) {
	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "配置文件路径,默认使用内置配置")
	f.BoolVar(&opts.headless, "headless", true, "无头模式运行浏览器")
	f.StringVar(&opts.engine, "engine", "", "浏览器引擎: chromedp | rod | static")
	f.StringVar(&opts.output, "output", "", "JSON 输出路径")
	f.IntVar(&opts.maxPages, "max-pages", 0, "最多爬取的列表页数")
	f.IntVar(&opts.workers, "workers", 0, "详情页并发数")
	f.BoolVar(&opts.index, "index", false, "写入 Elasticsearch(需要配置 elasticsearch.address)")
	f.BoolVar(&opts.trace, "trace", false, "把 trace 输出到 stderr")
}

// loadConfig 内置配置或 --config 指定的文件,然后依次应用环境变量、命令行参数并校验
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	raw := appConfig
	if opts.configPath != "" {
		b, err := os.ReadFile(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		raw = b
	}
	cfg, err := config.ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("headless") {
		cfg.Browser.Headless = opts.headless
	}
	if flags.Changed("engine") {
		cfg.Browser.Engine = opts.engine
	}
	if flags.Changed("output") {
		cfg.Output.JSONPath = opts.output
	}
	if flags.Changed("max-pages") {
		cfg.Crawl.MaxPages = opts.maxPages
	}
	if flags.Changed("workers") {
		cfg.Crawl.Workers = opts.workers
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	return logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Formatter)
}
