package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/engine"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/embedding"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/persistence/es"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/persistence/jsonfile"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/telemetry"
	"github.com/LouYuanbo1/daadcrawler/internal/service/agent"
	"github.com/LouYuanbo1/daadcrawler/internal/service/crawler"
	"github.com/LouYuanbo1/daadcrawler/internal/service/index"
	"github.com/LouYuanbo1/daadcrawler/internal/service/interaction"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type app struct {
	cfg           *config.Config
	logger        *log.Logger
	service       crawler.CrawlerService
	index         bool
	traceShutdown func(context.Context) error
}

func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	a := &app{cfg: cfg, logger: logger, index: opts.index}
	if opts.trace {
		a.traceShutdown, err = telemetry.Setup(os.Stderr)
		if err != nil {
			return nil, err
		}
	}

	sequencer := interaction.NewSequencer(cfg.Site, cfg.InteractionParam(), logger)
	a.service = crawler.InitCrawlerService(engine.NewOpener(cfg), cfg.Site, cfg.CrawlParam(), sequencer, logger)
	logger.Debug("配置加载完成", "engine", cfg.Browser.Engine, "headless", cfg.Browser.Headless,
		"max_pages", cfg.Crawl.MaxPages, "workers", cfg.Crawl.Workers)
	return a, nil
}

func (a *app) shutdown() {
	if a.traceShutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.traceShutdown(ctx); err != nil {
		a.logger.Warn("刷新 trace 失败", "err", err)
	}
}

// crawl 爬取并保存;被中断时仍然保存已得到的记录
func (a *app) crawl(ctx context.Context) error {
	records, err := a.service.Crawl(ctx)
	if err != nil && records == nil {
		a.logger.Error("爬取失败", "err", err)
		return err
	}
	jsonfile.Save(a.cfg.Output.JSONPath, records, a.logger)

	if a.index {
		a.indexRecords(ctx, records)
	}
	return err
}

// indexRecords 写入 Elasticsearch,失败只记录日志
func (a *app) indexRecords(ctx context.Context, records []*entity.ScholarshipRecord) {
	if !a.cfg.IndexEnabled() {
		a.logger.Warn("未配置 elasticsearch.address,跳过写入索引")
		return
	}
	client, err := es.InitTypedEsClient[*model.ScholarshipDoc](a.cfg, a.logger)
	if err != nil {
		a.logger.Error("初始化 Elasticsearch 客户端失败", "err", err)
		return
	}
	var embedder embedding.Embedder
	if a.cfg.EmbedderEnabled() {
		embedder, err = embedding.InitEmbedder(ctx, a.cfg)
		if err != nil {
			a.logger.Warn("初始化 Embedder 失败,不写入向量", "err", err)
			embedder = nil
		}
	}
	svc := index.InitIndexService[*entity.ScholarshipRecord, *model.ScholarshipDoc](client, embedder, a.logger)
	if err := svc.Index(ctx, records); err != nil {
		a.logger.Error("写入索引失败", "err", err)
	}
}

func (a *app) tool(ctx context.Context, w io.Writer) error {
	t, err := agent.InitScrapeTool(ctx, a.service, a.logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, agent.Scrape(ctx, t))
	return err
}
