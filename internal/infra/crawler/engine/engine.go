package engine

import (
	"context"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/collector"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
)

// Open 按 browser.engine 启动浏览器,失败时返回的错误包含 types.ErrSessionStart
func Open(ctx context.Context, cfg *config.Config) (types.Browser, error) {
	switch cfg.Browser.Engine {
	case config.EngineRod:
		return chrome.InitRodBrowser(ctx, cfg)
	case config.EngineStatic:
		return collector.InitCollyBrowser(cfg)
	default:
		return chrome.InitChromedpBrowser(ctx, cfg)
	}
}

// Opener 供爬取服务注入,测试中替换为假的浏览器
type Opener func(ctx context.Context) (types.Browser, error)

func NewOpener(cfg *config.Config) Opener {
	return func(ctx context.Context) (types.Browser, error) {
		return Open(ctx, cfg)
	}
}
