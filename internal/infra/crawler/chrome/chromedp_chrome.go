package chrome

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type chromedpBrowser struct {
	allocCtx       context.Context
	allocCtxFuc    context.CancelFunc
	browserCtx     context.Context
	browserCtxFuc  context.CancelFunc
	lifetimeCtxFuc context.CancelFunc
	closeOnce      sync.Once
}

func allocatorOptions(cfg *config.Config) []chromedp.ExecAllocatorOption {
	b := cfg.Browser
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.WindowSize(b.WindowWidth, b.WindowHeight),
		chromedp.DisableGPU,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins", true),
		chromedp.Flag("disable-dev-shm-usage", b.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", b.NoSandbox),
		chromedp.UserAgent(b.UserAgent),
	)
	if b.DisableBlinkFeatures != "" {
		opts = append(opts, chromedp.Flag("disable-blink-features", b.DisableBlinkFeatures))
	}
	if b.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}
	if b.Bin != "" {
		opts = append(opts, chromedp.ExecPath(b.Bin))
	}
	if b.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(b.UserDataDir))
	}
	return opts
}

// InitChromedpBrowser 启动 Chrome 进程,失败返回 ErrSessionStart
func InitChromedpBrowser(ctx context.Context, cfg *config.Config) (types.Browser, error) {
	lifetimeCtx, cancelLifetime := context.WithCancel(ctx)
	if cfg.Browser.LifeTime > 0 {
		lifetimeCtx, cancelLifetime = context.WithTimeout(ctx, time.Duration(cfg.Browser.LifeTime)*time.Second)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(lifetimeCtx, allocatorOptions(cfg)...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	cb := &chromedpBrowser{
		allocCtx:       allocCtx,
		allocCtxFuc:    cancelAlloc,
		browserCtx:     browserCtx,
		browserCtxFuc:  cancelBrowser,
		lifetimeCtxFuc: cancelLifetime,
	}
	// 空的 Run 会真正拉起浏览器
	if err := chromedp.Run(browserCtx); err != nil {
		cb.Close()
		return nil, startErr("chromedp", err)
	}
	return cb, nil
}

func (cb *chromedpBrowser) NewSession(ctx context.Context) (types.Session, error) {
	tabCtx, cancelTab := chromedp.NewContext(cb.browserCtx)
	// 第一次 Run 会创建标签页,不能用派生出的 ctx,否则取消时整个标签页会被关闭
	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		cancelTab()
		return nil, fmt.Errorf("创建标签页失败: %w", err)
	}
	if err := ctx.Err(); err != nil {
		cancelTab()
		return nil, err
	}
	return &chromedpSession{tabCtx: tabCtx, tabCtxFuc: cancelTab}, nil
}

func (cb *chromedpBrowser) Close() error {
	cb.closeOnce.Do(func() {
		cb.browserCtxFuc()
		cb.allocCtxFuc()
		cb.lifetimeCtxFuc()
	})
	return nil
}

type chromedpSession struct {
	tabCtx    context.Context
	tabCtxFuc context.CancelFunc
	closeOnce sync.Once
}

// run 在标签页上执行动作,同时响应调用方 ctx 的取消
func (cs *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(cs.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (cs *chromedpSession) Navigate(ctx context.Context, url string) error {
	if err := cs.run(ctx, chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("导航到 %s 失败: %w", url, err)
	}
	return nil
}

func (cs *chromedpSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	by := chromedp.ByQuery
	if types.IsXPath(selector) {
		by = chromedp.BySearch
	}
	err := cs.run(waitCtx, chromedp.WaitReady(selector, by))
	if err != nil && waitCtx.Err() != nil && ctx.Err() == nil {
		err = context.DeadlineExceeded
	}
	return waitErr(ctx, selector, err)
}

func (cs *chromedpSession) eval(ctx context.Context, action, selector, fn string, extra ...any) error {
	args := append([]any{selector, types.IsXPath(selector)}, extra...)
	expr, err := invoke(fn, args...)
	if err != nil {
		return err
	}
	var found bool
	if err := cs.run(ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return fmt.Errorf("%s %s 失败: %w", action, selector, err)
	}
	if !found {
		return notFound(action, selector)
	}
	return nil
}

func (cs *chromedpSession) Click(ctx context.Context, selector string) error {
	return cs.eval(ctx, "点击", selector, clickFn)
}

func (cs *chromedpSession) SelectOption(ctx context.Context, selector, value string) error {
	return cs.eval(ctx, "选择", selector, selectFn, value)
}

func (cs *chromedpSession) DispatchChange(ctx context.Context, selector string) error {
	return cs.eval(ctx, "派发 change", selector, changeFn)
}

func (cs *chromedpSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := cs.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("读取页面 HTML 失败: %w", err)
	}
	return html, nil
}

func (cs *chromedpSession) Close() error {
	cs.closeOnce.Do(cs.tabCtxFuc)
	return nil
}
