package chrome

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/options"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"
)

type rodBrowser struct {
	browser        *rod.Browser
	lifetimeCtxFuc context.CancelFunc
	closeOnce      sync.Once
}

// InitRodBrowser 通过 launcher 启动浏览器并连接,页面由 stealth 创建以隐藏自动化特征
func InitRodBrowser(ctx context.Context, cfg *config.Config) (types.Browser, error) {
	b := cfg.Browser
	l := options.CreateLauncher(b.UserMode,
		options.WithBin(b.Bin),
		options.WithUserDataDir(b.UserDataDir),
		options.WithHeadless(b.Headless),
		options.WithWindowSize(b.WindowWidth, b.WindowHeight),
		options.WithDisableBlinkFeatures(b.DisableBlinkFeatures),
		options.WithDisableDevShmUsage(b.DisableDevShmUsage),
		options.WithNoSandbox(b.NoSandbox),
		options.WithUserAgent(b.UserAgent),
		options.WithLeakless(b.Leakless),
		options.WithDisableImages(b.DisableImages),
		options.WithQuietBrowser(),
	)
	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, startErr("rod", err)
	}

	lifetimeCtx, cancelLifetime := context.WithCancel(context.Background())
	if b.LifeTime > 0 {
		lifetimeCtx, cancelLifetime = context.WithTimeout(context.Background(), time.Duration(b.LifeTime)*time.Second)
	}
	browser := rod.New().ControlURL(controlURL).Context(lifetimeCtx)
	if err := browser.Connect(); err != nil {
		cancelLifetime()
		l.Kill()
		return nil, startErr("rod", err)
	}
	return &rodBrowser{browser: browser, lifetimeCtxFuc: cancelLifetime}, nil
}

func (rb *rodBrowser) NewSession(ctx context.Context) (types.Session, error) {
	page, err := stealth.Page(rb.browser)
	if err != nil {
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}
	return &rodSession{page: page}, nil
}

func (rb *rodBrowser) Close() error {
	var err error
	rb.closeOnce.Do(func() {
		err = rb.browser.Close()
		rb.lifetimeCtxFuc()
	})
	return err
}

type rodSession struct {
	page      *rod.Page
	closeOnce sync.Once
}

func (rs *rodSession) Navigate(ctx context.Context, url string) error {
	p := rs.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("导航到 %s 失败: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("等待 %s 加载失败: %w", url, err)
	}
	return nil
}

func (rs *rodSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	p := rs.page.Context(ctx).Timeout(timeout)
	var err error
	if types.IsXPath(selector) {
		_, err = p.ElementX(selector)
	} else {
		_, err = p.Element(selector)
	}
	return waitErr(ctx, selector, err)
}

func (rs *rodSession) eval(ctx context.Context, action, selector, fn string, extra ...any) error {
	args := append([]any{selector, types.IsXPath(selector)}, extra...)
	res, err := rs.page.Context(ctx).Eval(fn, args...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s 失败: %w", action, selector, err)
	}
	if !res.Value.Bool() {
		return notFound(action, selector)
	}
	return nil
}

func (rs *rodSession) Click(ctx context.Context, selector string) error {
	return rs.eval(ctx, "点击", selector, clickFn)
}

func (rs *rodSession) SelectOption(ctx context.Context, selector, value string) error {
	return rs.eval(ctx, "选择", selector, selectFn, value)
}

func (rs *rodSession) DispatchChange(ctx context.Context, selector string) error {
	return rs.eval(ctx, "派发 change", selector, changeFn)
}

func (rs *rodSession) HTML(ctx context.Context) (string, error) {
	html, err := rs.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("读取页面 HTML 失败: %w", err)
	}
	return html, nil
}

func (rs *rodSession) Close() error {
	var err error
	rs.closeOnce.Do(func() {
		if cerr := rs.page.Close(); cerr != nil && !errors.Is(cerr, context.Canceled) {
			err = cerr
		}
	})
	return err
}
