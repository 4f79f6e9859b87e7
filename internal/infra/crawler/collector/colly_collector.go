package collector

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/gocolly/colly/v2"
)

// collyBrowser 不执行 JavaScript 的静态抓取引擎,所有会话共用一个 cookie jar
type collyBrowser struct {
	userAgent string
	timeout   time.Duration
	jar       *cookiejar.Jar
}

func InitCollyBrowser(cfg *config.Config) (types.Browser, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("static %w: %w", types.ErrSessionStart, err)
	}
	return &collyBrowser{
		userAgent: cfg.Browser.UserAgent,
		timeout:   time.Duration(cfg.Crawl.ListingTimeout) * time.Second,
		jar:       jar,
	}, nil
}

func (cb *collyBrowser) NewSession(ctx context.Context) (types.Session, error) {
	return &collySession{browser: cb}, nil
}

func (cb *collyBrowser) Close() error {
	return nil
}

type collySession struct {
	browser *collyBrowser
	mu      sync.Mutex
	html    string
	loaded  bool
}

// newCollector 每次导航新建一个 collector,绑定本次调用的 ctx
func (cs *collySession) newCollector(ctx context.Context) *colly.Collector {
	opts := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	}
	if cs.browser.userAgent != "" {
		opts = append(opts, colly.UserAgent(cs.browser.userAgent))
	}
	c := colly.NewCollector(opts...)
	if cs.browser.timeout > 0 {
		c.SetRequestTimeout(cs.browser.timeout)
	}
	c.SetCookieJar(cs.browser.jar)
	return c
}

func (cs *collySession) Navigate(ctx context.Context, url string) error {
	c := cs.newCollector(ctx)
	var body string
	var respErr error
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		respErr = err
	})
	err := c.Visit(url)
	if err == nil {
		err = respErr
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("访问URL失败: %w", err)
	}
	cs.mu.Lock()
	cs.html, cs.loaded = body, true
	cs.mu.Unlock()
	return nil
}

// WaitFor 静态页面不会变化,直接在已抓取的文档中查找
func (cs *collySession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := cs.HTML(ctx)
	if err != nil {
		return err
	}
	found, err := Contains(html, selector)
	if err != nil {
		return fmt.Errorf("解析选择器 %s 失败: %w", selector, err)
	}
	if !found {
		return fmt.Errorf("等待元素超时 %s: %w", selector, types.ErrElementNotFound)
	}
	return nil
}

func (cs *collySession) Click(ctx context.Context, selector string) error {
	return unsupported("点击", selector)
}

func (cs *collySession) SelectOption(ctx context.Context, selector, value string) error {
	return unsupported("选择", selector)
}

func (cs *collySession) DispatchChange(ctx context.Context, selector string) error {
	return unsupported("派发 change", selector)
}

func (cs *collySession) HTML(ctx context.Context) (string, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if !cs.loaded {
		return "", fmt.Errorf("尚未加载任何页面")
	}
	return cs.html, nil
}

func (cs *collySession) Close() error {
	return nil
}

// Contains 判断文档中是否存在匹配选择器的元素,XPath 用 htmlquery,CSS 用 goquery
func Contains(html, selector string) (bool, error) {
	if types.IsXPath(selector) {
		doc, err := htmlquery.Parse(strings.NewReader(html))
		if err != nil {
			return false, err
		}
		node, err := htmlquery.Query(doc, selector)
		if err != nil {
			return false, err
		}
		return node != nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, err
	}
	return doc.Find(selector).Length() > 0, nil
}

func unsupported(action, selector string) error {
	return fmt.Errorf("%s %s: %w", action, selector, types.ErrInteractionUnsupported)
}
