// Package fake 提供内存中的 Browser / Session,用于在不启动浏览器的情况下测试爬取流程
package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/collector"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
)

// Page 一个 URL 对应的页面;WaitFor 与各种交互都在当前 HTML 上用选择器判断元素是否存在
type Page struct {
	HTML string
	// 点击某个选择器后页面切换成的 HTML
	AfterClick map[string]string
	// 前 N 次 Navigate 返回的错误
	NavigateErrs []error
}

type Browser struct {
	mu    sync.Mutex
	pages map[string]*Page

	Actions    []string
	Sessions   int
	Closed     int
	SessionErr error
}

func NewBrowser(pages map[string]*Page) *Browser {
	return &Browser{pages: pages}
}

// Opener 兼容 engine.Opener 的函数签名
func (b *Browser) Opener(ctx context.Context) (types.Browser, error) {
	return b, nil
}

func (b *Browser) NewSession(ctx context.Context) (types.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SessionErr != nil {
		return nil, b.SessionErr
	}
	b.Sessions++
	return &Session{browser: b, id: b.Sessions}, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Closed++
	return nil
}

func (b *Browser) record(id int, format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Actions = append(b.Actions, fmt.Sprintf("%d:", id)+fmt.Sprintf(format, args...))
}

// Recorded 返回去掉会话编号的动作列表,方便断言
func (b *Browser) Recorded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.Actions))
	for _, a := range b.Actions {
		_, action, _ := strings.Cut(a, ":")
		out = append(out, action)
	}
	return out
}

type Session struct {
	browser *Browser
	id      int
	mu      sync.Mutex
	page    *Page
	html    string
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.browser.record(s.id, "navigate %s", url)
	s.browser.mu.Lock()
	page, ok := s.browser.pages[url]
	var navErr error
	if ok && len(page.NavigateErrs) > 0 {
		navErr, page.NavigateErrs = page.NavigateErrs[0], page.NavigateErrs[1:]
	}
	s.browser.mu.Unlock()
	if !ok {
		return fmt.Errorf("fake: 未注册的页面 %s", url)
	}
	if navErr != nil {
		return navErr
	}
	s.mu.Lock()
	s.page, s.html = page, page.HTML
	s.mu.Unlock()
	return nil
}

func (s *Session) present(selector string) bool {
	s.mu.Lock()
	html := s.html
	s.mu.Unlock()
	found, err := collector.Contains(html, selector)
	return err == nil && found
}

func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.browser.record(s.id, "wait %s", selector)
	if !s.present(selector) {
		return fmt.Errorf("fake: %s: %w", selector, types.ErrElementNotFound)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	if !s.present(selector) {
		return fmt.Errorf("fake: %s: %w", selector, types.ErrElementNotFound)
	}
	s.browser.record(s.id, "click %s", selector)
	s.mu.Lock()
	if next, ok := s.page.AfterClick[selector]; ok {
		s.html = next
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	if !s.present(selector) {
		return fmt.Errorf("fake: %s: %w", selector, types.ErrElementNotFound)
	}
	s.browser.record(s.id, "select %s=%s", selector, value)
	return nil
}

func (s *Session) DispatchChange(ctx context.Context, selector string) error {
	if !s.present(selector) {
		return fmt.Errorf("fake: %s: %w", selector, types.ErrElementNotFound)
	}
	s.browser.record(s.id, "change %s", selector)
	return nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return "", fmt.Errorf("fake: 尚未加载任何页面")
	}
	return s.html, nil
}

func (s *Session) Close() error {
	s.browser.record(s.id, "close")
	return nil
}
