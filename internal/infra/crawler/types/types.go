package types

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrSessionStart 浏览器无法启动,整个爬取终止
	ErrSessionStart = errors.New("浏览器会话启动失败")
	// ErrPageLoadTimeout 页面在规定时间内没有出现就绪元素
	ErrPageLoadTimeout = errors.New("页面加载超时")
	// ErrElementNotFound 等待的元素在超时前没有出现
	ErrElementNotFound = errors.New("未找到元素")
	// ErrInteractionUnsupported 当前引擎不支持页面交互(静态抓取)
	ErrInteractionUnsupported = errors.New("当前引擎不支持页面交互")
)

// Browser 一个已启动的浏览器进程
type Browser interface {
	NewSession(ctx context.Context) (Session, error)
	// Close 可重复调用
	Close() error
}

// Session 浏览器中的一个标签页
type Session interface {
	Navigate(ctx context.Context, url string) error
	// WaitFor 等待元素出现,超时返回 ErrElementNotFound
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// Click 直接调用元素的 click(),不模拟鼠标
	Click(ctx context.Context, selector string) error
	// SelectOption 直接设置 select 的值,不触发任何事件
	SelectOption(ctx context.Context, selector, value string) error
	// DispatchChange 在元素上派发冒泡的 change 事件
	DispatchChange(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// IsXPath 以 / 或 ( 开头的选择器按 XPath 处理,其余按 CSS 处理
func IsXPath(selector string) bool {
	s := strings.TrimSpace(selector)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(")
}
