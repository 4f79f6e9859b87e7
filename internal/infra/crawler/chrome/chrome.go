package chrome

import (
	"context"
	"errors"
	"fmt"

	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
)

// 两种 Chrome 引擎(chromedp 与 rod)都实现 types.Browser / types.Session,
// 页面交互统一走 js.go 中的脚本,保证行为一致

// waitErr 把等待过程中的超时转换成 ErrElementNotFound;调用方自己的 ctx 被取消时原样返回
func waitErr(ctx context.Context, selector string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return notFound("等待元素超时", selector)
	}
	return fmt.Errorf("等待元素 %s 失败: %w", selector, err)
}

func startErr(engine string, err error) error {
	return fmt.Errorf("%s %w: %w", engine, types.ErrSessionStart, err)
}
