package chrome

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeQuotesArguments(t *testing.T) {
	expr, err := invoke(clickFn, `//button[contains(text(), 'Accept')]`, true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(expr, "(("))
	assert.True(t, strings.HasSuffix(expr, `)("//button[contains(text(), 'Accept')]", true)`))

	expr, err = invoke(selectFn, `select[name="a\"b"]`, false, "2")
	require.NoError(t, err)
	assert.Contains(t, expr, `"select[name=\"a\\\"b\"]", false, "2"`)
}

func TestSelectFnPicksFirstMatchingOption(t *testing.T) {
	assert.Contains(t, selectFn, "el.value = value;")
	// 遇到第一个同值选项之后,后面的选项都不再选中
	assert.Contains(t, selectFn, "o.selected = !picked && o.value === value;")
	assert.NotContains(t, selectFn, "o.selected = o.value === value;")
}

func TestWaitErr(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, waitErr(ctx, "#x", nil))
	assert.ErrorIs(t, waitErr(ctx, "#x", context.DeadlineExceeded), types.ErrElementNotFound)

	other := errors.New("boom")
	err := waitErr(ctx, "#x", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, types.ErrElementNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, waitErr(cancelled, "#x", context.DeadlineExceeded), context.Canceled)
}

func TestStartErr(t *testing.T) {
	err := startErr("chromedp", errors.New("exec: not found"))
	assert.ErrorIs(t, err, types.ErrSessionStart)
}
