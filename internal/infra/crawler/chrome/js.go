package chrome

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
)

// 以下脚本都是 (sel, xpath, ...) => bool 形式的函数,找不到元素时返回 false
const (
	lookupFn = `function (sel, xpath) {
		if (xpath) {
			return document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		}
		return document.querySelector(sel);
	}`

	clickFn = `(sel, xpath) => {
		const el = (` + lookupFn + `)(sel, xpath);
		if (!el) return false;
		el.click();
		return true;
	}`

	selectFn = `(sel, xpath, value) => {
		const el = (` + lookupFn + `)(sel, xpath);
		if (!el) return false;
		el.value = value;
		if (el.options) {
			// 同值的选项只选中第一个
			let picked = false;
			for (const o of el.options) {
				o.selected = !picked && o.value === value;
				picked = picked || o.selected;
			}
		}
		return true;
	}`

	changeFn = `(sel, xpath) => {
		const el = (` + lookupFn + `)(sel, xpath);
		if (!el) return false;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`
)

// invoke 把函数和参数拼成立即执行的表达式,供 chromedp.Evaluate 使用
func invoke(fn string, args ...any) (string, error) {
	encoded := make([]string, 0, len(args))
	for _, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			return "", fmt.Errorf("脚本参数编码失败: %w", err)
		}
		encoded = append(encoded, string(b))
	}
	return fmt.Sprintf("(%s)(%s)", fn, strings.Join(encoded, ", ")), nil
}

func notFound(action, selector string) error {
	return fmt.Errorf("%s %s: %w", action, selector, types.ErrElementNotFound)
}
