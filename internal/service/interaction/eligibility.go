package interaction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Choice 资格表单中一个下拉框要选中的值
type Choice struct {
	Selector string
	Value    string
	Label    string
}

var simpleID = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// PlanEligibility 按文档顺序为表单中的每个 select 选出第一个值非空的选项
// 没有可选值的下拉框跳过;表单不存在时返回空
func PlanEligibility(raw, formSelector string) ([]Choice, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("解析资格表单失败: %w", err)
	}
	form := doc.Find(formSelector).First()
	if form.Length() == 0 {
		return nil, nil
	}

	var choices []Choice
	form.Find("select").Each(func(_ int, sel *goquery.Selection) {
		sel.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
			value, ok := opt.Attr("value")
			if !ok {
				// 没有 value 属性时浏览器使用选项文本
				value = strings.TrimSpace(opt.Text())
			}
			if strings.TrimSpace(value) == "" {
				return true
			}
			choices = append(choices, Choice{
				Selector: controlSelector(form, formSelector, sel),
				Value:    value,
				Label:    strings.TrimSpace(opt.Text()),
			})
			return false
		})
	})
	return choices, nil
}

// controlSelector 依次尝试 id、表单内唯一的 name、从表单开始的 nth-child 路径
// 选择器都限定在表单内,页面其它位置的重复 id 不会被选中
func controlSelector(form *goquery.Selection, formSelector string, sel *goquery.Selection) string {
	if id, ok := sel.Attr("id"); ok && simpleID.MatchString(id) {
		byID := "#" + id
		if form.Find(byID).Length() == 1 {
			return formSelector + " " + byID
		}
	}
	if name, ok := sel.Attr("name"); ok && name != "" {
		byName := fmt.Sprintf("select[name=%q]", name)
		if form.Find(byName).Length() == 1 {
			return formSelector + " " + byName
		}
	}
	return formSelector + " > " + childPath(form.Nodes[0], sel.Nodes[0])
}

func childPath(root, n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur != root; cur = cur.Parent {
		idx := 1
		for prev := cur.PrevSibling; prev != nil; prev = prev.PrevSibling {
			if prev.Type == html.ElementNode {
				idx++
			}
		}
		parts = append(parts, fmt.Sprintf("%s:nth-child(%d)", cur.Data, idx))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}
