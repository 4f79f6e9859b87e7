package parser

import (
	"strings"

	"golang.org/x/net/html"
)

// 不计入可见文本的元素
var skipText = map[string]bool{
	"script":   true,
	"style":    true,
	"template": true,
}

// textFragments 按文档顺序收集 n 下所有文本节点,去掉首尾空白后丢弃空串
func textFragments(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				out = append(out, t)
			}
			return
		case html.ElementNode:
			if skipText[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// compactText 文本片段直接拼接,用于标题
func compactText(n *html.Node) string {
	return strings.Join(textFragments(n), "")
}

// lineText 文本片段按行拼接,保留段落与列表项的换行
func lineText(n *html.Node) string {
	return strings.Join(textFragments(n), "\n")
}
