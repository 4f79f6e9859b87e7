package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/param"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
)

// ParseDetail 从详情页的各个 section 中提取 "h3 标题 -> 正文" 的有序映射
// 所有 section 共用一个映射,缺失的 section 直接跳过
func ParseDetail(ctx context.Context, raw string, entry entity.ListingEntry, site *param.Site) (record *entity.ScholarshipRecord, err error) {
	_, span := start(ctx, "ParseDetail", attribute.String("scholarship.url", entry.URL))
	defer guard(span, &err)

	doc, err := load(raw)
	if err != nil {
		return nil, err
	}

	record = entity.NewScholarshipRecord(entry)
	for _, id := range site.DetailSectionIDs {
		section := doc.Find(fmt.Sprintf("div[id=%q]", id)).First()
		if section.Length() == 0 {
			continue
		}
		collectSection(section.Nodes[0], record.Sections)
	}
	span.SetAttributes(attribute.Int("scholarship.sections", record.Sections.Len()))
	return record, nil
}

// collectSection 只看直接子元素:h3 开始新的标题,p/ul/ol 的文本追加到当前标题下
// 没有标题之前的内容丢弃;只有收集到内容的标题才会写入
func collectSection(section *html.Node, sections *entity.Sections) {
	var (
		heading string
		buffer  []string
	)
	flush := func() {
		if heading != "" && len(buffer) > 0 {
			sections.Set(heading, strings.TrimSpace(strings.Join(buffer, "\n")))
		}
	}
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "h3":
			flush()
			heading = compactText(c)
			buffer = nil
		case "p", "ul", "ol":
			if heading != "" {
				buffer = append(buffer, lineText(c))
			}
		}
	}
	flush()
}
