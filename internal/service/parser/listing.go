package parser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/param"
	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
)

// ParseListing 解析搜索结果页,按文档顺序返回每个条目的链接与标题
// 没有标题链接的条目只记录警告并跳过;空列表不是错误
func ParseListing(ctx context.Context, raw string, site *param.Site, logger *log.Logger) (entries []entity.ListingEntry, err error) {
	_, span := start(ctx, "ParseListing", attribute.Int("html.bytes", len(raw)))
	defer guard(span, &err)

	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: 无效的 base url %q: %w", ErrParseFailure, site.BaseURL, err)
	}
	doc, err := load(raw)
	if err != nil {
		return nil, err
	}

	entries = make([]entity.ListingEntry, 0)
	doc.Find(site.ListingEntrySelector).Each(func(i int, s *goquery.Selection) {
		link := s.Find(site.ListingTitleSelector).First().Find(site.ListingLinkSelector).First()
		if link.Length() == 0 {
			logger.Warn("列表条目缺少标题链接,跳过", "index", i)
			return
		}
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			logger.Warn("列表条目链接没有 href,跳过", "index", i)
			return
		}
		ref, perr := url.Parse(strings.TrimSpace(href))
		if perr != nil {
			logger.Warn("列表条目链接无法解析,跳过", "index", i, "href", href, "err", perr)
			return
		}
		entries = append(entries, entity.ListingEntry{
			URL:   base.ResolveReference(ref).String(),
			Title: cleanTitle(compactText(link.Nodes[0]), site.TitleSuffixes),
		})
	})
	span.SetAttributes(attribute.Int("listing.entries", len(entries)))
	return entries, nil
}

// cleanTitle 去掉网站在标题末尾附加的 "• DAAD" 残留
func cleanTitle(title string, suffixes []string) string {
	for _, suffix := range suffixes {
		if suffix != "" {
			title = strings.ReplaceAll(title, suffix, "")
		}
	}
	return strings.TrimSpace(title)
}
