package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/internal/service/crawler"
	"github.com/charmbracelet/log"
	"github.com/cloudwego/eino/compose"
)

// NoScholarships 爬取结果为空时工具返回的固定文本
const NoScholarships = "No scholarships found."

// CrawlLambda 爬取节点,错误只记录日志,向下游传递空结果
func CrawlLambda(svc crawler.CrawlerService, logger *log.Logger) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state map[string]any) ([]*entity.ScholarshipRecord, error) {
		records, err := svc.Crawl(ctx)
		if err != nil {
			logger.Error("爬取失败", "err", err, "records", len(records))
		}
		return records, nil
	})
}

// FormatLambda 把记录序列化成 JSON 文本,空结果返回 NoScholarships
func FormatLambda(logger *log.Logger) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, records []*entity.ScholarshipRecord) (string, error) {
		if len(records) == 0 {
			return NoScholarships, nil
		}
		text, err := encode(records)
		if err != nil {
			logger.Error("序列化结果失败", "err", err)
			return NoScholarships, nil
		}
		return text, nil
	})
}

func encode(records []*entity.ScholarshipRecord) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("编码 JSON 失败: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
