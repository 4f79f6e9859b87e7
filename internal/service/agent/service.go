package agent

import (
	"context"
	"fmt"

	"github.com/LouYuanbo1/daadcrawler/internal/service/crawler"
	"github.com/charmbracelet/log"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const (
	ToolName = "scrape_daad_scholarships"
	toolDesc = "Scrapes all active scholarships from the DAAD database"
)

type scrapeTool struct {
	graph  compose.Runnable[map[string]any, string]
	logger *log.Logger
}

// InitScrapeTool 把爬取流程包装成无参数的 eino 工具:crawl -> format
func InitScrapeTool(ctx context.Context, svc crawler.CrawlerService, logger *log.Logger) (tool.InvokableTool, error) {
	graph := compose.NewGraph[map[string]any, string]()

	err := graph.AddLambdaNode("crawl", CrawlLambda(svc, logger))
	if err != nil {
		return nil, fmt.Errorf("添加爬取节点失败: %w", err)
	}
	err = graph.AddLambdaNode("format", FormatLambda(logger))
	if err != nil {
		return nil, fmt.Errorf("添加格式化节点失败: %w", err)
	}
	if err = graph.AddEdge(compose.START, "crawl"); err != nil {
		return nil, fmt.Errorf("添加边失败: %w", err)
	}
	if err = graph.AddEdge("crawl", "format"); err != nil {
		return nil, fmt.Errorf("添加边失败: %w", err)
	}
	if err = graph.AddEdge("format", compose.END); err != nil {
		return nil, fmt.Errorf("添加边失败: %w", err)
	}

	compiled, err := graph.Compile(ctx, compose.WithGraphName(ToolName))
	if err != nil {
		return nil, fmt.Errorf("编译流程图失败: %w", err)
	}
	return &scrapeTool{graph: compiled, logger: logger}, nil
}

func (st *scrapeTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	// 没有参数
	return &schema.ToolInfo{Name: ToolName, Desc: toolDesc}, nil
}

// InvokableRun 忽略参数,任何失败都以 NoScholarships 返回,不向调用方暴露错误
func (st *scrapeTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	out, err := st.graph.Invoke(ctx, map[string]any{"arguments": argumentsInJSON})
	if err != nil {
		st.logger.Error("执行爬取工具失败", "err", err)
		return NoScholarships, nil
	}
	return out, nil
}

// Scrape 直接运行一次工具,返回工具的文本结果
func Scrape(ctx context.Context, t tool.InvokableTool) string {
	out, _ := t.InvokableRun(ctx, "{}")
	return out
}
