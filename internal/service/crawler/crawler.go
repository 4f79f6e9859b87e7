package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/engine"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/LouYuanbo1/daadcrawler/internal/service/interaction"
	"github.com/LouYuanbo1/daadcrawler/internal/service/parser"
	"github.com/LouYuanbo1/daadcrawler/param"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// 爬取过程的状态,只用于日志
const (
	stateIdle          = "Idle"
	stateListingLoaded = "ListingLoaded"
	stateDetailLoaded  = "DetailLoaded"
	stateParsed        = "Parsed"
	stateDone          = "Done"
)

var tracer = otel.Tracer("github.com/LouYuanbo1/daadcrawler/internal/service/crawler")

type CrawlerService interface {
	// Crawl 返回按列表顺序排列的记录;只有浏览器无法启动或 ctx 被取消时返回错误,
	// 单个页面的失败只会让结果变少
	Crawl(ctx context.Context) ([]*entity.ScholarshipRecord, error)
}

type crawlerService struct {
	opener    engine.Opener
	site      *param.Site
	params    *param.Crawl
	sequencer *interaction.Sequencer
	logger    *log.Logger
}

func InitCrawlerService(
	opener engine.Opener,
	site *param.Site,
	params *param.Crawl,
	sequencer *interaction.Sequencer,
	logger *log.Logger,
) CrawlerService {
	return &crawlerService{
		opener:    opener,
		site:      site,
		params:    params,
		sequencer: sequencer,
		logger:    logger,
	}
}

func (cs *crawlerService) Crawl(ctx context.Context) (records []*entity.ScholarshipRecord, err error) {
	ctx, span := tracer.Start(ctx, "Crawl")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("crawl.records", len(records)))
		span.End()
	}()

	cs.logger.Info("开始爬取 DAAD 奖学金", "state", stateIdle)
	browser, err := cs.opener(ctx)
	if err != nil {
		return nil, sessionStartErr(err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			cs.logger.Warn("关闭浏览器失败", "err", cerr)
		}
	}()

	primary, err := newWorker(ctx, browser)
	if err != nil {
		return nil, sessionStartErr(err)
	}
	defer primary.close(cs.logger)

	records = make([]*entity.ScholarshipRecord, 0)
	for page := 1; page <= cs.params.MaxPages; page++ {
		entries, ok := cs.listingPage(ctx, primary, page)
		if !ok || len(entries) == 0 {
			break
		}
		records = append(records, cs.details(ctx, browser, primary, entries)...)
		if ctx.Err() != nil {
			break
		}
		if err := interaction.Pause(ctx, cs.params.PageDelay); err != nil {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		cs.logger.Warn("爬取被中断", "records", len(records), "err", err)
		return records, err
	}
	cs.logger.Info("爬取完成", "state", stateDone, "records", len(records))
	return records, nil
}

// listingPage 加载并解析一页搜索结果,加载失败返回 ok=false
func (cs *crawlerService) listingPage(ctx context.Context, w *worker, page int) ([]entity.ListingEntry, bool) {
	ctx, span := tracer.Start(ctx, "ListingPage")
	span.SetAttributes(attribute.Int("listing.page", page))
	defer span.End()

	url, err := cs.site.ListingPageURL(page)
	if err != nil {
		cs.logger.Error("生成列表页地址失败", "page", page, "err", err)
		return nil, false
	}
	raw, err := cs.load(ctx, w, url, cs.site.ListingReadySelector, cs.params.ListingTimeout, nil, cs.params.SettleDelay)
	if err != nil {
		span.RecordError(err)
		cs.logger.Error("列表页加载失败", "page", page, "url", url, "err", err)
		return nil, false
	}
	cs.logger.Info("列表页已加载", "state", stateListingLoaded, "page", page)

	entries, err := parser.ParseListing(ctx, raw, cs.site, cs.logger)
	if err != nil {
		cs.logger.Error("列表页解析失败", "page", page, "err", err)
		return nil, false
	}
	cs.logger.Info("列表页解析完成", "page", page, "entries", len(entries))
	return entries, true
}

// load 导航 -> cookie 弹窗 -> 等待就绪元素 -> 页面交互 -> 等待渲染 -> 读取 HTML
// 就绪元素超时返回 ErrPageLoadTimeout
func (cs *crawlerService) load(
	ctx context.Context,
	w *worker,
	url, ready string,
	timeout time.Duration,
	prepare func(ctx context.Context, s types.Session) error,
	settle time.Duration,
) (string, error) {
	navCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		navCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	err := w.session.Navigate(navCtx, url)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("导航 %s 超时: %w", url, types.ErrPageLoadTimeout)
		}
		return "", fmt.Errorf("导航失败: %w", err)
	}

	if !w.consented {
		accepted, err := cs.sequencer.DismissConsent(ctx, w.session)
		if err != nil {
			return "", err
		}
		w.consented = accepted
	}

	if err := w.session.WaitFor(ctx, ready, timeout); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, types.ErrElementNotFound) {
			return "", fmt.Errorf("%s: %w", url, types.ErrPageLoadTimeout)
		}
		return "", err
	}
	if prepare != nil {
		if err := prepare(ctx, w.session); err != nil {
			return "", err
		}
	}
	if err := interaction.Pause(ctx, settle); err != nil {
		return "", err
	}
	raw, err := w.session.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("读取 %s 失败: %w", url, err)
	}
	return raw, nil
}

func sessionStartErr(err error) error {
	if errors.Is(err, types.ErrSessionStart) {
		return err
	}
	return fmt.Errorf("%w: %w", types.ErrSessionStart, err)
}
