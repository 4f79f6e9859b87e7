package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/LouYuanbo1/daadcrawler/internal/service/interaction"
	"github.com/LouYuanbo1/daadcrawler/internal/service/parser"
	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// worker 一个标签页;同一个浏览器配置下 cookie 共享,接受过一次就不再检测弹窗
type worker struct {
	session   types.Session
	consented bool
}

func newWorker(ctx context.Context, browser types.Browser) (*worker, error) {
	s, err := browser.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("创建标签页失败: %w", err)
	}
	return &worker{session: s}, nil
}

func (w *worker) close(logger *log.Logger) {
	if err := w.session.Close(); err != nil {
		logger.Warn("关闭标签页失败", "err", err)
	}
}

// details 逐个处理列表条目;workers > 1 时使用多个标签页并发处理,结果仍按列表顺序返回
func (cs *crawlerService) details(ctx context.Context, browser types.Browser, primary *worker, entries []entity.ListingEntry) []*entity.ScholarshipRecord {
	if cs.params.Workers > 1 && len(entries) > 1 {
		return cs.detailsParallel(ctx, browser, primary, entries)
	}
	records := make([]*entity.ScholarshipRecord, 0, len(entries))
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if record := cs.processEntry(ctx, primary, i, len(entries), entry); record != nil {
			records = append(records, record)
		}
		if err := interaction.Pause(ctx, cs.params.EntryDelay); err != nil {
			break
		}
	}
	return records
}

func (cs *crawlerService) detailsParallel(ctx context.Context, browser types.Browser, primary *worker, entries []entity.ListingEntry) []*entity.ScholarshipRecord {
	size := min(cs.params.Workers, len(entries))
	pool := make(chan *worker, size)
	pool <- primary
	var extra []*worker
	for range size - 1 {
		w, err := newWorker(ctx, browser)
		if err != nil {
			cs.logger.Warn("创建额外的标签页失败,减少并发数", "err", err)
			break
		}
		extra = append(extra, w)
		pool <- w
	}
	defer func() {
		for _, w := range extra {
			w.close(cs.logger)
		}
	}()
	cs.logger.Info("并发处理详情页", "workers", len(extra)+1, "entries", len(entries))

	// 控制详情页的启动间隔,与顺序模式下每条之间的等待相当
	limit := rate.Inf
	if cs.params.EntryDelay > 0 {
		limit = rate.Every(cs.params.EntryDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	slots := make([]*entity.ScholarshipRecord, len(entries))
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(len(extra) + 1)
	for i, entry := range entries {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		g.Go(func() error {
			w := <-pool
			defer func() { pool <- w }()
			record := cs.processEntry(ctx, w, i, len(entries), entry)
			mu.Lock()
			slots[i] = record
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	records := make([]*entity.ScholarshipRecord, 0, len(entries))
	for _, r := range slots {
		if r != nil {
			records = append(records, r)
		}
	}
	return records
}

// processEntry 处理单个条目,失败只记录日志并返回 nil
func (cs *crawlerService) processEntry(ctx context.Context, w *worker, i, total int, entry entity.ListingEntry) *entity.ScholarshipRecord {
	cs.logger.Info("处理奖学金", "index", fmt.Sprintf("%d/%d", i+1, total), "title", entry.Title)
	record, err := cs.detail(ctx, w, entry)
	if err != nil {
		if ctx.Err() == nil {
			cs.logger.Warn("提取失败,跳过", "title", entry.Title, "url", entry.URL, "err", err)
		}
		return nil
	}
	cs.logger.Info("提取成功", "state", stateParsed, "title", record.Title, "sections", record.Sections.Len())
	return record
}

func (cs *crawlerService) detail(ctx context.Context, w *worker, entry entity.ListingEntry) (record *entity.ScholarshipRecord, err error) {
	ctx, span := tracer.Start(ctx, "Detail")
	span.SetAttributes(
		attribute.String("scholarship.url", entry.URL),
		attribute.String("scholarship.title", entry.Title),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	raw, err := cs.loadDetail(ctx, w, entry.URL)
	if err != nil {
		return nil, err
	}
	cs.logger.Debug("详情页已加载", "state", stateDetailLoaded, "url", entry.URL)
	return parser.ParseDetail(ctx, raw, entry, cs.site)
}

// loadDetail 只对 ErrPageLoadTimeout 做有限次数的重试
func (cs *crawlerService) loadDetail(ctx context.Context, w *worker, url string) (string, error) {
	var raw string
	op := func() error {
		html, err := cs.load(ctx, w, url, cs.site.DetailReadySelector, cs.params.DetailTimeout, cs.sequencer.OpenRequirements, 0)
		if err != nil {
			if errors.Is(err, types.ErrPageLoadTimeout) {
				return err
			}
			return backoff.Permanent(err)
		}
		raw = html
		return nil
	}

	attempts := max(cs.params.LoadAttempts, 1)
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cs.params.RetryDelay), uint64(attempts-1)),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		cs.logger.Warn("详情页加载超时,稍后重试", "url", url, "next", next, "err", err)
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return "", err
	}
	return raw, nil
}
