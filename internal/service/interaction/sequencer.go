package interaction

import (
	"context"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/types"
	"github.com/LouYuanbo1/daadcrawler/param"
	"github.com/charmbracelet/log"
)

// Sequencer 把刚加载的页面推进到可以解析的状态:关闭 cookie 弹窗、打开申请条件 tab、自动填写资格表单
// 找不到控件都不算失败,只有 ctx 被取消时才返回错误
type Sequencer struct {
	site   *param.Site
	timing *param.Interaction
	logger *log.Logger
}

func NewSequencer(site *param.Site, timing *param.Interaction, logger *log.Logger) *Sequencer {
	return &Sequencer{site: site, timing: timing, logger: logger}
}

// DismissConsent 返回是否点击了同意按钮
func (s *Sequencer) DismissConsent(ctx context.Context, sess types.Session) (bool, error) {
	if err := sess.WaitFor(ctx, s.site.ConsentAcceptSelector, s.timing.ConsentTimeout); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		s.logger.Info("未发现 cookie 弹窗")
		return false, nil
	}
	if err := sess.Click(ctx, s.site.ConsentAcceptSelector); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		s.logger.Warn("点击 cookie 同意按钮失败", "err", err)
		return false, nil
	}
	s.logger.Info("已接受 cookie")
	return true, Pause(ctx, s.timing.ConsentSettle)
}

// OpenRequirements 打开申请条件 tab,然后处理资格表单
func (s *Sequencer) OpenRequirements(ctx context.Context, sess types.Session) error {
	if err := sess.WaitFor(ctx, s.site.RequirementsTabSelector, s.timing.TabTimeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("未找到申请条件 tab", "err", err)
		return nil
	}
	if err := sess.Click(ctx, s.site.RequirementsTabSelector); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("点击申请条件 tab 失败", "err", err)
		return nil
	}
	s.logger.Info("已打开申请条件 tab")
	return s.ResolveEligibility(ctx, sess)
}

// ResolveEligibility 每个下拉框选第一个有效选项并派发 change,最后提交表单
func (s *Sequencer) ResolveEligibility(ctx context.Context, sess types.Session) error {
	form := s.site.EligibilityFormSelector
	if err := sess.WaitFor(ctx, form, s.timing.FormTimeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Info("未检测到资格表单")
		return nil
	}
	s.logger.Info("检测到资格表单,开始填写")

	raw, err := sess.HTML(ctx)
	if err != nil {
		s.logger.Warn("读取资格表单失败", "err", err)
		return ctx.Err()
	}
	choices, err := PlanEligibility(raw, form)
	if err != nil {
		s.logger.Warn("解析资格表单失败", "err", err)
		return nil
	}
	for _, c := range choices {
		if err := sess.SelectOption(ctx, c.Selector, c.Value); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("选择选项失败", "selector", c.Selector, "err", err)
			continue
		}
		if err := sess.DispatchChange(ctx, c.Selector); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("派发 change 事件失败", "selector", c.Selector, "err", err)
		}
		s.logger.Info("已选择选项", "option", c.Label)
	}

	if err := Pause(ctx, s.timing.SelectSettle); err != nil {
		return err
	}
	if err := sess.Click(ctx, s.site.EligibilitySubmitSelector); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("提交资格表单失败", "err", err)
		return nil
	}
	s.logger.Info("资格表单已提交")
	return Pause(ctx, s.timing.SubmitSettle)
}

// Pause 可被 ctx 打断的等待
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
