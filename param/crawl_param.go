package param

import "time"

// Interaction 页面交互的等待与停顿时间
type Interaction struct {
	// Cookie 弹窗最长等待时间,以及点击后等待弹窗收起的时间
	ConsentTimeout time.Duration
	ConsentSettle  time.Duration
	// 申请条件 tab 最长等待时间
	TabTimeout time.Duration
	// 资格表单探测时间
	FormTimeout time.Duration
	// 所有下拉框选择完成后、提交后的停顿
	SelectSettle time.Duration
	SubmitSettle time.Duration
}

func DefaultInteraction() *Interaction {
	return &Interaction{
		ConsentTimeout: 5 * time.Second,
		ConsentSettle:  2 * time.Second,
		TabTimeout:     10 * time.Second,
		FormTimeout:    5 * time.Second,
		SelectSettle:   1 * time.Second,
		SubmitSettle:   2 * time.Second,
	}
}

// Crawl 一次爬取的节奏控制
type Crawl struct {
	// 最多爬取的列表页数,从第1页开始
	MaxPages int
	// 并发处理详情页的 worker 数,1 表示严格顺序执行
	Workers int
	// 详情页加载超时后的最大尝试次数
	LoadAttempts int

	ListingTimeout time.Duration
	DetailTimeout  time.Duration
	// 列表页 ready 之后等待动态内容的时间
	SettleDelay time.Duration
	EntryDelay  time.Duration
	PageDelay   time.Duration
	RetryDelay  time.Duration
}

func DefaultCrawl() *Crawl {
	return &Crawl{
		MaxPages:       1,
		Workers:        1,
		LoadAttempts:   1,
		ListingTimeout: 20 * time.Second,
		DetailTimeout:  20 * time.Second,
		SettleDelay:    2 * time.Second,
		EntryDelay:     1 * time.Second,
		PageDelay:      2 * time.Second,
		RetryDelay:     3 * time.Second,
	}
}
