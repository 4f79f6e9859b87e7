package param

import (
	"fmt"
	"net/url"
)

// DAAD 奖学金数据库的页面约定
// 这些选择器与目标网站的HTML结构绑定,网站改版时只需要修改这里
const (
	BaseURL   = "https://www2.daad.de"
	SearchURL = "https://www2.daad.de/deutschland/stipendium/datenbank/en/21148-scholarship-database/"

	// 列表页
	ListingReadySelector = "ul.resultlist > li.entry"
	ListingEntrySelector = "ul.resultlist > li.entry"
	ListingTitleSelector = "h2"
	ListingLinkSelector  = "a"

	// 详情页
	DetailReadySelector = "#ifa-stipendien-detail"

	// Cookie 弹窗
	ConsentAcceptSelector = "//button[contains(text(), 'Accept')]"

	// 申请条件 tab 与资格表单
	RequirementsTabSelector   = "li#bewerbungsvoraussetzungen > a"
	EligibilityFormSelector   = "#select-application-info-form"
	EligibilitySubmitSelector = "#stipdb-submit-detail"
)

// 详情页中需要解析的 section 容器 id
var DetailSectionIDs = []string{
	"ueberblick",
	"voraussetzungen",
	"prozess",
	"kontaktberatung",
	"bewerbung",
}

// 标题末尾的 "• DAAD" 残留,包含网站编码错误产生的变体
// 按顺序替换,长的变体在前;剩余空白由调用方去掉
var TitleSuffixes = []string{
	"\u00a0â€¢ DAAD",
	"\u00a0• DAAD",
	"â€¢ DAAD",
	"• DAAD",
}

// Site 汇总一次爬取用到的所有页面约定
type Site struct {
	BaseURL   string `json:"base_url"`
	SearchURL string `json:"search_url"`

	ListingReadySelector string `json:"listing_ready_selector"`
	ListingEntrySelector string `json:"listing_entry_selector"`
	ListingTitleSelector string `json:"listing_title_selector"`
	ListingLinkSelector  string `json:"listing_link_selector"`
	DetailReadySelector  string `json:"detail_ready_selector"`

	ConsentAcceptSelector     string `json:"consent_accept_selector"`
	RequirementsTabSelector   string `json:"requirements_tab_selector"`
	EligibilityFormSelector   string `json:"eligibility_form_selector"`
	EligibilitySubmitSelector string `json:"eligibility_submit_selector"`

	DetailSectionIDs []string `json:"detail_section_ids"`
	TitleSuffixes    []string `json:"title_suffixes"`
}

func DefaultSite() *Site {
	return &Site{
		BaseURL:                   BaseURL,
		SearchURL:                 SearchURL,
		ListingReadySelector:      ListingReadySelector,
		ListingEntrySelector:      ListingEntrySelector,
		ListingTitleSelector:      ListingTitleSelector,
		ListingLinkSelector:       ListingLinkSelector,
		DetailReadySelector:       DetailReadySelector,
		ConsentAcceptSelector:     ConsentAcceptSelector,
		RequirementsTabSelector:   RequirementsTabSelector,
		EligibilityFormSelector:   EligibilityFormSelector,
		EligibilitySubmitSelector: EligibilitySubmitSelector,
		DetailSectionIDs:          append([]string(nil), DetailSectionIDs...),
		TitleSuffixes:             append([]string(nil), TitleSuffixes...),
	}
}

// ListingPageURL 生成第 page 页的搜索结果地址,page 从 1 开始
func (s *Site) ListingPageURL(page int) (string, error) {
	u, err := url.Parse(s.SearchURL)
	if err != nil {
		return "", fmt.Errorf("解析搜索地址失败: %w", err)
	}
	q := url.Values{}
	for _, k := range []string{"status", "origin", "subjectGrps", "daad", "intention", "q"} {
		q.Set(k, "")
	}
	q.Set("page", fmt.Sprint(page))
	q.Set("back", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
