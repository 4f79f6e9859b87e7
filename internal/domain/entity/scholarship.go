package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Status string

const StatusActive Status = "active"

// ListingEntry 列表页中的一条奖学金链接
type ListingEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Sections 以页面中的 h3 标题为 key,保持首次出现的顺序;重复的标题覆盖内容但不改变位置
type Sections struct {
	*orderedmap.OrderedMap[string, string]
}

func NewSections() *Sections {
	return &Sections{OrderedMap: orderedmap.New[string, string]()}
}

// MarshalJSON 按插入顺序输出;与记录中的其它字段一样不转义 HTML 字符
func (s *Sections) MarshalJSON() ([]byte, error) {
	if s == nil || s.OrderedMap == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode 会在末尾追加换行,写完后去掉
	encode := func(v string) error {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("编码段落失败: %w", err)
		}
		buf.Truncate(buf.Len() - 1)
		return nil
	}

	buf.WriteByte('{')
	for pair := s.Oldest(); pair != nil; pair = pair.Next() {
		if pair != s.Oldest() {
			buf.WriteByte(',')
		}
		if err := encode(pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encode(pair.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScholarshipRecord 一个详情页解析出的完整记录
type ScholarshipRecord struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Status Status `json:"status"`
	// 预留字段,目前始终为空
	Summary  *string   `json:"summary"`
	Sections *Sections `json:"sections"`
}

func NewScholarshipRecord(entry ListingEntry) *ScholarshipRecord {
	return &ScholarshipRecord{
		Title:    entry.Title,
		URL:      entry.URL,
		Status:   StatusActive,
		Sections: NewSections(),
	}
}

type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SectionList 按顺序展开 Sections
func (r *ScholarshipRecord) SectionList() []Section {
	if r.Sections == nil {
		return nil
	}
	list := make([]Section, 0, r.Sections.Len())
	for pair := r.Sections.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, Section{Heading: pair.Key, Body: pair.Value})
	}
	return list
}

func (r *ScholarshipRecord) ToDocument() *model.ScholarshipDoc {
	sections := r.SectionList()
	docSections := make([]model.SectionDoc, 0, len(sections))
	for _, s := range sections {
		docSections = append(docSections, model.SectionDoc{Heading: s.Heading, Body: s.Body})
	}
	return &model.ScholarshipDoc{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.URL)).String(),
		Title:     r.Title,
		URL:       r.URL,
		Status:    string(r.Status),
		Summary:   r.Summary,
		Sections:  docSections,
		CrawledAt: time.Now().UTC(),
	}
}
