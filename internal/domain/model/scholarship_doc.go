package model

import (
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

const ScholarshipIndex = "daad_scholarships"

type SectionDoc struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ScholarshipDoc 写入 Elasticsearch 的奖学金文档
type ScholarshipDoc struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Status    string       `json:"status"`
	Summary   *string      `json:"summary"`
	Sections  []SectionDoc `json:"sections"`
	CrawledAt time.Time    `json:"crawled_at"`
	Embedding []float32    `json:"embedding,omitempty"`
}

func (d *ScholarshipDoc) GetID() string {
	return d.ID
}

// GetIndex 不访问字段,零值指针上也可以调用
func (d *ScholarshipDoc) GetIndex() string {
	return ScholarshipIndex
}

func (d *ScholarshipDoc) GetTypeMapping() *types.TypeMapping {
	sections := types.NewNestedProperty()
	sections.Properties = map[string]types.Property{
		"heading": types.NewKeywordProperty(),
		"body":    types.NewTextProperty(),
	}
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"id":         types.NewKeywordProperty(),
			"title":      types.NewTextProperty(),
			"url":        types.NewKeywordProperty(),
			"status":     types.NewKeywordProperty(),
			"summary":    types.NewTextProperty(),
			"sections":   sections,
			"crawled_at": types.NewDateProperty(),
			"embedding":  types.NewDenseVectorProperty(),
		},
	}
}

// GetEmbeddingString 标题加上各段落,作为向量化的输入
func (d *ScholarshipDoc) GetEmbeddingString() string {
	var b strings.Builder
	b.WriteString(d.Title)
	for _, s := range d.Sections {
		b.WriteString("\n")
		b.WriteString(s.Heading)
		b.WriteString(": ")
		b.WriteString(s.Body)
	}
	return b.String()
}

func (d *ScholarshipDoc) SetEmbedding(embedding []float32) {
	d.Embedding = embedding
}

func (d *ScholarshipDoc) GetEmbedding() []float32 {
	return d.Embedding
}
