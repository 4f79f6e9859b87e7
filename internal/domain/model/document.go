package model

import (
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// Document 写入 Elasticsearch 的文档;GetIndex 与 GetTypeMapping 要能在零值指针上调用
type Document interface {
	*ScholarshipDoc
	GetID() string
	GetIndex() string
	GetTypeMapping() *types.TypeMapping
	// 向量化的输入文本
	GetEmbeddingString() string
	SetEmbedding(embedding []float32)
	GetEmbedding() []float32
}

func EmbeddingStrings[D Document](docs []D) []string {
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.GetEmbeddingString())
	}
	return texts
}
