package entity

import (
	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
)

// Crawlable 爬取得到、可以转换成 ES 文档 D 的实体
type Crawlable[D model.Document] interface {
	*ScholarshipRecord
	ToDocument() D
}

// ToDocuments 按原顺序转换,nil 记录跳过
func ToDocuments[C Crawlable[D], D model.Document](records []C) []D {
	docs := make([]D, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		docs = append(docs, r.ToDocument())
	}
	return docs
}
