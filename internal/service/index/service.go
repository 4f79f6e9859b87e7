package index

import (
	"context"
	"fmt"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/embedding"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/persistence/es"
	"github.com/charmbracelet/log"
)

// IndexService 把爬取结果写入 Elasticsearch
type IndexService[C entity.Crawlable[D], D model.Document] interface {
	Index(ctx context.Context, records []C) error
}

type indexService[C entity.Crawlable[D], D model.Document] struct {
	client   es.TypedEsClient[D]
	embedder embedding.Embedder
	logger   *log.Logger
}

// InitIndexService embedder 可以为 nil,此时不写入向量
func InitIndexService[C entity.Crawlable[D], D model.Document](
	client es.TypedEsClient[D],
	embedder embedding.Embedder,
	logger *log.Logger,
) IndexService[C, D] {
	return &indexService[C, D]{
		client:   client,
		embedder: embedder,
		logger:   logger,
	}
}

func (s *indexService[C, D]) Index(ctx context.Context, records []C) error {
	if len(records) == 0 {
		s.logger.Info("没有记录需要写入索引")
		return nil
	}
	docs := entity.ToDocuments[C, D](records)

	if s.embedder != nil {
		s.embedDocs(ctx, docs)
	}

	if err := s.client.CreateIndexWithMapping(ctx); err != nil {
		return fmt.Errorf("准备索引失败: %w", err)
	}
	if err := s.client.BulkIndexDocsWithID(ctx, docs); err != nil {
		return fmt.Errorf("写入索引失败: %w", err)
	}

	count, err := s.client.CountDocs(ctx)
	if err != nil {
		s.logger.Warn("统计索引文档失败", "err", err)
		return nil
	}
	s.logger.Info("索引写入完成", "index", s.client.Index(), "written", len(docs), "total", count)
	return nil
}

// embedDocs 向量化失败只记录日志,文档仍然写入
func (s *indexService[C, D]) embedDocs(ctx context.Context, docs []D) {
	batch := s.embedder.BatchSize()
	if batch <= 0 {
		batch = len(docs)
	}
	texts := model.EmbeddingStrings(docs)
	for i := 0; i < len(texts); i += batch {
		end := min(i+batch, len(texts))
		vectors, err := s.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			s.logger.Warn("向量化失败", "from", i, "to", end, "err", err)
			continue
		}
		if len(vectors) != end-i {
			s.logger.Warn("向量数量与文档不一致", "want", end-i, "got", len(vectors))
			continue
		}
		for j, v := range vectors {
			docs[i+j].SetEmbedding(v)
		}
		s.logger.Debug("批次向量化完成", "from", i, "to", end)
	}
}
