package embedding

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/cloudwego/eino-ext/components/embedding/ollama"
)

type ollamaEmbedder struct {
	model     *ollama.Embedder
	batchSize int
}

// InitEmbedder 初始化 ollama 嵌入模型
func InitEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	model, err := ollama.NewEmbedder(ctx, &ollama.EmbeddingConfig{
		Model:   cfg.Embedder.Model,
		BaseURL: baseURL(cfg.Embedder.Host, cfg.Embedder.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("初始化嵌入模型失败: %w", err)
	}
	return &ollamaEmbedder{model: model, batchSize: max(cfg.Embedder.BatchSize, 1)}, nil
}

func baseURL(host string, port int) string {
	host = strings.TrimRight(host, "/")
	if port <= 0 {
		return host
	}
	return host + ":" + strconv.Itoa(port)
}

func (e *ollamaEmbedder) BatchSize() int {
	return e.batchSize
}

// Embed EmbedStrings 返回 float64 向量,这里转换成 float32 与索引的 dense_vector 对齐
func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.model.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("向量化失败: %w", err)
	}
	out := make([][]float32, 0, len(vectors))
	for _, v := range vectors {
		f32 := make([]float32, len(v))
		for i, f := range v {
			f32[i] = float32(f)
		}
		out = append(out, f32)
	}
	return out, nil
}
