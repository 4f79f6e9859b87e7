package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
	"github.com/charmbracelet/log"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esutil"
)

type typedEsClient[D model.Document] struct {
	client *elasticsearch.TypedClient
	index  string
	logger *log.Logger
	// 只用于读取索引名与 mapping,不存数据
	schemaDoc D
}

// InitTypedEsClient 索引名优先使用配置,否则使用文档类型自带的索引名
func InitTypedEsClient[D model.Document](cfg *config.Config, logger *log.Logger) (TypedEsClient[D], error) {
	typedClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Addresses: []string{cfg.Elasticsearch.Address},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			// 跳过TLS验证(仅在开发环境中使用)
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 Elasticsearch 客户端失败: %w", err)
	}
	tec := &typedEsClient[D]{client: typedClient, logger: logger}
	tec.index = cfg.Elasticsearch.Index
	if tec.index == "" {
		tec.index = tec.schemaDoc.GetIndex()
	}
	return tec, nil
}

func (tec *typedEsClient[D]) Index() string {
	return tec.index
}

func (tec *typedEsClient[D]) CreateIndexWithMapping(ctx context.Context) error {
	exists, err := tec.client.Indices.Exists(tec.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("检查索引是否存在失败: %w", err)
	}
	if exists {
		tec.logger.Debug("索引已存在,跳过创建", "index", tec.index)
		return nil
	}

	mapping := tec.schemaDoc.GetTypeMapping()
	if mapping == nil {
		_, err = tec.client.Indices.Create(tec.index).Do(ctx)
	} else {
		_, err = tec.client.Indices.Create(tec.index).Mappings(mapping).Do(ctx)
	}
	if err != nil {
		return fmt.Errorf("创建索引失败: %w", err)
	}
	tec.logger.Info("已创建索引", "index", tec.index)
	return nil
}

func (tec *typedEsClient[D]) BulkIndexDocsWithID(ctx context.Context, docs []D) error {
	if len(docs) == 0 {
		return nil
	}
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         tec.index,
		Client:        tec.client,
		NumWorkers:    2,
		FlushBytes:    5 * 1024 * 1024,
		FlushInterval: 30 * time.Second,
		OnError: func(ctx context.Context, err error) {
			tec.logger.Error("批量写入出错", "err", err)
		},
	})
	if err != nil {
		return fmt.Errorf("创建批量写入器失败: %w", err)
	}

	var failed atomic.Int64
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			tec.logger.Error("文档序列化失败", "id", doc.GetID(), "err", err)
			failed.Add(1)
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.GetID(),
			Body:       bytes.NewReader(data),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					tec.logger.Error("文档写入失败", "id", item.DocumentID, "err", err)
				} else {
					tec.logger.Error("文档写入失败", "id", item.DocumentID, "reason", res.Error.Reason)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			tec.logger.Error("加入批量写入失败", "id", doc.GetID(), "err", err)
		}
	}

	// 刷新并关闭,确保所有文档都被处理
	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("关闭批量写入器失败: %w", err)
	}
	stats := bi.Stats()
	tec.logger.Info("批量写入完成", "index", tec.index, "indexed", stats.NumIndexed, "failed", failed.Load())
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d 个文档写入失败", n)
	}
	return nil
}

func (tec *typedEsClient[D]) CountDocs(ctx context.Context) (int64, error) {
	resp, err := tec.client.Count().Index(tec.index).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("统计文档数量失败: %w", err)
	}
	return resp.Count, nil
}
