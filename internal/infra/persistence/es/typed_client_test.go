package es

import (
	"context"
	"testing"

	"github.com/LouYuanbo1/daadcrawler/internal/config"
	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTypedEsClientIndexName(t *testing.T) {
	cfg := config.Default()
	cfg.Elasticsearch.Address = "http://localhost:9200"

	cfg.Elasticsearch.Index = ""
	client, err := InitTypedEsClient[*model.ScholarshipDoc](cfg, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, model.ScholarshipIndex, client.Index())

	cfg.Elasticsearch.Index = "daad_test"
	client, err = InitTypedEsClient[*model.ScholarshipDoc](cfg, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, "daad_test", client.Index())
}

func TestBulkIndexNoDocs(t *testing.T) {
	cfg := config.Default()
	cfg.Elasticsearch.Address = "http://localhost:9200"
	client, err := InitTypedEsClient[*model.ScholarshipDoc](cfg, logger.Discard())
	require.NoError(t, err)
	// 没有文档时不发请求
	assert.NoError(t, client.BulkIndexDocsWithID(context.Background(), nil))
}
