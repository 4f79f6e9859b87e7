package es

import (
	"context"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
)

type TypedEsClient[D model.Document] interface {
	Index() string
	CreateIndexWithMapping(ctx context.Context) error
	BulkIndexDocsWithID(ctx context.Context, docs []D) error
	CountDocs(ctx context.Context) (int64, error)
}
