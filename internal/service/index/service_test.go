package index

import (
	"context"
	"errors"
	"testing"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/internal/domain/model"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/logger"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/persistence/es"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ es.TypedEsClient[*model.ScholarshipDoc] = (*fakeClient)(nil)

type fakeClient struct {
	created   int
	docs      []*model.ScholarshipDoc
	createErr error
	bulkErr   error
}

func (f *fakeClient) Index() string { return model.ScholarshipIndex }

func (f *fakeClient) CreateIndexWithMapping(ctx context.Context) error {
	f.created++
	return f.createErr
}

func (f *fakeClient) BulkIndexDocsWithID(ctx context.Context, docs []*model.ScholarshipDoc) error {
	f.docs = append(f.docs, docs...)
	return f.bulkErr
}

func (f *fakeClient) CountDocs(ctx context.Context) (int64, error) {
	return int64(len(f.docs)), nil
}

type fakeEmbedder struct {
	batch int
	calls [][]string
	err   error
}

func (f *fakeEmbedder) BatchSize() int { return f.batch }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i]))}
	}
	return out, nil
}

func records(titles ...string) []*entity.ScholarshipRecord {
	out := make([]*entity.ScholarshipRecord, 0, len(titles))
	for _, t := range titles {
		out = append(out, entity.NewScholarshipRecord(entity.ListingEntry{
			Title: t,
			URL:   "https://www2.daad.de/" + t,
		}))
	}
	return out
}

func TestIndexWithEmbeddings(t *testing.T) {
	client := &fakeClient{}
	emb := &fakeEmbedder{batch: 2}
	svc := InitIndexService[*entity.ScholarshipRecord, *model.ScholarshipDoc](client, emb, logger.Discard())

	require.NoError(t, svc.Index(context.Background(), records("a", "bb", "ccc")))

	assert.Equal(t, 1, client.created)
	require.Len(t, client.docs, 3)
	assert.Equal(t, [][]string{{"a", "bb"}, {"ccc"}}, emb.calls)
	assert.Equal(t, []float32{3}, client.docs[2].GetEmbedding())
	// 同一 URL 生成同一 ID
	again := records("a")[0].ToDocument()
	assert.Equal(t, again.GetID(), client.docs[0].GetID())
}

func TestIndexWithoutEmbedder(t *testing.T) {
	client := &fakeClient{}
	svc := InitIndexService[*entity.ScholarshipRecord, *model.ScholarshipDoc](client, nil, logger.Discard())

	require.NoError(t, svc.Index(context.Background(), records("a")))
	require.Len(t, client.docs, 1)
	assert.Nil(t, client.docs[0].GetEmbedding())
}

func TestIndexEmbedFailureStillWrites(t *testing.T) {
	client := &fakeClient{}
	emb := &fakeEmbedder{batch: 10, err: errors.New("ollama down")}
	svc := InitIndexService[*entity.ScholarshipRecord, *model.ScholarshipDoc](client, emb, logger.Discard())

	require.NoError(t, svc.Index(context.Background(), records("a", "b")))
	assert.Len(t, client.docs, 2)
	assert.Nil(t, client.docs[0].GetEmbedding())
}

func TestIndexEmptyDoesNothing(t *testing.T) {
	client := &fakeClient{}
	svc := InitIndexService[*entity.ScholarshipRecord, *model.ScholarshipDoc](client, nil, logger.Discard())

	require.NoError(t, svc.Index(context.Background(), nil))
	assert.Zero(t, client.created)
}

func TestIndexErrors(t *testing.T) {
	createErr := errors.New("no cluster")
	client := &fakeClient{createErr: createErr}
	svc := InitIndexService[*entity.ScholarshipRecord, *model.ScholarshipDoc](client, nil, logger.Discard())
	err := svc.Index(context.Background(), records("a"))
	assert.ErrorIs(t, err, createErr)
	assert.Empty(t, client.docs)

	bulkErr := errors.New("1 failed")
	client = &fakeClient{bulkErr: bulkErr}
	svc = InitIndexService[*entity.ScholarshipRecord, *model.ScholarshipDoc](client, nil, logger.Discard())
	assert.ErrorIs(t, svc.Index(context.Background(), records("a")), bulkErr)
}
