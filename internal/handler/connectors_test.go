package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

type fakeSource struct {
	docs []domain.Document
	err  error
}

func (f *fakeSource) Documents(ctx context.Context) ([]domain.Document, error) {
	return f.docs, f.err
}

type fakeRetriever struct {
	gotQuery string
	out      domain.RetrievedContext
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) (domain.RetrievedContext, error) {
	f.gotQuery = query
	return f.out, nil
}

func TestNoneConnector(t *testing.T) {
	rc, err := NoneConnector(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, rc.Empty())
}

func TestRetrieverConnector(t *testing.T) {
	r := &fakeRetriever{out: domain.RetrievedContext{Text: "found"}}
	rc, err := RetrieverConnector(r)(context.Background(), "needle")
	require.NoError(t, err)
	assert.Equal(t, "needle", r.gotQuery)
	assert.Equal(t, "found", rc.Text)
}

func TestKnowledgeBaseConnector_Ranking(t *testing.T) {
	src := &fakeSource{docs: []domain.Document{
		{ID: "a", Content: "Go channels and goroutines"},
		{ID: "b", Title: "Channels", Content: "buffered channels in go"},
		{ID: "c", Content: "python generators"},
		{ID: "d", Content: "goroutines scheduling"},
	}}

	rc, err := KnowledgeBaseConnector(src, 2)(context.Background(), "Go channels?")
	require.NoError(t, err)
	require.Len(t, rc.Documents, 2)
	assert.Equal(t, "a", rc.Documents[0].ID)
	assert.Equal(t, "b", rc.Documents[1].ID)
	assert.InDelta(t, 1.0, rc.Documents[0].Score, 1e-9)
}

func TestKnowledgeBaseConnector_NoMatches(t *testing.T) {
	src := &fakeSource{docs: []domain.Document{{ID: "a", Content: "unrelated"}}}
	rc, err := KnowledgeBaseConnector(src, 3)(context.Background(), "golang")
	require.NoError(t, err)
	assert.True(t, rc.Empty())
}

func TestKnowledgeBaseConnector_SourceError(t *testing.T) {
	boom := errors.New("redis down")
	_, err := KnowledgeBaseConnector(&fakeSource{err: boom}, 3)(context.Background(), "q")
	assert.ErrorIs(t, err, boom)

	_, err = KnowledgeBaseConnector(nil, 3)(context.Background(), "q")
	assert.Error(t, err)
}
