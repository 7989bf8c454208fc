package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	// product check issued by the client before the first real request
	if r.Method == http.MethodGet && r.URL.Path == "/" {
		io.WriteString(w, `{"version":{"number":"8.11.0"},"tagline":"You Know, for Search"}`)
		return
	}

	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})
	status, respBody := f.status, f.body
	f.mu.Unlock()

	w.WriteHeader(status)
	io.WriteString(w, respBody)
}

func (f *fakeCluster) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestElastic(t *testing.T, status int, body string) (*ElasticSearch, *fakeCluster) {
	t.Helper()

	es, cluster, _ := newObservedElastic(t, status, body)
	return es, cluster
}

func newObservedElastic(t *testing.T, status int, body string) (*ElasticSearch, *fakeCluster, *observer.ObservedLogs) {
	t.Helper()

	cluster := &fakeCluster{status: status, body: body}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	core, logs := observer.New(zap.ErrorLevel)
	return NewElasticSearch(client, "", zap.New(core)), cluster, logs
}

func testPost() *model.Post {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &model.Post{
		ID:         primitive.NewObjectID(),
		Title:      "Hello",
		Excerpt:    "Short",
		Slug:       "hello",
		Author:     primitive.NewObjectID(),
		Categories: []string{"go"},
		Content:    "body",
		Tags:       []string{},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestCreateIndex(t *testing.T) {
	es, cluster := newTestElastic(t, http.StatusOK, `{"acknowledged":true}`)

	require.NoError(t, es.CreateIndex(context.Background()))

	req := cluster.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/"+DEFAULT_INDEX, req.Path)
	assert.Contains(t, req.Body, `"slug": {"type": "keyword"}`)
}

func TestCreateIndexExisting(t *testing.T) {
	es, _ := newTestElastic(t, http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception"},"status":400}`)

	assert.NoError(t, es.CreateIndex(context.Background()))
}

func TestCreateIndexFailure(t *testing.T) {
	es, _ := newTestElastic(t, http.StatusForbidden, `{"error":{"type":"security_exception"},"status":403}`)

	err := es.CreateIndex(context.Background())
	require.Error(t, err)
	assert.Equal(t, "HTTP error 403 from create index", err.Error())
}

func TestIndexPost(t *testing.T) {
	es, cluster := newTestElastic(t, http.StatusCreated, `{"result":"created"}`)
	post := testPost()

	require.NoError(t, es.IndexPost(context.Background(), post))

	req := cluster.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/posts/_doc/"+post.ID.Hex(), req.Path)
	assert.Contains(t, req.Query, "refresh=true")

	var doc postDocument
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, toDocument(post), doc)
}

func TestIndexPostFailure(t *testing.T) {
	es, _ := newTestElastic(t, http.StatusServiceUnavailable, `{"error":"unavailable"}`)

	err := es.IndexPost(context.Background(), testPost())
	require.Error(t, err)
	assert.Equal(t, "HTTP error 503 from index", err.Error())
}

func TestSearch(t *testing.T) {
	post := testPost()
	source, err := json.Marshal(toDocument(post))
	require.NoError(t, err)

	es, cluster := newTestElastic(t, http.StatusOK, `{"hits":{"hits":[{"_source":`+string(source)+`}]}}`)

	posts, err := es.Search(context.Background(), "hello", 5, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post, posts[0])

	req := cluster.last()
	assert.Equal(t, "/posts/_search", req.Path)
	assert.Contains(t, req.Query, "from=10")
	assert.Contains(t, req.Query, "size=5")
	assert.Contains(t, req.Body, `"multi_match"`)
	assert.Contains(t, req.Body, `"query":"hello"`)
}

func TestSearchFailureKeepsClusterDetailsInLogs(t *testing.T) {
	clusterBody := `{"error":{"type":"search_phase_execution_exception","reason":"node es-prod-7 at 10.0.3.17 rejected shard [posts][2]"},"status":400}`
	es, _, logs := newObservedElastic(t, http.StatusBadRequest, clusterBody)

	_, err := es.Search(context.Background(), "hello", 5, 0)
	require.Error(t, err)

	var responseErr *ResponseError
	require.ErrorAs(t, err, &responseErr)
	assert.Equal(t, http.StatusBadRequest, responseErr.StatusCode)
	assert.Equal(t, "HTTP error 400 from search", err.Error())
	assert.NotContains(t, err.Error(), "10.0.3.17")
	assert.NotContains(t, err.Error(), "es-prod-7")

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "10.0.3.17")
}

func TestFromDocumentRejectsBadIDs(t *testing.T) {
	_, err := fromDocument(postDocument{ID: "bad", Author: primitive.NewObjectID().Hex()})
	assert.Error(t, err)

	_, err = fromDocument(postDocument{ID: primitive.NewObjectID().Hex(), Author: "bad"})
	assert.Error(t, err)

	post, err := fromDocument(postDocument{ID: primitive.NewObjectID().Hex(), Author: primitive.NewObjectID().Hex()})
	require.NoError(t, err)
	assert.Equal(t, []string{}, post.Tags)
}
