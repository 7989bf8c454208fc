package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const DEFAULT_INDEX = "posts"

const indexMapping = `{
	"mappings": {
		"properties": {
			"id": {"type": "keyword"},
			"title": {"type": "text"},
			"excerpt": {"type": "text"},
			"slug": {"type": "keyword"},
			"author": {"type": "keyword"},
			"categories": {"type": "keyword"},
			"content": {"type": "text"},
			"tags": {"type": "keyword"},
			"createdAt": {"type": "date"},
			"updatedAt": {"type": "date"}
		}
	}
}`

// postDocument is the indexed form of a post. Elasticsearch reserves _id,
// so the identifier travels as a plain keyword field.
type postDocument struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Slug       string    `json:"slug"`
	Author     string    `json:"author"`
	Categories []string  `json:"categories"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ResponseError is a non-2xx answer from the cluster. It carries the status
// only; the response body stays in the logs.
type ResponseError struct {
	Op         string
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("HTTP error %d from %s", e.StatusCode, e.Op)
}

type ElasticSearch struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

func NewElasticSearch(client *elasticsearch.Client, index string, logger *zap.Logger) *ElasticSearch {
	if index == "" {
		index = DEFAULT_INDEX
	}

	return &ElasticSearch{
		client: client,
		index:  index,
		logger: logger,
	}
}

func (es *ElasticSearch) responseError(op string, res *esapi.Response) error {
	es.logger.Sugar().Errorf("elasticsearch %s on index %s failed: %s", op, es.index, res.String())
	return &ResponseError{Op: op, StatusCode: res.StatusCode}
}

// CreateIndex creates the posts index. An already existing index is not an error.
func (es *ElasticSearch) CreateIndex(ctx context.Context) error {
	req := esapi.IndicesCreateRequest{
		Index: es.index,
		Body:  strings.NewReader(indexMapping),
	}

	res, err := req.Do(ctx, es.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		if strings.Contains(string(body), "resource_already_exists_exception") {
			return nil
		}
		es.logger.Sugar().Errorf("elasticsearch create index %s failed: [%d] %s", es.index, res.StatusCode, string(body))
		return &ResponseError{Op: "create index", StatusCode: res.StatusCode}
	}

	return nil
}

func (es *ElasticSearch) IndexPost(ctx context.Context, post *model.Post) error {
	docJSON, err := json.Marshal(toDocument(post))
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      es.index,
		DocumentID: post.ID.Hex(),
		Body:       bytes.NewReader(docJSON),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, es.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return es.responseError("index", res)
	}

	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source postDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a full-text query over title, excerpt, content and tags.
func (es *ElasticSearch) Search(ctx context.Context, query string, limit int, offset int) ([]*model.Post, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "excerpt", "content", "tags"},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchQuery); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := es.client.Search(
		es.client.Search.WithContext(ctx),
		es.client.Search.WithIndex(es.index),
		es.client.Search.WithBody(&buf),
		es.client.Search.WithFrom(offset),
		es.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, es.responseError("search", res)
	}

	var result searchResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	posts := make([]*model.Post, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		post, err := fromDocument(hit.Source)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func toDocument(post *model.Post) postDocument {
	return postDocument{
		ID:         post.ID.Hex(),
		Title:      post.Title,
		Excerpt:    post.Excerpt,
		Slug:       post.Slug,
		Author:     post.Author.Hex(),
		Categories: post.Categories,
		Content:    post.Content,
		Tags:       post.Tags,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
}

func fromDocument(doc postDocument) (*model.Post, error) {
	id, err := primitive.ObjectIDFromHex(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid document id %q: %w", doc.ID, err)
	}
	author, err := primitive.ObjectIDFromHex(doc.Author)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q in document %s: %w", doc.Author, doc.ID, err)
	}

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}

	return &model.Post{
		ID:         id,
		Title:      doc.Title,
		Excerpt:    doc.Excerpt,
		Slug:       doc.Slug,
		Author:     author,
		Categories: doc.Categories,
		Content:    doc.Content,
		Tags:       tags,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}
