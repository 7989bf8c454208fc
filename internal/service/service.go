package service

import (
	"context"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/repository"
	"go.uber.org/zap"
)

const MAX_LIMIT = 20

func maxLimit(limit *int) {
	if *limit <= 0 || *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

func minOffset(offset *int) {
	if *offset < 0 {
		*offset = 0
	}
}

// NormalizePage returns the limit and offset a listing will actually use.
func NormalizePage(limit int, offset int) (int, int) {
	maxLimit(&limit)
	minOffset(&offset)
	return limit, offset
}

type Post interface {
	Create(ctx context.Context, user *model.AuthUser, input dto.CreatePostRequest) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	FindAuthorPosts(ctx context.Context, authorID string, limit int, offset int) ([]*model.Post, error)
	Search(ctx context.Context, query string, limit int, offset int) ([]*model.Post, error)
}

// Publisher announces created posts to other services.
type Publisher interface {
	PublishPostCreated(ctx context.Context, msg dto.MQPostCreatedMsg) error
}

// Indexer keeps a full-text copy of posts.
type Indexer interface {
	IndexPost(ctx context.Context, post *model.Post) error
	Search(ctx context.Context, query string, limit int, offset int) ([]*model.Post, error)
}

type Service struct {
	Post
}

// New wires the services. A nil publisher or indexer disables that integration.
func New(logger *zap.Logger, repo *repository.Repository, publisher Publisher, indexer Indexer) *Service {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if indexer == nil {
		indexer = nopIndexer{}
	}

	return &Service{
		Post: newPostService(logger, repo, publisher, indexer),
	}
}

type nopPublisher struct{}

func (nopPublisher) PublishPostCreated(context.Context, dto.MQPostCreatedMsg) error {
	return nil
}

type nopIndexer struct{}

func (nopIndexer) IndexPost(context.Context, *model.Post) error {
	return nil
}

func (nopIndexer) Search(context.Context, string, int, int) ([]*model.Post, error) {
	return []*model.Post{}, nil
}
