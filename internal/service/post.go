package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/mongorepo"
	"github.com/BloggingApp/posts-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	POST_CACHE_TTL         = time.Hour
	AUTHOR_POSTS_CACHE_TTL = time.Minute
)

type postService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher Publisher
	indexer   Indexer
}

func newPostService(logger *zap.Logger, repo *repository.Repository, publisher Publisher, indexer Indexer) Post {
	return &postService{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		indexer:   indexer,
	}
}

func (s *postService) Create(ctx context.Context, user *model.AuthUser, input dto.CreatePostRequest) (*model.Post, error) {
	post, err := validateCreatePost(user, input)
	if err != nil {
		return nil, err
	}

	exists, err := s.slugExists(ctx, post.Slug)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check slug(%s) existence: %s", post.Slug, err.Error())
		return nil, &FaultError{Err: err}
	}
	if exists {
		return nil, ErrSlugExists
	}

	createdPost, err := s.repo.Mongo.Post.Create(ctx, *post)
	if err != nil {
		// The unique index is the final arbiter when two requests race past the check.
		if errors.Is(err, mongorepo.ErrDuplicateKey) {
			return nil, ErrSlugExists
		}

		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", post.Author.Hex(), err.Error())
		return nil, &FaultError{Err: err}
	}

	s.afterCreate(ctx, createdPost)

	return createdPost, nil
}

// slugExists consults the cached slug marker first and falls back to the store.
func (s *postService) slugExists(ctx context.Context, slug string) (bool, error) {
	n, err := s.repo.Redis.Default.Exists(ctx, redisrepo.PostSlugKey(slug)).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	if err != nil {
		s.logger.Sugar().Warnf("failed to check slug(%s) in redis: %s", slug, err.Error())
	}

	return s.repo.Mongo.Post.Exists(ctx, bson.M{"slug": slug})
}

// afterCreate runs the side effects of a successful insert. None of them can
// fail the request, and they still run when the client has gone away.
func (s *postService) afterCreate(ctx context.Context, post *model.Post) {
	ctx = context.WithoutCancel(ctx)

	if err := s.repo.Redis.Default.Set(ctx, redisrepo.PostSlugKey(post.Slug), 1, 0); err != nil {
		s.logger.Sugar().Errorf("failed to set slug(%s) marker in redis: %s", post.Slug, err.Error())
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(post.Slug), post, POST_CACHE_TTL); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%s) in redis: %s", post.Slug, err.Error())
	}

	s.invalidateAuthorPosts(ctx, post.Author.Hex())

	msg := dto.MQPostCreatedMsg{
		PostID:     post.ID,
		AuthorID:   post.Author,
		PostTitle:  post.Title,
		Slug:       post.Slug,
		Categories: post.Categories,
		CreatedAt:  post.CreatedAt,
	}
	if err := s.publisher.PublishPostCreated(ctx, msg); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%s) created message: %s", post.ID.Hex(), err.Error())
	}

	if err := s.indexer.IndexPost(ctx, post); err != nil {
		s.logger.Sugar().Errorf("failed to index post(%s): %s", post.ID.Hex(), err.Error())
	}
}

func (s *postService) invalidateAuthorPosts(ctx context.Context, authorID string) {
	keys, err := s.repo.Redis.Default.ScanKeys(ctx, redisrepo.AuthorPostsPattern(authorID))
	if err != nil {
		s.logger.Sugar().Errorf("failed to list author(%s) posts keys in redis: %s", authorID, err.Error())
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := s.repo.Redis.Default.Del(ctx, keys...).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete author(%s) posts from redis: %s", authorID, err.Error())
	}
}

func (s *postService) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	slug = normalizeSlug(slug)
	if slug == "" {
		return nil, ErrPostNotFound
	}

	cachedPost, err := redisrepo.Get[model.Post](s.repo.Redis.Default, ctx, redisrepo.PostKey(slug))
	if err == nil && cachedPost != nil {
		return cachedPost, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%s) from redis: %s", slug, err.Error())
	}

	post, err := s.repo.Mongo.Post.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) from mongo: %s", slug, err.Error())
		return nil, &FaultError{Err: err}
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(slug), post, POST_CACHE_TTL); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%s) in redis: %s", slug, err.Error())
	}

	return post, nil
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID string, limit int, offset int) ([]*model.Post, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(authorID))
	if err != nil {
		return nil, ErrInvalidAuthorID
	}

	maxLimit(&limit)
	minOffset(&offset)

	cacheKey := redisrepo.AuthorPostsKey(id.Hex(), limit, offset)
	cachedPosts, err := redisrepo.GetMany[model.Post](s.repo.Redis.Default, ctx, cacheKey)
	if err == nil && cachedPosts != nil {
		return cachedPosts, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get author(%s) posts from redis: %s", id.Hex(), err.Error())
	}

	posts, err := s.repo.Mongo.Post.FindByAuthor(ctx, id, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts from mongo: %s", id.Hex(), err.Error())
		return nil, &FaultError{Err: err}
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, cacheKey, posts, AUTHOR_POSTS_CACHE_TTL); err != nil {
		s.logger.Sugar().Errorf("failed to set author(%s) posts in redis: %s", id.Hex(), err.Error())
	}

	return posts, nil
}

func (s *postService) Search(ctx context.Context, query string, limit int, offset int) ([]*model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newValidationError("q must not be empty")
	}

	maxLimit(&limit)
	minOffset(&offset)

	posts, err := s.indexer.Search(ctx, query, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts(%s): %s", query, err.Error())
		return nil, &FaultError{Err: err}
	}

	return posts, nil
}
