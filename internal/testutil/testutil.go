// Package testutil holds in-memory collaborators shared by package tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/mongorepo"
	"github.com/BloggingApp/posts-service/internal/repository/redisrepo"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostStore is an in-memory posts collection with a unique slug index.
type PostStore struct {
	mu    sync.Mutex
	posts []*model.Post

	ExistsCalls int
	CreateCalls int

	// ExistsErr and CreateErr, when set, are returned by the matching call.
	ExistsErr error
	CreateErr error

	// SkipExists makes Exists report false, simulating a racing request
	// that passed the check before the other insert landed.
	SkipExists bool

	// OnCreate, when set, runs after a successful insert.
	OnCreate func()
}

func NewPostStore() *PostStore {
	return &PostStore{}
}

func (s *PostStore) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (s *PostStore) Exists(ctx context.Context, filter bson.M) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ExistsCalls++
	if s.ExistsErr != nil {
		return false, s.ExistsErr
	}
	if s.SkipExists {
		return false, nil
	}

	slug, _ := filter["slug"].(string)
	return s.findBySlug(slug) != nil, nil
}

func (s *PostStore) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CreateCalls++
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	if s.findBySlug(post.Slug) != nil {
		return nil, mongorepo.ErrDuplicateKey
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}

	stored := post
	s.posts = append(s.posts, &stored)

	if s.OnCreate != nil {
		s.OnCreate()
	}

	return &post, nil
}

func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.findBySlug(slug)
	if post == nil {
		return nil, mongo.ErrNoDocuments
	}

	found := *post
	return &found, nil
}

func (s *PostStore) FindByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int, offset int) ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := []*model.Post{}
	skipped := 0
	// newest first
	for i := len(s.posts) - 1; i >= 0 && len(posts) < limit; i-- {
		if s.posts[i].Author != authorID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		found := *s.posts[i]
		posts = append(posts, &found)
	}

	return posts, nil
}

// All returns copies of every stored post in insertion order.
func (s *PostStore) All() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]model.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, *post)
	}
	return posts
}

func (s *PostStore) findBySlug(slug string) *model.Post {
	for _, post := range s.posts {
		if post.Slug == slug {
			return post
		}
	}
	return nil
}

// NewRepository builds a repository over the given store and a fresh
// miniredis instance.
func NewRepository(t *testing.T, store mongorepo.Post) (*repository.Repository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
	})

	return &repository.Repository{
		Mongo: &mongorepo.MongoRepository{Post: store},
		Redis: redisrepo.New(rdb),
	}, mr
}

type Publisher struct {
	mu       sync.Mutex
	Messages []dto.MQPostCreatedMsg
	Err      error

	// CtxErrs records ctx.Err() as seen by each publish call.
	CtxErrs []error
}

func (p *Publisher) PublishPostCreated(ctx context.Context, msg dto.MQPostCreatedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.CtxErrs = append(p.CtxErrs, ctx.Err())

	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, msg)
	return nil
}

type Indexer struct {
	mu        sync.Mutex
	Indexed   []*model.Post
	IndexErr  error
	SearchErr error
	LastQuery string

	// CtxErrs records ctx.Err() as seen by each index call.
	CtxErrs []error
}

func (i *Indexer) IndexPost(ctx context.Context, post *model.Post) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.CtxErrs = append(i.CtxErrs, ctx.Err())

	if i.IndexErr != nil {
		return i.IndexErr
	}
	i.Indexed = append(i.Indexed, post)
	return nil
}

func (i *Indexer) Search(ctx context.Context, query string, limit int, offset int) ([]*model.Post, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.LastQuery = query
	if i.SearchErr != nil {
		return nil, i.SearchErr
	}

	posts := []*model.Post{}
	for _, post := range i.Indexed {
		if len(posts) == limit {
			break
		}
		posts = append(posts, post)
	}
	return posts, nil
}
