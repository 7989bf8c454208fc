package mongorepo

import (
	"context"
	"errors"

	"github.com/BloggingApp/posts-service/internal/config"
	"github.com/BloggingApp/posts-service/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const POSTS_COLLECTION = "posts"

// ErrDuplicateKey is returned by writes rejected by a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

type Post interface {
	EnsureIndexes(ctx context.Context) error
	Exists(ctx context.Context, filter bson.M) (bool, error)
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	FindByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int, offset int) ([]*model.Post, error)
}

type MongoRepository struct {
	Post
}

func New(db *mongo.Database, logger *zap.Logger) *MongoRepository {
	return &MongoRepository{
		Post: newPostRepo(db.Collection(POSTS_COLLECTION), logger),
	}
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
