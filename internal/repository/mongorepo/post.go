package mongorepo

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/posts-service/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type postRepo struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

func newPostRepo(coll *mongo.Collection, logger *zap.Logger) Post {
	return &postRepo{
		coll:   coll,
		logger: logger,
	}
}

func (r *postRepo) EnsureIndexes(ctx context.Context) error {
	name, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("slug_unique"),
	})
	if err != nil {
		return err
	}

	r.logger.Sugar().Infof("ensured index %s on collection %s", name, r.coll.Name())
	return nil
}

func (r *postRepo) Exists(ctx context.Context, filter bson.M) (bool, error) {
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}

	return false, err
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	// BSON dates keep millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int, offset int) ([]*model.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, bson.M{"author": authorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := make([]*model.Post, 0, limit)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	return posts, nil
}
