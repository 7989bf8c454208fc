package repository

import (
	"github.com/BloggingApp/posts-service/internal/repository/mongorepo"
	"github.com/BloggingApp/posts-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Repository struct {
	Mongo *mongorepo.MongoRepository
	Redis *redisrepo.RedisRepository
}

func New(db *mongo.Database, rdb *redis.Client, logger *zap.Logger) *Repository {
	return &Repository{
		Mongo: mongorepo.New(db, logger),
		Redis: redisrepo.New(rdb),
	}
}
