package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BloggingApp/posts-service/internal/config"
	"github.com/BloggingApp/posts-service/internal/handler"
	"github.com/BloggingApp/posts-service/internal/rabbitmq"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/mongorepo"
	"github.com/BloggingApp/posts-service/internal/search"
	"github.com/BloggingApp/posts-service/internal/server"
	"github.com/BloggingApp/posts-service/internal/service"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Warnf("failed to load .env file, using process environment: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	mongoConfig := config.MongoConfig{
		URI:            os.Getenv("MONGO_URI"),
		Database:       viper.GetString("mongo.database"),
		ConnectTimeout: viper.GetDuration("mongo.connect-timeout"),
	}
	mongoClient, err := mongorepo.Connect(ctx, mongoConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to mongo: %s", err.Error())
	}
	logger.Info("Successfully connected to MongoDB")

	redisConfig := config.RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       viper.GetInt("redis.db"),
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	repos := repository.New(mongoClient.Database(mongoConfig.Database), rdb, logger)
	if err := repos.Mongo.Post.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Panicf("failed to ensure mongo indexes: %s", err.Error())
	}

	var publisher service.Publisher
	var mq *rabbitmq.MQConn
	if connString := os.Getenv("RABBITMQ_CONN_STRING"); connString != "" {
		mq, err = rabbitmq.New(connString)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
		}
		publisher = mq
		logger.Info("Successfully connected to RabbitMQ")
	} else {
		logger.Warn("RABBITMQ_CONN_STRING is empty, post events are disabled")
	}

	var indexer service.Indexer
	if esURL := os.Getenv("ELASTICSEARCH_URL"); esURL != "" {
		elasticConfig := config.ElasticConfig{
			Addresses: strings.Split(esURL, ","),
			Index:     viper.GetString("elastic.index"),
		}
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: elasticConfig.Addresses})
		if err != nil {
			logger.Sugar().Panicf("failed to create elasticsearch client: %s", err.Error())
		}
		es := search.NewElasticSearch(esClient, elasticConfig.Index, logger)
		if err := es.CreateIndex(ctx); err != nil {
			logger.Sugar().Panicf("failed to create elasticsearch index: %s", err.Error())
		}
		indexer = es
		logger.Info("Successfully connected to Elasticsearch")
	} else {
		logger.Warn("ELASTICSEARCH_URL is empty, search is disabled")
	}

	services := service.New(logger, repos, publisher, indexer)
	handlers := handler.New(services, logger, handler.Config{
		AccessSecret: []byte(os.Getenv("ACCESS_SECRET")),
		AllowOrigins: viper.GetStringSlice("client.origins"),
	})

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func(srv *server.Server, cfg config.ServerConfig) {
		if err := srv.Run(cfg); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}(srv, serverConfig)

	logger.Sugar().Infof("Server started on port %s", serverConfig.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second * 10)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
	if mq != nil {
		if err := mq.Close(); err != nil {
			logger.Sugar().Errorf("failed to close rabbitmq connection: %s", err.Error())
		}
	}
	if err := rdb.Close(); err != nil {
		logger.Sugar().Errorf("failed to close redis client: %s", err.Error())
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to disconnect from mongo: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("mongo.database", "blog")
	viper.SetDefault("mongo.connect-timeout", time.Second * 10)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("elastic.index", search.DEFAULT_INDEX)

	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
