package handler

import (
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	USER_CTX_KEY       = "user"
	REQUEST_ID_CTX_KEY = "request-id"
	REQUEST_ID_HEADER  = "X-Request-ID"
)

type Config struct {
	AccessSecret []byte
	AllowOrigins []string
}

type Handler struct {
	services        *service.Service
	logger          *zap.Logger
	cfg             Config
	responseBuilder ResponseBuilder
	errResponder    ErrorResponder
}

type Option func(h *Handler)

func WithResponseBuilder(builder ResponseBuilder) Option {
	return func(h *Handler) {
		h.responseBuilder = builder
	}
}

func WithErrorResponder(responder ErrorResponder) Option {
	return func(h *Handler) {
		h.errResponder = responder
	}
}

func New(services *service.Service, logger *zap.Logger, cfg Config, opts ...Option) *Handler {
	h := &Handler{
		services:        services,
		logger:          logger,
		cfg:             cfg,
		responseBuilder: NewEnvelopeBuilder(),
		errResponder:    NewJSONErrorResponder(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.requestIDMiddleware)

	if len(h.cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     h.cfg.AllowOrigins,
			AllowMethods:     []string{"POST", "GET"},
			AllowHeaders:     []string{"Authorization", "Content-Type", REQUEST_ID_HEADER},
			AllowCredentials: true,
		}))
	}

	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("/search", h.postsSearch)
			posts.GET("/author/:authorID", h.postsGetByAuthor)
			posts.GET("/:slug", h.postsGetBySlug)
		}
	}

	return r
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.AuthUser {
	userReq, exists := c.Get(USER_CTX_KEY)
	if !exists {
		return nil
	}

	user, ok := userReq.(model.AuthUser)
	if !ok {
		return nil
	}

	return &user
}

func (h *Handler) getRequestID(c *gin.Context) string {
	return c.GetString(REQUEST_ID_CTX_KEY)
}
