package handler

import (
	"net/http"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "ok"))
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)
	if user == nil {
		h.errResponder.Respond(c, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.errResponder.Respond(c, errInvalidBody.Error(), http.StatusBadRequest)
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), user, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.responseBuilder.Build(c, "Post created successfully", createdPost, nil, dto.ResponseOptions{
		Code:   http.StatusCreated,
		Status: "Created",
	}))
}

func (h *Handler) postsGetBySlug(c *gin.Context) {
	post, err := h.services.Post.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.responseBuilder.Build(c, "Post fetched successfully", post, nil, dto.ResponseOptions{}))
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		h.errResponder.Respond(c, errInvalidQuery.Error(), http.StatusBadRequest)
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), c.Param("authorID"), input.Limit, input.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	limit, offset := service.NormalizePage(input.Limit, input.Offset)
	meta := dto.PageMeta{Limit: limit, Offset: offset, Count: len(posts)}
	c.JSON(http.StatusOK, h.responseBuilder.Build(c, "Posts fetched successfully", posts, meta, dto.ResponseOptions{}))
}

func (h *Handler) postsSearch(c *gin.Context) {
	var input dto.SearchPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		h.errResponder.Respond(c, errInvalidQuery.Error(), http.StatusBadRequest)
		return
	}

	posts, err := h.services.Post.Search(c.Request.Context(), input.Query, input.Limit, input.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	limit, offset := service.NormalizePage(input.Limit, input.Offset)
	meta := dto.PageMeta{Limit: limit, Offset: offset, Count: len(posts)}
	c.JSON(http.StatusOK, h.responseBuilder.Build(c, "Posts fetched successfully", posts, meta, dto.ResponseOptions{}))
}
