package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BloggingApp/posts-service/internal/service"
	"github.com/gin-gonic/gin"
)

// HTTP_ERROR_MARKER marks fault messages that are safe to forward to clients.
const HTTP_ERROR_MARKER = "HTTP error"

var (
	errInvalidBody  = errors.New("request body must be a JSON object")
	errInvalidQuery = errors.New("limit and offset must be int")
)

func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		h.errResponder.Respond(c, err.Error(), http.StatusUnauthorized)
	case errors.As(err, &validationErr):
		h.errResponder.Respond(c, validationErr.Message, http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidAuthorID):
		h.errResponder.Respond(c, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrAuthorMismatch):
		h.errResponder.Respond(c, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrPostNotFound):
		h.errResponder.Respond(c, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrSlugExists):
		h.errResponder.Respond(c, err.Error(), http.StatusConflict)
	default:
		h.logger.Sugar().Errorf("unexpected error on %s %s: %s", c.Request.Method, c.Request.URL.Path, err.Error())
		h.errResponder.Respond(c, faultMessage(err), 0)
	}
}

// faultMessage hides unexpected errors unless they describe an HTTP-level failure.
func faultMessage(err error) string {
	if strings.Contains(err.Error(), HTTP_ERROR_MARKER) {
		return err.Error()
	}

	return ""
}
