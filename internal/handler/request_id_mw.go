package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) requestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(REQUEST_ID_HEADER)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(REQUEST_ID_CTX_KEY, requestID)
	c.Header(REQUEST_ID_HEADER, requestID)

	c.Next()
}
