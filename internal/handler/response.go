package handler

import (
	"net/http"
	"time"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/gin-gonic/gin"
)

const DEFAULT_ERROR_MESSAGE = "Something went wrong. Please try again later."

// ResponseBuilder produces the success envelope.
type ResponseBuilder interface {
	Build(c *gin.Context, message string, data interface{}, meta interface{}, opts dto.ResponseOptions) dto.Envelope
}

// ErrorResponder writes a failure response. An empty message or a zero code
// falls back to the defaults.
type ErrorResponder interface {
	Respond(c *gin.Context, message string, code int)
}

type envelopeBuilder struct{}

func NewEnvelopeBuilder() ResponseBuilder {
	return envelopeBuilder{}
}

func (envelopeBuilder) Build(c *gin.Context, message string, data interface{}, meta interface{}, opts dto.ResponseOptions) dto.Envelope {
	code := opts.Code
	if code == 0 {
		code = http.StatusOK
	}
	status := opts.Status
	if status == "" {
		status = http.StatusText(code)
	}

	return dto.Envelope{
		Ok:        true,
		Code:      code,
		Status:    status,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		RequestID: c.GetString(REQUEST_ID_CTX_KEY),
		Timestamp: time.Now(),
	}
}

type jsonErrorResponder struct{}

func NewJSONErrorResponder() ErrorResponder {
	return jsonErrorResponder{}
}

func (jsonErrorResponder) Respond(c *gin.Context, message string, code int) {
	if message == "" {
		message = DEFAULT_ERROR_MESSAGE
	}
	if code == 0 {
		code = http.StatusInternalServerError
	}

	resp := dto.NewBasicResponse(false, message)
	resp.Code = code
	resp.RequestID = c.GetString(REQUEST_ID_CTX_KEY)

	c.AbortWithStatusJSON(code, resp)
}
