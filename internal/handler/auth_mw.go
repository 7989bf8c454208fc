package handler

import (
	"strings"

	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// authMiddleware attaches the token's principal to the request when a valid
// bearer token is present. It never aborts; handlers decide whether a
// principal is required.
func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.Next()
		return
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if accessToken == "" {
		c.Next()
		return
	}

	claims, err := utils.DecodeJWT(accessToken, h.cfg.AccessSecret)
	if err != nil {
		h.logger.Sugar().Debugf("rejected access token: %s", err.Error())
		c.Next()
		return
	}

	user, ok := userFromClaims(claims)
	if !ok {
		c.Next()
		return
	}

	c.Set(USER_CTX_KEY, user)

	c.Next()
}

func userFromClaims(claims jwt.MapClaims) (model.AuthUser, bool) {
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return model.AuthUser{}, false
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return model.AuthUser{
		ID:       id,
		Username: username,
		Role:     role,
	}, true
}
