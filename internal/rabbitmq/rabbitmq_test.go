package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewRejectsBadURI(t *testing.T) {
	mq, err := New("http://localhost:5672")
	assert.Error(t, err)
	assert.Nil(t, mq)
}

func TestPostCreatedQueue(t *testing.T) {
	assert.Equal(t, "post.created", POST_CREATED_QUEUE)
}

func TestEncodePostCreated(t *testing.T) {
	postID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	body, err := encodePostCreated(dto.MQPostCreatedMsg{
		PostID:     postID,
		AuthorID:   authorID,
		PostTitle:  "Hello",
		Slug:       "hello",
		Categories: []string{"go"},
		CreatedAt:  createdAt,
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, map[string]interface{}{
		"post_id":    postID.Hex(),
		"author_id":  authorID.Hex(),
		"post_title": "Hello",
		"slug":       "hello",
		"categories": []interface{}{"go"},
		"created_at": "2024-05-01T12:00:00Z",
	}, decoded)
}
