package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MQPostCreatedMsg struct {
	PostID     primitive.ObjectID `json:"post_id"`
	AuthorID   primitive.ObjectID `json:"author_id"`
	PostTitle  string             `json:"post_title"`
	Slug       string             `json:"slug"`
	Categories []string           `json:"categories"`
	CreatedAt  time.Time          `json:"created_at"`
}
