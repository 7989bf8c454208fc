package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Excerpt    string             `json:"excerpt" bson:"excerpt"`
	Slug       string             `json:"slug" bson:"slug"`
	Author     primitive.ObjectID `json:"author" bson:"author"`
	Categories []string           `json:"categories" bson:"categories"`
	Content    string             `json:"content" bson:"content"`
	Tags       []string           `json:"tags" bson:"tags"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}
