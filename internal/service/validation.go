package service

import (
	"strings"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	requiredPostFields = []string{"title", "excerpt", "slug", "author", "categories", "content"}
	stringPostFields   = []string{"title", "excerpt", "slug", "content"}
	trimmedPostFields  = []string{"title", "excerpt", "slug"}
)

// validateCreatePost runs every check that does not need the store and
// returns the normalized post ready to be persisted. Checks run in a fixed
// order and the first failure wins. Blank title, excerpt or slug is the last
// of them, so an author mismatch is reported first.
func validateCreatePost(user *model.AuthUser, input dto.CreatePostRequest) (*model.Post, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	if missing := missingPostFields(input); len(missing) > 0 {
		return nil, newMissingFieldsError(missing)
	}

	for _, field := range stringPostFields {
		if _, ok := input[field].(string); !ok {
			return nil, newValidationError("%s must be a string", field)
		}
	}

	author, ok := input["author"].(string)
	if !ok {
		return nil, newValidationError("author must be a string")
	}

	if author != user.ID {
		return nil, ErrAuthorMismatch
	}

	authorID, err := primitive.ObjectIDFromHex(author)
	if err != nil {
		return nil, ErrInvalidAuthorID
	}

	rawCategories, ok := input["categories"].([]interface{})
	if !ok {
		return nil, newValidationError("categories must be an array")
	}

	categories := sanitizeStrings(rawCategories)
	if len(categories) == 0 {
		return nil, newValidationError("At least one valid category is required")
	}

	tags := []string{}
	if rawTags, ok := input["tags"].([]interface{}); ok {
		tags = sanitizeStrings(rawTags)
	}

	for _, field := range trimmedPostFields {
		if strings.TrimSpace(input[field].(string)) == "" {
			return nil, newValidationError("%s must not be blank", field)
		}
	}

	return &model.Post{
		Title:      strings.TrimSpace(input["title"].(string)),
		Excerpt:    strings.TrimSpace(input["excerpt"].(string)),
		Slug:       normalizeSlug(input["slug"].(string)),
		Author:     authorID,
		Categories: categories,
		Content:    input["content"].(string),
		Tags:       tags,
	}, nil
}

func missingPostFields(input dto.CreatePostRequest) []string {
	var missing []string
	for _, field := range requiredPostFields {
		value, ok := input[field]
		if field == "categories" {
			if values, isArray := value.([]interface{}); !isArray || len(values) == 0 {
				missing = append(missing, field)
			}
			continue
		}

		if !ok || value == nil || value == "" {
			missing = append(missing, field)
		}
	}

	return missing
}

// sanitizeStrings trims string entries and drops everything that is not a
// non-empty string. The result is never nil.
func sanitizeStrings(values []interface{}) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}

		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		result = append(result, s)
	}

	return result
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
