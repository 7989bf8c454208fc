package redisrepo

import "fmt"

const (
	POST_KEY             = "post:%s"               // <slug>
	POST_SLUG_KEY        = "post-slug:%s"          // <slug>
	AUTHOR_POSTS_KEY     = "author:%s-posts:%d:%d" // <authorID>:<limit>:<offset>
	AUTHOR_POSTS_PATTERN = "author:%s-posts:*"     // <authorID>
)

func PostKey(slug string) string {
	return fmt.Sprintf(POST_KEY, slug)
}

func PostSlugKey(slug string) string {
	return fmt.Sprintf(POST_SLUG_KEY, slug)
}

func AuthorPostsKey(authorID string, limit int, offset int) string {
	return fmt.Sprintf(AUTHOR_POSTS_KEY, authorID, limit, offset)
}

func AuthorPostsPattern(authorID string) string {
	return fmt.Sprintf(AUTHOR_POSTS_PATTERN, authorID)
}
