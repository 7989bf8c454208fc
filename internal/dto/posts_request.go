package dto

// CreatePostRequest is the decoded JSON body of a create request. It is kept
// untyped so that the service can tell a missing field from a mistyped one.
type CreatePostRequest map[string]interface{}

type GetPostsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type SearchPostsRequest struct {
	Query  string `form:"q"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
