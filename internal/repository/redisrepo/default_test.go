package redisrepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

func newTestRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
	})

	return New(rdb), mr
}

func TestGetJSON(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetJSON(ctx, "thing", cachedThing{Name: "a", Tags: []string{"x"}}, time.Minute))

	got, err := Get[cachedThing](repo.Default, ctx, "thing")
	require.NoError(t, err)
	assert.Equal(t, &cachedThing{Name: "a", Tags: []string{"x"}}, got)
	assert.Equal(t, time.Minute, mr.TTL("thing"))

	_, err = Get[cachedThing](repo.Default, ctx, "absent")
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, repo.SetJSON(ctx, "nothing", nil, time.Minute))
	got, err = Get[cachedThing](repo.Default, ctx, "nothing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetManyJSON(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetJSON(ctx, "list", []cachedThing{{Name: "a"}, {Name: "b"}}, time.Minute))

	got, err := GetMany[cachedThing](repo.Default, ctx, "list")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Name)

	require.NoError(t, repo.SetJSON(ctx, "empty", []cachedThing{}, time.Minute))
	got, err = GetMany[cachedThing](repo.Default, ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExistsKeysDel(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, PostSlugKey("my-post"), 1, 0))
	n, err := repo.Exists(ctx, PostSlugKey("my-post")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Duration(0), mr.TTL(PostSlugKey("my-post")))

	author := "64b7f0c2a1b2c3d4e5f60718"
	require.NoError(t, repo.Set(ctx, AuthorPostsKey(author, 20, 0), "[]", time.Minute))
	require.NoError(t, repo.Set(ctx, AuthorPostsKey(author, 5, 10), "[]", time.Minute))
	require.NoError(t, repo.Set(ctx, AuthorPostsKey("someone-else", 5, 10), "[]", time.Minute))

	keys, err := repo.ScanKeys(ctx, AuthorPostsPattern(author))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{AuthorPostsKey(author, 20, 0), AuthorPostsKey(author, 5, 10)}, keys)

	deleted, err := repo.Del(ctx, keys...).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.True(t, mr.Exists(AuthorPostsKey("someone-else", 5, 10)))
}

func TestScanKeysWalksWholeKeyspace(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	author := "64b7f0c2a1b2c3d4e5f60718"
	var want []string
	for i := 0; i < 3*SCAN_COUNT; i++ {
		key := AuthorPostsKey(author, 20, i)
		want = append(want, key)
		require.NoError(t, repo.Set(ctx, key, "[]", time.Minute))
		require.NoError(t, repo.Set(ctx, PostKey(fmt.Sprintf("post-%d", i)), "{}", time.Minute))
	}

	keys, err := repo.ScanKeys(ctx, AuthorPostsPattern(author))
	require.NoError(t, err)
	assert.ElementsMatch(t, want, keys)

	keys, err = repo.ScanKeys(ctx, AuthorPostsPattern("nobody"))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "post:my-post", PostKey("my-post"))
	assert.Equal(t, "post-slug:my-post", PostSlugKey("my-post"))
	assert.Equal(t, "author:abc-posts:5:10", AuthorPostsKey("abc", 5, 10))
	assert.Equal(t, "author:abc-posts:*", AuthorPostsPattern("abc"))
}
