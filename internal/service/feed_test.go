package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/domain"
)

func TestFeedService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := f.student(t, nil, nil, nil)
	viewer := f.student(t, nil, nil, nil)

	var ids []uint
	for i := 0; i < 5; i++ {
		post, err := f.feed.CreatePost(ctx, author.ID, strings.Repeat("가", i+1))
		require.NoError(t, err)
		assert.Equal(t, author.Nickname, post.AuthorNickname)
		ids = append(ids, post.ID)
		f.clock.Advance(time.Second)
	}

	_, err := f.recorder.ToggleHeart(ctx, ids[3], viewer.ID)
	require.NoError(t, err)

	page, err := f.feed.ListPosts(ctx, viewer.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)
	assert.True(t, page[1].Hearted)
	assert.Equal(t, int64(1), page[1].HeartCount)
	assert.False(t, page[0].Hearted)

	next, err := f.feed.ListPosts(ctx, viewer.ID, page[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, next, 3)
	assert.Equal(t, ids[2], next[0].ID)

	asAuthor, err := f.feed.ListPosts(ctx, author.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, asAuthor, 5)
	for _, p := range asAuthor {
		assert.False(t, p.Hearted)
	}
}

func TestFeedService_CreatePost_Invalid(t *testing.T) {
	f := newFixture(t)
	author := f.student(t, nil, nil, nil)

	for _, content := range []string{"", "   ", strings.Repeat("a", MaxPostLength+1)} {
		_, err := f.feed.CreatePost(context.Background(), author.ID, content)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	_, err := f.feed.CreatePost(context.Background(), author.ID, strings.Repeat("가", MaxPostLength))
	assert.NoError(t, err)
}

func TestFeedService_DeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := f.student(t, nil, nil, nil)
	other := f.student(t, nil, nil, nil)
	admin := domain.Account{ID: 9999, Role: domain.RoleAdmin}

	first, err := f.feed.CreatePost(ctx, author.ID, "first")
	require.NoError(t, err)
	second, err := f.feed.CreatePost(ctx, author.ID, "second")
	require.NoError(t, err)
	_, err = f.recorder.ToggleHeart(ctx, first.ID, other.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.feed.DeletePost(ctx, other, first.ID), ErrForbidden)
	require.NoError(t, f.feed.DeletePost(ctx, author, first.ID))
	require.NoError(t, f.feed.DeletePost(ctx, admin, second.ID))
	assert.ErrorIs(t, f.feed.DeletePost(ctx, author, first.ID), ErrPostNotFound)

	_, err = f.recorder.ToggleHeart(ctx, first.ID, other.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
