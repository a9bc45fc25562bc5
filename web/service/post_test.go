package service

import (
	"fmt"
	"testing"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPosts(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, database.GetDB().Model(model.Post{}).Count(&count).Error)
	return count
}

func TestCreatePost(t *testing.T) {
	resetDB(t)
	postService := PostService{}
	author := createUser(t, "auth")
	group := createGroup(t, "test-slug")

	before := countPosts(t)
	post, err := postService.CreatePost(author, "  Тестовый текст  ", &group.Id)
	require.NoError(t, err)
	assert.Equal(t, before+1, countPosts(t))

	stored, err := postService.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый текст", stored.Text)
	assert.Equal(t, author.Id, stored.AuthorId)
	assert.Equal(t, "auth", stored.Author.Username)
	require.NotNil(t, stored.Group)
	assert.Equal(t, "test-slug", stored.Group.Slug)
	assert.False(t, stored.PubDate.IsZero())
}

func TestCreatePostWithoutGroup(t *testing.T) {
	resetDB(t)
	postService := PostService{}
	author := createUser(t, "auth")

	post, err := postService.CreatePost(author, "no group", nil)
	require.NoError(t, err)

	stored, err := postService.GetPost(post.Id)
	require.NoError(t, err)
	assert.Nil(t, stored.GroupId)
	assert.Nil(t, stored.Group)
}

func TestCreatePostRejectsInvalidInput(t *testing.T) {
	resetDB(t)
	postService := PostService{}
	author := createUser(t, "auth")

	_, err := postService.CreatePost(author, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	missing := 424242
	_, err = postService.CreatePost(author, "text", &missing)
	assert.ErrorIs(t, err, ErrInvalidGroup)

	assert.Zero(t, countPosts(t))
}

func TestUpdatePostByAuthor(t *testing.T) {
	resetDB(t)
	postService := PostService{}
	author := createUser(t, "auth")
	groupA := createGroup(t, "group-a")
	groupB := createGroup(t, "group-b")

	post, err := postService.CreatePost(author, "original", &groupA.Id)
	require.NoError(t, err)
	created, err := postService.GetPost(post.Id)
	require.NoError(t, err)

	require.NoError(t, postService.UpdatePost(created, author.Id, "edited", &groupB.Id))

	stored, err := postService.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, post.Id, stored.Id)
	assert.Equal(t, author.Id, stored.AuthorId)
	assert.Equal(t, "edited", stored.Text)
	require.NotNil(t, stored.GroupId)
	assert.Equal(t, groupB.Id, *stored.GroupId)
	assert.True(t, created.PubDate.Equal(stored.PubDate))

	_, pageA, err := postService.GetGroupPage("group-a", "", 10)
	require.NoError(t, err)
	assert.Zero(t, pageA.Len())

	_, pageB, err := postService.GetGroupPage("group-b", "", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, pageB.Len())
}

func TestUpdatePostClearsGroup(t *testing.T) {
	resetDB(t)
	postService := PostService{}
	author := createUser(t, "auth")
	group := createGroup(t, "group")

	post, err := postService.CreatePost(author, "original", &group.Id)
	require.NoError(t, err)
	require.NoError(t, postService.UpdatePost(post, author.Id, "original", nil))

	stored, err := postService.GetPost(post.Id)
	require.NoError(t, err)
	assert.Nil(t, stored.GroupId)
}

func TestUpdatePostByOtherUserIsDenied(t *testing.T) {
	resetDB(t)
	postService := PostService{}
	author := createUser(t, "auth")
	stranger := createUser(t, "HasNoName")

	post, err := postService.CreatePost(author, "original", nil)
	require.NoError(t, err)

	err = postService.UpdatePost(post, stranger.Id, "hijacked", nil)
	assert.ErrorIs(t, err, ErrNotAuthor)

	stored, err := postService.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
	assert.False(t, postService.CanEdit(stored, stranger.Id))
	assert.True(t, postService.CanEdit(stored, author.Id))
}

func TestListingsPaginateNewestFirst(t *testing.T) {
	resetDB(t)
	postService := PostService{}
	author := createUser(t, "auth")
	other := createUser(t, "other")
	group := createGroup(t, "test-slug")

	for i := 0; i < 13; i++ {
		_, err := postService.CreatePost(author, fmt.Sprintf("post #%d", i), &group.Id)
		require.NoError(t, err)
	}
	_, err := postService.CreatePost(other, "outside", nil)
	require.NoError(t, err)

	index, err := postService.GetPage("", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(14), index.Count)
	assert.Equal(t, 10, index.Len())
	assert.Equal(t, "outside", index.Items[0].Text)
	assert.Equal(t, "other", index.Items[0].Author.Username)

	_, groupPage, err := postService.GetGroupPage("test-slug", "2", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, groupPage.Len())
	assert.Equal(t, "post #2", groupPage.Items[0].Text)
	assert.Equal(t, "post #0", groupPage.Items[2].Text)

	profileAuthor, profilePage, err := postService.GetAuthorPage("auth", "1", 10)
	require.NoError(t, err)
	assert.Equal(t, author.Id, profileAuthor.Id)
	assert.Equal(t, 10, profilePage.Len())
	assert.Equal(t, "post #12", profilePage.Items[0].Text)
	require.NotNil(t, profilePage.Items[0].Group)
	assert.Equal(t, "test-slug", profilePage.Items[0].Group.Slug)

	count, err := postService.CountByAuthor(author.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(13), count)
}

func TestListingsNotFound(t *testing.T) {
	resetDB(t)
	postService := PostService{}

	_, _, err := postService.GetGroupPage("missing", "", 10)
	assert.True(t, database.IsNotFound(err))

	_, _, err = postService.GetAuthorPage("missing", "", 10)
	assert.True(t, database.IsNotFound(err))

	_, err = postService.GetPost(1)
	assert.True(t, database.IsNotFound(err))
}
