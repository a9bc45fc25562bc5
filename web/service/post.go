package service

import (
	"errors"
	"strings"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/web/paginator"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyText = errors.New("post text can not be empty")
	ErrNotAuthor = errors.New("only the author can edit a post")
)

// PostPage is one page of a post listing.
type PostPage = paginator.Page[model.Post]

var postPreloads = []string{"Author", "Group"}

type PostService struct {
	groupService GroupService
	userService  UserService
}

// ordered returns the post query in listing order: newest first.
func (s *PostService) ordered() *gorm.DB {
	return database.GetDB().Model(model.Post{}).Order("pub_date desc").Order("id desc")
}

// GetPage returns a page of all posts.
func (s *PostService) GetPage(rawPage string, perPage int) (*PostPage, error) {
	return paginator.Paginate[model.Post](s.ordered(), rawPage, perPage, postPreloads...)
}

// GetGroupPage returns the group with the given slug and a page of its posts.
func (s *PostService) GetGroupPage(slug string, rawPage string, perPage int) (*model.Group, *PostPage, error) {
	group, err := s.groupService.GetGroupBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	page, err := paginator.Paginate[model.Post](s.ordered().Where("group_id = ?", group.Id), rawPage, perPage, postPreloads...)
	if err != nil {
		return nil, nil, err
	}
	return group, page, nil
}

// GetAuthorPage returns the user with the given username and a page of their posts.
func (s *PostService) GetAuthorPage(username string, rawPage string, perPage int) (*model.User, *PostPage, error) {
	author, err := s.userService.GetUserByUsername(username)
	if err != nil {
		return nil, nil, err
	}
	page, err := paginator.Paginate[model.Post](s.ordered().Where("author_id = ?", author.Id), rawPage, perPage, postPreloads...)
	if err != nil {
		return nil, nil, err
	}
	return author, page, nil
}

func (s *PostService) GetPost(id int) (*model.Post, error) {
	post := &model.Post{}
	err := database.GetDB().Model(model.Post{}).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id).
		First(post).Error
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) CountByAuthor(authorId int) (int64, error) {
	var count int64
	err := database.GetDB().Model(model.Post{}).Where("author_id = ?", authorId).Count(&count).Error
	return count, err
}

// CreatePost stores a post written by author. The author is never taken
// from user input.
func (s *PostService) CreatePost(author *model.User, text string, groupId *int) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := s.groupService.CheckGroup(groupId); err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     text,
		AuthorId: author.Id,
		GroupId:  groupId,
	}
	if err := database.GetDB().Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, err
	}
	logger.Infof("post %d created by %s", post.Id, author.Username)
	return post, nil
}

// CanEdit reports whether userId wrote the post.
func (s *PostService) CanEdit(post *model.Post, userId int) bool {
	return post != nil && post.AuthorId == userId
}

// UpdatePost changes text and group of a post on behalf of editorId.
// Id, author and publication date are left untouched.
func (s *PostService) UpdatePost(post *model.Post, editorId int, text string, groupId *int) error {
	if !s.CanEdit(post, editorId) {
		return ErrNotAuthor
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	if err := s.groupService.CheckGroup(groupId); err != nil {
		return err
	}

	var group any
	if groupId != nil {
		group = *groupId
	}
	err := database.GetDB().Model(model.Post{}).
		Where("id = ?", post.Id).
		Updates(map[string]any{"text": text, "group_id": group}).
		Error
	if err != nil {
		return err
	}
	post.Text = text
	post.GroupId = groupId
	logger.Infof("post %d edited", post.Id)
	return nil
}
