package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/util/common"
)

const maxSlugLength = 50

var (
	ErrInvalidGroup = errors.New("select a valid group")
	ErrSlugTaken    = errors.New("a group with that slug already exists")

	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

type GroupService struct{}

func (s *GroupService) GetGroups() ([]model.Group, error) {
	groups := make([]model.Group, 0)
	err := database.GetDB().Model(model.Group{}).Order("title").Find(&groups).Error
	return groups, err
}

func (s *GroupService) GetGroupBySlug(slug string) (*model.Group, error) {
	group := &model.Group{}
	err := database.GetDB().Model(model.Group{}).Where("slug = ?", slug).First(group).Error
	if err != nil {
		return nil, err
	}
	return group, nil
}

// CheckGroup reports ErrInvalidGroup when id does not name a stored group.
// A nil id is valid: posts need not belong to a group.
func (s *GroupService) CheckGroup(id *int) error {
	if id == nil {
		return nil
	}
	var count int64
	err := database.GetDB().Model(model.Group{}).Where("id = ?", *id).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidGroup
	}
	return nil
}

// CreateGroup stores a new group. Groups are managed from the command line.
func (s *GroupService) CreateGroup(title string, slug string, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	if title == "" {
		return nil, errors.New("title can not be empty")
	}
	if len([]rune(title)) > 200 {
		return nil, common.NewError("title is too long:", title)
	}
	if len(slug) > maxSlugLength {
		return nil, common.NewError("slug is too long:", slug)
	}
	if !slugPattern.MatchString(slug) {
		return nil, common.NewError("slug may contain only letters, digits, hyphens and underscores:", slug)
	}

	db := database.GetDB()
	var count int64
	if err := db.Model(model.Group{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	group := &model.Group{Title: title, Slug: slug, Description: description}
	if err := db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group; its posts stay, detached.
func (s *GroupService) DeleteGroup(slug string) error {
	group, err := s.GetGroupBySlug(slug)
	if err != nil {
		return err
	}
	return database.GetDB().Delete(&model.Group{}, group.Id).Error
}
