package service

import (
	"errors"
	"strings"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/util/crypto"
)

var (
	ErrUsernameTaken = errors.New("a user with that username already exists")
	ErrWrongPassword = errors.New("old password was entered incorrectly")
)

type UserService struct{}

// Register hashes rawPassword and stores the new user.
func (s *UserService) Register(user *model.User, rawPassword string) error {
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return errors.New("username can not be empty")
	}
	if rawPassword == "" {
		return errors.New("password can not be empty")
	}

	db := database.GetDB()
	var count int64
	err := db.Model(model.User{}).Where("username = ?", user.Username).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(rawPassword)
	if err != nil {
		return err
	}
	user.Id = 0
	user.Password = hashedPassword
	return db.Create(user).Error
}

// CheckUser returns the user matching the credentials, or nil.
func (s *UserService) CheckUser(username string, password string) *model.User {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil
	}
	return user
}

func (s *UserService) GetUserById(id int) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).Where("id = ?", id).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).Where("username = ?", username).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsersByEmail matches the address case-insensitively.
func (s *UserService) GetUsersByEmail(email string) ([]model.User, error) {
	email = strings.TrimSpace(email)
	users := make([]model.User, 0)
	if email == "" {
		return users, nil
	}
	err := database.GetDB().Model(model.User{}).
		Where("lower(email) = lower(?)", email).
		Find(&users).Error
	return users, err
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(id int, oldPassword string, newPassword string) error {
	user, err := s.GetUserById(id)
	if err != nil {
		return err
	}
	if !crypto.CheckPasswordHash(user.Password, oldPassword) {
		return ErrWrongPassword
	}
	return s.SetPassword(id, newPassword)
}

func (s *UserService) SetPassword(id int, newPassword string) error {
	if newPassword == "" {
		return errors.New("password can not be empty")
	}
	hashedPassword, err := crypto.HashPasswordAsBcrypt(newPassword)
	if err != nil {
		return err
	}
	return database.GetDB().Model(model.User{}).
		Where("id = ?", id).
		Update("password", hashedPassword).
		Error
}

// DeleteUser removes the user; their posts go with them.
func (s *UserService) DeleteUser(username string) error {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return err
	}
	return database.GetDB().Delete(&model.User{}, user.Id).Error
}
