package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/util/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidResetLink = errors.New("the password reset link is invalid or has expired")

// Mailer delivers outgoing mail.
type Mailer interface {
	Send(to string, subject string, body string) error
}

// LogMailer writes messages to the application log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(to string, subject string, body string) error {
	logger.Infof("mail to <%s>: %s\n%s", to, subject, body)
	return nil
}

type PasswordResetService struct {
	Mailer Mailer

	userService    UserService
	settingService SettingService
}

func (s *PasswordResetService) mailer() Mailer {
	if s.Mailer == nil {
		return LogMailer{}
	}
	return s.Mailer
}

// EncodeUid encodes a user id for use in reset links.
func EncodeUid(id int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(id)))
}

// DecodeUid reverses EncodeUid.
func DecodeUid(uidb64 string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(raw))
}

// RequestReset mails a reset link to every account registered with email.
// Unknown addresses succeed silently so the form does not reveal accounts.
// link builds the absolute URL from the encoded uid and token.
func (s *PasswordResetService) RequestReset(email string, link func(uidb64 string, token string) string) error {
	users, err := s.userService.GetUsersByEmail(email)
	if err != nil {
		return err
	}
	ttl, err := s.settingService.GetResetTokenTTL()
	if err != nil {
		return err
	}

	db := database.GetDB()
	for _, user := range users {
		token := &model.PasswordResetToken{
			UserId:    user.Id,
			Token:     uuid.NewString(),
			ExpiresAt: time.Now().Add(ttl),
		}
		if err := db.Create(token).Error; err != nil {
			return err
		}
		body := fmt.Sprintf("You're receiving this email because you requested a password reset for your user account.\n\n"+
			"Please go to the following page and choose a new password:\n%s\n\nYour username, in case you've forgotten: %s\n",
			link(EncodeUid(user.Id), token.Token), user.Username)
		if err := s.mailer().Send(user.Email, "Password reset", body); err != nil {
			logger.Warning("send password reset mail failed:", err)
			return err
		}
	}
	return nil
}

// CheckToken returns the user a still valid, unused token belongs to.
func (s *PasswordResetService) CheckToken(uidb64 string, token string) (*model.User, error) {
	userId, err := DecodeUid(uidb64)
	if err != nil {
		return nil, ErrInvalidResetLink
	}
	var count int64
	err = database.GetDB().Model(model.PasswordResetToken{}).
		Where("user_id = ? AND token = ? AND used = ? AND expires_at > ?", userId, token, false, time.Now()).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrInvalidResetLink
	}
	user, err := s.userService.GetUserById(userId)
	if database.IsNotFound(err) {
		return nil, ErrInvalidResetLink
	}
	return user, err
}

// ResetPassword sets a new password and spends every outstanding token of
// the user in one transaction.
func (s *PasswordResetService) ResetPassword(uidb64 string, token string, newPassword string) error {
	user, err := s.CheckToken(uidb64, token)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return errors.New("password can not be empty")
	}
	hashedPassword, err := crypto.HashPasswordAsBcrypt(newPassword)
	if err != nil {
		return err
	}
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		err := tx.Model(model.User{}).Where("id = ?", user.Id).Update("password", hashedPassword).Error
		if err != nil {
			return err
		}
		return tx.Model(model.PasswordResetToken{}).
			Where("user_id = ?", user.Id).
			Update("used", true).Error
	})
}

// ClearExpiredTokens deletes used and expired tokens.
func (s *PasswordResetService) ClearExpiredTokens() (int64, error) {
	result := database.GetDB().
		Where("used = ? OR expires_at <= ?", true, time.Now()).
		Delete(&model.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
