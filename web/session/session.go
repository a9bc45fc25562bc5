package session

import (
	"crypto/subtle"
	"encoding/gob"
	"net/http"

	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/util/random"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginUser = "LOGIN_USER"
	csrfToken = "CSRF_TOKEN"

	csrfTokenLength = 32
)

func init() {
	gob.Register(model.User{})
}

// SetLoginUser stores the user in the session. The password hash stays out
// of the cookie.
func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	u := *user
	u.Password = ""
	s.Set(loginUser, u)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

// ClearSession logs the user out. A fresh CSRF token is issued on the next
// request.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	return s.Save()
}

// GetCSRFToken returns the session's CSRF token, creating it on first use.
func GetCSRFToken(c *gin.Context) (string, error) {
	s := sessions.Default(c)
	if token, ok := s.Get(csrfToken).(string); ok && token != "" {
		return token, nil
	}
	token := random.Seq(csrfTokenLength)
	s.Set(csrfToken, token)
	return token, s.Save()
}

// CheckCSRFToken compares token with the one stored in the session.
func CheckCSRFToken(c *gin.Context, token string) bool {
	s := sessions.Default(c)
	expected, ok := s.Get(csrfToken).(string)
	if !ok || expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}
