// Package controller provides the HTTP handlers of the yatube site: post
// listings and editing, authentication and the static about pages.
package controller

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/web/locale"
	"github.com/yatube/yatube/web/service"
	"github.com/yatube/yatube/web/session"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath = "/auth/login/"

	loginUserKey = "login_user"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct {
	userService service.UserService
}

// checkLogin sends anonymous visitors to the login page with a next
// parameter pointing back at the requested page. Sessions of users deleted
// in the meantime are dropped.
func (a *BaseController) checkLogin(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		if _, err := a.userService.GetUserById(user.Id); err != nil {
			logger.Warningf("session user %d is gone: %v", user.Id, err)
			if err := session.ClearSession(c); err != nil {
				logger.Warning("Unable to clear session:", err)
			}
			user = nil
		}
	}
	if user == nil {
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	c.Set(loginUserKey, user)
	c.Next()
}

// LoginURL returns the login page address that leads back to next.
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// I18nWeb retrieves an internationalized message for the language of the request.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(locale.GetLang(c), name, params...)
}
