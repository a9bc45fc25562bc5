package controller

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/yatube/yatube/config"
	"github.com/yatube/yatube/database/model"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/web/form"
	"github.com/yatube/yatube/web/locale"
	"github.com/yatube/yatube/web/middleware"
	"github.com/yatube/yatube/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// getRemoteIp returns the client address. Forwarding headers count only
// when the peer is one of the engine's trusted proxies.
func getRemoteIp(c *gin.Context) string {
	return c.ClientIP()
}

// loginUser returns the authenticated user or nil.
func loginUser(c *gin.Context) *model.User {
	if obj, ok := c.Get(loginUserKey); ok {
		if user, ok := obj.(*model.User); ok {
			return user
		}
	}
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return session.GetLoginUser(c)
}

// html renders an HTML template with the provided data and title.
func html(c *gin.Context, name string, title string, data gin.H) {
	htmlStatus(c, http.StatusOK, name, title, data)
}

func htmlStatus(c *gin.Context, status int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["request_uri"] = c.Request.RequestURI
	data["lang"] = locale.GetLang(c)
	data["user"] = loginUser(c)
	data["csrf_token"] = c.GetString(middleware.CSRFTokenKey)
	if _, ok := data["errors"]; !ok {
		data["errors"] = map[string][]string{}
	}
	c.HTML(status, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver":   config.GetVersion(),
		"site_name": config.GetName(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// formErrors translates validation messages for the template.
func formErrors(c *gin.Context, errs form.Errors) map[string][]string {
	translated := make(map[string][]string, len(errs))
	for field, messages := range errs {
		for _, m := range messages {
			var params []string
			for _, p := range m.Params {
				if p != "" {
					params = append(params, "param=="+p)
				}
			}
			translated[field] = append(translated[field], I18nWeb(c, m.ID, params...))
		}
	}
	return translated
}

// isSafeRedirect accepts local absolute paths only.
func isSafeRedirect(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return false
	}
	if strings.Contains(target, "\\") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// NotFound renders the 404 page.
func NotFound(c *gin.Context) {
	htmlStatus(c, http.StatusNotFound, "404.html", I18nWeb(c, "pages.notFound.title"), gin.H{
		"path": c.Request.URL.Path,
	})
}

// CSRFFailure renders the 403 page shown when a form token does not match.
func CSRFFailure(c *gin.Context) {
	htmlStatus(c, http.StatusForbidden, "403csrf.html", I18nWeb(c, "pages.csrf.title"), nil)
}

// TooManyRequests renders the page shown when a client is rate limited.
func TooManyRequests(c *gin.Context) {
	htmlStatus(c, http.StatusTooManyRequests, "429.html", I18nWeb(c, "pages.tooMany.title"), nil)
}

// Recovery renders the 500 page after a handler panicked.
func Recovery(c *gin.Context, err any) {
	logger.Errorf("panic while serving %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	htmlStatus(c, http.StatusInternalServerError, "500.html", I18nWeb(c, "pages.serverError.title"), nil)
}
