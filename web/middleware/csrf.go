package middleware

import (
	"net/http"

	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/web/session"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenKey is the context key holding the token for templates.
	CSRFTokenKey = "csrf_token"

	csrfFormField = "csrf_token"
	csrfHeader    = "X-CSRFToken"
)

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// CSRFMiddleware makes sure every session has a CSRF token and rejects
// unsafe requests that do not echo it back in the csrf_token form field or
// the X-CSRFToken header. onFailure renders the rejection.
func CSRFMiddleware(onFailure gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := session.GetCSRFToken(c)
		if err != nil {
			logger.Warning("Unable to save CSRF token:", err)
		}
		c.Set(CSRFTokenKey, token)

		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		sent := c.PostForm(csrfFormField)
		if sent == "" {
			sent = c.GetHeader(csrfHeader)
		}
		if !session.CheckCSRFToken(c, sent) {
			logger.Warningf("CSRF verification failed for %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			onFailure(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
