package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/auth/login/", LoginURL(""))
	assert.Equal(t, "/auth/login/?next=/create/", LoginURL("/create/"))
	assert.Equal(t, "/auth/login/?next=/posts/1/edit/", LoginURL("/posts/1/edit/"))
	assert.Equal(t, "/auth/login/?next=/%3Fpage%3D2", LoginURL("/?page=2"))
}

func TestIsSafeRedirect(t *testing.T) {
	for _, target := range []string{"/", "/create/", "/posts/1/?page=2"} {
		assert.True(t, isSafeRedirect(target), target)
	}
	for _, target := range []string{"", "create/", "//evil.example/", "/\\evil.example", "https://evil.example/", "javascript:alert(1)"} {
		assert.False(t, isSafeRedirect(target), target)
	}
}

func TestGetRemoteIpIgnoresUntrustedForwarding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	require.NoError(t, engine.SetTrustedProxies(nil))
	var ip string
	engine.GET("/", func(c *gin.Context) {
		ip = getRemoteIp(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:41000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	engine.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "192.0.2.10", ip)

	require.NoError(t, engine.SetTrustedProxies([]string{"192.0.2.10"}))
	engine.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.7", ip)
}
