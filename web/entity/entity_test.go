package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSetting() *AllSetting {
	return &AllSetting{
		WebPort:       8000,
		SessionMaxAge: 60,
		PageSize:      10,
		TimeLocation:  "UTC",
		ResetTokenTTL: 60,
		SiteURL:       "https://yatube.example",
	}
}

func TestCheckValid(t *testing.T) {
	assert.NoError(t, validSetting().CheckValid())

	tests := []struct {
		name   string
		mutate func(s *AllSetting)
	}{
		{"bad listen", func(s *AllSetting) { s.WebListen = "not-an-ip" }},
		{"zero port", func(s *AllSetting) { s.WebPort = 0 }},
		{"huge port", func(s *AllSetting) { s.WebPort = 70000 }},
		{"zero page size", func(s *AllSetting) { s.PageSize = 0 }},
		{"negative session", func(s *AllSetting) { s.SessionMaxAge = -1 }},
		{"zero reset ttl", func(s *AllSetting) { s.ResetTokenTTL = 0 }},
		{"unknown zone", func(s *AllSetting) { s.TimeLocation = "Mars/Olympus" }},
		{"missing cert", func(s *AllSetting) { s.WebCertFile = "/nonexistent.pem" }},
		{"empty site url", func(s *AllSetting) { s.SiteURL = "" }},
		{"site url without scheme", func(s *AllSetting) { s.SiteURL = "yatube.example" }},
		{"site url with path", func(s *AllSetting) { s.SiteURL = "https://yatube.example/blog" }},
		{"site url ftp", func(s *AllSetting) { s.SiteURL = "ftp://yatube.example" }},
		{"bad proxy", func(s *AllSetting) { s.TrustedProxies = "10.0.0.1, proxy.local" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSetting()
			tt.mutate(s)
			assert.Error(t, s.CheckValid())
		})
	}
}

func TestCheckValidAcceptsProxiesAndRootPath(t *testing.T) {
	s := validSetting()
	s.SiteURL = "http://localhost:8000/"
	s.TrustedProxies = " 127.0.0.1 , 10.0.0.0/8,"
	assert.NoError(t, s.CheckValid())
	assert.Equal(t, []string{"127.0.0.1", "10.0.0.0/8"}, SplitProxies(s.TrustedProxies))
	assert.Nil(t, SplitProxies(""))
}
