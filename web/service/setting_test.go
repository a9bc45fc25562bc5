package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingDefaults(t *testing.T) {
	resetDB(t)
	settingService := SettingService{}

	pageSize, err := settingService.GetPageSize()
	require.NoError(t, err)
	assert.Equal(t, 10, pageSize)

	port, err := settingService.GetPort()
	require.NoError(t, err)
	assert.Equal(t, 8000, port)

	ttl, err := settingService.GetResetTokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	loc, err := settingService.GetTimeLocation()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestSettingUpdate(t *testing.T) {
	resetDB(t)
	settingService := SettingService{}

	require.NoError(t, settingService.SetPageSize(5))
	assert.Error(t, settingService.SetPageSize(0))

	all, err := settingService.GetAllSetting()
	require.NoError(t, err)
	assert.Equal(t, 5, all.PageSize)

	all.WebPort = 9000
	require.NoError(t, settingService.UpdateAllSetting(all))
	port, err := settingService.GetPort()
	require.NoError(t, err)
	assert.Equal(t, 9000, port)

	all.TimeLocation = "Nowhere/Land"
	assert.Error(t, settingService.UpdateAllSetting(all))

	require.NoError(t, settingService.ResetSettings())
	pageSize, err := settingService.GetPageSize()
	require.NoError(t, err)
	assert.Equal(t, 10, pageSize)
}

func TestSecretIsPersisted(t *testing.T) {
	resetDB(t)
	settingService := SettingService{}

	first, err := settingService.GetSecret()
	require.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := settingService.GetSecret()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSiteURLAndTrustedProxies(t *testing.T) {
	resetDB(t)
	settingService := SettingService{}

	siteURL, err := settingService.GetSiteURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", siteURL)

	require.NoError(t, settingService.SetSiteURL("https://yatube.example/"))
	siteURL, err = settingService.GetSiteURL()
	require.NoError(t, err)
	assert.Equal(t, "https://yatube.example", siteURL)
	assert.Error(t, settingService.SetSiteURL("evil.example"))

	proxies, err := settingService.GetTrustedProxies()
	require.NoError(t, err)
	assert.Nil(t, proxies)

	require.NoError(t, settingService.SetTrustedProxies("127.0.0.1, 10.0.0.0/8"))
	proxies, err = settingService.GetTrustedProxies()
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1", "10.0.0.0/8"}, proxies)
	assert.Error(t, settingService.SetTrustedProxies("not-a-proxy"))
}
