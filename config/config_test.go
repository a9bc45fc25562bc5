package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogLevel(t *testing.T) {
	t.Setenv("YATUBE_DEBUG", "")
	t.Setenv("YATUBE_LOG_LEVEL", "")
	assert.Equal(t, Info, GetLogLevel())

	t.Setenv("YATUBE_LOG_LEVEL", "warn")
	assert.Equal(t, Warn, GetLogLevel())

	t.Setenv("YATUBE_DEBUG", "true")
	assert.Equal(t, Debug, GetLogLevel())
}

func TestGetDBPath(t *testing.T) {
	t.Setenv("YATUBE_DB_FOLDER", "/tmp/yatube-test")
	assert.Equal(t, "/tmp/yatube-test/yatube.db", GetDBPath())
}

func TestSQLiteDSN(t *testing.T) {
	c := GetDefaultSQLiteConfig("/tmp/yatube.db")
	dsn := c.GetDSN()
	assert.True(t, strings.HasPrefix(dsn, "/tmp/yatube.db?"))
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "cache=shared")

	bare := &SQLiteConfig{Path: "a.db"}
	assert.Equal(t, "a.db", bare.GetDSN())
}

func TestSQLiteValidateConfig(t *testing.T) {
	assert.Error(t, (&SQLiteConfig{}).ValidateConfig())
	assert.Error(t, (&SQLiteConfig{Path: "a.db", JournalMode: "bogus"}).ValidateConfig())
	assert.NoError(t, GetDefaultSQLiteConfig("a.db").ValidateConfig())
}
