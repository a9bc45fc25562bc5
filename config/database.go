package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// SQLiteConfig holds the connection options of the SQLite database file.
type SQLiteConfig struct {
	Path        string `json:"path"`
	JournalMode string `json:"journalMode"`
	Synchronous string `json:"synchronous"`
	ForeignKeys bool   `json:"foreignKeys"`
	SharedCache bool   `json:"sharedCache"`
}

// GetDefaultSQLiteConfig returns the options used for the given database file.
func GetDefaultSQLiteConfig(path string) *SQLiteConfig {
	return &SQLiteConfig{
		Path:        path,
		JournalMode: "WAL",
		Synchronous: "NORMAL",
		ForeignKeys: true,
		SharedCache: true,
	}
}

// GetDSN returns the data source name understood by the sqlite driver.
// Foreign keys are enabled per connection so cascades hold for the whole pool.
func (c *SQLiteConfig) GetDSN() string {
	q := url.Values{}
	if c.SharedCache {
		q.Set("cache", "shared")
	}
	if c.JournalMode != "" {
		q.Set("_journal_mode", c.JournalMode)
	}
	if c.Synchronous != "" {
		q.Set("_synchronous", c.Synchronous)
	}
	if c.ForeignKeys {
		q.Set("_foreign_keys", "on")
	}
	if len(q) == 0 {
		return c.Path
	}
	return c.Path + "?" + q.Encode()
}

// ValidateConfig validates the database configuration
func (c *SQLiteConfig) ValidateConfig() error {
	if c.Path == "" {
		return fmt.Errorf("SQLite path cannot be empty")
	}
	switch c.JournalMode {
	case "", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		return fmt.Errorf("unsupported journal mode: %s", c.JournalMode)
	}
	return nil
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *SQLiteConfig) EnsureDirectoryExists() error {
	dir := filepath.Dir(c.Path)
	return os.MkdirAll(dir, 0o755)
}
