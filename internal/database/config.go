package database

import (
	"fmt"
	"strings"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string

	// PostgreSQL-specific configuration
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// URL overrides the discrete PostgreSQL fields when set
	URL string

	// SQLite-specific configuration
	Path string
}

// String returns a string representation with sensitive data masked
func (c DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}

// DSN builds a Data Source Name string based on the driver
func (c DatabaseConfig) DSN() string {
	switch strings.ToLower(c.Driver) {
	case "postgres", "postgresql":
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite", "":
		return c.sqliteDSN()
	default:
		return ""
	}
}

// sqliteFileParams make every transaction on a file database take the write
// lock at BEGIN and wait up to five seconds for it instead of failing with
// "database is locked"
var sqliteFileParams = []string{"_busy_timeout=5000", "_txlock=immediate", "_foreign_keys=on"}

// sqliteDSN appends sqliteFileParams to file paths, keeping values already set.
// In-memory databases run on a single connection and are left alone.
func (c DatabaseConfig) sqliteDSN() string {
	if c.Path == "" || c.InMemory() {
		return c.Path
	}

	dsn := c.Path
	for _, param := range sqliteFileParams {
		key := param[:strings.Index(param, "=")+1]
		if strings.Contains(dsn, key) {
			continue
		}
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + param
	}
	return dsn
}

// InMemory reports whether the configuration points at an in-memory SQLite database
func (c DatabaseConfig) InMemory() bool {
	driver := strings.ToLower(c.Driver)
	return (driver == "sqlite" || driver == "") && strings.Contains(c.Path, ":memory:")
}
