package storage

import (
	"net/url"
	"strings"

	"github.com/focusfortress/fortress/internal/storage/postgres"
	"github.com/focusfortress/fortress/internal/storage/rest"
	"github.com/focusfortress/fortress/internal/storage/sqlite"
)

// NewSQLiteStore creates a sqlite-backed Provider at the given file path.
func NewSQLiteStore(path string) Provider {
	return sqlite.NewStore(path)
}

// NewPostgresStore creates a Provider backed by a shared PostgreSQL server.
func NewPostgresStore(connStr string) Provider {
	return postgres.NewStore(connStr)
}

// NewRESTStore creates a Provider backed by a remote fortress API server.
func NewRESTStore(baseURL, token string) Provider {
	return rest.NewClient(baseURL, token)
}

// Select picks a backend from a single config string: postgres:// and
// postgresql:// select PostgreSQL, http:// and https:// select the remote
// REST API, anything else is treated as a sqlite file path.
func Select(config, token string) Provider {
	switch {
	case strings.HasPrefix(config, "postgres://"), strings.HasPrefix(config, "postgresql://"):
		return NewPostgresStore(config)
	case strings.HasPrefix(config, "http://"), strings.HasPrefix(config, "https://"):
		return NewRESTStore(config, token)
	default:
		return NewSQLiteStore(config)
	}
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password. Embedded credentials are rejected; use the OS
// keyring or environment instead.
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if u.User != nil {
			if _, set := u.User.Password(); set {
				return true
			}
		}
		return false
	}
	// DSN format: space-separated key=value pairs
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}
