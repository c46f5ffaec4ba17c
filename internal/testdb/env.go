package testdb

import (
	"log/slog"
	"os"

	"github.com/phrazzld/scry-drill/internal/redact"
)

// Database connection environment variables, in order of preference.
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvTestDBURL     = "DRILL_TEST_DB_URL"
	EnvStoreDSN      = "DRILL_STORE_DSN"
	envCI            = "CI"
	envGitHubActions = "GITHUB_ACTIONS"
)

var databaseURLVars = []string{EnvDatabaseURL, EnvTestDBURL, EnvStoreDSN}

// IsCI returns true if the current environment is a CI environment.
func IsCI() bool {
	return os.Getenv(envCI) != "" || os.Getenv(envGitHubActions) != ""
}

// GetTestDatabaseURL returns the first database URL set in the environment,
// or "" when none is.
func GetTestDatabaseURL() string {
	for i, name := range databaseURLVars {
		if val := os.Getenv(name); val != "" {
			if i > 0 {
				slog.Default().Debug("using fallback database variable",
					slog.String("used_var", name),
					slog.String("preferred_var", databaseURLVars[0]),
					slog.String("value", redact.String(val)))
			}
			return val
		}
	}
	return ""
}

// ShouldSkipDatabaseTest returns true when no database URL is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}
