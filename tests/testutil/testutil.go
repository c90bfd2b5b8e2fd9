package testutil

import (
	"os"
	"strings"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV=test, so suites that
// truncate tables never run against a development or production database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: tests must run with GO_ENV=test (current GO_ENV=%q)", env)
	}
}

// ExternalDatabaseURL returns TEST_DATABASE_URL or skips the test when it is unset.
// The URL must name a database whose name ends in "test".
func ExternalDatabaseURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if !looksLikeTestDatabase(url) {
		t.Fatalf("TEST_DATABASE_URL does not point at a test database: %s", MaskDatabaseURL(url))
	}
	return url
}

// MaskDatabaseURL hides credentials in a database URL for log output
func MaskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}

func looksLikeTestDatabase(url string) bool {
	name := url
	if i := strings.IndexAny(name, "?"); i != -1 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i != -1 {
		name = name[i+1:]
	}
	return strings.HasSuffix(name, "test")
}
