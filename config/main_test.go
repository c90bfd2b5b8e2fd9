package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain pins GO_ENV=test so Load never reads .env.development or .env.production
// of a real pedidos deployment while the config tests run.
func TestMain(m *testing.M) {
	switch env := os.Getenv("GO_ENV"); env {
	case "":
		if err := os.Setenv("GO_ENV", "test"); err != nil {
			fmt.Fprintf(os.Stderr, "pedidos-api config tests: cannot set GO_ENV=test: %v\n", err)
			os.Exit(1)
		}
	case "test":
	default:
		fmt.Fprintf(os.Stderr,
			"pedidos-api config tests refuse to run with GO_ENV=%q: Load would pick up .env.%s.\n"+
				"Run them with GO_ENV=test (or unset).\n", env, env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
