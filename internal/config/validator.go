package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the .env layout this build reads
const ExpectedEnvSchemaVersion = "1.0"

const envSchemaVersion = "ENV_SCHEMA_VERSION"

var (
	ErrEnvSchemaMissing  = errors.New(envSchemaVersion + " is not set")
	ErrEnvSchemaMismatch = errors.New(envSchemaVersion + " mismatch")
	ErrEnvMissing        = errors.New("missing required environment variables")
)

// RequiredEnvVars must be set for every store backend
var RequiredEnvVars = []string{
	envSchemaVersion,
	"JWT_SECRET",
	"STORE_BACKEND",
}

// backendEnvVars are additionally required by one store backend
var backendEnvVars = map[string][]string{
	StoreBackendSQLite:   {"SQLITE_PATH"},
	StoreBackendPostgres: {"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"},
	StoreBackendRedis:    {"REDIS_ADDR"},
}

// envWarning flags a setting that works but is probably a mistake
type envWarning struct {
	applies func() bool
	message string
}

var envWarnings = []envWarning{
	{
		applies: func() bool { return os.Getenv("JWT_SECRET") == "generate_with_openssl_rand_hex_32" },
		message: "JWT_SECRET appears to be using the example value - generate a secure key with: openssl rand -hex 32",
	},
	{
		applies: func() bool { return strings.EqualFold(os.Getenv("STORE_BACKEND"), StoreBackendMemory) },
		message: "STORE_BACKEND=memory keeps carts, wishlists and alerts only until the process exits",
	},
	{
		applies: func() bool { return os.Getenv("SUPPORT_API_URL") != "" && os.Getenv("SUPPORT_API_KEY") == "" },
		message: "SUPPORT_API_URL is set without SUPPORT_API_KEY - support requests will be unauthenticated",
	},
}

// ValidateEnv fails when the .env schema version is wrong or a variable the
// selected store backend needs is unset.
func ValidateEnv() error {
	switch v := os.Getenv(envSchemaVersion); v {
	case "":
		return fmt.Errorf("%w - please update your .env file (expected: %s)", ErrEnvSchemaMissing, ExpectedEnvSchemaVersion)
	case ExpectedEnvSchemaVersion:
	default:
		return fmt.Errorf("%w: expected %s, got %s - your .env file may be outdated", ErrEnvSchemaMismatch, ExpectedEnvSchemaVersion, v)
	}

	backend := strings.ToLower(os.Getenv("STORE_BACKEND"))
	var missing []string
	for _, group := range [][]string{RequiredEnvVars, backendEnvVars[backend]} {
		for _, name := range group {
			if os.Getenv(name) == "" {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvMissing, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and then lists settings that are
// valid but suspicious.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	for _, w := range envWarnings {
		if w.applies() {
			warnings = append(warnings, w.message)
		}
	}
	return warnings, nil
}
