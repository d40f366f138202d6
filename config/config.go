package config

import "os"

// AppName doubles as the postgres schema name for all app tables.
const AppName = "fairshare"

// GetEnv returns the value of the environment variable or the fallback when
// it is unset.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
