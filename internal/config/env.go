// Package config provides environment configuration helpers for deskbot.
// Values come from the process environment, optionally seeded from a
// .env file loaded at startup.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env file into the process
// environment. Missing files are not an error; an existing environment
// variable always wins over the file.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// String returns the value of the environment variable, or the default
// if it is unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Bool returns true when the variable is set to "true" (case-insensitive).
// Any other value, including unset, returns the default only when the
// variable is absent; a present non-"true" value returns false.
func Bool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// Int returns the integer value of the variable, or the default when
// unset or unparsable.
func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
