// Package envfile loads environment variables from .env files so SYNC_FILE
// and friends can live next to the board instead of in a shell profile.
// Variables already set in the environment take precedence.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads a .env file and sets any variables not already in the
// environment. It returns the keys it set. A missing file is not an error.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only

	var applied []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := parseLine(line)
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return applied, fmt.Errorf("setting %s from %s: %w", key, path, err)
		}
		applied = append(applied, key)
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return applied, nil
}

// LoadAll loads files in priority order; the first file to define a key
// wins. Read errors are collected, not fatal.
func LoadAll(paths ...string) ([]string, []error) {
	var applied []string
	var errs []error
	for _, path := range paths {
		if path == "" {
			continue
		}
		keys, err := Load(path)
		applied = append(applied, keys...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return applied, errs
}

// parseLine extracts KEY=VALUE. Quoted values keep everything between the
// quotes; unquoted values drop a trailing " #comment".
func parseLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	if key == "" {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return key, value[1 : len(value)-1], true
		}
	}
	if idx := strings.Index(value, " #"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return key, value, true
}
