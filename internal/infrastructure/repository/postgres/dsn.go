package postgres

import (
	"net/url"
	"strings"
)

// pgx-only option; lib/pq forwards unknown keys to the server as runtime parameters.
const pgxBinaryResultParam = "disable_prepared_binary_result"

// NormalizeDSN prepares a URL-style DSN for lib/pq. With unnamedStatements set it asks
// the driver for binary_parameters, which sends one-shot unnamed statements and keeps
// connection poolers in transaction mode working. Key/value DSNs pass through unchanged.
func NormalizeDSN(raw string, unnamedStatements bool) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	query.Del(pgxBinaryResultParam)
	if unnamedStatements && query.Get("binary_parameters") == "" {
		query.Set("binary_parameters", "yes")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// DatabaseName extracts the database name from either DSN style.
func DatabaseName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.Trim(strings.TrimSpace(strings.TrimPrefix(token, "dbname=")), `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
