package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL joins a base server URL with the engine's database
// name, keeping any query parameters the base already carries. Local and
// test deployments rarely terminate TLS, so sslmode=disable is appended
// unless the URL says otherwise.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	// No database name configured: connect to whatever the URL names
	if databaseName == "" {
		return baseURL
	}

	baseURL = strings.TrimRight(baseURL, "/")

	var databaseURL string
	if base, query, found := strings.Cut(baseURL, "?"); found {
		databaseURL = fmt.Sprintf("%s/%s?%s", base, databaseName, query)
	} else {
		databaseURL = fmt.Sprintf("%s/%s", base, databaseName)
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "&"
		if !strings.Contains(databaseURL, "?") {
			separator = "?"
		}
		databaseURL = fmt.Sprintf("%s%ssslmode=disable", databaseURL, separator)
	}

	return databaseURL
}
