package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// readQueryArg resolves the query positional argument. "-" reads the query
// from stdin so shells with awkward quoting can pipe it in.
func readQueryArg(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	q := strings.TrimSpace(string(data))
	if q == "" {
		return "", fmt.Errorf("empty query on stdin")
	}
	return q, nil
}
