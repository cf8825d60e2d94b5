package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// loadDotEnv exports KEY=VALUE lines of path into the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		text = strings.TrimPrefix(text, "export ")

		parts := strings.SplitN(text, "=", DotEnvKVParts)
		if len(parts) != DotEnvKVParts || strings.TrimSpace(parts[0]) == "" {
			return fmt.Errorf("%w: line %d", ErrInvalidDotEnvFileFormat, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	return scanner.Err()
}
