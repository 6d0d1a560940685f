package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration, flags or environment.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Value.
	File string
	// Optional secrets resolve to an empty string instead of an error when
	// nothing is configured. A configured but unreadable file is still an error.
	Optional bool
}

// Load returns the resolved, trimmed secret value from the provided source.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	secret := strings.TrimSpace(src.Value)
	if secret != "" {
		return secret, nil
	}

	if file != "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	if src.Optional {
		return "", nil
	}

	return "", fmt.Errorf("%s is not configured", name)
}
