package character

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadUserFile extends the catalog with characters defined in a YAML
// file. An entry whose id matches a built-in character overrides it,
// any other entry is appended. A missing file is not an error; the
// built-in catalog stays as-is.
func LoadUserFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read character file: %w", err)
	}

	var extra []Character
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("failed to parse character file %s: %w", path, err)
	}

	merged := make([]Character, len(builtin))
	copy(merged, builtin)

	for _, c := range extra {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("character entries need both id and name (got id=%q name=%q)", c.ID, c.Name)
		}
		replaced := false
		for i := range merged {
			if merged[i].ID == c.ID {
				merged[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, c)
		}
	}

	catalog = merged
	return nil
}
