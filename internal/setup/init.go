// Package setup scaffolds a starter studyctl configuration.
package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hepfarm/studyctl/internal/model"
	"github.com/hepfarm/studyctl/templates"
)

// Run writes the commented starter config into dir. It refuses to
// overwrite an existing config.
func Run(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve dir: %w", err)
	}

	path := filepath.Join(absDir, model.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	content, err := templates.FS.ReadFile("config.yaml")
	if err != nil {
		return "", fmt.Errorf("read config template: %w", err)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", absDir, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
