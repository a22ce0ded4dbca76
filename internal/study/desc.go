package study

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// writeDescription writes the study's free-text desc file. With an
// explicit message the file is written directly; otherwise the user's
// editor is opened on it.
func writeDescription(path, message string) error {
	if message != "" {
		content := strings.TrimRight(message, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write desc: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, nil, 0644); err != nil {
		return fmt.Errorf("write desc: %w", err)
	}
	return launchEditor(path)
}

func launchEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", editor, err)
	}
	return nil
}
