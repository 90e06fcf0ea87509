package workflow

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EditMessage opens the user's editor on a temporary file seeded with the
// candidate text and returns the trimmed result after the editor exits.
// The temporary file is removed on every exit path, including an editor
// crash.
func EditMessage(seed string) (string, error) {
	tmp, err := os.CreateTemp("", "gyst-commit-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(seed + "\n"); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seeding temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s: %w", editor, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited message: %w", err)
	}
	return strings.TrimSpace(string(edited)), nil
}
