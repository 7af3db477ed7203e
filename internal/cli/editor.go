package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// openEditorFunc is a function variable for opening the editor, allowing it to be mocked in tests.
var openEditorFunc = openEditor

// getEditor returns the user's preferred editor from environment variables.
// It checks EDITOR, then VISUAL, and defaults to vim if neither is set.
func getEditor() string {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vim"
	}
	return editor
}

// openEditor opens the specified file in the user's editor.
// It returns an error if the editor cannot be started or exits with a non-zero status.
func openEditor(filePath string) error {
	editor := getEditor()

	cmd := exec.Command(editor, filePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}

	return nil
}

// editTaskWithEditor round-trips the task's title and description through
// a markdown file opened in the user's editor.
func editTaskWithEditor(ctx context.Context, c *app.Container, taskID string) (string, string, error) {
	out, err := c.GetTaskUseCase().Execute(ctx, usecase.GetTaskInput{TaskID: taskID})
	if err != nil {
		return "", "", err
	}

	f, err := os.CreateTemp("", "kanban-task-*.md")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	_, werr := f.WriteString(formatTaskMarkdown(out.Task.Title, out.Task.Description))
	cerr := f.Close()
	if werr != nil {
		return "", "", fmt.Errorf("write temp file: %w", werr)
	}
	if cerr != nil {
		return "", "", fmt.Errorf("close temp file: %w", cerr)
	}

	if err := openEditorFunc(path); err != nil {
		return "", "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read temp file: %w", err)
	}
	return parseTaskMarkdown(string(content))
}

func formatTaskMarkdown(title, description string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n")
	}
	return b.String()
}

// parseTaskMarkdown splits an edited file into title and description.
func parseTaskMarkdown(content string) (string, string, error) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "# ") {
			break
		}
		title := strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		description := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		return title, description, nil
	}
	return "", "", fmt.Errorf("%w: the file must start with a \"# <title>\" heading", domain.ErrInvalidArguments)
}
