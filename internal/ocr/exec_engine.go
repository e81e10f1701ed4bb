package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

type execEngine struct {
	cmd      []string
	language string
}

// NewExecEngine builds an Engine that shells out to a tesseract-compatible
// command. The command string may carry extra arguments ("tesseract --dpi
// 300"); the image path, a stdout sink and the language flag are appended
// per invocation.
func NewExecEngine(command, language string) (Engine, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse ocr command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("ocr command is empty")
	}
	return &execEngine{cmd: args, language: language}, nil
}

func (e *execEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	args := append([]string{}, e.cmd...)
	base := args[0]
	cmdArgs := append(args[1:], imagePath, "stdout")
	if e.language != "" {
		cmdArgs = append(cmdArgs, "-l", e.language)
	}

	command := exec.CommandContext(ctx, base, cmdArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("ocr command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
