package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"NewsCollector/internal/config"
	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
)

// CommandClassifier pipes the prompt into a local CLI (for example `claude --print`).
type CommandClassifier struct {
	path         string
	args         []string
	timeout      time.Duration
	systemPrompt string
}

var _ ports.Classifier = (*CommandClassifier)(nil)

// NewCommandClassifier builds a classifier from configuration.
func NewCommandClassifier(cfg config.CommandConfig, systemPrompt string) *CommandClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &CommandClassifier{
		path:         cfg.Path,
		args:         append([]string(nil), cfg.Args...),
		timeout:      timeout,
		systemPrompt: SystemPrompt(systemPrompt),
	}
}

// Classify runs the command once per batch with the full prompt on stdin.
func (c *CommandClassifier) Classify(ctx context.Context, batch []domain.ClassificationInput) ([]domain.Verdict, error) {
	if c.path == "" {
		return nil, fmt.Errorf("%w: classifier command is not configured", domain.ErrClassificationCall)
	}
	prompt, err := BuildUserPrompt(batch)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Stdin = strings.NewReader(c.systemPrompt + "\n\n" + prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return nil, fmt.Errorf("%w: run %s: %v: %s", domain.ErrClassificationCall, c.path, err, msg)
	}
	return ParseVerdicts(stdout.String())
}
