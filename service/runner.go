package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"ast3wart/clutchcam-api/model"

	"go.uber.org/zap"
)

// ToolResult is the structured document an external tool emits on stdout.
// Fields stay raw until a caller decodes the ones it cares about.
type ToolResult map[string]json.RawMessage

// Highlights decodes the highlights field of an analyzer result. A missing
// field means the tool found nothing and is not an error; a field that isn't
// a highlight array is a schema mismatch and is.
func (r ToolResult) Highlights() ([]model.Highlight, error) {
	raw, ok := r["highlights"]
	if !ok {
		return []model.Highlight{}, nil
	}

	var hs []model.Highlight
	if err := json.Unmarshal(raw, &hs); err != nil {
		return nil, fmt.Errorf("tool output has a malformed highlights field, %w", err)
	}

	if hs == nil {
		hs = []model.Highlight{}
	}

	return hs, nil
}

// ToolRunner is the execution contract for external analysis/trim tools.
// The orchestrator and trimmer depend on this so tests can stub the
// subprocess away.
type ToolRunner interface {
	Run(ctx context.Context, script string, args ...string) (ToolResult, error)
}

// Runner invokes Python tools as child processes. No timeout, no sandboxing
// and no output size cap are enforced at this layer; once started a tool runs
// until it exits on its own.
type Runner struct {
	python    string
	scriptDir string
}

// NewRunner resolves the Python binary and returns a runner rooted at the
// configured script directory.
func NewRunner(pythonPath, scriptDir string) (*Runner, error) {
	python, err := resolvePython(pythonPath)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("Tool runner initialized",
		zap.String("python", python),
		zap.String("script_dir", scriptDir))

	return &Runner{python: python, scriptDir: scriptDir}, nil
}

// Run spawns <python> <scriptDir>/<script> <args...> with no stdin and
// accumulates both output streams. A non-zero exit becomes a ToolError
// carrying the captured stderr. On a zero exit stdout is parsed as a single
// JSON document; if it isn't one, the raw trimmed output is returned under an
// "output" field instead of failing, leaving the interpretation to the caller.
func (r *Runner) Run(ctx context.Context, script string, args ...string) (ToolResult, error) {
	scriptPath := filepath.Join(r.scriptDir, script)
	cmd := exec.CommandContext(ctx, r.python, append([]string{scriptPath}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	zap.L().Debug("Running tool", zap.String("cmd", cmd.String()))

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, &ToolError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, &SpawnError{Tool: script, Err: err}
	}

	if s := stderr.String(); s != "" {
		zap.L().Debug("Tool stderr output", zap.String("script", script), zap.String("stderr", truncate(s, 512)))
	}

	var result ToolResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		raw, _ := json.Marshal(strings.TrimSpace(stdout.String()))
		return ToolResult{"output": raw}, nil
	}

	return result, nil
}

func resolvePython(preferred string) (string, error) {
	if preferred != "" {
		p, err := exec.LookPath(preferred)
		if err != nil {
			return "", fmt.Errorf("configured python %q not found, %w", preferred, err)
		}
		return p, nil
	}

	for _, name := range []string{"python3", "python"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no python binary found on PATH (tried python3, python)")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
