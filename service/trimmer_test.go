package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writingRunner fakes the trim tool: it writes data to the --output path and
// optionally fails afterwards, leaving a partial file behind.
type writingRunner struct {
	data []byte
	err  error

	gotArgs []string
}

func (w *writingRunner) Run(ctx context.Context, script string, args ...string) (ToolResult, error) {
	w.gotArgs = args

	for i, arg := range args {
		if arg == "--output" && i+1 < len(args) {
			os.WriteFile(args[i+1], w.data, 0o644)
			break
		}
	}

	if w.err != nil {
		return nil, w.err
	}
	return ToolResult{}, nil
}

func newTestTrimmer(t *testing.T, store *Store, runner ToolRunner) *Trimmer {
	t.Helper()

	tr, err := NewTrimmer(store, runner, "video_trimmer.py", t.TempDir())
	if err != nil {
		t.Fatalf("NewTrimmer() error: %v", err)
	}
	return tr
}

func TestTrimmer_ProducesDescriptor(t *testing.T) {
	store := newTestStore(t)
	asset := createAsset(t, store)

	runner := &writingRunner{data: []byte("trimmed-bytes")}
	tr := newTestTrimmer(t, store, runner)

	result, err := tr.Trim(context.Background(), asset.ID, 5, 15, "my clip!")
	if err != nil {
		t.Fatalf("Trim() error: %v", err)
	}

	if result.ID == asset.ID {
		t.Error("output id must differ from the source asset id")
	}
	if !strings.Contains(result.Filename, "my_clip_") {
		t.Errorf("Filename = %s, want sanitized name hint", result.Filename)
	}
	if !strings.HasSuffix(result.Filename, ".mp4") {
		t.Errorf("Filename = %s, want source extension kept", result.Filename)
	}
	if result.Size != int64(len(runner.data)) {
		t.Errorf("Size = %d, want %d", result.Size, len(runner.data))
	}
	if result.Path != "/api/outputs/"+result.Filename {
		t.Errorf("Path = %s, want download path", result.Path)
	}
	if result.TrimmedFrom.AssetID != asset.ID || result.TrimmedFrom.StartTime != 5 || result.TrimmedFrom.EndTime != 15 {
		t.Errorf("TrimmedFrom = %+v, want source asset and bounds", result.TrimmedFrom)
	}

	// The tool got the source path and the bounds in order
	args := strings.Join(runner.gotArgs, " ")
	if !strings.Contains(args, "--input ") || !strings.Contains(args, "--start 5") || !strings.Contains(args, "--end 15") {
		t.Errorf("tool args = %v, want input/start/end flags", runner.gotArgs)
	}

	// Output file exists where the descriptor points
	if _, err := os.Stat(filepath.Join(tr.OutputDir(), result.Filename)); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestTrimmer_DefaultOutputName(t *testing.T) {
	store := newTestStore(t)
	asset := createAsset(t, store)

	tr := newTestTrimmer(t, store, &writingRunner{data: []byte("x")})

	result, err := tr.Trim(context.Background(), asset.ID, 0, 1, "")
	if err != nil {
		t.Fatalf("Trim() error: %v", err)
	}
	if !strings.Contains(result.Filename, "_trimmed") {
		t.Errorf("Filename = %s, want default trimmed name", result.Filename)
	}
}

func TestTrimmer_UnknownAsset(t *testing.T) {
	store := newTestStore(t)
	tr := newTestTrimmer(t, store, &writingRunner{})

	if _, err := tr.Trim(context.Background(), "missing", 0, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Trim() error = %v, want ErrNotFound", err)
	}
}

func TestTrimmer_ToolFailureCleansUp(t *testing.T) {
	store := newTestStore(t)
	asset := createAsset(t, store)

	runner := &writingRunner{
		data: []byte("partial"),
		err:  &ToolError{ExitCode: 1, Stderr: "cannot seek to start time"},
	}
	tr := newTestTrimmer(t, store, runner)

	_, err := tr.Trim(context.Background(), asset.ID, 5, 15, "clip")

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Trim() error = %v, want *ToolError", err)
	}

	// The partial output was swept away
	entries, readErr := os.ReadDir(tr.OutputDir())
	if readErr != nil {
		t.Fatalf("read output dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d leftover files after failed trim", len(entries))
	}
}
