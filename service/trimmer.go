package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// TrimResult describes a trimmed output file. Outputs aren't registered as
// full assets; they live in the outputs directory and are addressed by
// filename through the download path.
type TrimResult struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	Path        string     `json:"path"`
	DownloadURL string     `json:"downloadUrl"`
	Size        int64      `json:"size"`
	TrimmedFrom TrimSource `json:"trimmedFrom"`
}

type TrimSource struct {
	AssetID   string  `json:"assetId"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// Trimmer produces sub-clips of stored assets by invoking the external trim
// tool synchronously.
type Trimmer struct {
	store     *Store
	runner    ToolRunner
	script    string
	outputDir string
}

func NewTrimmer(store *Store, runner ToolRunner, script, outputDir string) (*Trimmer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create outputs directory, %w", err)
	}

	return &Trimmer{
		store:     store,
		runner:    runner,
		script:    script,
		outputDir: outputDir,
	}, nil
}

// OutputDir returns the directory trimmed clips are written to.
func (t *Trimmer) OutputDir() string {
	return t.outputDir
}

// Trim cuts [start,end] seconds out of the source asset into a new output
// file named after a fresh id plus the sanitized name hint. On tool failure
// nothing is registered and any partial output file is removed best-effort.
// Start/end ordering is deliberately not checked here; the tool reports its
// own failures.
func (t *Trimmer) Trim(ctx context.Context, assetID string, start, end float64, outputName string) (*TrimResult, error) {
	srcPath, err := t.store.ResolveMediaPath(assetID)
	if err != nil {
		return nil, err
	}

	if outputName == "" {
		outputName = "trimmed"
	}
	safeName := unsafeNameChars.ReplaceAllString(outputName, "_")

	outputID := uuid.NewString()
	filename := outputID + "_" + safeName + filepath.Ext(srcPath)
	outputPath := filepath.Join(t.outputDir, filename)

	_, err = t.runner.Run(ctx, t.script,
		"--input", srcPath,
		"--output", outputPath,
		"--start", strconv.FormatFloat(start, 'f', -1, 64),
		"--end", strconv.FormatFloat(end, 'f', -1, 64),
	)
	if err != nil {
		if rmErr := os.Remove(outputPath); rmErr == nil {
			zap.L().Debug("Removed partial trim output", zap.String("file", filename))
		}
		return nil, err
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("trim tool reported success but produced no readable output, %w", err)
	}

	zap.L().Debug("Trim finished",
		zap.String("assetID", assetID),
		zap.String("output", filename),
		zap.Int64("size", stat.Size()))

	return &TrimResult{
		ID:          outputID,
		Filename:    filename,
		Path:        "/api/outputs/" + filename,
		DownloadURL: "/api/outputs/" + filename,
		Size:        stat.Size(),
		TrimmedFrom: TrimSource{
			AssetID:   assetID,
			StartTime: start,
			EndTime:   end,
		},
	}, nil
}
