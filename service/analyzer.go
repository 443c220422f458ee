package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ast3wart/clutchcam-api/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Analyzer orchestrates asynchronous analysis jobs. The job table lives in
// memory for the analyzer's lifetime; jobs are created on start, updated only
// by their own background task and cleared by process restart. There is no
// retry at this layer, callers re-issue StartAnalysis instead.
type Analyzer struct {
	store  *Store
	runner ToolRunner
	script string

	mu   sync.RWMutex
	jobs map[string]*model.Job
}

func NewAnalyzer(store *Store, runner ToolRunner, script string) *Analyzer {
	return &Analyzer{
		store:  store,
		runner: runner,
		script: script,
		jobs:   make(map[string]*model.Job),
	}
}

// StartAnalysis registers a processing job for the asset and kicks off the
// analysis in the background. Returns as soon as the job is registered so the
// caller's request cycle never blocks on the tool.
func (a *Analyzer) StartAnalysis(assetID string) (string, error) {
	mediaPath, err := a.store.ResolveMediaPath(assetID)
	if err != nil {
		return "", err
	}

	jobID := uuid.NewString()

	a.mu.Lock()
	a.jobs[jobID] = &model.Job{
		ID:         jobID,
		AssetID:    assetID,
		Status:     model.JobProcessing,
		Progress:   0,
		Highlights: []model.Highlight{},
		StartedAt:  time.Now().UTC(),
	}
	a.mu.Unlock()

	zap.L().Debug("Analysis job started",
		zap.String("jobID", jobID),
		zap.String("assetID", assetID))

	go a.run(jobID, assetID, mediaPath)

	return jobID, nil
}

// Status returns a copy of the job record. Pure read.
func (a *Analyzer) Status(jobID string) (model.Job, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	job, ok := a.jobs[jobID]
	if !ok {
		return model.Job{}, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	return *job, nil
}

func (a *Analyzer) run(jobID, assetID, mediaPath string) {
	// Coarse midpoint signal so pollers see movement before completion
	a.setProgress(jobID, 30)

	result, err := a.runner.Run(context.Background(), a.script,
		"--video", mediaPath,
		"--output", "json",
	)
	if err != nil {
		zap.L().Error("Analysis tool failed",
			zap.String("jobID", jobID),
			zap.String("assetID", assetID),
			zap.Error(err))

		a.fail(jobID, err.Error())
		return
	}

	highlights, err := result.Highlights()
	if err != nil {
		zap.L().Error("Analysis tool returned an unexpected result shape",
			zap.String("jobID", jobID),
			zap.Error(err))

		a.fail(jobID, err.Error())
		return
	}

	_, err = a.store.Update(assetID, func(asset *model.Asset) {
		now := time.Now().UTC()
		asset.Status = model.AssetAnalyzed
		asset.Highlights = highlights
		asset.AnalyzedAt = &now
	})
	if err != nil {
		zap.L().Error("Failed to save analysis results",
			zap.String("jobID", jobID),
			zap.String("assetID", assetID),
			zap.Error(err))

		a.fail(jobID, "failed to save analysis results")
		return
	}

	a.complete(jobID, highlights)

	zap.L().Debug("Analysis job finished",
		zap.String("jobID", jobID),
		zap.Int("highlights", len(highlights)))
}

func (a *Analyzer) setProgress(jobID string, progress int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if job, ok := a.jobs[jobID]; ok && job.Status == model.JobProcessing && progress > job.Progress {
		job.Progress = progress
	}
}

func (a *Analyzer) complete(jobID string, highlights []model.Highlight) {
	a.mu.Lock()
	defer a.mu.Unlock()

	job, ok := a.jobs[jobID]
	if !ok || job.Status != model.JobProcessing {
		return
	}

	now := time.Now().UTC()
	job.Status = model.JobComplete
	job.Progress = 100
	job.Highlights = highlights
	job.CompletedAt = &now
}

func (a *Analyzer) fail(jobID, msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	job, ok := a.jobs[jobID]
	if !ok || job.Status != model.JobProcessing {
		return
	}

	now := time.Now().UTC()
	job.Status = model.JobFailed
	job.Error = msg
	job.FailedAt = &now
}
