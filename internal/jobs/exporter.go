package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"interview-alchemist/internal/feedback"
	"interview-alchemist/internal/models"
)

const exportTimeout = 5 * time.Minute

type ExporterConfig struct {
	Schedule      string // cron expression, e.g. "0 2 * * *"
	ExportDir     string
	ExportEnabled bool
}

// FeedbackExporter periodically writes positively rated evaluations to JSONL files
type FeedbackExporter struct {
	manager *feedback.Manager
	config  ExporterConfig
	cron    *cron.Cron
	logger  *zap.Logger
	now     func() time.Time
}

func NewFeedbackExporter(manager *feedback.Manager, config ExporterConfig, logger *zap.Logger) *FeedbackExporter {
	return &FeedbackExporter{
		manager: manager,
		config:  config,
		cron:    cron.New(),
		logger:  logger,
		now:     time.Now,
	}
}

func (e *FeedbackExporter) Start() error {
	if !e.config.ExportEnabled {
		e.logger.Info("feedback export disabled")
		return nil
	}

	_, err := e.cron.AddFunc(e.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		if _, err := e.RunExport(ctx); err != nil {
			e.logger.Error("feedback export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule feedback export: %w", err)
	}

	e.cron.Start()
	e.logger.Info("feedback exporter started", zap.String("schedule", e.config.Schedule))
	return nil
}

// Stop waits for a running export to finish
func (e *FeedbackExporter) Stop() {
	<-e.cron.Stop().Done()
	e.logger.Info("feedback exporter stopped")
}

// RunExport writes every unexported positive rating to a new file and marks
// all unexported rows as exported. The path is empty when nothing was written.
func (e *FeedbackExporter) RunExport(ctx context.Context) (string, error) {
	rows, err := e.manager.GetUnexportedFeedback(ctx, 0)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		e.logger.Info("no unexported feedback")
		return "", nil
	}

	path := ""
	if positive := countPositive(rows); positive > 0 {
		data, err := e.manager.ExportToJSONL(rows)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(e.config.ExportDir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
		name := fmt.Sprintf("feedback_export_%s.jsonl", e.now().Format("20060102_150405"))
		path = filepath.Join(e.config.ExportDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write export file: %w", err)
		}
		e.logger.Info("feedback exported", zap.String("path", path), zap.Int("examples", positive))
	}

	ids := make([]uint, len(rows))
	for i, fb := range rows {
		ids[i] = fb.ID
	}
	if err := e.manager.MarkAsExported(ctx, ids); err != nil {
		return path, err
	}
	return path, nil
}

func countPositive(rows []models.AIFeedback) int {
	n := 0
	for _, fb := range rows {
		if fb.IsPositive {
			n++
		}
	}
	return n
}
