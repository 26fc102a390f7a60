package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zonos-tts-mcp/internal/speech"
)

// TempSweepJob удаляет временные аудио файлы, оставшиеся после аварийного завершения
type TempSweepJob struct {
	dir    string
	maxAge time.Duration
	dryRun bool
	logger *zap.Logger
}

// NewTempSweepJob создает задачу очистки временной директории
func NewTempSweepJob(dir string, maxAge time.Duration, dryRun bool, logger *zap.Logger) *TempSweepJob {
	return &TempSweepJob{
		dir:    dir,
		maxAge: maxAge,
		dryRun: dryRun,
		logger: logger,
	}
}

// Name возвращает имя задачи
func (j *TempSweepJob) Name() string {
	return "temp_sweep"
}

// Run удаляет файлы tts_output_*.wav старше maxAge
func (j *TempSweepJob) Run(ctx context.Context) error {
	removed, err := speech.SweepOrphans(j.dir, j.maxAge, time.Now(), j.dryRun)
	if err != nil {
		return err
	}

	if len(removed) > 0 {
		j.logger.Info("удалены забытые временные файлы",
			zap.String("dir", j.dir),
			zap.Strings("files", removed),
			zap.Bool("dry_run", j.dryRun))
	}
	return nil
}
