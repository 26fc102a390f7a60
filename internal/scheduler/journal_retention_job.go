package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JournalPruner удаляет старые записи журнала
type JournalPruner interface {
	CountOlderThan(ctx context.Context, before time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// JournalRetentionJob удаляет записи журнала старше срока хранения
type JournalRetentionJob struct {
	journal   JournalPruner
	retention time.Duration
	dryRun    bool
	logger    *zap.Logger
}

// NewJournalRetentionJob создает задачу очистки журнала
func NewJournalRetentionJob(journal JournalPruner, retention time.Duration, dryRun bool, logger *zap.Logger) *JournalRetentionJob {
	return &JournalRetentionJob{
		journal:   journal,
		retention: retention,
		dryRun:    dryRun,
		logger:    logger,
	}
}

// Name возвращает имя задачи
func (j *JournalRetentionJob) Name() string {
	return "journal_retention"
}

// Run удаляет устаревшие записи
func (j *JournalRetentionJob) Run(ctx context.Context) error {
	before := time.Now().Add(-j.retention)

	if j.dryRun {
		count, err := j.journal.CountOlderThan(ctx, before)
		if err != nil {
			return fmt.Errorf("ошибка подсчета записей журнала: %w", err)
		}
		j.logger.Info("DRY RUN: будет удалено записей журнала",
			zap.Time("before", before),
			zap.Int64("to_delete", count))
		return nil
	}

	deleted, err := j.journal.DeleteOlderThan(ctx, before)
	if err != nil {
		return fmt.Errorf("ошибка очистки журнала: %w", err)
	}

	j.logger.Info("журнал очищен",
		zap.Time("before", before),
		zap.Int64("deleted", deleted))
	return nil
}
