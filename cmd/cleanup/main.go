package main

import (
	"context"
	"flag"
	"log"
	"time"

	"zonos-tts-mcp/internal/config"
	"zonos-tts-mcp/internal/scheduler"
	"zonos-tts-mcp/internal/store"

	"go.uber.org/zap"
)

func main() {
	var (
		olderThan   = flag.Int("older-than", 0, "Возраст временных аудиофайлов в минутах (0 = TEMP_MAX_AGE_MINUTES)")
		journalDays = flag.Int("journal-days", 0, "Срок хранения журнала в днях (0 = JOURNAL_RETENTION_DAYS)")
		dryRun      = flag.Bool("dry-run", false, "Показать что будет удалено без фактического удаления")
	)
	flag.Parse()

	// stdout не используется, логи идут в stderr как у сервера
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	maxAge := cfg.Maintenance.TempMaxAge
	if *olderThan > 0 {
		maxAge = time.Duration(*olderThan) * time.Minute
	}
	retention := cfg.Maintenance.JournalRetention
	if *journalDays > 0 {
		retention = time.Duration(*journalDays) * 24 * time.Hour
	}

	jobs := scheduler.NewScheduler(logger)
	jobs.AddJob(scheduler.NewTempSweepJob(cfg.Playback.TempDir, maxAge, *dryRun, logger))

	if cfg.Database.JournalEnabled {
		db, err := store.NewStore(cfg, logger)
		if err != nil {
			logger.Fatal("Ошибка подключения к базе данных", zap.Error(err))
		}
		defer db.Close()

		jobs.AddJob(scheduler.NewJournalRetentionJob(db.Journal(), retention, *dryRun, logger))
	}

	if failed := jobs.RunOnce(context.Background()); failed > 0 {
		logger.Error("Очистка завершена с ошибками", zap.Int("failed_jobs", failed))
		return
	}

	logger.Info("Очистка завершена успешно",
		zap.Bool("dry_run", *dryRun),
		zap.Duration("temp_max_age", maxAge),
		zap.Bool("journal", cfg.Database.JournalEnabled))
}
