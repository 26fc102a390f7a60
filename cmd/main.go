package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zonos-tts-mcp/internal/config"
	"zonos-tts-mcp/internal/mcpserver"
	"zonos-tts-mcp/internal/metrics"
	"zonos-tts-mcp/internal/migrations"
	"zonos-tts-mcp/internal/playback"
	"zonos-tts-mcp/internal/scheduler"
	"zonos-tts-mcp/internal/speech"
	"zonos-tts-mcp/internal/store"
	"zonos-tts-mcp/internal/tts"

	"go.uber.org/zap"
)

// Version задается при сборке через -ldflags
var Version = "1.0.0"

func main() {
	// Конфигурация нужна до логгера: из нее берутся уровень и файл логов
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("запуск Zonos TTS MCP сервера",
		zap.String("version", Version),
		zap.String("tts_url", cfg.TTS.BaseURL),
		zap.String("contract", cfg.TTS.Contract),
		zap.String("platform", cfg.Playback.Platform))

	// Инициализация метрик
	metricsSystem := metrics.New(logger)

	// Журнал включается только явно
	var journal speech.Journal
	var db store.Store
	if cfg.Database.JournalEnabled {
		if err := migrations.RunMigrations(cfg, logger); err != nil {
			logger.Fatal("ошибка применения миграций", zap.Error(err))
		}

		db, err = store.NewStore(cfg, logger)
		if err != nil {
			logger.Fatal("ошибка инициализации базы данных", zap.Error(err))
		}
		defer db.Close()

		journal = db.Journal()
		logger.Info("журнал озвучивания включен")
	}

	// Инициализация TTS сервиса
	ttsService, err := tts.NewTTSService(&tts.Config{
		BaseURL:  cfg.TTS.BaseURL,
		Contract: cfg.TTS.Contract,
		Timeout:  cfg.TTS.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("ошибка создания TTS сервиса", zap.Error(err))
	}

	dispatcher := playback.NewDispatcher(logger, playback.Platform(cfg.Playback.Platform), playback.ExecRunner{})

	speechService := speech.NewService(ttsService, dispatcher, cfg.Playback.Platform, journal, metricsSystem, cfg.Playback.TempDir, logger)

	server, err := mcpserver.New(speechService, Version, logger)
	if err != nil {
		logger.Fatal("ошибка создания MCP сервера", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("получен сигнал завершения", zap.String("signal", sig.String()))
		cancel()
	}()

	if cfg.App.MetricsPort > 0 {
		go startMetricsServer(ctx, cfg.App.MetricsPort, metrics.NewHandler(metricsSystem, logger), logger)
	}

	if cfg.Maintenance.SweepInterval > 0 {
		taskScheduler := scheduler.NewScheduler(logger)
		taskScheduler.AddJob(scheduler.NewTempSweepJob(cfg.Playback.TempDir, cfg.Maintenance.TempMaxAge, false, logger))
		if db != nil {
			taskScheduler.AddJob(scheduler.NewJournalRetentionJob(db.Journal(), cfg.Maintenance.JournalRetention, false, logger))
		}
		go taskScheduler.Start(ctx, cfg.Maintenance.SweepInterval)
	}

	logger.Info("MCP сервер готов к работе на stdio")

	if err := mcpserver.Run(ctx, server); err != nil && ctx.Err() == nil {
		logger.Error("MCP сервер завершился с ошибкой", zap.Error(err))
		return
	}

	logger.Info("приложение завершено")
}

// initLogger инициализирует логгер. stdout занят протоколом MCP,
// поэтому логи пишутся только в stderr и файл.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.App.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = cfg.App.GetLogLevel()
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	if cfg.App.LogFile != "" {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.App.LogFile)
		zapConfig.ErrorOutputPaths = append(zapConfig.ErrorOutputPaths, cfg.App.LogFile)
	}

	return zapConfig.Build()
}

// startMetricsServer запускает HTTP сервер для метрик
func startMetricsServer(ctx context.Context, port int, handler *metrics.Handler, logger *zap.Logger) {
	server := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           handler.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("HTTP сервер метрик запущен", zap.String("address", server.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ошибка HTTP сервера метрик", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке HTTP сервера метрик", zap.Error(err))
	}

	logger.Info("HTTP сервер метрик остановлен")
}
