package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"zonos-tts-mcp/internal/config"
	"zonos-tts-mcp/internal/emotion"
	"zonos-tts-mcp/internal/metrics"
	"zonos-tts-mcp/internal/playback"
	"zonos-tts-mcp/internal/speech"
	"zonos-tts-mcp/internal/tts"

	"go.uber.org/zap"
)

// Проверка доступности Zonos и, по желанию, пробное озвучивание
func main() {
	var (
		speak   = flag.Bool("speak", false, "Синтезировать и воспроизвести тестовую фразу")
		text    = flag.String("text", "Hello! This is a test of the Zonos text to speech service.", "Тестовая фраза")
		emo     = flag.String("emotion", string(emotion.Neutral), "Эмоция тестовой фразы")
		timeout = flag.Duration("timeout", 10*time.Second, "Таймаут проверки доступности")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	ttsService, err := tts.NewTTSService(&tts.Config{
		BaseURL:  cfg.TTS.BaseURL,
		Contract: cfg.TTS.Contract,
		Timeout:  cfg.TTS.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("Ошибка создания TTS сервиса", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	models, err := ttsService.Models(ctx)
	cancel()
	if err != nil {
		logger.Fatal("Zonos недоступен", zap.String("url", cfg.TTS.BaseURL), zap.Error(err))
	}
	fmt.Printf("Zonos доступен: %s\n%s\n", cfg.TTS.BaseURL, models)

	if !*speak {
		return
	}

	label, err := emotion.ParseLabel(*emo)
	if err != nil {
		logger.Fatal("Неверная эмоция", zap.Error(err))
	}

	dispatcher := playback.NewDispatcher(logger, playback.Platform(cfg.Playback.Platform), playback.ExecRunner{})
	speechService := speech.NewService(ttsService, dispatcher, cfg.Playback.Platform, nil, metrics.New(logger), cfg.Playback.TempDir, logger)

	result, err := speechService.Speak(context.Background(), speech.Request{
		Text:    *text,
		Emotion: label,
	})
	if err != nil {
		logger.Error("Пробное озвучивание не удалось", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(result)
}
