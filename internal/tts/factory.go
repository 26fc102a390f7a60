package tts

import (
	"time"

	"go.uber.org/zap"
)

// Config содержит настройки сервиса синтеза
type Config struct {
	BaseURL  string
	Contract string
	Timeout  time.Duration
}

// NewTTSService создает TTS сервис на основе конфигурации
func NewTTSService(cfg *Config, logger *zap.Logger) (*ZonosService, error) {
	contract, err := ParseContract(cfg.Contract)
	if err != nil {
		return nil, err
	}
	return NewZonosService(logger, cfg.BaseURL, contract, cfg.Timeout), nil
}
