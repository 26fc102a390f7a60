package tts

import (
	"context"

	"zonos-tts-mcp/internal/emotion"
)

// DefaultLanguage используется, если язык не указан
const DefaultLanguage = "en-us"

// ModelID модель Zonos, которую ожидает сервис синтеза
const ModelID = "Zyphra/Zonos-v0.1-transformer"

// Request представляет готовый запрос к сервису синтеза
type Request struct {
	Path string
	Body any
}

// TTSService представляет интерфейс для Text-to-Speech сервиса
type TTSService interface {
	// BuildRequest собирает тело запроса с фиксированными параметрами синтеза
	BuildRequest(text, language string, v emotion.Vector) Request

	// Synthesize выполняет запрос и возвращает аудио
	Synthesize(ctx context.Context, req Request) ([]byte, error)

	// Contract возвращает используемый контракт сервиса
	Contract() Contract
}
