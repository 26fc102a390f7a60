package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"zonos-tts-mcp/internal/emotion"
)

// ZonosService предоставляет функциональность Text-to-Speech через Zonos API
type ZonosService struct {
	logger   *zap.Logger
	baseURL  string
	contract Contract
	client   *http.Client
}

// NewZonosService создает новый Zonos TTS сервис.
// timeout == 0 означает ожидание без ограничения.
func NewZonosService(logger *zap.Logger, baseURL string, contract Contract, timeout time.Duration) *ZonosService {
	return &ZonosService{
		logger:   logger,
		baseURL:  strings.TrimRight(baseURL, "/"),
		contract: contract,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Contract возвращает используемый контракт
func (s *ZonosService) Contract() Contract {
	return s.contract
}

// BuildRequest собирает запрос для текущего контракта
func (s *ZonosService) BuildRequest(text, language string, v emotion.Vector) Request {
	return s.contract.Build(text, language, v)
}

// Synthesize отправляет запрос к Zonos и получает аудио. Повторов нет.
func (s *ZonosService) Synthesize(ctx context.Context, r Request) ([]byte, error) {
	url := s.baseURL + r.Path

	payload, err := sonic.Marshal(r.Body)
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("ошибка кодирования запроса: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("ошибка создания запроса: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav, application/octet-stream")

	s.logger.Debug("🎵 отправляем запрос к Zonos TTS",
		zap.String("url", url),
		zap.String("contract", string(s.contract)),
		zap.Int("payload_size", len(payload)))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("ошибка выполнения запроса: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		detail := errorDetail(body)
		s.logger.Error("Zonos TTS вернул ошибку",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return nil, &SynthesisError{StatusCode: resp.StatusCode, Detail: detail}
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{StatusCode: resp.StatusCode, Err: fmt.Errorf("ошибка чтения аудио данных: %w", err)}
	}

	s.logger.Info("🎵 аудио успешно сгенерировано",
		zap.Int("audio_size", len(audioData)))

	return audioData, nil
}

// Models запрашивает список моделей, используется как проверка доступности
func (s *ZonosService) Models(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/audio/models", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("ошибка выполнения запроса: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &SynthesisError{StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}
	return body, nil
}

// errorDetail достает описание ошибки из тела ответа.
// FastAPI кладет его в "detail", другие серверы в "error" или "message".
func errorDetail(body []byte) string {
	var payload map[string]any
	if err := sonic.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			v, ok := payload[key]
			if !ok {
				continue
			}
			if s, ok := v.(string); ok {
				return s
			}
			if raw, err := sonic.MarshalString(v); err == nil {
				return raw
			}
		}
	}
	return strings.TrimSpace(string(body))
}
