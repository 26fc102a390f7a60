package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zonos-tts-mcp/internal/emotion"
	"zonos-tts-mcp/internal/metrics"
	"zonos-tts-mcp/internal/tts"
	"zonos-tts-mcp/pkg/models"
)

// Request представляет вызов speak_response после валидации схемы
type Request struct {
	Text     string
	Language string
	Emotion  emotion.Label
}

// Player воспроизводит аудио файл и ждет окончания
type Player interface {
	Play(ctx context.Context, path string) error
}

// Journal сохраняет метаданные вызовов
type Journal interface {
	Create(ctx context.Context, record *models.SpeechRecord) error
}

// Service реализует speak_response
type Service struct {
	tts      tts.TTSService
	player   Player
	platform string
	journal  Journal
	metrics  *metrics.Metrics
	tempDir  string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService создает сервис озвучивания. journal может быть nil.
func NewService(ttsService tts.TTSService, player Player, platform string, journal Journal, m *metrics.Metrics, tempDir string, logger *zap.Logger) *Service {
	return &Service{
		tts:      ttsService,
		player:   player,
		platform: platform,
		journal:  journal,
		metrics:  m,
		tempDir:  tempDir,
		logger:   logger,
		now:      time.Now,
	}
}

// Speak озвучивает текст и возвращает подтверждение.
// Отмена контекста после начала вызова не прерывает его.
func (s *Service) Speak(ctx context.Context, req Request) (string, error) {
	ctx = context.WithoutCancel(ctx)

	if req.Language == "" {
		req.Language = tts.DefaultLanguage
	}
	if req.Emotion == "" {
		req.Emotion = emotion.Neutral
	}

	rec := &models.SpeechRecord{
		ID:       uuid.NewString(),
		Text:     req.Text,
		Language: req.Language,
		Emotion:  string(req.Emotion),
		Contract: string(s.tts.Contract()),
		Platform: s.platform,
		Status:   models.SpeechStatusSuccess,
	}
	logger := s.logger.With(zap.String("request_id", rec.ID))

	defer s.metrics.Begin()()
	defer s.finish(ctx, logger, rec)

	logger.Info("🎵 озвучиваем текст",
		zap.String("text", req.Text),
		zap.String("language", req.Language),
		zap.String("emotion", string(req.Emotion)))

	vector := emotion.Lookup(req.Emotion)
	synthReq := s.tts.BuildRequest(req.Text, req.Language, vector)

	start := time.Now()
	audioData, err := s.tts.Synthesize(ctx, synthReq)
	rec.SynthesisMs = time.Since(start).Milliseconds()
	s.metrics.RecordSynthesis(rec.Contract, time.Since(start).Seconds(), len(audioData))
	if err != nil {
		return "", s.fail(logger, rec, models.SpeechStatusSynthesisFailed, err)
	}
	rec.AudioBytes = len(audioData)

	path, err := s.writeTempFile(audioData)
	if err != nil {
		return "", s.fail(logger, rec, models.SpeechStatusFileFailed, err)
	}
	defer s.cleanupFile(logger, path)

	start = time.Now()
	err = s.player.Play(ctx, path)
	rec.PlaybackMs = time.Since(start).Milliseconds()
	s.metrics.RecordPlayback(s.platform, time.Since(start).Seconds())
	if err != nil {
		return "", s.fail(logger, rec, models.SpeechStatusPlaybackFailed, err)
	}

	return fmt.Sprintf("Successfully spoke: \"%s\" with %s emotion", req.Text, req.Emotion), nil
}

// fail помечает запись и оборачивает ошибку для вызывающей стороны
func (s *Service) fail(logger *zap.Logger, rec *models.SpeechRecord, status string, err error) error {
	rec.Status = status
	rec.Error = err.Error()
	logger.Error("ошибка TTS", zap.String("status", status), zap.Error(err))
	return fmt.Errorf("ошибка TTS: %w", err)
}

// finish пишет метрики и журнал, ошибки журнала на результат не влияют
func (s *Service) finish(ctx context.Context, logger *zap.Logger, rec *models.SpeechRecord) {
	s.metrics.RecordSpeech(rec.Emotion, rec.Status)

	if s.journal == nil {
		return
	}
	rec.CreatedAt = s.now()
	if err := s.journal.Create(ctx, rec); err != nil {
		logger.Warn("не удалось записать вызов в журнал", zap.Error(err))
	}
}

// writeTempFile сохраняет аудио в уникальный временный файл.
// Имя строится из текущего времени, O_EXCL не дает перезаписать чужой файл.
func (s *Service) writeTempFile(audioData []byte) (string, error) {
	path := filepath.Join(s.tempDir, fmt.Sprintf("%s%d%s", TempFilePrefix, s.now().UnixNano(), TempFileExt))

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", &FileError{Op: "create", Path: path, Err: err}
	}

	if _, err := file.Write(audioData); err != nil {
		file.Close()
		os.Remove(path)
		return "", &FileError{Op: "write", Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", &FileError{Op: "close", Path: path, Err: err}
	}

	return path, nil
}

// cleanupFile удаляет временный файл
func (s *Service) cleanupFile(logger *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("ошибка удаления временного файла",
			zap.String("filename", path),
			zap.Error(err))
	}
}
