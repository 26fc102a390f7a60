package models

import (
	"time"
)

// Статусы вызова speak_response
const (
	SpeechStatusSuccess         = "success"
	SpeechStatusSynthesisFailed = "synthesis_failed"
	SpeechStatusFileFailed      = "file_failed"
	SpeechStatusPlaybackFailed  = "playback_failed"
)

// SpeechRecord представляет запись журнала озвучивания.
// Аудио не сохраняется, только метаданные вызова.
type SpeechRecord struct {
	ID          string    `json:"id" db:"id"`
	Text        string    `json:"text" db:"text"`
	Language    string    `json:"language" db:"language"`
	Emotion     string    `json:"emotion" db:"emotion"`
	Contract    string    `json:"contract" db:"contract"` // speech, generate
	Platform    string    `json:"platform" db:"platform"`
	Status      string    `json:"status" db:"status"`
	Error       string    `json:"error" db:"error"`
	AudioBytes  int       `json:"audio_bytes" db:"audio_bytes"`
	SynthesisMs int64     `json:"synthesis_ms" db:"synthesis_ms"`
	PlaybackMs  int64     `json:"playback_ms" db:"playback_ms"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// JournalStats агрегированная статистика журнала
type JournalStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}
