package store

import (
	"context"
	"fmt"
	"time"

	"zonos-tts-mcp/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// journalRepository реализует JournalRepository
type journalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewJournalRepository создает новый репозиторий журнала
func NewJournalRepository(db *pgxpool.Pool, logger *zap.Logger) JournalRepository {
	return &journalRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет запись о вызове
func (r *journalRepository) Create(ctx context.Context, rec *models.SpeechRecord) error {
	query := `
		INSERT INTO speech_journal (id, text, language, emotion, contract, platform, status, error,
			audio_bytes, synthesis_ms, playback_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Text, rec.Language, rec.Emotion, rec.Contract, rec.Platform, rec.Status, rec.Error,
		rec.AudioBytes, rec.SynthesisMs, rec.PlaybackMs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал: %w", err)
	}

	r.logger.Debug("запись добавлена в журнал",
		zap.String("id", rec.ID),
		zap.String("status", rec.Status))
	return nil
}

// GetRecent возвращает последние записи журнала
func (r *journalRepository) GetRecent(ctx context.Context, limit int) ([]models.SpeechRecord, error) {
	query := `
		SELECT id, text, language, emotion, contract, platform, status, error,
			audio_bytes, synthesis_ms, playback_ms, created_at
		FROM speech_journal
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала: %w", err)
	}
	defer rows.Close()

	var records []models.SpeechRecord
	for rows.Next() {
		var rec models.SpeechRecord
		err := rows.Scan(&rec.ID, &rec.Text, &rec.Language, &rec.Emotion, &rec.Contract, &rec.Platform,
			&rec.Status, &rec.Error, &rec.AudioBytes, &rec.SynthesisMs, &rec.PlaybackMs, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по журналу: %w", err)
	}

	return records, nil
}

// GetStats считает записи по статусам начиная с since
func (r *journalRepository) GetStats(ctx context.Context, since time.Time) (*models.JournalStats, error) {
	query := `
		SELECT status, COUNT(*)
		FROM speech_journal
		WHERE created_at >= $1
		GROUP BY status`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики журнала: %w", err)
	}
	defer rows.Close()

	stats := &models.JournalStats{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статистики: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}

	return stats, rows.Err()
}

// CountOlderThan считает записи старше before
func (r *journalRepository) CountOlderThan(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM speech_journal WHERE created_at < $1`, before).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета старых записей: %w", err)
	}
	return count, nil
}

// DeleteOlderThan удаляет записи старше before
func (r *journalRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM speech_journal WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки журнала: %w", err)
	}

	deleted := tag.RowsAffected()
	r.logger.Debug("удалены записи журнала",
		zap.Time("before", before),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
