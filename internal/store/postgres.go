package store

import (
	"context"
	"fmt"
	"time"

	"zonos-tts-mcp/internal/config"
	"zonos-tts-mcp/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store представляет интерфейс для работы с базой данных
type Store interface {
	Journal() JournalRepository
	DB() *pgxpool.Pool
	Close() error
}

// store реализует интерфейс Store
type store struct {
	db      *pgxpool.Pool
	logger  *zap.Logger
	journal JournalRepository
}

// JournalRepository интерфейс для работы с журналом озвучивания
type JournalRepository interface {
	Create(ctx context.Context, record *models.SpeechRecord) error
	GetRecent(ctx context.Context, limit int) ([]models.SpeechRecord, error)
	GetStats(ctx context.Context, since time.Time) (*models.JournalStats, error)
	CountOlderThan(ctx context.Context, before time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// NewStore создает новое подключение к базе данных
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создание пула подключений
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	// Журнал пишется по одной записи на вызов, большой пул не нужен
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Проверка подключения
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка проверки подключения к базе данных: %w", err)
	}

	logger.Info("успешное подключение к базе данных PostgreSQL")

	return &store{
		db:      db,
		logger:  logger,
		journal: NewJournalRepository(db, logger),
	}, nil
}

// Journal возвращает репозиторий журнала
func (s *store) Journal() JournalRepository {
	return s.journal
}

// DB возвращает пул подключений
func (s *store) DB() *pgxpool.Pool {
	return s.db
}

// Close закрывает пул подключений
func (s *store) Close() error {
	s.db.Close()
	s.logger.Info("подключение к базе данных закрыто")
	return nil
}
