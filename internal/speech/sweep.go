package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// TempFilePrefix префикс временных аудио файлов
	TempFilePrefix = "tts_output_"
	// TempFileExt расширение временных аудио файлов
	TempFileExt = ".wav"
)

// SweepOrphans удаляет временные аудио файлы старше maxAge.
// Такие файлы остаются, только если процесс был убит во время воспроизведения.
func SweepOrphans(dir string, maxAge time.Duration, now time.Time, dryRun bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", dir, err)
	}

	var removed []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, TempFilePrefix) || !strings.HasSuffix(name, TempFileExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// файл мог исчезнуть между ReadDir и Info
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}

		path := filepath.Join(dir, name)
		if !dryRun {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("ошибка удаления %s: %w", path, err)
			}
		}
		removed = append(removed, path)
	}

	return removed, nil
}
