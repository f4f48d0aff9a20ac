// Package history ведет историю прослушивания: ограниченный список
// последних записей, новые первыми, без дублей в пределах часа
package history

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/storage"
)

const (
	// Ключ истории в локальном хранилище
	storageKey = "history"
	// Хранятся только последние maxEntries прослушиваний
	maxEntries = 50
	// Повтор того же трека в пределах окна перезаписывает старую отметку
	dedupeWindow = time.Hour
)

// Entry — одна отметка в истории прослушивания
type Entry struct {
	TrackID    string    `yaml:"track_id"`
	Title      string    `yaml:"title"`
	Reciter    string    `yaml:"reciter"`
	ListenedAt time.Time `yaml:"listened_at"`
}

// Log пишет и читает историю прослушивания через локальное хранилище
type Log struct {
	storage storage.Storage
	now     func() time.Time
}

// NewLog создает журнал истории
func NewLog(st storage.Storage) *Log {
	return &Log{storage: st, now: time.Now}
}

// Add добавляет отметку о прослушивании трека.
// Повтор в пределах часа перезаписывает старую отметку вместо дубля;
// список обрезается до maxEntries, новые записи первыми.
func (l *Log) Add(track playback.Track) error {
	entries, err := l.Entries()
	if err != nil {
		return err
	}

	entry := Entry{
		TrackID:    track.ID,
		Title:      track.Title,
		Reciter:    track.Reciter,
		ListenedAt: l.now(),
	}

	// Убираем свежую отметку того же трека, если она попадает в окно
	filtered := make([]Entry, 0, len(entries)+1)
	filtered = append(filtered, entry)
	for _, existing := range entries {
		if existing.TrackID == track.ID && entry.ListenedAt.Sub(existing.ListenedAt) < dedupeWindow {
			continue
		}
		filtered = append(filtered, existing)
	}

	if len(filtered) > maxEntries {
		filtered = filtered[:maxEntries]
	}

	data, err := yaml.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("ошибка сериализации истории: %w", err)
	}
	return l.storage.Set(storageKey, string(data))
}

// Entries возвращает историю прослушивания, новые первыми
func (l *Log) Entries() ([]Entry, error) {
	value, ok := l.storage.Get(storageKey)
	if !ok || value == "" {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := yaml.Unmarshal([]byte(value), &entries); err != nil {
		return nil, fmt.Errorf("ошибка разбора истории: %w", err)
	}
	return entries, nil
}

// Clear очищает историю прослушивания
func (l *Log) Clear() error {
	return l.storage.Remove(storageKey)
}
