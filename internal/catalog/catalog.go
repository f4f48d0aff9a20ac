// Package catalog отвечает за каталог записей архива: индекс в YAML-файле,
// его загрузку из S3 и выборку кандидатов по фильтру
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tilawah/go-tilawah/internal/playback"
)

// MaxCandidates ограничивает размер пула кандидатов одной выборки
const MaxCandidates = 100

// Filter задает условия выборки записей
type Filter struct {
	ReciterID   string // Фильтр по чтецу (пусто — любой)
	SurahNumber int    // Фильтр по суре (0 — любая)
	SectionSlug string // Фильтр по разделу архива (пусто — любой)
}

// Provider поставляет кандидатов для очереди и сессий прослушивания
type Provider interface {
	// Candidates возвращает до MaxCandidates записей, подходящих под фильтр.
	// Пустой результат — корректный ответ, а не ошибка.
	Candidates(ctx context.Context, filter Filter) ([]playback.Track, error)
}

// Index представляет индекс архива — полный список записей
type Index struct {
	Tracks []playback.Track `yaml:"tracks"`
}

// NewIndex создает пустой индекс
func NewIndex() *Index {
	return &Index{Tracks: make([]playback.Track, 0)}
}

// LoadIndex загружает индекс из файла.
// Отсутствующий или пустой файл дает пустой индекс.
func LoadIndex(filePath string) (*Index, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("ошибка чтения файла индекса: %w", err)
	}
	return ParseIndex(data)
}

// ParseIndex разбирает индекс из YAML
func ParseIndex(data []byte) (*Index, error) {
	index := NewIndex()
	if len(data) == 0 {
		return index, nil
	}
	if err := yaml.Unmarshal(data, index); err != nil {
		return nil, fmt.Errorf("ошибка разбора индекса: %w", err)
	}
	return index, nil
}

// Save сохраняет индекс в файл
func (ix *Index) Save(filePath string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := strings.Replace(filePath, "~", home, 1)

	data, err := yaml.Marshal(ix)
	if err != nil {
		return fmt.Errorf("ошибка сериализации индекса: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла индекса: %w", err)
	}
	return nil
}

// AddTrack добавляет запись в индекс
func (ix *Index) AddTrack(track playback.Track) {
	ix.Tracks = append(ix.Tracks, track)
}

// TrackByID возвращает запись по ID
func (ix *Index) TrackByID(id string) (*playback.Track, error) {
	for i := range ix.Tracks {
		if ix.Tracks[i].ID == id {
			return &ix.Tracks[i], nil
		}
	}
	return nil, fmt.Errorf("записи с ID %s не найдено", id)
}

// DeleteTrackByID удаляет запись из индекса
func (ix *Index) DeleteTrackByID(id string) error {
	for i := range ix.Tracks {
		if ix.Tracks[i].ID == id {
			ix.Tracks = append(ix.Tracks[:i], ix.Tracks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("записи с ID %s не найдено", id)
}

// Candidates реализует Provider поверх индекса.
// Записи без ID в выборку не попадают.
func (ix *Index) Candidates(_ context.Context, filter Filter) ([]playback.Track, error) {
	result := make([]playback.Track, 0)
	for _, track := range ix.Tracks {
		if track.ID == "" {
			continue
		}
		if !matches(track, filter) {
			continue
		}
		result = append(result, track)
		if len(result) >= MaxCandidates {
			break
		}
	}
	return result, nil
}

// matches проверяет запись на соответствие фильтру
func matches(track playback.Track, filter Filter) bool {
	if filter.ReciterID != "" && track.ReciterID != filter.ReciterID {
		return false
	}
	if filter.SurahNumber != 0 && track.SurahNumber != filter.SurahNumber {
		return false
	}
	if filter.SectionSlug != "" && track.SectionSlug != filter.SectionSlug {
		return false
	}
	return true
}
