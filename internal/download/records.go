package download

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/storage"
)

// Ключ набора скачанных записей в локальном хранилище
const downloadsKey = "downloads"

// DownloadedTrack — запись о скачанном треке для офлайн-просмотра
type DownloadedTrack struct {
	Track        playback.Track `yaml:"track"`
	DownloadedAt time.Time      `yaml:"downloaded_at"`
}

// loadDownloadedTracks читает набор скачанных записей (ключ — ID трека)
func loadDownloadedTracks(st storage.Storage) (map[string]DownloadedTrack, error) {
	records := make(map[string]DownloadedTrack)
	value, ok := st.Get(downloadsKey)
	if !ok || value == "" {
		return records, nil
	}
	if err := yaml.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("ошибка разбора записей о скачиваниях: %w", err)
	}
	return records, nil
}

// saveDownloadedTrack добавляет запись о скачанном треке в хранилище
func saveDownloadedTrack(st storage.Storage, track playback.Track, at time.Time) error {
	records, err := loadDownloadedTracks(st)
	if err != nil {
		return err
	}
	records[track.ID] = DownloadedTrack{Track: track, DownloadedAt: at}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("ошибка сериализации записей о скачиваниях: %w", err)
	}
	return st.Set(downloadsKey, string(data))
}

// SavedTracks возвращает скачанные записи, новые первыми
func SavedTracks(st storage.Storage) ([]DownloadedTrack, error) {
	records, err := loadDownloadedTracks(st)
	if err != nil {
		return nil, err
	}
	tracks := make([]DownloadedTrack, 0, len(records))
	for _, record := range records {
		tracks = append(tracks, record)
	}
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].DownloadedAt.After(tracks[j].DownloadedAt)
	})
	return tracks, nil
}

// RemoveSavedTrack удаляет запись о скачанном треке по ID.
// Это отдельное явное действие пользователя, не связанное
// с RemoveDownload.
func RemoveSavedTrack(st storage.Storage, trackID string) error {
	records, err := loadDownloadedTracks(st)
	if err != nil {
		return err
	}
	if _, ok := records[trackID]; !ok {
		return nil
	}
	delete(records, trackID)

	if len(records) == 0 {
		return st.Remove(downloadsKey)
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("ошибка сериализации записей о скачиваниях: %w", err)
	}
	return st.Set(downloadsKey, string(data))
}
