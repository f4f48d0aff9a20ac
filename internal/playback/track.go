// Package playback содержит ядро воспроизведения: очередь треков,
// конечный автомат плеера и сессию, через которую идут все переходы состояния
package playback

// Track представляет запись чтения в архиве
type Track struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Reciter         string `yaml:"reciter"`
	ReciterID       string `yaml:"reciter_id,omitempty"`
	URL             string `yaml:"url"`                // URL записи в хранилище S3
	DurationSeconds int    `yaml:"duration"`           // Длительность записи в секундах
	SurahNumber     int    `yaml:"surah,omitempty"`    // Номер суры (0 — не задан)
	AyahFrom        int    `yaml:"ayah_from,omitempty"`
	AyahTo          int    `yaml:"ayah_to,omitempty"`
	SectionSlug     string `yaml:"section,omitempty"`
	FileSize        int64  `yaml:"file_size,omitempty"` // Размер файла в байтах
}
