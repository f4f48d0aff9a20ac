// Package metadata предоставляет функционал для извлечения метаданных
// из аудиофайлов записей
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// TrackMetadata хранит метаданные записи чтения
type TrackMetadata struct {
	Reciter     string // Имя чтеца (тег Artist)
	Title       string // Название записи (тег Title)
	SurahNumber int    // Номер суры, если удалось распознать
}

// FileInfo содержит информацию о файле
type FileInfo struct {
	Size     int64
	Duration time.Duration
}

// Extractor извлекает метаданные из аудиофайлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromReader извлекает метаданные из io.ReadSeeker
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) TrackMetadata {
	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return e.defaultMetadata(source)
	}

	tags, err := tag.ReadFrom(reader)
	if err != nil {
		return e.defaultMetadata(source)
	}

	meta := TrackMetadata{
		Reciter:     tags.Artist(),
		Title:       tags.Title(),
		SurahNumber: parseSurahNumber(tags.Title()),
	}
	if meta.Title == "" {
		return e.defaultMetadata(source)
	}
	if meta.SurahNumber == 0 {
		meta.SurahNumber = parseSurahNumber(source)
	}
	return meta
}

// ExtractFromFile извлекает метаданные из файла
func (e *Extractor) ExtractFromFile(filePath string) TrackMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		return e.defaultMetadata(filePath)
	}
	defer file.Close()

	return e.ExtractFromReader(file, filePath)
}

// GetDuration получает длительность MP3 файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// GetFileInfo получает информацию о файле (размер и длительность)
func (e *Extractor) GetFileInfo(filePath string) (*FileInfo, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	duration, err := e.GetDuration(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения длительности: %w", err)
	}

	return &FileInfo{
		Size:     fileInfo.Size(),
		Duration: duration,
	}, nil
}

// defaultMetadata строит метаданные по имени файла.
// Ожидаемый формат имени: "Чтец - Название"
func (e *Extractor) defaultMetadata(source string) TrackMetadata {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	meta := TrackMetadata{SurahNumber: parseSurahNumber(nameWithoutExt)}

	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		meta.Reciter = strings.TrimSpace(parts[0])
		meta.Title = strings.TrimSpace(strings.Join(parts[1:], " - "))
		return meta
	}

	meta.Reciter = "Неизвестный чтец"
	meta.Title = nameWithoutExt
	return meta
}

// parseSurahNumber пытается распознать номер суры в начале строки
// (принятая в архивах нотация "036 Ya-Sin" и подобные)
func parseSurahNumber(s string) int {
	name := filepath.Base(s)
	digits := ""
	for _, r := range name {
		if r < '0' || r > '9' {
			break
		}
		digits += string(r)
	}
	if digits == "" {
		return 0
	}
	number, err := strconv.Atoi(digits)
	if err != nil || number < 1 || number > 114 {
		return 0
	}
	return number
}
