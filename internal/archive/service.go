// Package archive предоставляет админ-операции над архивом записей:
// загрузку файлов в S3 с извлечением метаданных и ведение индекса
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tilawah/go-tilawah/internal/access"
	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/metadata"
	"github.com/tilawah/go-tilawah/internal/playback"
)

// Uploader загружает файл в удаленное хранилище
type Uploader interface {
	UploadFile(ctx context.Context, reader io.Reader, key string) (string, error)
}

// Service управляет пополнением архива
type Service struct {
	uploader          Uploader
	metadataExtractor *metadata.Extractor
	index             *catalog.Index
}

// NewService создает новый сервис архива
func NewService(uploader Uploader, index *catalog.Index) *Service {
	return &Service{
		uploader:          uploader,
		metadataExtractor: metadata.NewExtractor(),
		index:             index,
	}
}

// UploadResult содержит результат загрузки
type UploadResult struct {
	URL      string
	Metadata metadata.TrackMetadata
	FileInfo *metadata.FileInfo
}

// UploadFile загружает файл записи в хранилище архива.
// Операция требует права create на ресурс recordings.
func (s *Service) UploadFile(ctx context.Context, user *access.User, filePath string, progressCallback func(int64)) (*UploadResult, error) {
	if !access.Allowed(user, access.ResourceRecordings, access.ActionCreate) {
		return nil, fmt.Errorf("недостаточно прав для добавления записей")
	}

	// Проверяем существование файла
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("файл не найден: %s", filePath)
	}

	// Получаем информацию о файле
	fileInfo, err := s.metadataExtractor.GetFileInfo(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	// Извлекаем метаданные
	trackMetadata := s.metadataExtractor.ExtractFromFile(filePath)

	// Открываем файл для загрузки
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	// Создаем reader с отслеживанием прогресса
	var reader io.Reader = file
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       fileInfo.Size,
			OnProgress: progressCallback,
		}
	}

	// Формируем ключ для хранилища
	key := fileNameWithoutExt(filePath) + ".mp3"

	url, err := s.uploader.UploadFile(ctx, reader, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в S3: %w", err)
	}

	return &UploadResult{
		URL:      url,
		Metadata: trackMetadata,
		FileInfo: fileInfo,
	}, nil
}

// RegisterTrack добавляет загруженную запись в индекс архива
// и возвращает присвоенный ей ID
func (s *Service) RegisterTrack(result *UploadResult) string {
	track := playback.Track{
		ID:              uuid.New().String(),
		Title:           result.Metadata.Title,
		Reciter:         result.Metadata.Reciter,
		SurahNumber:     result.Metadata.SurahNumber,
		DurationSeconds: int(result.FileInfo.Duration.Seconds()),
		FileSize:        result.FileInfo.Size,
		URL:             result.URL,
	}

	s.index.AddTrack(track)
	return track.ID
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}

// fileNameWithoutExt возвращает имя файла без расширения
func fileNameWithoutExt(filePath string) string {
	fileName := filepath.Base(filePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
