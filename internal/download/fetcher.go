package download

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tilawah/go-tilawah/internal/streaming"
)

// Параметры повторных попыток скачивания
const (
	defaultAttempts       = 3
	defaultBaseDelay      = 2 * time.Second
	defaultAttemptTimeout = 10 * time.Minute
	copyBufferSize        = 32 * 1024 // 32KB буфер
)

// HTTPFetcher скачивает запись по HTTP в локальную директорию.
// Неудачные попытки повторяются с экспоненциальной задержкой,
// каждая попытка ограничена собственным таймаутом.
type HTTPFetcher struct {
	DownloadDir    string
	Attempts       int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
}

// NewHTTPFetcher создает HTTP-скачиватель с настройками по умолчанию
func NewHTTPFetcher(downloadDir string) *HTTPFetcher {
	return &HTTPFetcher{
		DownloadDir:    downloadDir,
		Attempts:       defaultAttempts,
		BaseDelay:      defaultBaseDelay,
		AttemptTimeout: defaultAttemptTimeout,
	}
}

// Fetch скачивает файл по URL и сохраняет его в директорию скачиваний.
// onProgress получает (loaded, total); total равен 0, если сервер
// не сообщил размер.
func (f *HTTPFetcher) Fetch(ctx context.Context, fileURL string, onProgress func(loaded, total int64)) error {
	var lastErr error
	delay := f.BaseDelay

	for attempt := 0; attempt < f.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}

		lastErr = f.fetchOnce(ctx, fileURL, onProgress)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return fmt.Errorf("скачивание не удалось после %d попыток: %w", f.Attempts, lastErr)
}

// fetchOnce выполняет одну попытку скачивания
func (f *HTTPFetcher) fetchOnce(ctx context.Context, fileURL string, onProgress func(loaded, total int64)) error {
	attemptCtx, cancel := context.WithTimeout(ctx, f.AttemptTimeout)
	defer cancel()

	reader, err := streaming.NewReader(attemptCtx, fileURL, copyBufferSize)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(f.DownloadDir, 0755); err != nil {
		return fmt.Errorf("ошибка создания директории скачиваний: %w", err)
	}

	// Пишем во временный файл и переименовываем по завершении,
	// чтобы оборванное скачивание не оставляло битый файл
	finalPath := filepath.Join(f.DownloadDir, fileNameFromURL(fileURL))
	tempFile, err := os.CreateTemp(f.DownloadDir, "tilawah-*.part")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	total := reader.ContentLength()
	var loaded int64
	buf := make([]byte, copyBufferSize)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			if _, writeErr := tempFile.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("ошибка записи файла: %w", writeErr)
			}
			loaded += int64(n)
			if onProgress != nil {
				onProgress(loaded, total)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return fmt.Errorf("ошибка чтения потока: %w", readErr)
		}
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempFile.Name(), finalPath); err != nil {
		return fmt.Errorf("ошибка сохранения файла: %w", err)
	}
	return nil
}

// fileNameFromURL извлекает имя файла из URL записи
func fileNameFromURL(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return "tilawah-download.mp3"
	}
	name := filepath.Base(parsed.Path)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		return "tilawah-download.mp3"
	}
	return name
}
