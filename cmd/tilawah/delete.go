package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/access"
	"github.com/tilawah/go-tilawah/internal/s3"
)

// createDeleteCommand создает команду delete с привязкой к экземпляру приложения
func (app *Application) createDeleteCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [trackid]",
		Short: "Delete a recording by ID",
		Long:  `Delete a recording from both S3 storage and the archive index by its ID.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			app.deleteTrack(ctx, args[0])
		},
	}
}

func (app *Application) deleteTrack(ctx context.Context, trackID string) {
	// Удаление записей требует права delete на ресурс recordings
	if !access.Allowed(app.User, access.ResourceRecordings, access.ActionDelete) {
		fmt.Println("❌ Ошибка: недостаточно прав для удаления записей")
		return
	}

	// Находим запись по ID
	track, err := app.Index.TrackByID(trackID)
	if err != nil {
		fmt.Printf("❌ Ошибка: %v\n", err)
		return
	}

	fmt.Printf("🗑️  Удаляем запись: %s - %s\n", track.Reciter, track.Title)

	// Удаляем файл из S3, если есть URL
	if track.URL != "" {
		if err := app.deleteFromS3(ctx, track.URL); err != nil {
			fmt.Printf("⚠️  Предупреждение: не удалось удалить файл из S3: %v\n", err)
			// Продолжаем выполнение, даже если не удалось удалить из S3
		} else {
			fmt.Println("✅ Файл успешно удален из S3")
		}
	}

	// Удаляем запись из индекса
	if err := app.Index.DeleteTrackByID(trackID); err != nil {
		fmt.Printf("❌ Ошибка удаления записи из индекса: %v\n", err)
		return
	}

	// Сохраняем обновленный индекс
	if err := app.SaveIndex(); err != nil {
		fmt.Printf("❌ Ошибка сохранения индекса: %v\n", err)
		return
	}

	fmt.Println("✅ Запись успешно удалена из архива")
}

func (app *Application) deleteFromS3(ctx context.Context, fileURL string) error {
	s3Client, err := s3.NewClient(&s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	})
	if err != nil {
		return fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}

	// Извлекаем ключ из URL
	key, err := extractKeyFromURL(fileURL)
	if err != nil {
		return fmt.Errorf("ошибка извлечения ключа из URL: %w", err)
	}

	// Удаляем файл из S3
	return s3Client.DeleteFile(ctx, key)
}

// extractKeyFromURL извлекает ключ файла из URL S3
func extractKeyFromURL(fileURL string) (string, error) {
	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("неверный URL: %w", err)
	}

	// Извлекаем путь без начального слеша и удаляем bucket name
	pathSegments := strings.TrimPrefix(parsedURL.Path, "/")

	// URL обычно имеет формат: endpoint/bucket/key
	// Нам нужно извлечь только key (все после bucket name)
	parts := strings.SplitN(pathSegments, "/", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("неверный формат URL S3")
	}

	// Возвращаем все части после bucket name
	return parts[1], nil
}
