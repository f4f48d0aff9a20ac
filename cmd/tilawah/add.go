package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/archive"
	"github.com/tilawah/go-tilawah/internal/metadata"
	"github.com/tilawah/go-tilawah/internal/s3"
	"github.com/tilawah/go-tilawah/internal/utils"
)

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "add [file path]",
		Short: "Upload an mp3 recording to the archive",
		Long:  `Upload an mp3 recording to S3 storage and register it in the archive index.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Создаем контекст с таймаутом для загрузки (10 минут)
			uploadCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return app.uploadToArchive(uploadCtx, args[0])
		},
	}
}

// uploadToArchive загружает файл в архив с отображением прогресса
func (app *Application) uploadToArchive(ctx context.Context, filePath string) error {
	// Создаем S3 клиент
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

	// Создаем сервис архива
	archiveService := archive.NewService(s3Client, app.Index)

	// Получаем информацию о файле для отображения
	metadataExtractor := metadata.NewExtractor()
	fileInfo, err := metadataExtractor.GetFileInfo(filePath)
	if err != nil {
		return fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	// Отображаем информацию о загрузке
	fmt.Printf("📤 Загружаем запись в архив:\n")
	fmt.Printf("   Файл: %s\n", filePath)
	fmt.Printf("   Размер: %s\n", utils.FormatFileSize(fileInfo.Size))
	fmt.Printf("   Бакет: %s\n", app.Config.AwsBucketName)
	fmt.Println()

	// Создаем канал для отслеживания прогресса
	progressChan := make(chan int64)

	// Запускаем горутину для отображения прогресса
	go func() {
		startTime := time.Now()

		for {
			select {
			case progress, ok := <-progressChan:
				if !ok {
					return // Канал закрыт
				}
				if progress > 0 {
					elapsed := time.Since(startTime)
					percentage := float64(progress) / float64(fileInfo.Size) * 100

					// Вычисляем скорость загрузки
					speed := float64(progress) / elapsed.Seconds()

					// Вычисляем оставшееся время
					remainingBytes := fileInfo.Size - progress
					var remainingTime time.Duration
					if speed > 0 {
						remainingTime = time.Duration(float64(remainingBytes)/speed) * time.Second
					}

					// Очищаем строку и выводим прогресс
					fmt.Printf("\r📊 Прогресс: %.1f%% | Скорость: %s/s | Прошло: %s | Осталось: %s",
						percentage,
						utils.FormatFileSize(int64(speed)),
						utils.FormatDuration(elapsed),
						utils.FormatDuration(remainingTime))
				}
			case <-ctx.Done():
				fmt.Printf("\n🚫 Загрузка отменена\n")
				return
			}
		}
	}()

	// Выполняем загрузку с контекстом и проверкой прав
	result, err := archiveService.UploadFile(ctx, app.User, filePath, func(bytesRead int64) {
		progressChan <- bytesRead
	})

	// Закрываем канал прогресса
	close(progressChan)

	if err != nil {
		return fmt.Errorf("ошибка загрузки файла: %w", err)
	}

	// Проверяем, не была ли операция отменена
	if ctx.Err() != nil {
		return fmt.Errorf("операция отменена: %w", ctx.Err())
	}

	fmt.Printf("\n✅ Запись успешно загружена в архив!\n")
	fmt.Printf("   URL: %s\n", result.URL)

	// Регистрируем запись в индексе
	trackID := archiveService.RegisterTrack(result)

	// Сохраняем индекс
	if err := app.SaveIndex(); err != nil {
		return fmt.Errorf("ошибка сохранения индекса: %w", err)
	}

	fmt.Printf("\n📦 Запись добавлена в индекс с ID %s\n", trackID)
	return nil
}
