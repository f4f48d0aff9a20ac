package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/s3"
)

// createSyncCommand создает команду sync с привязкой к экземпляру приложения
func (app *Application) createSyncCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the archive index from S3",
		Long:  `Download the archive index from the S3 bucket and replace the local copy.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.syncIndex(ctx)
		},
	}
}

func (app *Application) syncIndex(ctx context.Context) error {
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

	fmt.Printf("🔄 Загружаем индекс архива из бакета %s (ключ %s)...\n",
		app.Config.AwsBucketName, app.Config.IndexS3Key)

	index, err := catalog.FetchIndex(ctx, s3Client, app.Config.IndexS3Key)
	if err != nil {
		return fmt.Errorf("ошибка загрузки индекса: %w", err)
	}

	app.Index = index
	if err := app.SaveIndex(); err != nil {
		return fmt.Errorf("ошибка сохранения индекса: %w", err)
	}

	fmt.Printf("✅ Индекс обновлен: %d записей\n", len(index.Tracks))
	return nil
}
