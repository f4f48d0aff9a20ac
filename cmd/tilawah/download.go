package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/download"
)

// createDownloadCommand создает команду download с привязкой к экземпляру приложения
func (app *Application) createDownloadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "download [trackid]",
		Short: "Download a recording for offline listening",
		Long:  `Download a recording by its ID to the configured download directory.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.downloadByID(ctx, args[0])
		},
	}
}

func (app *Application) downloadByID(ctx context.Context, trackID string) error {
	// Находим запись по ID
	track, err := app.Index.TrackByID(trackID)
	if err != nil {
		return fmt.Errorf("ошибка поиска записи: %w", err)
	}

	if track.URL == "" {
		return fmt.Errorf("у записи %s отсутствует URL", trackID)
	}

	fmt.Printf("⬇️  Скачиваем запись: %s - %s\n", track.Reciter, track.Title)
	fmt.Printf("   Директория: %s\n\n", app.Config.DownloadDir)

	fetcher := download.NewHTTPFetcher(app.Config.DownloadDir)
	manager := download.NewManager(fetcher, app.Storage, func(message string) {
		fmt.Printf("\n%s\n", message)
	})

	// Горутина отображения прогресса: скачивание идет в текущей горутине
	progressCtx, stopProgress := context.WithCancel(ctx)
	defer stopProgress()
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-progressCtx.Done():
				return
			case <-ticker.C:
				if manager.IsDownloading(track.URL) {
					fmt.Printf("\r📊 Прогресс: %d%%", manager.Progress(track.URL))
				}
			}
		}
	}()

	if !manager.StartDownload(ctx, *track) {
		return fmt.Errorf("скачивание %s уже идет", track.URL)
	}

	item, ok := manager.Item(track.URL)
	if ok && item.Status == download.StatusError {
		return fmt.Errorf("ошибка скачивания: %s", item.Error)
	}

	return nil
}
