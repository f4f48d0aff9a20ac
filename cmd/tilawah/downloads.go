package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/download"
	"github.com/tilawah/go-tilawah/internal/utils"
)

// createDownloadsCommand создает команду downloads с привязкой к экземпляру приложения
func (app *Application) createDownloadsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "downloads",
		Short: "List downloaded recordings",
		Long:  `Display the list of recordings downloaded for offline listening, newest first.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.listDownloads()
		},
	}
}

func (app *Application) listDownloads() error {
	saved, err := download.SavedTracks(app.Storage)
	if err != nil {
		return fmt.Errorf("ошибка чтения списка скачанного: %w", err)
	}

	if len(saved) == 0 {
		fmt.Println("⬇️  Скачанных записей нет. Используйте команду 'download'.")
		return nil
	}

	fmt.Printf("⬇️  Скачано записей: %d\n\n", len(saved))

	fmt.Printf("%-38s %-22s %-32s %-18s\n", "ID", "Чтец", "Название", "Скачано")
	fmt.Println(strings.Repeat("-", 112))

	for _, record := range saved {
		fmt.Printf("%-38s %-22s %-32s %-18s\n",
			record.Track.ID,
			utils.TruncateString(record.Track.Reciter, 20),
			utils.TruncateString(record.Track.Title, 30),
			record.DownloadedAt.Format(time.DateTime))
	}

	return nil
}

// createRemoveDownloadCommand создает команду remove-download с привязкой к экземпляру приложения
func (app *Application) createRemoveDownloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-download [trackid]",
		Short: "Remove a recording from the downloaded list",
		Long:  `Remove the downloaded record of a recording by its track ID.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.removeDownload(args[0])
		},
	}
}

func (app *Application) removeDownload(trackID string) error {
	if err := download.RemoveSavedTrack(app.Storage, trackID); err != nil {
		return fmt.Errorf("ошибка удаления записи из списка скачанного: %w", err)
	}

	fmt.Printf("✅ Запись %s удалена из списка скачанного\n", trackID)
	return nil
}
