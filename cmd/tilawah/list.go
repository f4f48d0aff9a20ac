package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all recordings from the archive",
		Long:  `Display a list of all recordings stored in the archive index.`,
		Run: func(_ *cobra.Command, _ []string) {
			app.listTracks()
		},
	}
}

func (app *Application) listTracks() {
	if len(app.Index.Tracks) == 0 {
		fmt.Println("📚 Архив пуст. Добавьте записи с помощью команды 'add'.")
		return
	}

	fmt.Printf("📚 Найдено записей: %d\n\n", len(app.Index.Tracks))

	// Выводим заголовок таблицы
	fmt.Printf("%-38s %-22s %-32s %-20s %-10s %-12s\n",
		"ID", "Чтец", "Название", "Аяты", "Длительность", "Размер")
	fmt.Println(strings.Repeat("-", 138))

	// Выводим каждую запись
	for _, track := range app.Index.Tracks {
		duration := utils.FormatDuration(time.Duration(track.DurationSeconds) * time.Second)
		if track.DurationSeconds == 0 {
			duration = "N/A"
		}

		fileSize := utils.FormatFileSize(track.FileSize)
		ayahs := utils.FormatAyahRange(track.SurahNumber, track.AyahFrom, track.AyahTo)

		reciter := utils.TruncateString(track.Reciter, 20)
		title := utils.TruncateString(track.Title, 30)

		fmt.Printf("%-38s %-22s %-32s %-20s %-10s %-12s\n",
			track.ID, reciter, title, ayahs, duration, fileSize)
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'tilawah play [ID]' для воспроизведения записи")
}
