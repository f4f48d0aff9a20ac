package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/history"
	"github.com/tilawah/go-tilawah/internal/utils"
)

// createHistoryCommand создает команду history с привязкой к экземпляру приложения
func (app *Application) createHistoryCommand() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show listening history",
		Long:  `Display the listening history, newest first.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if clear {
				return app.clearHistory()
			}
			return app.showHistory()
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "очистить историю прослушивания")

	return cmd
}

func (app *Application) showHistory() error {
	log := history.NewLog(app.Storage)

	entries, err := log.Entries()
	if err != nil {
		return fmt.Errorf("ошибка чтения истории: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("📜 История прослушивания пуста")
		return nil
	}

	fmt.Printf("📜 История прослушивания (%d):\n\n", len(entries))

	fmt.Printf("%-18s %-22s %-40s\n", "Когда", "Чтец", "Название")
	fmt.Println(strings.Repeat("-", 82))

	for _, entry := range entries {
		fmt.Printf("%-18s %-22s %-40s\n",
			entry.ListenedAt.Format(time.DateTime),
			utils.TruncateString(entry.Reciter, 20),
			utils.TruncateString(entry.Title, 38))
	}

	return nil
}

func (app *Application) clearHistory() error {
	log := history.NewLog(app.Storage)

	if err := log.Clear(); err != nil {
		return fmt.Errorf("ошибка очистки истории: %w", err)
	}

	fmt.Println("✅ История прослушивания очищена")
	return nil
}
