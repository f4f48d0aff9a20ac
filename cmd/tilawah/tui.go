package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/audio"
	"github.com/tilawah/go-tilawah/internal/download"
	"github.com/tilawah/go-tilawah/internal/history"
	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/storage"
	"github.com/tilawah/go-tilawah/internal/tui"
	"github.com/tilawah/go-tilawah/internal/tui/app"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (a *Application) createTUICommand() *cobra.Command {
	var lean bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for browsing, downloading and playing recordings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Флаг задан явно — запоминаем выбор в хранилище
			if cmd.Flags().Changed("lean") {
				if err := storage.SetLeanMode(a.Storage, lean); err != nil {
					return fmt.Errorf("ошибка сохранения режима интерфейса: %w", err)
				}
			}
			return a.launchTUI()
		},
	}

	cmd.Flags().BoolVar(&lean, "lean", false, "компактный режим интерфейса")

	return cmd
}

func (a *Application) launchTUI() error {
	fetcher := download.NewHTTPFetcher(a.Config.DownloadDir)

	tuiApp := tui.NewApp(app.Deps{
		Index:     a.Index,
		Session:   playback.NewSession(),
		Player:    audio.NewPlayer(),
		Downloads: download.NewManager(fetcher, a.Storage, nil),
		History:   history.NewLog(a.Storage),
		Lean:      storage.LeanMode(a.Storage),
	})

	if err := tuiApp.Run(); err != nil {
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}
