package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/session"
	"github.com/tilawah/go-tilawah/internal/utils"
)

// createSessionCommand создает команду session с привязкой к экземпляру приложения
func (app *Application) createSessionCommand(ctx context.Context) *cobra.Command {
	var (
		reciterID string
		minutes   int
		surah     int
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Build and play a listening session",
		Long:  `Build a randomized listening session of the requested length from the archive and play it.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.runSession(ctx, session.Params{
				ReciterID:   reciterID,
				Minutes:     minutes,
				SurahNumber: surah,
			}, dryRun)
		},
	}

	cmd.Flags().StringVar(&reciterID, "reciter", "", "ограничить сессию одним чтецом")
	cmd.Flags().IntVar(&minutes, "minutes", 20, "целевая длительность сессии в минутах")
	cmd.Flags().IntVar(&surah, "surah", 0, "ограничить сессию одной сурой")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "показать сессию без воспроизведения")

	return cmd
}

func (app *Application) runSession(ctx context.Context, params session.Params, dryRun bool) error {
	packer := session.NewPacker(app.Index, nil)

	tracks, err := packer.Build(ctx, params)
	if err != nil {
		return fmt.Errorf("ошибка сборки сессии: %w", err)
	}

	if len(tracks) == 0 {
		fmt.Println("📚 В архиве нет подходящих записей для сессии")
		return nil
	}

	// Показываем состав сессии
	total := 0
	fmt.Printf("📖 Сессия из %d записей:\n", len(tracks))
	for i, track := range tracks {
		total += track.DurationSeconds
		fmt.Printf("   %d. %s - %s (%s)\n", i+1,
			track.Reciter, track.Title,
			utils.FormatDuration(time.Duration(track.DurationSeconds)*time.Second))
	}
	fmt.Printf("   Итого: %s\n\n", utils.FormatDuration(time.Duration(total)*time.Second))

	if dryRun {
		return nil
	}

	return app.playTracks(ctx, tracks)
}
