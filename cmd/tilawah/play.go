package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilawah/go-tilawah/internal/audio"
	"github.com/tilawah/go-tilawah/internal/history"
	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [trackid]",
		Short: "Play a recording by its ID",
		Long:  `Stream a recording by its ID from the archive index.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.playByID(ctx, args[0])
		},
	}
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() *exec.Cmd {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
	return cmd
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// readSingleChar читает одиночный символ без ожидания Enter
func readSingleChar() (byte, error) {
	buffer := make([]byte, 1)
	_, err := os.Stdin.Read(buffer)
	return buffer[0], err
}

func (app *Application) playByID(ctx context.Context, trackID string) error {
	// Находим запись по ID
	track, err := app.Index.TrackByID(trackID)
	if err != nil {
		return fmt.Errorf("ошибка поиска записи: %w", err)
	}

	// Проверяем, что у записи есть URL
	if track.URL == "" {
		return fmt.Errorf("у записи %s отсутствует URL", trackID)
	}

	fmt.Printf("📖 Сейчас играет:\n")
	fmt.Printf("   ID: %s\n", track.ID)
	fmt.Printf("   Чтец: %s\n", track.Reciter)
	fmt.Printf("   Название: %s\n", track.Title)
	fmt.Printf("   Аяты: %s\n", utils.FormatAyahRange(track.SurahNumber, track.AyahFrom, track.AyahTo))
	if track.DurationSeconds > 0 {
		duration := utils.FormatDuration(time.Duration(track.DurationSeconds) * time.Second)
		fmt.Printf("   Продолжительность: %s\n", duration)
	}
	fmt.Println()

	return app.playTracks(ctx, []playback.Track{*track})
}

// playTracks последовательно воспроизводит очередь записей.
// Очередь живет в машине состояний: переходы между записями идут
// через команды Next, позиция и пауза — через снимки состояния.
func (app *Application) playTracks(ctx context.Context, tracks []playback.Track) error {
	if len(tracks) == 0 {
		return fmt.Errorf("нет записей для воспроизведения")
	}

	session := playback.NewSession()
	session.Dispatch(playback.SetQueue{Tracks: tracks})
	session.Dispatch(playback.PlayTrack{Track: tracks[0]})

	// Создаем плеер
	p := audio.NewPlayer()
	defer p.Close()

	log := history.NewLog(app.Storage)

	current := session.CurrentTrack()
	if err := p.Play(*current); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}
	if err := log.Add(*current); err != nil {
		fmt.Printf("⚠️  Не удалось записать историю: %v\n", err)
	}

	fmt.Printf("🌐 Начинаем потоковое воспроизведение...\n")
	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [n] - следующая запись\n")
	fmt.Printf("   [Ctrl+C] - остановить и выйти\n")
	fmt.Println()

	// Включаем raw режим для чтения одиночных клавиш
	enableRawMode()
	defer disableRawMode()

	// Канал команд от клавиатуры
	keys := make(chan byte, 1)
	go func() {
		for {
			char, err := readSingleChar()
			if err != nil {
				continue
			}
			keys <- char
		}
	}()

	// Главный цикл обработки событий
	for {
		select {
		case char := <-keys:
			switch {
			case char == 32 || char == 10 || char == 13:
				session.Dispatch(playback.TogglePlayPause{})
				p.Pause()
				fmt.Printf("\r\033[K") // Очищаем текущую строку
				if session.State().IsPlaying {
					fmt.Printf("▶️  Воспроизведение\n")
				} else {
					fmt.Printf("⏸️  Пауза\n")
				}
			case char == 'n':
				if !app.advanceTrack(session, p, log) {
					fmt.Println("\n✅ Очередь закончилась")
					return nil
				}
			}

		case status := <-p.Progress():
			displayProgress(status)

		case <-p.Done():
			// Запись доиграна: переходим к следующей в очереди
			if !app.advanceTrack(session, p, log) {
				fmt.Println("\n✅ Потоковое воспроизведение завершено")
				return nil
			}

		case <-ctx.Done():
			fmt.Println("\n⏹️  Воспроизведение остановлено")
			session.Dispatch(playback.StopPlayer{})
			p.Stop()
			return nil
		}
	}
}

// advanceTrack переключает сессию на следующую запись и запускает её.
// Возвращает false, когда очередь исчерпана.
func (app *Application) advanceTrack(session *playback.Session, p *audio.Player, log *history.Log) bool {
	before := session.CurrentTrack()
	state := session.Dispatch(playback.NextTrack{})
	if state.CurrentTrack == nil || before == nil || state.CurrentTrack.ID == before.ID {
		session.Dispatch(playback.StopPlayer{})
		p.Stop()
		return false
	}

	p.Stop()
	next := *state.CurrentTrack
	fmt.Printf("\n📖 Следующая запись: %s - %s\n", next.Reciter, next.Title)
	if err := p.Play(next); err != nil {
		fmt.Printf("❌ Ошибка воспроизведения: %v\n", err)
		return false
	}
	if err := log.Add(next); err != nil {
		fmt.Printf("⚠️  Не удалось записать историю: %v\n", err)
	}
	return true
}

// displayProgress отображает прогресс воспроизведения
func displayProgress(status audio.Status) {
	// Определяем процент завершения
	var progress string
	if status.Total > 0 {
		percent := float64(status.Current) / float64(status.Total) * 100
		progress = fmt.Sprintf("%.1f%%", percent)
	} else {
		progress = "??%"
	}

	statusIcon := "⏱️"
	statusText := "Потоковое воспроизведение"
	if !status.IsPlaying {
		statusIcon = "⏸️"
		statusText = "На паузе"
	}

	if status.Total > 0 {
		fmt.Printf("\r%s  %s | %s / %s | Статус: %s",
			statusIcon,
			progress,
			utils.FormatDuration(status.Current),
			utils.FormatDuration(status.Total),
			statusText)
	} else {
		fmt.Printf("\r%s  %s | Статус: %s",
			statusIcon,
			utils.FormatDuration(status.Current),
			statusText)
	}
}
