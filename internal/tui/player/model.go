// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tilawah/go-tilawah/internal/audio"
	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00875f")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	queueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#aaaaaa")).
			MarginTop(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

const volumeStep = 0.1

// GoBackMsg отправляется для возврата к каталогу
type GoBackMsg struct{}

// ProgressMsg содержит обновления прогресса воспроизведения
type ProgressMsg struct {
	Status audio.Status
}

// PlaybackFinishedMsg отправляется при завершении воспроизведения
type PlaybackFinishedMsg struct{}

// PlaybackErrorMsg отправляется при ошибке воспроизведения
type PlaybackErrorMsg struct {
	Error error
}

// Model представляет модель экрана воспроизведения.
// Очередь и флаги живут в playback.Session, звук — в audio.Player:
// каждое нажатие сначала проходит через команду состояния, затем
// модель сверяет новый снимок со звуковым движком.
type Model struct {
	session     *playback.Session
	audioPlayer *audio.Player
	progressBar progress.Model
	status      audio.Status
	lean        bool
	error       error
	width       int
	height      int
}

// NewModel создает новую модель плеера поверх общей сессии и плеера
func NewModel(session *playback.Session, audioPlayer *audio.Player, lean bool) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		session:     session,
		audioPlayer: audioPlayer,
		progressBar: prog,
		lean:        lean,
	}
}

// Init инициализирует модель и запускает воспроизведение текущего трека
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startPlayback(),
		m.listenForProgress(),
	)
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			// Останавливаем плеер и возвращаемся к каталогу
			m.audioPlayer.Stop()
			m.session.Dispatch(playback.StopPlayer{})
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case " ":
			// Пауза/воспроизведение
			m.session.Dispatch(playback.TogglePlayPause{})
			m.audioPlayer.Pause()
			return m, nil

		case "n":
			return m.switchTrack(playback.NextTrack{})

		case "p":
			return m.switchTrack(playback.PrevTrack{})

		case "+", "=":
			return m.changeVolume(volumeStep)

		case "-":
			return m.changeVolume(-volumeStep)

		case "e":
			// Сворачиваем/разворачиваем очередь
			m.session.Dispatch(playback.ToggleExpand{})
			return m, nil
		}

	case ProgressMsg:
		m.status = msg.Status

		var percent float64
		if msg.Status.Total > 0 {
			percent = float64(msg.Status.Current) / float64(msg.Status.Total)
		}

		return m, tea.Batch(
			m.progressBar.SetPercent(percent),
			m.listenForProgress(),
		)

	case PlaybackFinishedMsg:
		// Трек доигран: пытаемся перейти к следующему в очереди
		return m.autoAdvance()

	case PlaybackErrorMsg:
		m.error = msg.Error
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// switchTrack переключает текущий трек командой Next/Prev.
// Если команда выродилась в no-op (край очереди), звук не трогаем.
func (m *Model) switchTrack(cmd playback.Command) (tea.Model, tea.Cmd) {
	before := m.session.CurrentTrack()
	state := m.session.Dispatch(cmd)
	if state.CurrentTrack == nil || before == nil || state.CurrentTrack.ID == before.ID {
		return m, nil
	}

	m.audioPlayer.Stop()
	return m, tea.Batch(
		m.startPlayback(),
		m.listenForProgress(),
	)
}

// autoAdvance переходит к следующему треку после окончания текущего
func (m *Model) autoAdvance() (tea.Model, tea.Cmd) {
	before := m.session.CurrentTrack()
	state := m.session.Dispatch(playback.NextTrack{})
	if state.CurrentTrack == nil || before == nil || state.CurrentTrack.ID == before.ID {
		// Очередь закончилась
		m.session.Dispatch(playback.StopPlayer{})
		return m, func() tea.Msg {
			return GoBackMsg{}
		}
	}

	return m, tea.Batch(
		m.startPlayback(),
		m.listenForProgress(),
	)
}

func (m *Model) changeVolume(delta float64) (tea.Model, tea.Cmd) {
	state := m.session.Dispatch(playback.SetVolume{Volume: m.session.State().Volume + delta})
	m.audioPlayer.SetVolume(state.Volume)
	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	if m.error != nil {
		return fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("❌ Ошибка воспроизведения"),
			errorStyle.Render(m.error.Error()),
			controlsStyle.Render("Нажмите 'q' или 'esc' для возврата"),
		)
	}

	state := m.session.State()
	track := state.CurrentTrack
	if track == nil {
		return titleStyle.Render("Нет текущей записи")
	}

	title := titleStyle.Render("📖 Воспроизведение")

	var trackInfo string
	if m.lean {
		trackInfo = trackInfoStyle.Render(track.Title)
	} else {
		trackInfo = trackInfoStyle.Render(fmt.Sprintf(
			"🎙 %s\n📖 %s\n🔢 %s",
			track.Reciter,
			track.Title,
			utils.FormatAyahRange(track.SurahNumber, track.AyahFrom, track.AyahTo),
		))
	}

	var statusIcon string
	if state.IsPlaying {
		statusIcon = "▶️"
	} else {
		statusIcon = "⏸️"
	}
	statusText := statusStyle.Render(fmt.Sprintf("%s %s  🔊 %d%%",
		statusIcon, formatStatus(state.IsPlaying), int(state.Volume*100)))

	progressView := m.progressBar.View()

	timeText := fmt.Sprintf(
		"%s / %s",
		utils.FormatDuration(m.status.Current),
		utils.FormatDuration(m.status.Total),
	)

	sections := []string{title, trackInfo, statusText, progressView + "\n" + timeText}

	// Развернутый режим показывает очередь
	if state.Expanded && !m.lean {
		sections = append(sections, queueStyle.Render(m.queueView(state)))
	}

	controls := controlsStyle.Render(
		"Пробел: пауза • n/p: след./пред. • +/-: громкость • e: очередь • q/esc: назад",
	)
	sections = append(sections, controls)

	return strings.Join(sections, "\n\n")
}

func (m *Model) queueView(state playback.State) string {
	if len(state.Queue) == 0 {
		return "Очередь пуста"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Очередь (%d):", len(state.Queue)))
	for i, t := range state.Queue {
		marker := "  "
		if state.CurrentTrack != nil && t.ID == state.CurrentTrack.ID {
			marker = "▶ "
		}
		b.WriteString(fmt.Sprintf("\n%s%d. %s — %s", marker, i+1,
			utils.TruncateString(t.Reciter, 20), utils.TruncateString(t.Title, 40)))
	}
	return b.String()
}

// startPlayback запускает воспроизведение текущего трека сессии
func (m *Model) startPlayback() tea.Cmd {
	return func() tea.Msg {
		track := m.session.CurrentTrack()
		if track == nil {
			return PlaybackErrorMsg{Error: fmt.Errorf("нет текущей записи для воспроизведения")}
		}
		if err := m.audioPlayer.Play(*track); err != nil {
			return PlaybackErrorMsg{Error: err}
		}
		return nil
	}
}

// listenForProgress слушает обновления прогресса от плеера
func (m *Model) listenForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case status, ok := <-m.audioPlayer.Progress():
			if !ok {
				return PlaybackFinishedMsg{}
			}
			return ProgressMsg{Status: status}

		case _, ok := <-m.audioPlayer.Done():
			if !ok {
				return PlaybackFinishedMsg{}
			}
			return PlaybackFinishedMsg{}
		}
	}
}

// Вспомогательные функции

func formatStatus(isPlaying bool) string {
	if isPlaying {
		return "Воспроизведение"
	}
	return "Пауза"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
