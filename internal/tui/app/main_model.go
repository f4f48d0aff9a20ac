// Package app содержит основную логику TUI приложения
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tilawah/go-tilawah/internal/audio"
	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/download"
	"github.com/tilawah/go-tilawah/internal/history"
	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/tui/browser"
	"github.com/tilawah/go-tilawah/internal/tui/downloads"
	tuiPlayer "github.com/tilawah/go-tilawah/internal/tui/player"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// BrowserScreen - экран каталога записей
	BrowserScreen ScreenType = iota
	// PlayerScreen - экран плеера
	PlayerScreen
	// DownloadsScreen - экран загрузок
	DownloadsScreen
)

// Deps собирает зависимости TUI приложения
type Deps struct {
	Index     *catalog.Index
	Session   *playback.Session
	Player    *audio.Player
	Downloads *download.Manager
	History   *history.Log
	Lean      bool
}

// MainModel представляет главную модель TUI
type MainModel struct {
	deps           Deps
	currentScreen  ScreenType
	browserModel   *browser.Model
	playerModel    *tuiPlayer.Model
	downloadsModel *downloads.Model
}

// NewMainModel создает новую главную модель
func NewMainModel(deps Deps) *MainModel {
	return &MainModel{
		deps:          deps,
		currentScreen: BrowserScreen,
		browserModel:  browser.NewModel(deps.Index, deps.Lean),
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return m.browserModel.Init()
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		switch msg.String() {
		case "ctrl+c":
			// Останавливаем плеер перед выходом
			if m.deps.Player != nil {
				m.deps.Player.Stop()
			}
			return m, tea.Quit
		}

	case browser.TrackSelectedMsg:
		// Очередь задается целиком до запуска: Next/Prev получают контекст
		m.deps.Session.Dispatch(playback.SetQueue{Tracks: m.deps.Index.Tracks})
		m.deps.Session.Dispatch(playback.PlayTrack{Track: msg.Track})
		if m.deps.History != nil {
			_ = m.deps.History.Add(msg.Track)
		}

		m.currentScreen = PlayerScreen
		m.playerModel = tuiPlayer.NewModel(m.deps.Session, m.deps.Player, m.deps.Lean)
		return m, m.playerModel.Init()

	case browser.TrackQueuedMsg:
		m.deps.Session.AddToQueue(msg.Track)
		return m, nil

	case browser.TrackDownloadMsg:
		// Скачивание идет в фоне, сразу показываем экран загрузок
		track := msg.Track
		m.currentScreen = DownloadsScreen
		m.downloadsModel = downloads.NewModel(m.deps.Downloads, m.deps.Lean)
		return m, tea.Batch(
			m.downloadsModel.Init(),
			func() tea.Msg {
				m.deps.Downloads.StartDownload(context.Background(), track)
				return nil
			},
		)

	case browser.ShowDownloadsMsg:
		m.currentScreen = DownloadsScreen
		m.downloadsModel = downloads.NewModel(m.deps.Downloads, m.deps.Lean)
		return m, m.downloadsModel.Init()

	case tuiPlayer.GoBackMsg:
		// Возвращаемся к каталогу
		m.currentScreen = BrowserScreen
		m.playerModel = nil
		return m, nil

	case downloads.GoBackMsg:
		m.currentScreen = BrowserScreen
		m.downloadsModel = nil
		return m, nil

	case tea.WindowSizeMsg:
		// Передаем размеры окна активной модели
		switch m.currentScreen {
		case BrowserScreen:
			var browserCmd tea.Cmd
			m.browserModel, browserCmd = m.browserModel.Update(msg)
			return m, browserCmd
		case PlayerScreen:
			if m.playerModel != nil {
				updatedModel, playerCmd := m.playerModel.Update(msg)
				if playerModel, ok := updatedModel.(*tuiPlayer.Model); ok {
					m.playerModel = playerModel
				}
				return m, playerCmd
			}
		case DownloadsScreen:
			if m.downloadsModel != nil {
				var downloadsCmd tea.Cmd
				m.downloadsModel, downloadsCmd = m.downloadsModel.Update(msg)
				return m, downloadsCmd
			}
		}
		return m, nil
	}

	// Передаем сообщение активной модели
	switch m.currentScreen {
	case BrowserScreen:
		var browserCmd tea.Cmd
		m.browserModel, browserCmd = m.browserModel.Update(msg)
		cmd = browserCmd

	case PlayerScreen:
		if m.playerModel != nil {
			updatedModel, playerCmd := m.playerModel.Update(msg)
			if playerModel, ok := updatedModel.(*tuiPlayer.Model); ok {
				m.playerModel = playerModel
			}
			cmd = playerCmd
		}

	case DownloadsScreen:
		if m.downloadsModel != nil {
			var downloadsCmd tea.Cmd
			m.downloadsModel, downloadsCmd = m.downloadsModel.Update(msg)
			cmd = downloadsCmd
		}
	}

	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case BrowserScreen:
		return m.browserModel.View()

	case PlayerScreen:
		if m.playerModel != nil {
			return m.playerModel.View()
		}
		return "Ошибка: модель плеера не инициализирована"

	case DownloadsScreen:
		if m.downloadsModel != nil {
			return m.downloadsModel.View()
		}
		return "Ошибка: модель загрузок не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	if m.deps.Player != nil {
		_ = m.deps.Player.Close()
	}
}
