// Package browser содержит модель экрана каталога записей для TUI
package browser

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// TrackSelectedMsg отправляется при выборе записи для воспроизведения
type TrackSelectedMsg struct {
	Track playback.Track
}

// TrackQueuedMsg отправляется при добавлении записи в очередь
type TrackQueuedMsg struct {
	Track playback.Track
}

// TrackDownloadMsg отправляется при запросе скачивания записи
type TrackDownloadMsg struct {
	Track playback.Track
}

// ShowDownloadsMsg отправляется для перехода на экран загрузок
type ShowDownloadsMsg struct{}

// trackItem реализует интерфейс list.Item для записи
type trackItem struct {
	track playback.Track
	lean  bool
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.track.Reciter, i.track.Title)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	duration := utils.FormatDurationFromSeconds(i.track.DurationSeconds)

	var str string
	if i.lean {
		// Компактный режим: только название и продолжительность
		str = fmt.Sprintf("%-50s %s", utils.TruncateString(i.track.Title, 50), duration)
	} else {
		// Форматируем строку в виде таблицы: Чтец | Название | Аяты | Продолжительность
		str = fmt.Sprintf("%-20s %-40s %-14s %s",
			utils.TruncateString(i.track.Reciter, 20),
			utils.TruncateString(i.track.Title, 40),
			utils.FormatAyahRange(i.track.SurahNumber, i.track.AyahFrom, i.track.AyahTo),
			duration)
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана каталога
type Model struct {
	list     list.Model
	index    *catalog.Index
	lean     bool
	quitting bool
}

// NewModel создает новую модель каталога
func NewModel(index *catalog.Index, lean bool) *Model {
	items := buildItems(index, lean)

	l := list.New(items, trackItemDelegate{}, 0, 0)
	l.Title = "Записи"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{
		list:  l,
		index: index,
		lean:  lean,
	}
}

func buildItems(index *catalog.Index, lean bool) []list.Item {
	items := make([]list.Item, len(index.Tracks))
	for i, t := range index.Tracks {
		items[i] = trackItem{track: t, lean: lean}
	}
	return items
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// RefreshData обновляет данные модели без пересоздания
func (m *Model) RefreshData() {
	m.list.SetItems(buildItems(m.index, m.lean))
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4) // Оставляем место для заголовка и справки
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.selectedTrack(); ok {
				return m, func() tea.Msg {
					return TrackSelectedMsg{Track: item}
				}
			}

		case "a":
			// Добавление выбранной записи в очередь
			if item, ok := m.selectedTrack(); ok {
				return m, func() tea.Msg {
					return TrackQueuedMsg{Track: item}
				}
			}

		case "d":
			// Скачивание выбранной записи
			if item, ok := m.selectedTrack(); ok {
				return m, func() tea.Msg {
					return TrackDownloadMsg{Track: item}
				}
			}

		case "l":
			// Переход на экран загрузок
			return m, func() tea.Msg {
				return ShowDownloadsMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) selectedTrack() (playback.Track, bool) {
	selectedItem := m.list.SelectedItem()
	if selectedItem == nil {
		return playback.Track{}, false
	}
	item, ok := selectedItem.(trackItem)
	if !ok {
		return playback.Track{}, false
	}
	return item.track, true
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	view := m.list.View()
	extraHelp := helpStyle.Render("Enter: слушать • a: в очередь • d: скачать • l: загрузки • q: выход")
	return view + "\n" + extraHelp
}
