// Package downloads содержит модель экрана загрузок для TUI
package downloads

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tilawah/go-tilawah/internal/download"
	"github.com/tilawah/go-tilawah/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00875f")).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().PaddingLeft(2)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			PaddingLeft(2)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

const refreshInterval = 500 * time.Millisecond

// GoBackMsg отправляется для возврата к каталогу
type GoBackMsg struct{}

// refreshMsg запрашивает перечитывание состояния загрузок
type refreshMsg struct{}

// Model представляет модель экрана загрузок
type Model struct {
	manager *download.Manager
	items   []download.Item
	lean    bool
}

// NewModel создает новую модель экрана загрузок
func NewModel(manager *download.Manager, lean bool) *Model {
	return &Model{
		manager: manager,
		items:   manager.Items(),
		lean:    lean,
	}
}

// Init инициализирует модель и запускает периодическое обновление
func (m *Model) Init() tea.Cmd {
	return refreshTick()
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}
		}

	case refreshMsg:
		// Менеджер — источник истины, модель держит только снимок
		m.items = m.manager.Items()
		return m, refreshTick()
	}

	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	title := titleStyle.Render("⬇️ Загрузки")

	var body string
	if len(m.items) == 0 {
		body = emptyStyle.Render("Активных загрузок нет")
	} else {
		lines := make([]string, 0, len(m.items))
		for _, item := range m.items {
			lines = append(lines, itemStyle.Render(formatItem(item, m.lean)))
		}
		body = strings.Join(lines, "\n")
	}

	controls := controlsStyle.Render("q/esc: назад к каталогу")

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, controls)
}

func formatItem(item download.Item, lean bool) string {
	var state string
	switch item.Status {
	case download.StatusDownloading:
		state = fmt.Sprintf("%3d%%", item.Progress)
	case download.StatusCompleted:
		state = "✅"
	case download.StatusError:
		state = "❌ " + item.Error
	default:
		state = "⏳"
	}

	if lean {
		return fmt.Sprintf("%-50s %s", utils.TruncateString(item.Title, 50), state)
	}
	return fmt.Sprintf("%-50s %-40s %s",
		utils.TruncateString(item.Title, 50),
		utils.TruncateString(item.URL, 40),
		state)
}
