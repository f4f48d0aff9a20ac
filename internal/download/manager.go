// Package download управляет скачиванием записей для офлайн-прослушивания:
// жизненный цикл по URL, прогресс и запись о завершении в локальном хранилище
package download

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/storage"
)

// Status представляет стадию скачивания
type Status string

// Стадии жизненного цикла скачивания
const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// Item представляет одно скачивание, ключ — URL записи
type Item struct {
	URL      string
	TrackID  string
	Title    string
	Progress int // Процент 0–100, не убывает во время скачивания
	Status   Status
	Error    string // Сообщение об ошибке для статуса error
}

// Fetcher выполняет собственно перенос байтов.
// onProgress сообщает (loaded, total); total может быть неизвестен (0).
type Fetcher interface {
	Fetch(ctx context.Context, url string, onProgress func(loaded, total int64)) error
}

// Notifier получает уведомления о завершении скачиваний для интерфейса
type Notifier func(message string)

// Manager ведет скачивания. Записи независимы: ошибка одного URL
// не влияет на остальные.
type Manager struct {
	mutex   sync.RWMutex
	items   map[string]*Item
	fetcher Fetcher
	storage storage.Storage
	notify  Notifier
	now     func() time.Time
}

// NewManager создает менеджер скачиваний
func NewManager(fetcher Fetcher, st storage.Storage, notify Notifier) *Manager {
	return &Manager{
		items:   make(map[string]*Item),
		fetcher: fetcher,
		storage: st,
		notify:  notify,
		now:     time.Now,
	}
}

// StartDownload выполняет скачивание записи и блокируется до его завершения.
// Возвращает false, если этот URL уже скачивается: на один URL — не больше
// одного активного переноса.
func (m *Manager) StartDownload(ctx context.Context, track playback.Track) bool {
	m.mutex.Lock()
	if item, ok := m.items[track.URL]; ok && item.Status == StatusDownloading {
		m.mutex.Unlock()
		return false
	}
	item := &Item{
		URL:     track.URL,
		TrackID: track.ID,
		Title:   track.Title,
		Status:  StatusPending,
	}
	m.items[track.URL] = item
	item.Status = StatusDownloading
	item.Progress = 0
	m.mutex.Unlock()

	err := m.fetcher.Fetch(ctx, track.URL, func(loaded, total int64) {
		m.reportProgress(track.URL, loaded, total)
	})

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err == nil {
		// Записываем отметку о скачанном треке до смены статуса:
		// неудачная запись тоже считается ошибкой скачивания
		err = saveDownloadedTrack(m.storage, track, m.now())
	}

	if err != nil {
		item.Status = StatusError
		item.Error = err.Error()
		m.sendNotification("❌ Не удалось скачать: " + track.Title)
		return true
	}

	item.Status = StatusCompleted
	item.Progress = 100
	m.sendNotification("✅ Скачано: " + track.Title)
	return true
}

// reportProgress обновляет процент по данным переноса
func (m *Manager) reportProgress(url string, loaded, total int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	item, ok := m.items[url]
	if !ok || item.Status != StatusDownloading {
		return
	}
	// Без известного total процент не выдумываем — держим последнее значение
	if total <= 0 {
		return
	}
	percent := int(math.Round(float64(loaded) / float64(total) * 100))
	if percent > 100 {
		percent = 100
	}
	if percent > item.Progress {
		item.Progress = percent
	}
}

// sendNotification отправляет уведомление, если оно настроено
// (вызывается под мьютексом)
func (m *Manager) sendNotification(message string) {
	if m.notify != nil {
		m.notify(message)
	}
}

// RemoveDownload удаляет запись о скачивании из памяти.
// Активное скачивание удалить нельзя: отмены переноса нет,
// запись убирается только в конечном статусе.
func (m *Manager) RemoveDownload(url string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	item, ok := m.items[url]
	if !ok {
		return true
	}
	if item.Status == StatusDownloading {
		return false
	}
	delete(m.items, url)
	return true
}

// IsDownloading возвращает true, если URL сейчас скачивается
func (m *Manager) IsDownloading(url string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	item, ok := m.items[url]
	return ok && item.Status == StatusDownloading
}

// Progress возвращает процент скачивания URL (0 для неизвестного)
func (m *Manager) Progress(url string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if item, ok := m.items[url]; ok {
		return item.Progress
	}
	return 0
}

// Item возвращает копию записи о скачивании по URL
func (m *Manager) Item(url string) (Item, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if item, ok := m.items[url]; ok {
		return *item, true
	}
	return Item{}, false
}

// Items возвращает копии всех записей, отсортированные по URL
func (m *Manager) Items() []Item {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	items := make([]Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].URL < items[j].URL
	})
	return items
}
