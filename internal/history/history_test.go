package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/storage"
)

// newTestLog создает журнал с управляемыми часами
func newTestLog() (*Log, *time.Time) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	log := NewLog(storage.NewMemory())
	log.now = func() time.Time { return current }
	return log, &current
}

func TestAddAndEntries(t *testing.T) {
	log, _ := newTestLog()

	track := playback.Track{ID: "t1", Title: "Сура Аль-Мульк", Reciter: "Тестовый чтец"}
	if err := log.Add(track); err != nil {
		t.Fatalf("Ошибка добавления отметки: %v", err)
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Ошибка чтения истории: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Ожидалась 1 отметка, получено %d", len(entries))
	}
	if entries[0].TrackID != "t1" || entries[0].Title != "Сура Аль-Мульк" {
		t.Errorf("Отметка должна хранить данные трека, получено %+v", entries[0])
	}
}

func TestBoundedToFifty(t *testing.T) {
	log, current := newTestLog()

	// Добавляем 51 разный трек с интервалом в минуту
	for i := 0; i < 51; i++ {
		*current = current.Add(time.Minute)
		track := playback.Track{ID: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("Запись %d", i)}
		if err := log.Add(track); err != nil {
			t.Fatalf("Ошибка добавления отметки: %v", err)
		}
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Ошибка чтения истории: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("История должна хранить 50 отметок, получено %d", len(entries))
	}

	// Новые отметки первыми: самая свежая — t50, самая старая (t0) вытеснена
	if entries[0].TrackID != "t50" {
		t.Errorf("Первой должна быть самая свежая отметка t50, получено %s", entries[0].TrackID)
	}
	if entries[len(entries)-1].TrackID != "t1" {
		t.Errorf("Последней должна быть отметка t1, получено %s", entries[len(entries)-1].TrackID)
	}
}

func TestDedupeWithinHour(t *testing.T) {
	log, current := newTestLog()

	track := playback.Track{ID: "t1", Title: "Сура Йа Син"}
	if err := log.Add(track); err != nil {
		t.Fatalf("Ошибка добавления отметки: %v", err)
	}

	// Повтор через полчаса перезаписывает, а не дублирует
	*current = current.Add(30 * time.Minute)
	if err := log.Add(track); err != nil {
		t.Fatalf("Ошибка добавления отметки: %v", err)
	}

	entries, _ := log.Entries()
	if len(entries) != 1 {
		t.Fatalf("Повтор в пределах часа не должен дублировать, получено %d отметок", len(entries))
	}
	if !entries[0].ListenedAt.Equal(*current) {
		t.Error("Отметка должна обновиться на свежее время")
	}
}

func TestNoDedupeAfterHour(t *testing.T) {
	log, current := newTestLog()

	track := playback.Track{ID: "t1", Title: "Сура Йа Син"}
	if err := log.Add(track); err != nil {
		t.Fatalf("Ошибка добавления отметки: %v", err)
	}

	// Повтор спустя больше часа — отдельная отметка
	*current = current.Add(2 * time.Hour)
	if err := log.Add(track); err != nil {
		t.Fatalf("Ошибка добавления отметки: %v", err)
	}

	entries, _ := log.Entries()
	if len(entries) != 2 {
		t.Errorf("Повтор спустя час должен дать отдельную отметку, получено %d", len(entries))
	}
}

func TestClear(t *testing.T) {
	log, _ := newTestLog()

	if err := log.Add(playback.Track{ID: "t1"}); err != nil {
		t.Fatalf("Ошибка добавления отметки: %v", err)
	}
	if err := log.Clear(); err != nil {
		t.Fatalf("Ошибка очистки истории: %v", err)
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Ошибка чтения истории: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("После очистки история должна быть пустой, получено %d отметок", len(entries))
	}
}
