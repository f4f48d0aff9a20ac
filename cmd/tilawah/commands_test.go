package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/tilawah/go-tilawah/internal/access"
	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/config"
	"github.com/tilawah/go-tilawah/internal/history"
	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/storage"
)

// captureOutput перехватывает stdout и stderr во время выполнения функции
func captureOutput(t *testing.T, fn func()) string {
	// Сохраняем оригинальные stdout и stderr
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	// Создаем временные файлы для перехвата
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Ошибка создания pipe: %v", err)
	}

	// Перенаправляем stdout и stderr
	os.Stdout = w
	os.Stderr = w

	// Выполняем функцию
	fn()

	// Восстанавливаем оригинальные stdout и stderr
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	// Закрываем writer
	w.Close()

	// Читаем результат
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Ошибка чтения результата: %v", err)
	}

	return buf.String()
}

// createTestApplication создает тестовое приложение с данными в памяти
func createTestApplication(t *testing.T, role access.Role) *Application {
	t.Helper()

	tempDir := t.TempDir()

	testConfig := &config.Config{
		AwsRegion:     "us-east-1",
		AwsAccessKey:  "test-key",
		AwsSecretKey:  "test-secret",
		AwsEndpoint:   "http://localhost:9000",
		AwsBucketName: "test-bucket",
		DownloadDir:   tempDir,
		IndexPath:     tempDir + "/archive.yml",
		StatePath:     tempDir + "/state.yml",
		Role:          string(role),
	}

	return &Application{
		Config:  testConfig,
		Index:   catalog.NewIndex(),
		Storage: storage.NewMemory(),
		User: &access.User{
			ID:   "test",
			Role: role,
		},
	}
}

// TestCmdList проверяет, что команда `list` корректно выводит список записей
func TestCmdList(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	// Добавляем тестовую запись в индекс
	app.Index.AddTrack(playback.Track{
		ID:              "rec-1",
		Title:           "Сура Аль-Фатиха",
		Reciter:         "Тестовый чтец",
		SurahNumber:     1,
		AyahFrom:        1,
		AyahTo:          7,
		DurationSeconds: 180,
		FileSize:        1024000,
		URL:             "https://s3.example.com/test.mp3",
	})

	// Создаем команду list
	listCmd := app.createListCommand()

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		err := listCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	// Проверяем вывод
	expectedStrings := []string{
		"📚 Найдено записей: 1",
		"rec-1",
		"Тестовый чтец",
		"Сура Аль-Фатиха",
		"сура 1, аяты 1–7",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды list не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdListEmpty проверяет, что команда `list` корректно обрабатывает пустой архив
func TestCmdListEmpty(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	// Создаем команду list
	listCmd := app.createListCommand()

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		err := listCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	// Проверяем вывод для пустого архива
	if !strings.Contains(output, "📚 Архив пуст") {
		t.Errorf("Команда list не отобразила сообщение о пустом архиве: %s", output)
	}
}

// TestCmdDelete проверяет, что команда `delete` удаляет указанную запись
func TestCmdDelete(t *testing.T) {
	app := createTestApplication(t, access.RoleAdmin)

	// Добавляем тестовые записи (без URL, чтобы не трогать S3)
	app.Index.AddTrack(playback.Track{
		ID:      "rec-1",
		Reciter: "Чтец 1",
		Title:   "Запись 1",
	})
	app.Index.AddTrack(playback.Track{
		ID:      "rec-2",
		Reciter: "Чтец 2",
		Title:   "Запись 2",
	})

	// Проверяем, что записи добавлены
	if len(app.Index.Tracks) != 2 {
		t.Fatalf("Ожидалось 2 записи, получено %d", len(app.Index.Tracks))
	}

	// Создаем команду delete
	ctx := context.Background()
	deleteCmd := app.createDeleteCommand(ctx)

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		deleteCmd.SetArgs([]string{"rec-1"})
		err := deleteCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды delete: %v", err)
		}
	})

	// Проверяем вывод
	if !strings.Contains(output, "🗑️  Удаляем запись: Чтец 1 - Запись 1") {
		t.Errorf("Команда delete не отобразила ожидаемый вывод: %s", output)
	}

	// Проверяем, что запись была удалена из индекса
	if len(app.Index.Tracks) != 1 {
		t.Errorf("Ожидалась 1 запись после удаления, получено %d", len(app.Index.Tracks))
	}

	// Проверяем, что оставшаяся запись правильная
	remaining := app.Index.Tracks[0]
	if remaining.ID != "rec-2" {
		t.Errorf("Ожидался ID: rec-2, получено: %s", remaining.ID)
	}
}

// TestCmdDeleteDenied проверяет, что без права delete команда отказывает
func TestCmdDeleteDenied(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	app.Index.AddTrack(playback.Track{
		ID:      "rec-1",
		Reciter: "Чтец 1",
		Title:   "Запись 1",
	})

	ctx := context.Background()
	deleteCmd := app.createDeleteCommand(ctx)

	output := captureOutput(t, func() {
		deleteCmd.SetArgs([]string{"rec-1"})
		err := deleteCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды delete: %v", err)
		}
	})

	// Проверяем, что команда отказала в доступе
	if !strings.Contains(output, "недостаточно прав") {
		t.Errorf("Команда delete не отобразила отказ в доступе: %s", output)
	}

	// Запись должна остаться в индексе
	if len(app.Index.Tracks) != 1 {
		t.Errorf("Ожидалась 1 запись после отказа, получено %d", len(app.Index.Tracks))
	}
}

// TestCmdImportInvalidURL проверяет обработку неверного URL в команде import
func TestCmdImportInvalidURL(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	// Создаем команду import
	importCmd := app.createImportCommand()
	importCmd.SetOut(io.Discard)
	importCmd.SetErr(io.Discard)

	captureOutput(t, func() {
		importCmd.SetArgs([]string{"not a valid url"})
		err := importCmd.Execute()

		// Проверяем результат
		if err == nil {
			t.Error("Ожидалась ошибка при выполнении команды import с неверным URL")
			return
		}

		if !strings.Contains(err.Error(), "ошибка извлечения ID видео") {
			t.Errorf("Неожиданная ошибка команды import: %v", err)
		}
	})
}

// TestCmdAddInvalidArgs проверяет обработку неверных аргументов в команде add
func TestCmdAddInvalidArgs(t *testing.T) {
	app := createTestApplication(t, access.RoleAdmin)

	// Создаем команду add
	ctx := context.Background()
	addCmd := app.createAddCommand(ctx)

	// Захватываем вывод
	var buf bytes.Buffer
	addCmd.SetOut(&buf)
	addCmd.SetErr(&buf)

	// Выполняем команду без аргументов
	err := addCmd.Execute()

	// Проверяем, что команда отображает ошибку о неверных аргументах
	if err == nil {
		t.Error("Ожидалась ошибка при выполнении команды add без аргументов")
	}

	// Проверяем вывод об ошибке
	output := buf.String()
	if !strings.Contains(output, "requires exactly 1 arg") && !strings.Contains(output, "accepts 1 arg") {
		t.Errorf("Команда add не отобразила ошибку о неверных аргументах: %s", output)
	}
}

// TestCmdHistory проверяет, что команда `history` выводит записанные прослушивания
func TestCmdHistory(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	// Записываем прослушивание напрямую через журнал
	log := history.NewLog(app.Storage)
	if err := log.Add(playback.Track{
		ID:      "rec-1",
		Reciter: "Тестовый чтец",
		Title:   "Сура Аль-Мульк",
	}); err != nil {
		t.Fatalf("Ошибка записи истории: %v", err)
	}

	historyCmd := app.createHistoryCommand()

	output := captureOutput(t, func() {
		historyCmd.SetArgs([]string{})
		err := historyCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды history: %v", err)
		}
	})

	expectedStrings := []string{
		"📜 История прослушивания (1)",
		"Тестовый чтец",
		"Сура Аль-Мульк",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды history не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdHistoryClear проверяет очистку истории через флаг --clear
func TestCmdHistoryClear(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	log := history.NewLog(app.Storage)
	if err := log.Add(playback.Track{ID: "rec-1", Title: "Запись"}); err != nil {
		t.Fatalf("Ошибка записи истории: %v", err)
	}

	historyCmd := app.createHistoryCommand()

	output := captureOutput(t, func() {
		historyCmd.SetArgs([]string{"--clear"})
		err := historyCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды history --clear: %v", err)
		}
	})

	if !strings.Contains(output, "✅ История прослушивания очищена") {
		t.Errorf("Команда history --clear не отобразила подтверждение: %s", output)
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Ошибка чтения истории: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Ожидалась пустая история после очистки, получено %d записей", len(entries))
	}
}

// TestCmdDownloadsEmpty проверяет вывод команды `downloads` без скачанных записей
func TestCmdDownloadsEmpty(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	downloadsCmd := app.createDownloadsCommand()

	output := captureOutput(t, func() {
		downloadsCmd.SetArgs([]string{})
		err := downloadsCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды downloads: %v", err)
		}
	})

	if !strings.Contains(output, "⬇️  Скачанных записей нет") {
		t.Errorf("Команда downloads не отобразила сообщение о пустом списке: %s", output)
	}
}

// TestCmdSessionDryRun проверяет сборку сессии без воспроизведения
func TestCmdSessionDryRun(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	// Добавляем записи, которых хватит на минутную сессию
	app.Index.AddTrack(playback.Track{
		ID:              "rec-1",
		Reciter:         "Чтец",
		Title:           "Запись 1",
		DurationSeconds: 60,
		URL:             "https://s3.example.com/1.mp3",
	})
	app.Index.AddTrack(playback.Track{
		ID:              "rec-2",
		Reciter:         "Чтец",
		Title:           "Запись 2",
		DurationSeconds: 60,
		URL:             "https://s3.example.com/2.mp3",
	})

	ctx := context.Background()
	sessionCmd := app.createSessionCommand(ctx)

	output := captureOutput(t, func() {
		sessionCmd.SetArgs([]string{"--dry-run", "--minutes", "1"})
		err := sessionCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды session: %v", err)
		}
	})

	if !strings.Contains(output, "📖 Сессия из") {
		t.Errorf("Команда session не отобразила состав сессии: %s", output)
	}
	if !strings.Contains(output, "Итого:") {
		t.Errorf("Команда session не отобразила суммарную длительность: %s", output)
	}
}

// TestCmdSessionEmptyArchive проверяет поведение session при пустом архиве
func TestCmdSessionEmptyArchive(t *testing.T) {
	app := createTestApplication(t, access.RoleViewer)

	ctx := context.Background()
	sessionCmd := app.createSessionCommand(ctx)

	output := captureOutput(t, func() {
		sessionCmd.SetArgs([]string{"--dry-run"})
		err := sessionCmd.Execute()
		if err != nil {
			t.Errorf("Ошибка выполнения команды session: %v", err)
		}
	})

	if !strings.Contains(output, "📚 В архиве нет подходящих записей") {
		t.Errorf("Команда session не отобразила сообщение о пустом архиве: %s", output)
	}
}
