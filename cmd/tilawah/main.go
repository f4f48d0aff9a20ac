package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tilawah/go-tilawah/internal/access"
	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/config"
	"github.com/tilawah/go-tilawah/internal/storage"
)

const (
	defaultConfigPath = "~/.tilawah"
)

// Application хранит общие зависимости команд приложения
type Application struct {
	Config  *config.Config
	Index   *catalog.Index
	Storage storage.Storage
	User    *access.User
}

// SaveIndex сохраняет индекс архива на диск
func (app *Application) SaveIndex() error {
	return app.Index.Save(app.Config.IndexPath)
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Загружаем индекс архива (отсутствующий файл — пустой архив)
	index, err := catalog.LoadIndex(cfg.IndexPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки индекса архива: %v", err)
	}

	// Открываем локальное хранилище настроек и истории
	st, err := storage.OpenFile(cfg.StatePath)
	if err != nil {
		log.Fatalf("Ошибка открытия хранилища: %v", err)
	}

	app := &Application{
		Config:  cfg,
		Index:   index,
		Storage: st,
		User: &access.User{
			ID:   "local",
			Role: access.Role(cfg.Role),
		},
	}

	// Контекст с отменой по сигналам прерывания
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := app.createRootCommand(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
