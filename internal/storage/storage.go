// Package storage предоставляет единый интерфейс доступа к локальному
// хранилищу ключ-значение. Через него сохраняются история прослушивания,
// записи о скачанных треках и настройки интерфейса.
package storage

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Storage описывает долговременное хранилище строковых значений по ключу
type Storage interface {
	// Get возвращает значение по ключу; false — ключ отсутствует
	Get(key string) (string, bool)
	// Set записывает значение по ключу
	Set(key, value string) error
	// Remove удаляет ключ; отсутствующий ключ — не ошибка
	Remove(key string) error
}

// FileStorage хранит значения в одном YAML-файле
type FileStorage struct {
	mutex  sync.Mutex
	path   string
	values map[string]string
}

// OpenFile открывает файловое хранилище по указанному пути.
// Отсутствующий файл не ошибка: хранилище начинает с пустого состояния.
func OpenFile(filePath string) (*FileStorage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	fs := &FileStorage{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла хранилища: %w", err)
	}
	if len(data) == 0 {
		return fs, nil
	}
	if err := yaml.Unmarshal(data, &fs.values); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла хранилища: %w", err)
	}
	return fs, nil
}

// Get возвращает значение по ключу
func (fs *FileStorage) Get(key string) (string, bool) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	value, ok := fs.values[key]
	return value, ok
}

// Set записывает значение и сохраняет файл
func (fs *FileStorage) Set(key, value string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.values[key] = value
	return fs.flush()
}

// Remove удаляет ключ и сохраняет файл
func (fs *FileStorage) Remove(key string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	if _, ok := fs.values[key]; !ok {
		return nil
	}
	delete(fs.values, key)
	return fs.flush()
}

// flush записывает текущее содержимое на диск (вызывается под мьютексом)
func (fs *FileStorage) flush() error {
	data, err := yaml.Marshal(fs.values)
	if err != nil {
		return fmt.Errorf("ошибка сериализации хранилища: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла хранилища: %w", err)
	}
	return nil
}

// Memory хранит значения в памяти; используется в тестах
type Memory struct {
	mutex  sync.Mutex
	values map[string]string
}

// NewMemory создает пустое хранилище в памяти
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get возвращает значение по ключу
func (m *Memory) Get(key string) (string, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	value, ok := m.values[key]
	return value, ok
}

// Set записывает значение по ключу
func (m *Memory) Set(key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.values[key] = value
	return nil
}

// Remove удаляет ключ
func (m *Memory) Remove(key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.values, key)
	return nil
}
