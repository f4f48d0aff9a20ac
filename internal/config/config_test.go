package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadConfigFromFile(t *testing.T) {
	// Создаем временный файл конфигурации
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	// Создаем тестовую конфигурацию
	testConfig := Config{
		AwsBucketName: "test-bucket",
		AwsAccessKey:  "test-access-key",
		AwsSecretKey:  "test-secret-key",
		AwsRegion:     "us-east-1",
		AwsEndpoint:   "https://s3.amazonaws.com",
		DownloadDir:   "~/test-downloads",
		IndexPath:     "~/test-archive.yml",
		Role:          "admin",
	}

	// Сериализуем конфигурацию в YAML
	data, err := yaml.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}

	// Записываем в файл
	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	// Загружаем конфигурацию
	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Проверяем, что конфигурация загружена корректно
	if loadedConfig.AwsBucketName != testConfig.AwsBucketName {
		t.Errorf("Ожидался AwsBucketName: %s, получено: %s", testConfig.AwsBucketName, loadedConfig.AwsBucketName)
	}
	if loadedConfig.AwsAccessKey != testConfig.AwsAccessKey {
		t.Errorf("Ожидался AwsAccessKey: %s, получено: %s", testConfig.AwsAccessKey, loadedConfig.AwsAccessKey)
	}
	if loadedConfig.Role != "admin" {
		t.Errorf("Ожидалась роль admin, получено: %s", loadedConfig.Role)
	}

	// Проверяем, что пути раскрываются с тильдой
	home, _ := os.UserHomeDir()
	expectedDownloadDir := strings.Replace(testConfig.DownloadDir, "~", home, 1)
	if loadedConfig.DownloadDir != expectedDownloadDir {
		t.Errorf("Ожидался DownloadDir: %s, получено: %s", expectedDownloadDir, loadedConfig.DownloadDir)
	}
	expectedIndexPath := strings.Replace(testConfig.IndexPath, "~", home, 1)
	if loadedConfig.IndexPath != expectedIndexPath {
		t.Errorf("Ожидался IndexPath: %s, получено: %s", expectedIndexPath, loadedConfig.IndexPath)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Создаем временный файл конфигурации с минимальными данными
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "minimal_config.yaml")

	// Создаем минимальную конфигурацию
	minimalConfig := map[string]string{
		"aws_bucket_name": "test-bucket",
		"aws_access_key":  "test-key",
	}

	// Сериализуем в YAML
	data, err := yaml.Marshal(minimalConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}

	// Записываем в файл
	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	// Загружаем конфигурацию
	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Проверяем значения по умолчанию
	home, _ := os.UserHomeDir()
	expectedDownloadDir := filepath.Join(home, "Downloads")
	if loadedConfig.DownloadDir != expectedDownloadDir {
		t.Errorf("Ожидался DownloadDir по умолчанию: %s, получено: %s", expectedDownloadDir, loadedConfig.DownloadDir)
	}
	if loadedConfig.IndexS3Key != "archive.yml" {
		t.Errorf("Ожидался IndexS3Key по умолчанию: archive.yml, получено: %s", loadedConfig.IndexS3Key)
	}
	if loadedConfig.Role != "viewer" {
		t.Errorf("Ожидалась роль по умолчанию viewer, получено: %s", loadedConfig.Role)
	}
}

func TestLoadConfigNonExistentFile(t *testing.T) {
	// Пытаемся загрузить несуществующий файл
	_, err := LoadConfig("/non/existent/config.yaml")

	if err == nil {
		t.Error("Ожидалась ошибка при загрузке несуществующего файла")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	// Создаем временный файл с некорректным YAML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid_config.yaml")

	invalidYAML := `aws_bucket_name: "test-bucket"
aws_access_key: "test-key"
invalid_field: [unclosed array
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	if err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	// Пытаемся загрузить некорректный файл
	_, err = LoadConfig(configPath)

	if err == nil {
		t.Error("Ожидалась ошибка при загрузке некорректного YAML")
	}
}
