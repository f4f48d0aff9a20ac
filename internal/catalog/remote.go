package catalog

import (
	"context"
	"fmt"
)

// ObjectFetcher получает объект из удаленного хранилища по ключу.
// Реализуется S3-клиентом приложения.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, key string) ([]byte, error)
}

// FetchIndex загружает индекс архива из удаленного хранилища.
// Так несколько машин работают с одним общим архивом.
func FetchIndex(ctx context.Context, fetcher ObjectFetcher, key string) (*Index, error) {
	data, err := fetcher.FetchObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки индекса из хранилища: %w", err)
	}
	return ParseIndex(data)
}
