// Package session реализует генерацию сессий прослушивания заданной
// длительности: случайная подборка записей, суммарная длительность
// которых достигает запрошенной.
package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/playback"
)

// Params задает параметры сессии
type Params struct {
	ReciterID   string // Ограничить сессию одним чтецом (пусто — любой)
	Minutes     int    // Целевая длительность сессии в минутах
	SurahNumber int    // Ограничить сессию одной сурой (0 — любая)
}

// Packer собирает сессии из каталога записей
type Packer struct {
	provider catalog.Provider
	rnd      *rand.Rand
}

// NewPacker создает сборщик сессий.
// rnd нужен для воспроизводимости в тестах; nil — источник по времени.
func NewPacker(provider catalog.Provider, rnd *rand.Rand) *Packer {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Packer{provider: provider, rnd: rnd}
}

// Build собирает сессию: запрашивает кандидатов, перемешивает их
// и набирает записи, пока суммарная длительность не достигнет цели.
// Пустой результат — корректный ответ "недостаточно данных".
func (p *Packer) Build(ctx context.Context, params Params) ([]playback.Track, error) {
	candidates, err := p.provider.Candidates(ctx, catalog.Filter{
		ReciterID:   params.ReciterID,
		SurahNumber: params.SurahNumber,
	})
	if err != nil {
		return nil, err
	}

	// Записи без URL или длительности для сессии бесполезны
	pool := make([]playback.Track, 0, len(candidates))
	for _, track := range candidates {
		if track.URL == "" || track.DurationSeconds <= 0 {
			continue
		}
		pool = append(pool, track)
	}

	shuffle(pool, p.rnd)

	targetSeconds := params.Minutes * 60
	result := make([]playback.Track, 0, len(pool))
	accumulated := 0
	for _, track := range pool {
		result = append(result, track)
		accumulated += track.DurationSeconds
		if accumulated >= targetSeconds {
			break
		}
	}
	return result, nil
}

// shuffle перемешивает записи по Фишеру–Йетсу:
// каждая перестановка равновероятна
func shuffle(tracks []playback.Track, rnd *rand.Rand) {
	for i := len(tracks) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		tracks[i], tracks[j] = tracks[j], tracks[i]
	}
}
