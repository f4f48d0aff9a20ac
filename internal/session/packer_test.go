package session

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/tilawah/go-tilawah/internal/catalog"
	"github.com/tilawah/go-tilawah/internal/playback"
)

// fakeProvider возвращает заранее заданный пул кандидатов
type fakeProvider struct {
	tracks []playback.Track
	err    error
	filter catalog.Filter
}

func (p *fakeProvider) Candidates(_ context.Context, filter catalog.Filter) ([]playback.Track, error) {
	p.filter = filter
	return p.tracks, p.err
}

// testRand возвращает детерминированный источник случайности
func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestBuildReachesTarget(t *testing.T) {
	provider := &fakeProvider{tracks: []playback.Track{
		{ID: "1", URL: "u1", DurationSeconds: 600},
		{ID: "2", URL: "u2", DurationSeconds: 900},
		{ID: "3", URL: "u3", DurationSeconds: 1200},
	}}
	packer := NewPacker(provider, testRand())

	// Цель — 20 минут (1200 секунд)
	tracks, err := packer.Build(context.Background(), Params{Minutes: 20})
	if err != nil {
		t.Fatalf("Ошибка сборки сессии: %v", err)
	}

	if len(tracks) == 0 || len(tracks) > 3 {
		t.Fatalf("Размер сессии должен быть в пределах пула, получено %d", len(tracks))
	}

	total := 0
	for _, track := range tracks {
		total += track.DurationSeconds
	}
	if total < 1200 {
		t.Errorf("Суммарная длительность должна достигать цели 1200с, получено %dс", total)
	}

	// Набор останавливается сразу по достижении цели:
	// без последней записи длительность должна быть меньше цели
	if len(tracks) > 1 {
		withoutLast := total - tracks[len(tracks)-1].DurationSeconds
		if withoutLast >= 1200 {
			t.Error("Сборщик должен останавливаться сразу по достижении цели")
		}
	}
}

func TestBuildEmptyPool(t *testing.T) {
	packer := NewPacker(&fakeProvider{}, testRand())

	tracks, err := packer.Build(context.Background(), Params{Minutes: 30})
	if err != nil {
		t.Fatalf("Пустой пул не должен быть ошибкой: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("Из пустого пула должна получиться пустая сессия, получено %d записей", len(tracks))
	}
}

func TestBuildExhaustedPool(t *testing.T) {
	// Пул меньше цели: возвращается все накопленное, без ошибки
	provider := &fakeProvider{tracks: []playback.Track{
		{ID: "1", URL: "u1", DurationSeconds: 120},
		{ID: "2", URL: "u2", DurationSeconds: 180},
	}}
	packer := NewPacker(provider, testRand())

	tracks, err := packer.Build(context.Background(), Params{Minutes: 60})
	if err != nil {
		t.Fatalf("Короткая сессия не должна быть ошибкой: %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("Ожидались обе записи пула, получено %d", len(tracks))
	}
}

func TestBuildSkipsUnusableCandidates(t *testing.T) {
	// Записи без URL или длительности исключаются до перемешивания
	provider := &fakeProvider{tracks: []playback.Track{
		{ID: "1", URL: "", DurationSeconds: 600},
		{ID: "2", URL: "u2", DurationSeconds: 0},
		{ID: "3", URL: "u3", DurationSeconds: 300},
	}}
	packer := NewPacker(provider, testRand())

	tracks, err := packer.Build(context.Background(), Params{Minutes: 60})
	if err != nil {
		t.Fatalf("Ошибка сборки сессии: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "3" {
		t.Errorf("Ожидалась только пригодная запись 3, получено %v", tracks)
	}
}

func TestBuildPassesFilter(t *testing.T) {
	provider := &fakeProvider{}
	packer := NewPacker(provider, testRand())

	_, err := packer.Build(context.Background(), Params{ReciterID: "husary", Minutes: 15, SurahNumber: 18})
	if err != nil {
		t.Fatalf("Ошибка сборки сессии: %v", err)
	}

	if provider.filter.ReciterID != "husary" || provider.filter.SurahNumber != 18 {
		t.Errorf("Фильтр должен передаваться в каталог, получено %+v", provider.filter)
	}
}

func TestBuildProviderError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("каталог недоступен")}
	packer := NewPacker(provider, testRand())

	_, err := packer.Build(context.Background(), Params{Minutes: 10})
	if err == nil {
		t.Error("Ошибка каталога должна возвращаться вызывающему")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	tracks := make([]playback.Track, 20)
	for i := range tracks {
		tracks[i] = playback.Track{ID: fmt.Sprintf("t%d", i)}
	}

	shuffled := make([]playback.Track, len(tracks))
	copy(shuffled, tracks)
	shuffle(shuffled, testRand())

	// После перемешивания состав не меняется
	seen := make(map[string]bool, len(shuffled))
	for _, track := range shuffled {
		seen[track.ID] = true
	}
	for _, track := range tracks {
		if !seen[track.ID] {
			t.Fatalf("Запись %s потерялась при перемешивании", track.ID)
		}
	}
}
