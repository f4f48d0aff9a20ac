// Package audio содержит движок воспроизведения записей поверх beep:
// потоковое чтение по URL, декодирование MP3 и управление громкостью
package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/tilawah/go-tilawah/internal/playback"
	"github.com/tilawah/go-tilawah/internal/streaming"
)

// Размер буфера потокового чтения
const streamBufferSize = 256 * 1024

// Status представляет текущий статус воспроизведения
type Status struct {
	Current   time.Duration // Текущая позиция
	Total     time.Duration // Общая продолжительность
	IsPlaying bool          // Воспроизводится ли запись
}

// Player воспроизводит записи архива
type Player struct {
	// Каналы для обратной связи
	progressChan chan Status
	doneChan     chan bool

	// Внутреннее состояние
	ctx           context.Context
	cancel        context.CancelFunc
	mutex         sync.RWMutex
	isInitialized bool
	isPaused      bool
	volume        float64
	currentTrack  *playback.Track

	// Компоненты воспроизведения
	streamer     beep.StreamSeekCloser
	ctrl         *beep.Ctrl
	volumeCtrl   *effects.Volume
	streamReader *streaming.Reader
}

// NewPlayer создает новый экземпляр плеера
func NewPlayer() *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
		volume:       1.0,
	}
}

// Progress возвращает канал для получения обновлений прогресса
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done возвращает канал, сигнализирующий о завершении воспроизведения
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// Play начинает воспроизведение записи
func (p *Player) Play(track playback.Track) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Останавливаем текущее воспроизведение, если есть
	p.stopInternal()

	trackCopy := track
	p.currentTrack = &trackCopy

	// Создаем потоковый ридер
	streamReader, err := streaming.NewReader(p.ctx, track.URL, streamBufferSize)
	if err != nil {
		return fmt.Errorf("ошибка создания потокового ридера: %w", err)
	}
	p.streamReader = streamReader

	// Декодируем MP3
	streamer, format, err := mp3.Decode(streamReader)
	if err != nil {
		streamReader.Close()
		return fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	p.streamer = streamer

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/5))
		if err != nil {
			streamer.Close()
			streamReader.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
	}

	// Контроллер паузы и регулятор громкости
	p.ctrl = &beep.Ctrl{
		Streamer: streamer,
		Paused:   false,
	}
	p.volumeCtrl = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   volumeToGain(p.volume),
		Silent:   p.volume == 0,
	}
	p.isPaused = false

	// Запускаем воспроизведение
	speaker.Play(beep.Seq(p.volumeCtrl, beep.Callback(func() {
		select {
		case p.doneChan <- true:
		default:
		}
	})))

	// Мониторинг прогресса в отдельной горутине
	go p.monitorProgress(format)

	return nil
}

// Pause приостанавливает или возобновляет воспроизведение
func (p *Player) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.isPaused = !p.isPaused
		p.ctrl.Paused = p.isPaused
		speaker.Unlock()
	}
}

// SetVolume устанавливает громкость воспроизведения (0.0–1.0)
func (p *Player) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.volume = volume
	if p.volumeCtrl != nil {
		speaker.Lock()
		p.volumeCtrl.Volume = volumeToGain(volume)
		p.volumeCtrl.Silent = volume == 0
		speaker.Unlock()
	}
}

// Stop останавливает воспроизведение
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// stopInternal внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopInternal() {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
		p.volumeCtrl = nil
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}

	if p.streamReader != nil {
		p.streamReader.Close()
		p.streamReader = nil
	}

	p.currentTrack = nil
	p.isPaused = false
}

// Close закрывает плеер и освобождает ресурсы
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	close(p.progressChan)
	close(p.doneChan)
	return nil
}

// IsPlaying возвращает true, если запись воспроизводится
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused
}

// CurrentTrack возвращает текущую запись, либо nil
func (p *Player) CurrentTrack() *playback.Track {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.currentTrack
}

// monitorProgress следит за прогрессом воспроизведения и отправляет обновления
func (p *Player) monitorProgress(format beep.Format) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()

			if p.streamer == nil || p.ctrl == nil {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			currentPos := format.SampleRate.D(p.streamer.Position())
			totalLen := format.SampleRate.D(p.streamer.Len())
			paused := p.isPaused
			speaker.Unlock()

			// Длительность из метаданных надежнее оценки декодера
			var duration time.Duration
			if p.currentTrack != nil && p.currentTrack.DurationSeconds > 0 {
				duration = time.Duration(p.currentTrack.DurationSeconds) * time.Second
			} else if totalLen > 0 {
				duration = totalLen
			}

			p.mutex.RUnlock()

			status := Status{
				Current:   currentPos,
				Total:     duration,
				IsPlaying: !paused,
			}

			select {
			case p.progressChan <- status:
			default:
				// Если канал занят, пропускаем обновление
			}
		}
	}
}

// volumeToGain переводит линейную громкость 0..1 в показатель
// степени для effects.Volume (Base 2)
func volumeToGain(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return math.Log2(volume)
}
