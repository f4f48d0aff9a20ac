package playback

// Command описывает переход состояния плеера. Набор команд закрытый:
// все изменения State проходят только через Apply.
type Command interface {
	isCommand()
}

// PlayTrack загружает трек и начинает воспроизведение.
// Очередь команда не трогает: если нужен контекст для Next/Prev,
// вызывающая сторона сначала отправляет SetQueue (контракт "умной очереди").
type PlayTrack struct {
	Track Track
}

// TogglePlayPause переключает воспроизведение/паузу
type TogglePlayPause struct{}

// NextTrack переходит к следующему треку очереди
type NextTrack struct{}

// PrevTrack переходит к предыдущему треку очереди
type PrevTrack struct{}

// StopPlayer полностью останавливает плеер и очищает очередь
type StopPlayer struct{}

// SetVolume устанавливает громкость (0.0–1.0)
type SetVolume struct {
	Volume float64
}

// ToggleExpand сворачивает/разворачивает интерфейс плеера
type ToggleExpand struct{}

// SetQueue атомарно заменяет очередь целиком
type SetQueue struct {
	Tracks []Track
}

// AddToQueue добавляет трек в конец очереди, если его там ещё нет
type AddToQueue struct {
	Track Track
}

// AddTracksToQueue добавляет несколько треков с той же проверкой повторов
type AddTracksToQueue struct {
	Tracks []Track
}

// RemoveFromQueue убирает трек на указанной позиции
type RemoveFromQueue struct {
	Index int
}

// ClearQueue очищает очередь
type ClearQueue struct{}

func (PlayTrack) isCommand()        {}
func (TogglePlayPause) isCommand()  {}
func (NextTrack) isCommand()        {}
func (PrevTrack) isCommand()        {}
func (StopPlayer) isCommand()       {}
func (SetVolume) isCommand()        {}
func (ToggleExpand) isCommand()     {}
func (SetQueue) isCommand()         {}
func (AddToQueue) isCommand()       {}
func (AddTracksToQueue) isCommand() {}
func (RemoveFromQueue) isCommand()  {}
func (ClearQueue) isCommand()       {}

// Apply применяет команду к состоянию и возвращает новый снимок.
// Функция чистая: входное состояние не изменяется.
//
// Пограничные случаи решаются деградацией в no-op, а не ошибкой:
// Next/Prev при пустой очереди или когда текущий трек запущен вне
// контекста очереди просто возвращают состояние без изменений.
func Apply(state State, cmd Command) State {
	switch cmd := cmd.(type) {
	case PlayTrack:
		next := state.snapshot()
		track := cmd.Track
		next.CurrentTrack = &track
		next.IsPlaying = true
		return next

	case TogglePlayPause:
		next := state.snapshot()
		// Без загруженного трека флаг остается false:
		// инвариант "нет трека — нет воспроизведения"
		if next.CurrentTrack == nil {
			next.IsPlaying = false
			return next
		}
		next.IsPlaying = !next.IsPlaying
		return next

	case NextTrack:
		return advance(state, 1)

	case PrevTrack:
		return advance(state, -1)

	case StopPlayer:
		next := state.snapshot()
		next.CurrentTrack = nil
		next.IsPlaying = false
		next.Queue = []Track{}
		return next

	case SetVolume:
		next := state.snapshot()
		next.Volume = clampVolume(cmd.Volume)
		return next

	case ToggleExpand:
		next := state.snapshot()
		next.Expanded = !next.Expanded
		return next

	case SetQueue:
		next := state.snapshot()
		next.Queue = dedupeTracks(cmd.Tracks)
		return next

	case AddToQueue:
		next := state.snapshot()
		if next.queueIndex(cmd.Track.ID) < 0 {
			next.Queue = append(next.Queue, cmd.Track)
		}
		return next

	case AddTracksToQueue:
		next := state.snapshot()
		for _, track := range cmd.Tracks {
			if next.queueIndex(track.ID) < 0 {
				next.Queue = append(next.Queue, track)
			}
		}
		return next

	case RemoveFromQueue:
		next := state.snapshot()
		if cmd.Index < 0 || cmd.Index >= len(next.Queue) {
			return next
		}
		next.Queue = append(next.Queue[:cmd.Index], next.Queue[cmd.Index+1:]...)
		return next

	case ClearQueue:
		next := state.snapshot()
		next.Queue = []Track{}
		return next
	}

	return state.snapshot()
}

// advance переходит на delta позиций по очереди относительно текущего трека
func advance(state State, delta int) State {
	next := state.snapshot()
	if next.CurrentTrack == nil || len(next.Queue) == 0 {
		return next
	}

	idx := next.queueIndex(next.CurrentTrack.ID)
	if idx < 0 {
		// Трек запущен вне контекста очереди — осознанное ограничение
		return next
	}

	target := idx + delta
	if target < 0 || target >= len(next.Queue) {
		return next
	}

	track := next.Queue[target]
	next.CurrentTrack = &track
	next.IsPlaying = true
	return next
}

// clampVolume ограничивает громкость диапазоном [0.0, 1.0]
func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
