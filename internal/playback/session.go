package playback

import (
	"sync"
)

// Session владеет состоянием плеера в рамках одного запуска приложения.
// Все переходы идут через Dispatch и применяются строго по одному,
// в порядке поступления. Чтение возвращает независимые снимки.
type Session struct {
	mutex sync.RWMutex
	state State
}

// NewSession создает сессию с начальным состоянием плеера
func NewSession() *Session {
	return &Session{state: NewState()}
}

// Dispatch применяет команду и возвращает снимок нового состояния
func (s *Session) Dispatch(cmd Command) State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state = Apply(s.state, cmd)
	return s.state.snapshot()
}

// State возвращает снимок текущего состояния
func (s *Session) State() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state.snapshot()
}

// AddToQueue добавляет трек в очередь и сообщает, был ли он добавлен.
// false означает, что трек уже стоит в очереди — интерфейс может
// показать пользователю "уже в очереди".
func (s *Session) AddToQueue(track Track) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state.InQueue(track.ID) {
		return false
	}
	s.state = Apply(s.state, AddToQueue{Track: track})
	return true
}

// CurrentTrack возвращает копию текущего трека, либо nil
func (s *Session) CurrentTrack() *Track {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.state.CurrentTrack == nil {
		return nil
	}
	track := *s.state.CurrentTrack
	return &track
}
