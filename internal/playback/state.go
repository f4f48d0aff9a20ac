package playback

// State представляет полное состояние плеера на момент времени.
// Каждый переход возвращает новое значение State; очередь никогда
// не изменяется на месте, поэтому снимок можно безопасно читать
// из других горутин.
type State struct {
	CurrentTrack *Track  // Текущий трек (nil — плеер в покое)
	IsPlaying    bool    // Воспроизводится ли трек
	Queue        []Track // Очередь "далее в эфире"
	Volume       float64 // Громкость от 0.0 до 1.0
	Expanded     bool    // Развернут ли интерфейс плеера
}

// NewState возвращает начальное состояние плеера
func NewState() State {
	return State{Volume: 1.0}
}

// InQueue возвращает true, если трек с указанным ID уже есть в очереди
func (s State) InQueue(id string) bool {
	return s.queueIndex(id) >= 0
}

// queueIndex возвращает позицию трека в очереди по ID, либо -1
func (s State) queueIndex(id string) int {
	for i := range s.Queue {
		if s.Queue[i].ID == id {
			return i
		}
	}
	return -1
}

// copyQueue возвращает независимую копию очереди
func copyQueue(queue []Track) []Track {
	out := make([]Track, len(queue))
	copy(out, queue)
	return out
}

// dedupeTracks убирает повторы ID, сохраняя порядок первого вхождения
func dedupeTracks(tracks []Track) []Track {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// snapshot возвращает копию состояния с независимой очередью и треком
func (s State) snapshot() State {
	out := s
	out.Queue = copyQueue(s.Queue)
	if s.CurrentTrack != nil {
		track := *s.CurrentTrack
		out.CurrentTrack = &track
	}
	return out
}
