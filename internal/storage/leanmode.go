package storage

// Ключ флага компактного режима интерфейса
const leanModeKey = "lean_mode"

// LeanMode возвращает true, если включен компактный режим интерфейса
func LeanMode(st Storage) bool {
	value, ok := st.Get(leanModeKey)
	return ok && value == "true"
}

// SetLeanMode включает или выключает компактный режим интерфейса
func SetLeanMode(st Storage, enabled bool) error {
	if !enabled {
		return st.Remove(leanModeKey)
	}
	return st.Set(leanModeKey, "true")
}
