// Package access реализует проверку прав доступа к ресурсам архива.
// Проверка — чистая функция без побочных эффектов: одинаковая тройка
// (пользователь, ресурс, действие) всегда дает одинаковый ответ.
package access

// Role представляет роль пользователя
type Role string

// Роли пользователей архива
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Resource представляет ресурс архива
type Resource string

// Ресурсы архива. Recordings, Reciters, Sections и Pages — ресурсы
// с CRUD-правами; Analytics и System — системные флаги без CRUD.
const (
	ResourceRecordings Resource = "recordings"
	ResourceReciters   Resource = "reciters"
	ResourceSections   Resource = "sections"
	ResourcePages      Resource = "pages"
	ResourceAnalytics  Resource = "analytics"
	ResourceSystem     Resource = "system"
)

// Action представляет действие над ресурсом
type Action string

// Действия над CRUD-ресурсами
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// CRUDFlags задает права на действия с одним ресурсом
type CRUDFlags struct {
	View   bool `yaml:"view"`
	Create bool `yaml:"create"`
	Edit   bool `yaml:"edit"`
	Delete bool `yaml:"delete"`
}

// allows возвращает флаг для указанного действия
func (f CRUDFlags) allows(action Action) bool {
	switch action {
	case ActionView:
		return f.View
	case ActionCreate:
		return f.Create
	case ActionEdit:
		return f.Edit
	case ActionDelete:
		return f.Delete
	}
	return false
}

// Grants — гранулярные права пользователя: закрытый набор ресурсов
// с явной таблицей соответствия вместо динамических полей
type Grants struct {
	Recordings CRUDFlags `yaml:"recordings"`
	Reciters   CRUDFlags `yaml:"reciters"`
	Sections   CRUDFlags `yaml:"sections"`
	Pages      CRUDFlags `yaml:"pages"`
	Analytics  bool      `yaml:"analytics"` // Доступ к аналитике
	System     bool      `yaml:"system"`    // Доступ к системным настройкам
}

// User представляет пользователя с ролью и, возможно, гранулярными правами
type User struct {
	ID     string  `yaml:"id"`
	Role   Role    `yaml:"role"`
	Grants *Grants `yaml:"grants,omitempty"`
}

// Allowed отвечает на вопрос "может ли пользователь выполнить действие
// над ресурсом". Отказ — это false, а не ошибка.
//
// Порядок проверки: отсутствующий пользователь — отказ; администратор —
// разрешено безусловно; гранулярные права — по таблице; иначе — запасная
// проверка по роли (редактор может все, кроме удаления).
func Allowed(user *User, resource Resource, action Action) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	if user.Grants != nil {
		return grantAllows(user.Grants, resource, action)
	}
	if user.Role == RoleEditor {
		return action == ActionView || action == ActionCreate || action == ActionEdit
	}
	return false
}

// grantAllows проверяет гранулярные права по таблице ресурсов.
// Неизвестный ресурс — отказ.
func grantAllows(grants *Grants, resource Resource, action Action) bool {
	switch resource {
	case ResourceRecordings:
		return grants.Recordings.allows(action)
	case ResourceReciters:
		return grants.Reciters.allows(action)
	case ResourceSections:
		return grants.Sections.allows(action)
	case ResourcePages:
		return grants.Pages.allows(action)
	case ResourceAnalytics:
		return grants.Analytics
	case ResourceSystem:
		return grants.System
	}
	return false
}
