package access

import (
	"testing"
)

func TestNilUserDenied(t *testing.T) {
	// Отсутствующий пользователь не может ничего
	if Allowed(nil, ResourceRecordings, ActionDelete) {
		t.Error("nil-пользователь не должен получать доступ")
	}
	if Allowed(nil, ResourceAnalytics, ActionView) {
		t.Error("nil-пользователь не должен видеть аналитику")
	}
}

func TestAdminAllowedEverything(t *testing.T) {
	// Администратор обходит любые гранулярные права
	admin := &User{ID: "u1", Role: RoleAdmin, Grants: &Grants{}}

	resources := []Resource{ResourceRecordings, ResourceReciters, ResourceSections, ResourcePages, ResourceAnalytics, ResourceSystem}
	actions := []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}

	for _, resource := range resources {
		for _, action := range actions {
			if !Allowed(admin, resource, action) {
				t.Errorf("Администратору должно быть разрешено %s на %s", action, resource)
			}
		}
	}
}

func TestEditorLegacyFallback(t *testing.T) {
	// Редактор без гранулярных прав: просмотр, создание и правка
	// разрешены, удаление — никогда
	editor := &User{ID: "u2", Role: RoleEditor}

	if !Allowed(editor, ResourceRecordings, ActionView) {
		t.Error("Редактору должен быть разрешен просмотр записей")
	}
	if !Allowed(editor, ResourceRecordings, ActionCreate) {
		t.Error("Редактору должно быть разрешено создание записей")
	}
	if !Allowed(editor, ResourceRecordings, ActionEdit) {
		t.Error("Редактору должна быть разрешена правка записей")
	}
	if Allowed(editor, ResourceRecordings, ActionDelete) {
		t.Error("Редактору не должно быть разрешено удаление записей")
	}
}

func TestViewerDenied(t *testing.T) {
	// Прочие роли без гранулярных прав не имеют доступа
	viewer := &User{ID: "u3", Role: RoleViewer}

	if Allowed(viewer, ResourceRecordings, ActionView) {
		t.Error("Роль viewer без гранулярных прав не должна иметь доступа")
	}
}

func TestGranularGrants(t *testing.T) {
	user := &User{
		ID:   "u4",
		Role: RoleViewer,
		Grants: &Grants{
			Recordings: CRUDFlags{View: true, Edit: true},
			Analytics:  true,
		},
	}

	if !Allowed(user, ResourceRecordings, ActionView) {
		t.Error("Выданное право view должно действовать")
	}
	if !Allowed(user, ResourceRecordings, ActionEdit) {
		t.Error("Выданное право edit должно действовать")
	}
	if Allowed(user, ResourceRecordings, ActionDelete) {
		t.Error("Невыданное право delete должно давать отказ")
	}
	if Allowed(user, ResourceReciters, ActionView) {
		t.Error("Права на другой ресурс не должны действовать")
	}

	// Системные флаги проверяются напрямую, без действия
	if !Allowed(user, ResourceAnalytics, ActionView) {
		t.Error("Флаг analytics должен давать доступ к аналитике")
	}
	if Allowed(user, ResourceSystem, ActionView) {
		t.Error("Невыданный флаг system должен давать отказ")
	}
}

func TestGrantsOverrideLegacyRole(t *testing.T) {
	// При наличии гранулярных прав запасная проверка по роли не применяется
	editor := &User{
		ID:     "u5",
		Role:   RoleEditor,
		Grants: &Grants{},
	}

	if Allowed(editor, ResourceRecordings, ActionView) {
		t.Error("Пустые гранулярные права должны давать отказ даже редактору")
	}
}

func TestUnknownResource(t *testing.T) {
	user := &User{ID: "u6", Role: RoleViewer, Grants: &Grants{Recordings: CRUDFlags{View: true}}}

	if Allowed(user, Resource("unknown"), ActionView) {
		t.Error("Неизвестный ресурс должен давать отказ")
	}
}

func TestDeterministic(t *testing.T) {
	// Одна и та же тройка всегда дает один ответ
	user := &User{ID: "u7", Role: RoleEditor}
	first := Allowed(user, ResourceRecordings, ActionEdit)
	for i := 0; i < 10; i++ {
		if Allowed(user, ResourceRecordings, ActionEdit) != first {
			t.Fatal("Проверка прав должна быть детерминированной")
		}
	}
}
