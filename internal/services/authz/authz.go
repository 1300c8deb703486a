// Package authz реализует проверку администраторских прав.
//
// Администратором считается единственный пользователь, чей email совпадает
// (без учёта регистра) с email администратора из конфигурации. Таблицы ролей
// нет; сравнение с настраиваемым значением оставляет проверку тестируемой
// и заменяемой на полноценную ролевую систему в будущем.
package authz

import (
	"errors"
	"strings"

	"github.com/levkinivan/finance-guard/internal/models"
)

var (
	// ErrUnauthenticated — личность вызывающего не предъявлена или не проверена.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — личность проверена, но прав недостаточно,
	// либо администратор направил деструктивную операцию на самого себя.
	ErrForbidden = errors.New("forbidden")
)

// AdminIdentity — подтверждённая личность администратора.
type AdminIdentity struct {
	UID   string
	Email string
}

// Service выполняет проверки прав доступа к администраторским операциям.
type Service struct {
	adminEmail string
}

// New создаёт проверку с заданным email администратора.
func New(adminEmail string) *Service {
	return &Service{adminEmail: adminEmail}
}

// RequireAdmin возвращает подтверждённую личность администратора
// либо ErrUnauthenticated/ErrForbidden.
func (s *Service) RequireAdmin(caller *models.Caller) (*AdminIdentity, error) {
	if caller == nil || caller.Email == "" {
		return nil, ErrUnauthenticated
	}
	if !strings.EqualFold(caller.Email, s.adminEmail) {
		return nil, ErrForbidden
	}
	return &AdminIdentity{UID: caller.UID, Email: caller.Email}, nil
}

// ForbidSelfTarget запрещает администратору выполнять деструктивные
// операции над собственной учётной записью.
func (s *Service) ForbidSelfTarget(admin *AdminIdentity, targetUserUID string) error {
	if admin == nil {
		return ErrUnauthenticated
	}
	if admin.UID != "" && admin.UID == targetUserUID {
		return ErrForbidden
	}
	return nil
}
