// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, дату создания
// и признаки премиум-доступа, выставляемые администратором.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID              string     // Уникальный идентификатор пользователя
	Email            string     // Электронная почта
	Username         string     // Имя пользователя (уникальное)
	PasswordHash     string     // Хэш пароля пользователя
	Role             string     // Роль пользователя, admin или user
	CreatedAt        time.Time  // Дата создания учётной записи, от неё отсчитывается пробный период
	IsPremiumGranted bool       // Флаг премиум-доступа, выставляется администратором
	PremiumExpiresAt *time.Time // Дата истечения премиум-доступа (nil — бессрочно)
}

// Caller представляет проверенную личность вызывающего, извлечённую
// из JWT токена middleware-слоем.
type Caller struct {
	UID      string
	Username string
	Email    string
	Role     string
}
