// Package models содержит вычисляемый статус доступа пользователя.
// EntitlementStatus нигде не хранится — он пересчитывается на каждый запрос
// из профиля пользователя и текущего времени.
package models

import "time"

// Tier — уровень доступа пользователя. Закрытое множество значений,
// чтобы правило приоритета (paid > trial > expired) проверялось по
// перечислению, а не по произвольным строкам.
type Tier string

const (
	// TierTrial — действует пробный период.
	TierTrial Tier = "trial"
	// TierPaid — действует премиум-доступ.
	TierPaid Tier = "paid"
	// TierExpired — пробный период истёк, премиум не действует.
	TierExpired Tier = "expired"
)

// ActionKind — вид действия, доступ к которому ограничивается уровнем.
type ActionKind string

const (
	// ActionCreateTransaction — создание транзакции.
	ActionCreateTransaction ActionKind = "create_transaction"
	// ActionCreateCategory — создание категории.
	ActionCreateCategory ActionKind = "create_category"
	// ActionCreateCard — создание карты.
	ActionCreateCard ActionKind = "create_card"
)

// TrialPeriodDays — длительность пробного периода с момента создания учётной записи.
const TrialPeriodDays = 30

// LimitUnlimited — сентинель "без ограничений" для лимитов ресурсов.
const LimitUnlimited = -1

// EntitlementStatus — вычисленный статус доступа пользователя.
// Лимиты ресурсов движутся синхронно: LimitUnlimited для trial и paid,
// ноль для expired.
type EntitlementStatus struct {
	Tier               Tier      `json:"tier"`
	TrialDaysRemaining int       `json:"trial_days_remaining"`
	TrialEnd           time.Time `json:"trial_end"`
	TransactionLimit   int       `json:"transaction_limit"`
	CategoryLimit      int       `json:"category_limit"`
	CardLimit          int       `json:"card_limit"`
}
