// Package models содержит доменную модель финансовой транзакции,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Direction — направление транзакции.
type Direction string

const (
	// DirectionIncome — доход.
	DirectionIncome Direction = "income"
	// DirectionExpense — расход.
	DirectionExpense Direction = "expense"
)

// Transaction представляет одну финансовую запись пользователя.
// Поле DueDate может быть nil — это означает отсутствие срока оплаты.
type Transaction struct {
	UID             string     // Уникальный идентификатор записи
	UserUID         string     // Владелец записи
	Amount          float64    // Сумма
	Direction       Direction  // Направление: доход или расход
	Category        string     // Ссылка на категорию
	Card            string     // Ссылка на карту
	TransactionDate time.Time  // Дата операции
	DueDate         *time.Time // Срок оплаты (опционально)
	Notes           string     // Заметки
	IsCompleted     bool       // Признак завершённости
}

// DummyTransaction используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Transaction.
// Даты приходят в виде строк, чтобы их можно было валидировать и парсить вручную.
type DummyTransaction struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`                    // Сумма (>0)
	Direction       string  `json:"direction" validate:"required,oneof=income expense"` // Направление
	Category        string  `json:"category" validate:"required"`                       // Категория
	Card            string  `json:"card" validate:"required"`                           // Карта
	TransactionDate string  `json:"transaction_date" validate:"required"`               // Дата в формате 02-01-2006
	DueDate         string  `json:"due_date,omitempty" validate:"omitempty"`            // Срок оплаты (опционально)
	Notes           string  `json:"notes,omitempty"`                                    // Заметки
	IsCompleted     bool    `json:"is_completed"`                                       // Признак завершённости
}
