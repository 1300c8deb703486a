package models

import "time"

// AuditOperation — вид администраторской операции, фиксируемой в журнале.
type AuditOperation string

const (
	// AuditOperationReset — полный сброс транзакций пользователя.
	AuditOperationReset AuditOperation = "reset"
	// AuditOperationRestore — восстановление из резервной копии.
	AuditOperationRestore AuditOperation = "restore"
)

// AuditOutcome — исход операции.
type AuditOutcome string

const (
	// AuditOutcomeSuccess — операция завершилась успешно.
	AuditOutcomeSuccess AuditOutcome = "success"
	// AuditOutcomeFailure — операция завершилась ошибкой.
	AuditOutcomeFailure AuditOutcome = "failure"
)

// AuditLogEntry — неизменяемая запись журнала аудита. Записи только
// добавляются; методов обновления и удаления у хранилища нет.
type AuditLogEntry struct {
	ID            int64          // Порядковый номер записи
	AdminEmail    string         // Администратор, выполнивший операцию
	TargetUserUID string         // Целевой пользователь
	Operation     AuditOperation // Вид операции: reset или restore
	AffectedCount int            // Количество затронутых записей
	Outcome       AuditOutcome   // Исход: success или failure
	Reason        string         // Причина ошибки (пустая при успехе)
	WithBackup    bool           // Выполнялась ли резервная копия (для reset)
	CreatedAt     time.Time      // Момент записи
}
