package models

import "time"

// BackupRetentionDays — срок хранения резервной копии, после которого
// восстановление из неё запрещено. Сама очистка устаревших копий —
// внешняя housekeeping-задача.
const BackupRetentionDays = 30

// BackupSnapshot — неизменяемая копия всех транзакций пользователя,
// создаваемая атомарно первым шагом операции reset.
type BackupSnapshot struct {
	UID            string    `json:"uid"`             // Идентификатор копии
	TargetUserUID  string    `json:"target_user_uid"` // Пользователь, чьи данные скопированы
	AdminEmail     string    `json:"admin_email"`     // Администратор, запустивший операцию
	RecordCount    int       `json:"record_count"`    // Количество записей в копии
	CreatedAt      time.Time `json:"created_at"`      // Момент создания
	RetentionUntil time.Time `json:"retention_until"` // Крайний срок восстановления (created_at + 30 дней)
}
