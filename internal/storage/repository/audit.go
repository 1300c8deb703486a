package repository

import (
	"context"
	"fmt"

	"github.com/levkinivan/finance-guard/internal/models"
)

// AppendAuditEntry добавляет запись в журнал аудита. Журнал только
// пополняется: методов изменения и удаления у хранилища нет.
func (s *Storage) AppendAuditEntry(ctx context.Context, entry models.AuditLogEntry) error {
	const op = "storage.AppendAuditEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO audit_log (admin_email, target_user_uid, operation,
			      affected_count, outcome, reason, with_backup, created_at)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.DB.ExecContext(ctx, query,
		entry.AdminEmail, entry.TargetUserUID, entry.Operation, entry.AffectedCount,
		entry.Outcome, entry.Reason, entry.WithBackup, entry.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAuditEntries возвращает записи журнала аудита по целевому пользователю,
// от новых к старым.
func (s *Storage) ListAuditEntries(ctx context.Context, targetUserUID string) ([]*models.AuditLogEntry, error) {
	const op = "storage.ListAuditEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, admin_email, target_user_uid, operation, affected_count,
			      outcome, reason, with_backup, created_at
		  FROM audit_log
		  WHERE target_user_uid = $1
		  ORDER BY id DESC`
	rows, err := s.DB.QueryContext(ctx, query, targetUserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		if err := rows.Scan(&entry.ID, &entry.AdminEmail, &entry.TargetUserUID,
			&entry.Operation, &entry.AffectedCount, &entry.Outcome, &entry.Reason,
			&entry.WithBackup, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
