package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/levkinivan/finance-guard/internal/models"
)

// CreateSnapshot сохраняет метаданные резервной копии и все её записи
// единой транзакцией базы данных. Если хотя бы одна запись не сохранилась,
// копия не создаётся вовсе.
func (s *Storage) CreateSnapshot(ctx context.Context, snapshot models.BackupSnapshot, records []*models.Transaction) error {
	const op = "storage.CreateSnapshot"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	metaQuery := `INSERT INTO backup_snapshots (uid, target_user_uid, admin_email,
			      record_count, created_at, retention_until)
		      VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, metaQuery,
		snapshot.UID, snapshot.TargetUserUID, snapshot.AdminEmail,
		snapshot.RecordCount, snapshot.CreatedAt, snapshot.RetentionUntil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	recordQuery := `INSERT INTO backup_records (snapshot_uid, transaction_uid, amount, direction,
			    category, card, transaction_date, due_date, notes, is_completed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, tr := range records {
		if _, err := tx.ExecContext(ctx, recordQuery,
			snapshot.UID, tr.UID, tr.Amount, tr.Direction, tr.Category, tr.Card,
			tr.TransactionDate, tr.DueDate, tr.Notes, tr.IsCompleted); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSnapshot возвращает метаданные резервной копии по её UID.
func (s *Storage) GetSnapshot(ctx context.Context, snapshotUID string) (*models.BackupSnapshot, error) {
	const op = "storage.GetSnapshot"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, target_user_uid, admin_email, record_count, created_at, retention_until
		  FROM backup_snapshots
		  WHERE uid = $1`
	var snap models.BackupSnapshot
	if err := s.DB.QueryRowContext(ctx, query, snapshotUID).Scan(&snap.UID, &snap.TargetUserUID,
		&snap.AdminEmail, &snap.RecordCount, &snap.CreatedAt, &snap.RetentionUntil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &snap, nil
}

// ListSnapshotRecords возвращает записи резервной копии, сконвертированные
// обратно в транзакции целевого пользователя. Записи читаются только для
// восстановления, сама копия не изменяется.
func (s *Storage) ListSnapshotRecords(ctx context.Context, snapshotUID, targetUserUID string) ([]*models.Transaction, error) {
	const op = "storage.ListSnapshotRecords"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT transaction_uid, amount, direction, category, card,
		      transaction_date, due_date, notes, is_completed
		  FROM backup_records
		  WHERE snapshot_uid = $1
		  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, snapshotUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Transaction
	for rows.Next() {
		var item models.Transaction
		var dueDate sql.NullTime
		if err := rows.Scan(&item.UID, &item.Amount, &item.Direction, &item.Category,
			&item.Card, &item.TransactionDate, &dueDate, &item.Notes, &item.IsCompleted); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dueDate.Valid {
			item.DueDate = &dueDate.Time
		}
		item.UserUID = targetUserUID
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSnapshots возвращает метаданные резервных копий пользователя,
// отсортированные от новых к старым.
func (s *Storage) ListSnapshots(ctx context.Context, targetUserUID string) ([]*models.BackupSnapshot, error) {
	const op = "storage.ListSnapshots"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, target_user_uid, admin_email, record_count, created_at, retention_until
		  FROM backup_snapshots
		  WHERE target_user_uid = $1
		  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, targetUserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.BackupSnapshot
	for rows.Next() {
		var snap models.BackupSnapshot
		if err := rows.Scan(&snap.UID, &snap.TargetUserUID, &snap.AdminEmail,
			&snap.RecordCount, &snap.CreatedAt, &snap.RetentionUntil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
