package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/levkinivan/finance-guard/internal/models"
)

// CreateTransaction вставляет новую транзакцию и возвращает её UID.
func (s *Storage) CreateTransaction(ctx context.Context, tr models.Transaction) (string, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO transactions (user_uid, amount, direction, category, card,
			      transaction_date, due_date, notes, is_completed)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		tr.UserUID, tr.Amount, tr.Direction, tr.Category, tr.Card,
		tr.TransactionDate, tr.DueDate, tr.Notes, tr.IsCompleted).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ListTransactions возвращает транзакции пользователя с пагинацией.
func (s *Storage) ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, user_uid, amount, direction, category, card,
			      transaction_date, due_date, notes, is_completed
			  FROM transactions
			  WHERE user_uid = $1
			  ORDER BY transaction_date, uid
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows, op)
}

// ListAllTransactions возвращает все транзакции пользователя без пагинации.
// Используется гардианом перед резервным копированием и удалением.
func (s *Storage) ListAllTransactions(ctx context.Context, userUID string) ([]*models.Transaction, error) {
	const op = "storage.ListAllTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, user_uid, amount, direction, category, card,
			      transaction_date, due_date, notes, is_completed
			  FROM transactions
			  WHERE user_uid = $1
			  ORDER BY transaction_date, uid`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows, op)
}

// DeleteTransactionsByUser удаляет все транзакции пользователя одним запросом
// и возвращает количество удалённых строк.
func (s *Storage) DeleteTransactionsByUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.DeleteTransactionsByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM transactions WHERE user_uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// InsertTransactions вставляет набор транзакций единой транзакцией базы данных
// и возвращает количество вставленных строк. Используется при восстановлении
// из резервной копии: восстановление добавляет записи, не трогая существующие.
func (s *Storage) InsertTransactions(ctx context.Context, trs []*models.Transaction) (int, error) {
	const op = "storage.InsertTransactions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO transactions (user_uid, amount, direction, category, card,
		      transaction_date, due_date, notes, is_completed)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, tr := range trs {
		if _, err := tx.ExecContext(ctx, query,
			tr.UserUID, tr.Amount, tr.Direction, tr.Category, tr.Card,
			tr.TransactionDate, tr.DueDate, tr.Notes, tr.IsCompleted); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(trs), nil
}

// CountTransactionsByUser возвращает количество транзакций пользователя.
func (s *Storage) CountTransactionsByUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountTransactionsByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM transactions WHERE user_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func scanTransactions(rows *sql.Rows, op string) ([]*models.Transaction, error) {
	var result []*models.Transaction
	for rows.Next() {
		var item models.Transaction
		var dueDate sql.NullTime
		if err := rows.Scan(&item.UID, &item.UserUID, &item.Amount, &item.Direction,
			&item.Category, &item.Card, &item.TransactionDate, &dueDate,
			&item.Notes, &item.IsCompleted); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dueDate.Valid {
			item.DueDate = &dueDate.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
