// Package transaction содержит бизнес-логику работы с транзакциями пользователя.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/levkinivan/finance-guard/internal/models"
)

// Repository определяет методы для работы с транзакциями в хранилище.
type Repository interface {
	// CreateTransaction добавляет новую транзакцию и возвращает её UID.
	CreateTransaction(ctx context.Context, tr models.Transaction) (string, error)
	// ListTransactions возвращает транзакции пользователя с пагинацией.
	ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error)
}

// Service реализует бизнес-логику работы с транзакциями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create создает новую транзакцию для пользователя и возвращает её UID.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyTransaction) (string, error) {
	transactionDate, err := time.Parse("02-01-2006", req.TransactionDate)
	if err != nil {
		return "", fmt.Errorf("invalid transaction date: %w", err)
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("02-01-2006", req.DueDate)
		if err != nil {
			return "", fmt.Errorf("invalid due date: %w", err)
		}
		dueDate = &parsed
	}

	tr := models.Transaction{
		UserUID:         userUID,
		Amount:          req.Amount,
		Direction:       models.Direction(req.Direction),
		Category:        req.Category,
		Card:            req.Card,
		TransactionDate: transactionDate,
		DueDate:         dueDate,
		Notes:           req.Notes,
		IsCompleted:     req.IsCompleted,
	}

	uid, err := s.repo.CreateTransaction(ctx, tr)
	if err != nil {
		return "", err
	}

	s.log.Info("created new transaction", slog.String("uid", uid))
	return uid, nil
}

// List возвращает транзакции пользователя с пагинацией.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error) {
	return s.repo.ListTransactions(ctx, userUID, limit, offset)
}
