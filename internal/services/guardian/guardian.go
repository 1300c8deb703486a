// Package guardian реализует защищённое выполнение деструктивных
// администраторских операций над финансовой историей пользователя.
//
// Сброс транзакций проходит строго по шагам: авторизация, загрузка записей,
// резервная копия (если не отключена явно), удаление, запись в журнал аудита.
// Удаление никогда не выполняется без успешно записанной копии, когда она
// запрошена. Запись аудита после состоявшегося удаления — best effort:
// её сбой не отменяет уже выполненную операцию, а эскалируется как
// операционный алерт.
package guardian

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/levkinivan/finance-guard/internal/lib/sl"
	"github.com/levkinivan/finance-guard/internal/metrics"
	"github.com/levkinivan/finance-guard/internal/models"
	"github.com/levkinivan/finance-guard/internal/services/authz"
)

var (
	// ErrUserNotFound — целевой пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrBackupNotFound — резервная копия не существует.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrBackupFailed — резервная копия не записалась, сброс прерван до удаления.
	ErrBackupFailed = errors.New("backup failed")
	// ErrBackupExpired — срок восстановления из копии истёк.
	ErrBackupExpired = errors.New("backup expired")
)

// UserRepository определяет чтение целевого пользователя.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// TransactionRepository определяет операции над транзакциями,
// используемые при сбросе и восстановлении.
type TransactionRepository interface {
	// ListAllTransactions возвращает все транзакции пользователя.
	ListAllTransactions(ctx context.Context, userUID string) ([]*models.Transaction, error)
	// DeleteTransactionsByUser удаляет все транзакции пользователя одним запросом.
	DeleteTransactionsByUser(ctx context.Context, userUID string) (int, error)
	// InsertTransactions вставляет записи единой транзакцией базы данных.
	InsertTransactions(ctx context.Context, trs []*models.Transaction) (int, error)
}

// BackupRepository определяет операции над резервными копиями.
type BackupRepository interface {
	// CreateSnapshot атомарно сохраняет копию со всеми записями.
	CreateSnapshot(ctx context.Context, snapshot models.BackupSnapshot, records []*models.Transaction) error
	// GetSnapshot возвращает метаданные копии по UID.
	GetSnapshot(ctx context.Context, snapshotUID string) (*models.BackupSnapshot, error)
	// ListSnapshotRecords возвращает записи копии как транзакции целевого пользователя.
	ListSnapshotRecords(ctx context.Context, snapshotUID, targetUserUID string) ([]*models.Transaction, error)
	// ListSnapshots возвращает метаданные копий пользователя, новые первыми.
	ListSnapshots(ctx context.Context, targetUserUID string) ([]*models.BackupSnapshot, error)
}

// AuditRepository определяет пополнение журнала аудита.
type AuditRepository interface {
	AppendAuditEntry(ctx context.Context, entry models.AuditLogEntry) error
}

// Authorizer выполняет проверку администраторских прав.
type Authorizer interface {
	RequireAdmin(caller *models.Caller) (*authz.AdminIdentity, error)
	ForbidSelfTarget(admin *authz.AdminIdentity, targetUserUID string) error
}

// Alerter публикует операционные алерты.
type Alerter interface {
	PublishAlert(event any) error
}

// ResetResult — результат операции сброса.
type ResetResult struct {
	BackupUID    *string `json:"backup_id,omitempty"`
	DeletedCount int     `json:"deleted_count"`
}

// RestoreResult — результат восстановления из резервной копии.
type RestoreResult struct {
	RestoredCount int `json:"restored_count"`
}

// auditAlert — событие для операционного алерта о несостоявшейся записи аудита.
type auditAlert struct {
	Kind          string `json:"kind"`
	Operation     string `json:"operation"`
	AdminEmail    string `json:"admin_email"`
	TargetUserUID string `json:"target_user_uid"`
	AffectedCount int    `json:"affected_count"`
	Reason        string `json:"reason"`
}

// Service выполняет сброс, восстановление и просмотр резервных копий.
type Service struct {
	users        UserRepository
	transactions TransactionRepository
	backups      BackupRepository
	audit        AuditRepository
	authz        Authorizer
	alerter      Alerter
	log          *slog.Logger
	now          func() time.Time
}

// New создает новый экземпляр Service. alerter может быть nil —
// тогда эскалация ограничивается логом и метрикой.
func New(users UserRepository, transactions TransactionRepository, backups BackupRepository,
	audit AuditRepository, az Authorizer, alerter Alerter, log *slog.Logger) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		backups:      backups,
		audit:        audit,
		authz:        az,
		alerter:      alerter,
		log:          log,
		now:          time.Now,
	}
}

// Reset удаляет все транзакции целевого пользователя, предварительно записав
// резервную копию (если withBackup). Каждый шаг — предусловие следующего:
// сбой копии прерывает операцию до какого-либо удаления.
func (g *Service) Reset(ctx context.Context, caller *models.Caller, targetUserUID string, withBackup bool) (*ResetResult, error) {
	const op = "guardian.Reset"
	now := g.now().UTC()

	admin, err := g.authz.RequireAdmin(caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := g.authz.ForbidSelfTarget(admin, targetUserUID); err != nil {
		g.auditReset(ctx, admin, targetUserUID, 0, withBackup, models.AuditOutcomeFailure,
			"administrator may not reset own account", now)
		metrics.ResetsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := g.users.GetUser(ctx, targetUserUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrUserNotFound
		}
		g.auditReset(ctx, admin, targetUserUID, 0, withBackup, models.AuditOutcomeFailure,
			err.Error(), now)
		metrics.ResetsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records, err := g.transactions.ListAllTransactions(ctx, targetUserUID)
	if err != nil {
		g.auditReset(ctx, admin, targetUserUID, 0, withBackup, models.AuditOutcomeFailure,
			err.Error(), now)
		metrics.ResetsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var backupUID *string
	if withBackup {
		snapshot := models.BackupSnapshot{
			UID:            uuid.New().String(),
			TargetUserUID:  targetUserUID,
			AdminEmail:     admin.Email,
			RecordCount:    len(records),
			CreatedAt:      now,
			RetentionUntil: now.AddDate(0, 0, models.BackupRetentionDays),
		}
		if err := g.backups.CreateSnapshot(ctx, snapshot, records); err != nil {
			g.log.Error("backup write failed, aborting reset before delete",
				slog.String("target_user_uid", targetUserUID), sl.Err(err))
			g.auditReset(ctx, admin, targetUserUID, 0, withBackup, models.AuditOutcomeFailure,
				fmt.Sprintf("backup failed: %v", err), now)
			metrics.ResetsTotal.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("%s: %w: %v", op, ErrBackupFailed, err)
		}
		backupUID = &snapshot.UID
		g.log.Info("backup snapshot written",
			slog.String("backup_uid", snapshot.UID),
			slog.Int("record_count", len(records)))
	} else {
		g.log.Warn("reset requested without backup",
			slog.String("target_user_uid", targetUserUID),
			slog.String("admin_email", admin.Email))
	}

	deleted, err := g.transactions.DeleteTransactionsByUser(ctx, targetUserUID)
	if err != nil {
		g.auditReset(ctx, admin, targetUserUID, deleted, withBackup, models.AuditOutcomeFailure,
			err.Error(), now)
		metrics.ResetsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := models.AuditLogEntry{
		AdminEmail:    admin.Email,
		TargetUserUID: targetUserUID,
		Operation:     models.AuditOperationReset,
		AffectedCount: deleted,
		Outcome:       models.AuditOutcomeSuccess,
		WithBackup:    withBackup,
		CreatedAt:     now,
	}
	if err := g.audit.AppendAuditEntry(ctx, entry); err != nil {
		// Удаление уже состоялось по явному запросу администратора:
		// операция отчитывается успешной, сбой аудита эскалируется оператору.
		g.escalateAuditFailure(entry, err)
	}

	metrics.ResetsTotal.WithLabelValues("success").Inc()
	g.log.Info("reset completed",
		slog.String("target_user_uid", targetUserUID),
		slog.Int("deleted_count", deleted))
	return &ResetResult{BackupUID: backupUID, DeletedCount: deleted}, nil
}

// Restore добавляет записи из резервной копии как новые транзакции
// целевого пользователя. Существующие записи не затрагиваются.
func (g *Service) Restore(ctx context.Context, caller *models.Caller, backupUID string) (*RestoreResult, error) {
	const op = "guardian.Restore"
	now := g.now().UTC()

	admin, err := g.authz.RequireAdmin(caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	snapshot, err := g.backups.GetSnapshot(ctx, backupUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrBackupNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if now.After(snapshot.RetentionUntil) {
		g.auditRestore(ctx, admin, snapshot.TargetUserUID, 0, models.AuditOutcomeFailure,
			"backup past retention deadline", now)
		metrics.RestoresTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrBackupExpired)
	}

	records, err := g.backups.ListSnapshotRecords(ctx, backupUID, snapshot.TargetUserUID)
	if err != nil {
		g.auditRestore(ctx, admin, snapshot.TargetUserUID, 0, models.AuditOutcomeFailure,
			err.Error(), now)
		metrics.RestoresTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	restored, err := g.transactions.InsertTransactions(ctx, records)
	if err != nil {
		g.auditRestore(ctx, admin, snapshot.TargetUserUID, 0, models.AuditOutcomeFailure,
			err.Error(), now)
		metrics.RestoresTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := models.AuditLogEntry{
		AdminEmail:    admin.Email,
		TargetUserUID: snapshot.TargetUserUID,
		Operation:     models.AuditOperationRestore,
		AffectedCount: restored,
		Outcome:       models.AuditOutcomeSuccess,
		WithBackup:    true,
		CreatedAt:     now,
	}
	if err := g.audit.AppendAuditEntry(ctx, entry); err != nil {
		g.escalateAuditFailure(entry, err)
	}

	metrics.RestoresTotal.WithLabelValues("success").Inc()
	g.log.Info("restore completed",
		slog.String("backup_uid", backupUID),
		slog.Int("restored_count", restored))
	return &RestoreResult{RestoredCount: restored}, nil
}

// ListBackups возвращает метаданные резервных копий пользователя, новые первыми.
func (g *Service) ListBackups(ctx context.Context, caller *models.Caller, targetUserUID string) ([]*models.BackupSnapshot, error) {
	const op = "guardian.ListBackups"

	if _, err := g.authz.RequireAdmin(caller); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	snapshots, err := g.backups.ListSnapshots(ctx, targetUserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return snapshots, nil
}

// auditReset пишет запись о сбросе best effort: сбой записи логируется
// и считается метрикой, но не меняет исход основной операции.
func (g *Service) auditReset(ctx context.Context, admin *authz.AdminIdentity, targetUserUID string,
	affected int, withBackup bool, outcome models.AuditOutcome, reason string, now time.Time) {
	entry := models.AuditLogEntry{
		AdminEmail:    admin.Email,
		TargetUserUID: targetUserUID,
		Operation:     models.AuditOperationReset,
		AffectedCount: affected,
		Outcome:       outcome,
		Reason:        reason,
		WithBackup:    withBackup,
		CreatedAt:     now,
	}
	if err := g.audit.AppendAuditEntry(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		g.log.Error("failed to write audit entry",
			slog.String("target_user_uid", targetUserUID), sl.Err(err))
	}
}

// auditRestore аналогично auditReset для операции восстановления.
func (g *Service) auditRestore(ctx context.Context, admin *authz.AdminIdentity, targetUserUID string,
	affected int, outcome models.AuditOutcome, reason string, now time.Time) {
	entry := models.AuditLogEntry{
		AdminEmail:    admin.Email,
		TargetUserUID: targetUserUID,
		Operation:     models.AuditOperationRestore,
		AffectedCount: affected,
		Outcome:       outcome,
		Reason:        reason,
		WithBackup:    true,
		CreatedAt:     now,
	}
	if err := g.audit.AppendAuditEntry(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		g.log.Error("failed to write audit entry",
			slog.String("target_user_uid", targetUserUID), sl.Err(err))
	}
}

// escalateAuditFailure эскалирует сбой записи аудита после уже выполненного
// деструктивного шага: метрика, лог и операционный алерт.
func (g *Service) escalateAuditFailure(entry models.AuditLogEntry, cause error) {
	metrics.AuditWriteFailures.Inc()
	g.log.Error("audit write failed after destructive step completed",
		slog.String("operation", string(entry.Operation)),
		slog.String("target_user_uid", entry.TargetUserUID),
		slog.Int("affected_count", entry.AffectedCount),
		sl.Err(cause))

	if g.alerter == nil {
		return
	}
	alert := auditAlert{
		Kind:          "audit_write_failure",
		Operation:     string(entry.Operation),
		AdminEmail:    entry.AdminEmail,
		TargetUserUID: entry.TargetUserUID,
		AffectedCount: entry.AffectedCount,
		Reason:        cause.Error(),
	}
	if err := g.alerter.PublishAlert(alert); err != nil {
		g.log.Error("failed to publish operational alert", sl.Err(err))
	}
}
