// Package entitlement содержит бизнес-логику вычисления уровня доступа пользователя.
//
// Статус не хранится: он пересчитывается на каждый запрос из даты создания
// учётной записи, флага премиум-доступа и его срока. Ошибка чтения профиля
// никогда не доходит до вызывающего — резолвер деградирует до консервативного
// статуса свежего пробного периода, чтобы временный сбой хранилища не запер
// легитимного пользователя.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/levkinivan/finance-guard/internal/lib/sl"
	"github.com/levkinivan/finance-guard/internal/metrics"
	"github.com/levkinivan/finance-guard/internal/models"
)

// ProfileRepository определяет чтение профиля пользователя из хранилища.
type ProfileRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает методы для кэширования профилей.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// profileCacheTTL — краткое время жизни профиля в кеше. Статус всё равно
// пересчитывается на каждый запрос, кешируется только само чтение профиля.
const profileCacheTTL = time.Minute

// Service реализует вычисление статуса доступа и проверку действий.
type Service struct {
	repo  ProfileRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый экземпляр Service.
func New(repo ProfileRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Resolve вычисляет текущий статус доступа пользователя.
//
// Часы читаются один раз на вызов, все сравнения внутри операции используют
// одно и то же значение now. Любая ошибка чтения профиля даёт статус свежего
// пробного периода (trial, 30 дней), никогда не expired и никогда не ошибку.
func (s *Service) Resolve(ctx context.Context, userUID string) models.EntitlementStatus {
	now := s.now().UTC()

	profile, err := s.loadProfile(ctx, userUID)
	if err != nil {
		metrics.EntitlementFallbacks.Inc()
		s.log.Warn("profile read failed, falling back to fresh trial",
			slog.String("user_uid", userUID), sl.Err(err))
		return freshTrialStatus(now)
	}

	daysSinceCreation := int(now.Sub(profile.CreatedAt).Hours() / 24)
	trialDaysRemaining := models.TrialPeriodDays - daysSinceCreation
	if trialDaysRemaining < 0 {
		trialDaysRemaining = 0
	}
	trialActive := trialDaysRemaining > 0
	trialEnd := profile.CreatedAt.Add(models.TrialPeriodDays * 24 * time.Hour)

	premiumValid := profile.IsPremiumGranted &&
		(profile.PremiumExpiresAt == nil || !now.After(*profile.PremiumExpiresAt))

	var tier models.Tier
	switch {
	case premiumValid:
		tier = models.TierPaid
	case trialActive:
		tier = models.TierTrial
	default:
		tier = models.TierExpired
	}

	return statusForTier(tier, trialDaysRemaining, trialEnd)
}

// CanPerform возвращает true, если действие доступно пользователю.
// Все виды действий сейчас ограничиваются одинаково: запрещено только
// на уровне expired.
func (s *Service) CanPerform(ctx context.Context, userUID string, _ models.ActionKind) bool {
	status := s.Resolve(ctx, userUID)
	return status.Tier != models.TierExpired
}

// loadProfile читает профиль через кеш, при промахе — из хранилища.
// Ошибки кеша не фатальны: выполняется чтение из репозитория.
func (s *Service) loadProfile(ctx context.Context, userUID string) (*models.User, error) {
	cacheKey := fmt.Sprintf("profile:%s", userUID)

	if s.cache != nil {
		var cached models.User
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read profile from cache", slog.String("key", cacheKey), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	profile, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, profile, profileCacheTTL); err != nil {
			s.log.Warn("failed to cache profile", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return profile, nil
}

// freshTrialStatus — консервативный статус при недоступном профиле:
// полный пробный период, отсчитанный от текущего момента.
func freshTrialStatus(now time.Time) models.EntitlementStatus {
	return statusForTier(models.TierTrial, models.TrialPeriodDays,
		now.Add(models.TrialPeriodDays*24*time.Hour))
}

func statusForTier(tier models.Tier, trialDaysRemaining int, trialEnd time.Time) models.EntitlementStatus {
	limit := models.LimitUnlimited
	if tier == models.TierExpired {
		limit = 0
	}
	return models.EntitlementStatus{
		Tier:               tier,
		TrialDaysRemaining: trialDaysRemaining,
		TrialEnd:           trialEnd,
		TransactionLimit:   limit,
		CategoryLimit:      limit,
		CardLimit:          limit,
	}
}
