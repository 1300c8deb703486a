// Package metrics содержит счётчики Prometheus для наблюдения
// за администраторскими операциями и деградациями резолвера доступа.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResetsTotal считает операции сброса транзакций по исходу.
	ResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financeguard_resets_total",
		Help: "Total number of transaction reset operations by outcome.",
	}, []string{"outcome"})

	// RestoresTotal считает операции восстановления из резервной копии по исходу.
	RestoresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financeguard_restores_total",
		Help: "Total number of restore-from-backup operations by outcome.",
	}, []string{"outcome"})

	// AuditWriteFailures считает неудачные записи в журнал аудита.
	// Рост счётчика после успешного удаления — повод для операционного алерта.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "financeguard_audit_write_failures_total",
		Help: "Total number of failed audit log writes.",
	})

	// EntitlementFallbacks считает случаи, когда резолвер доступа не смог
	// прочитать профиль и вернул консервативный trial-статус.
	EntitlementFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "financeguard_entitlement_fallbacks_total",
		Help: "Total number of entitlement resolutions degraded to the fresh-trial fallback.",
	})
)
